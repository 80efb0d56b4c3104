package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/mosacup/webboard/shared/domain"
	"github.com/mosacup/webboard/shared/errors"
	"github.com/mosacup/webboard/shared/logger"
)

const (
	chatHelp         = "Choose an item from the menu."
	chatBoardPrompt  = "Board ID:"
	chatBoardOptions = "1: Show my boards\n2: Join or leave a board"
	chatRecentDMs    = 10
)

type ChatService interface {
	HandleEvent(ctx context.Context, ev domain.ChatEvent) error
}

// ChatResponder answers one chat event.
type ChatResponder interface {
	ReplyText(ctx context.Context, replyToken string, to domain.LineID, text string) error
	ReplyBoards(ctx context.Context, replyToken string, to domain.LineID, boards []domain.Board) error
	ReplyDirectMessages(ctx context.Context, replyToken string, to domain.LineID, dms []domain.DirectMessage) error
}

// EventDeduper claims webhook event ids so each event is handled once.
// Forget releases a claim whose event could not be handled.
type EventDeduper interface {
	FirstSeen(ctx context.Context, eventID string) (bool, error)
	Forget(ctx context.Context, eventID string) error
}

type ChatStorage interface {
	EnsureLineUser(ctx context.Context, lineID domain.LineID) (domain.LineUser, error)
	SetConversationState(ctx context.Context, lineUserUUID uuid.UUID, state domain.ConversationState) error
	GetUserByLineID(ctx context.Context, lineID domain.LineID) (domain.User, error)
	GetBoardByBoardID(ctx context.Context, boardID domain.BoardID) (domain.Board, error)
	GetMyBoards(ctx context.Context, user uuid.UUID) ([]domain.Board, error)
	ReplaceBoardMemberships(ctx context.Context, user uuid.UUID, ids []uuid.UUID) error
	GetReceivedDirectMessages(ctx context.Context, user uuid.UUID) ([]domain.DirectMessage, error)
}

// ChatURLs are printf patterns taking the line user uuid and the board uuid.
type ChatURLs struct {
	Signup               string
	SubboardRegistration string
}

// Chat runs the per-user conversation state machine behind the chat bot.
type Chat struct {
	storage ChatStorage
	reply   ChatResponder
	dedup   EventDeduper
	urls    ChatURLs
}

func NewChat(storage ChatStorage, reply ChatResponder, dedup EventDeduper, urls ChatURLs) *Chat {
	return &Chat{storage: storage, reply: reply, dedup: dedup, urls: urls}
}

// chatTurn is one incoming event of a known platform user.
type chatTurn struct {
	ev       domain.ChatEvent
	lineUser domain.LineUser
}

// HandleEvent answers one webhook event. A redelivered event already handled is
// skipped; if handling fails, the event id is released so a redelivery retries it.
func (c *Chat) HandleEvent(ctx context.Context, ev domain.ChatEvent) error {
	if ev.Kind == domain.ChatEventUnknown || ev.LineID == "" {
		return nil
	}
	first, err := c.dedup.FirstSeen(ctx, ev.EventID)
	if err != nil {
		logger.Log.Warn("webhook dedup unavailable", "event_id", ev.EventID, "redelivery", ev.Redelivery, "error", err)
	} else if !first {
		logger.Log.Info("skipping redelivered webhook event", "event_id", ev.EventID, "redelivery", ev.Redelivery)
		return nil
	}
	claimed := err == nil

	if err := c.handle(ctx, ev); err != nil {
		if claimed {
			if ferr := c.dedup.Forget(ctx, ev.EventID); ferr != nil {
				logger.Log.Warn("failed to release webhook event", "event_id", ev.EventID, "error", ferr)
			}
		}
		return err
	}
	return nil
}

func (c *Chat) handle(ctx context.Context, ev domain.ChatEvent) error {
	lineUser, err := c.storage.EnsureLineUser(ctx, ev.LineID)
	if err != nil {
		return err
	}
	turn := chatTurn{ev: ev, lineUser: lineUser}

	user, err := c.storage.GetUserByLineID(ctx, ev.LineID)
	if err != nil {
		if errors.IsNotFound(err) {
			return c.text(ctx, turn, c.signupText(lineUser))
		}
		return err
	}

	if ev.Kind == domain.ChatEventFollow {
		return c.signedIn(ctx, turn, user)
	}
	return c.handleText(ctx, turn, user)
}

func (c *Chat) handleText(ctx context.Context, turn chatTurn, user domain.User) error {
	switch turn.ev.Text {
	case domain.CommandSignup:
		return c.signedIn(ctx, turn, user)
	case domain.CommandDirectMessages:
		return c.directMessages(ctx, turn, user)
	case domain.CommandBoardSettings:
		if err := c.setState(ctx, turn, domain.StateBoardSettings); err != nil {
			return err
		}
		return c.text(ctx, turn, chatBoardOptions)
	case domain.CommandSubboardSettings:
		if err := c.setState(ctx, turn, domain.StateSubboardSettings); err != nil {
			return err
		}
		return c.text(ctx, turn, chatBoardPrompt)
	}

	switch turn.lineUser.ConversationState {
	case domain.StateBoardSettings:
		return c.boardSettings(ctx, turn, user)
	case domain.StateJoinLeave:
		return c.joinLeave(ctx, turn, user)
	case domain.StateSubboardSettings:
		return c.subboardSettings(ctx, turn, user)
	}
	return c.idle(ctx, turn)
}

func (c *Chat) signedIn(ctx context.Context, turn chatTurn, user domain.User) error {
	if err := c.setState(ctx, turn, domain.StateIdle); err != nil {
		return err
	}
	return c.text(ctx, turn, fmt.Sprintf("Signed in as %s.", user.Name()))
}

func (c *Chat) directMessages(ctx context.Context, turn chatTurn, user domain.User) error {
	if err := c.setState(ctx, turn, domain.StateIdle); err != nil {
		return err
	}
	dms, err := c.storage.GetReceivedDirectMessages(ctx, user.UserUUID)
	if err != nil {
		return err
	}
	if len(dms) > chatRecentDMs {
		dms = dms[len(dms)-chatRecentDMs:]
	}
	recent := slices.Clone(dms)
	slices.Reverse(recent)
	return c.reply.ReplyDirectMessages(ctx, turn.ev.ReplyToken, turn.ev.LineID, recent)
}

func (c *Chat) boardSettings(ctx context.Context, turn chatTurn, user domain.User) error {
	switch turn.ev.Text {
	case domain.CommandListBoards:
		if err := c.setState(ctx, turn, domain.StateIdle); err != nil {
			return err
		}
		boards, err := c.storage.GetMyBoards(ctx, user.UserUUID)
		if err != nil {
			return err
		}
		return c.reply.ReplyBoards(ctx, turn.ev.ReplyToken, turn.ev.LineID, boards)
	case domain.CommandJoinLeave:
		if err := c.setState(ctx, turn, domain.StateJoinLeave); err != nil {
			return err
		}
		return c.text(ctx, turn, chatBoardPrompt)
	}
	return c.idle(ctx, turn)
}

// joinLeave toggles membership of the named board through the full replace.
func (c *Chat) joinLeave(ctx context.Context, turn chatTurn, user domain.User) error {
	if err := c.setState(ctx, turn, domain.StateIdle); err != nil {
		return err
	}
	board, found, err := c.findBoard(ctx, turn.ev.Text)
	if err != nil || !found {
		return c.boardNotFound(ctx, turn, err)
	}
	mine, err := c.storage.GetMyBoards(ctx, user.UserUUID)
	if err != nil {
		return err
	}
	ids := make([]uuid.UUID, 0, len(mine)+1)
	joined := true
	for _, b := range mine {
		if b.BoardUUID == board.BoardUUID {
			joined = false
			continue
		}
		ids = append(ids, b.BoardUUID)
	}
	if joined {
		ids = append(ids, board.BoardUUID)
	}
	if err := c.storage.ReplaceBoardMemberships(ctx, user.UserUUID, ids); err != nil {
		return err
	}
	if joined {
		return c.text(ctx, turn, fmt.Sprintf("Joined board %q.", board.BoardName))
	}
	return c.text(ctx, turn, fmt.Sprintf("Left board %q.", board.BoardName))
}

func (c *Chat) subboardSettings(ctx context.Context, turn chatTurn, user domain.User) error {
	if err := c.setState(ctx, turn, domain.StateIdle); err != nil {
		return err
	}
	board, found, err := c.findBoard(ctx, turn.ev.Text)
	if err != nil || !found {
		return c.boardNotFound(ctx, turn, err)
	}
	if !board.IsMember(user.UserUUID) {
		return c.text(ctx, turn, fmt.Sprintf("You are not a member of board %q.", board.BoardName))
	}
	url := fmt.Sprintf(c.urls.SubboardRegistration, board.BoardUUID)
	return c.text(ctx, turn, fmt.Sprintf("Join or leave subboards at %s", url))
}

func (c *Chat) idle(ctx context.Context, turn chatTurn) error {
	if err := c.setState(ctx, turn, domain.StateIdle); err != nil {
		return err
	}
	return c.text(ctx, turn, chatHelp)
}

func (c *Chat) findBoard(ctx context.Context, boardID string) (domain.Board, bool, error) {
	board, err := c.storage.GetBoardByBoardID(ctx, boardID)
	if err != nil {
		if errors.IsNotFound(err) {
			return domain.Board{}, false, nil
		}
		return domain.Board{}, false, err
	}
	return board, true, nil
}

func (c *Chat) boardNotFound(ctx context.Context, turn chatTurn, err error) error {
	if err != nil {
		return err
	}
	return c.text(ctx, turn, fmt.Sprintf("Board %q not found.", turn.ev.Text))
}

func (c *Chat) setState(ctx context.Context, turn chatTurn, state domain.ConversationState) error {
	if turn.lineUser.ConversationState == state {
		return nil
	}
	return c.storage.SetConversationState(ctx, turn.lineUser.LineUserUUID, state)
}

func (c *Chat) signupText(lineUser domain.LineUser) string {
	return fmt.Sprintf("Sign up at %s", fmt.Sprintf(c.urls.Signup, lineUser.LineUserUUID))
}

func (c *Chat) text(ctx context.Context, turn chatTurn, text string) error {
	return c.reply.ReplyText(ctx, turn.ev.ReplyToken, turn.ev.LineID, text)
}
