package domain

// ConversationState is the chat-bot dialog position of one platform user.
type ConversationState string

const (
	StateIdle             ConversationState = "idle"
	StateBoardSettings    ConversationState = "board_settings"
	StateJoinLeave        ConversationState = "join_leave"
	StateSubboardSettings ConversationState = "subboard_settings"
)

// Rich menu labels, matched by exact string equality.
const (
	CommandSignup           = "Sign up"
	CommandBoardSettings    = "Board settings"
	CommandSubboardSettings = "Subboard settings"
	CommandDirectMessages   = "DM"

	CommandListBoards = "1"
	CommandJoinLeave  = "2"
)

type ChatEventKind int

const (
	ChatEventUnknown ChatEventKind = iota
	ChatEventFollow
	ChatEventText
)

// ChatEvent is a platform-neutral view of one incoming webhook event.
type ChatEvent struct {
	Kind       ChatEventKind
	EventID    string
	ReplyToken string
	LineID     LineID
	Text       string
	Redelivery bool
}
