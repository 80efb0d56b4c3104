package pg

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mosacup/webboard/shared/domain"
	internal_errors "github.com/mosacup/webboard/shared/errors"
)

const messageSelect = `SELECT m.message_uuid, m.body, m.send_time, m.scheduled_send_time, m.created_at, m.updated_at,
	b.board_uuid, b.board_id, b.board_name
	FROM messages m
	JOIN boards b ON b.board_uuid = m.board_uuid AND NOT b.deleted
	WHERE NOT m.deleted`

// mySubboardFilter keeps rows addressed to a live subboard that $2 belongs to.
const mySubboardFilter = `EXISTS (
	SELECT 1 FROM %[1]s l
	JOIN subboards s ON s.subboard_uuid = l.subboard_uuid AND NOT s.deleted
	JOIN subboard_members mem ON mem.subboard_uuid = s.subboard_uuid
	WHERE l.%[2]s = %[3]s AND mem.user_uuid = $2)`

// =========================================================================
// Public Methods
// =========================================================================

// CreateMessage stores the message and its subboard links. The subboards must
// already be validated against the board.
func (s *Storage) CreateMessage(ctx context.Context, data domain.MessageCreationData) (domain.Message, error) {
	var msg domain.Message
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		id := uuid.New()
		_, err := tx.ExecContext(ctx, `INSERT INTO messages(message_uuid, board_uuid, body, scheduled_send_time, created_at)
			VALUES($1, $2, $3, $4, $5)`, id, data.BoardUUID, data.Body, data.ScheduledSendTime, now())
		if err != nil {
			return fmt.Errorf("failed to insert message: %w", err)
		}
		if err := linkSubboards(ctx, tx, "subboard_messages", "message_uuid", id, data.SubboardUUIDs); err != nil {
			return err
		}
		msg, err = s.getMessage(ctx, tx, data.BoardUUID, id)
		return err
	})
	return msg, err
}

func (s *Storage) GetMessages(ctx context.Context, board uuid.UUID) ([]domain.Message, error) {
	return s.messages(ctx, s.db, `m.board_uuid = $1`, board)
}

func (s *Storage) GetMessage(ctx context.Context, board, message uuid.UUID) (domain.Message, error) {
	return s.getMessage(ctx, s.db, board, message)
}

// GetMyMessages returns the messages of board addressed to a subboard user belongs to.
func (s *Storage) GetMyMessages(ctx context.Context, user, board uuid.UUID) ([]domain.Message, error) {
	return s.messages(ctx, s.db, `m.board_uuid = $1 AND `+fmt.Sprintf(mySubboardFilter, "subboard_messages", "message_uuid", "m.message_uuid"), board, user)
}

func (s *Storage) DeleteMessage(ctx context.Context, board, message uuid.UUID) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE messages SET deleted = TRUE, updated_at = $1
			WHERE message_uuid = $2 AND board_uuid = $3 AND NOT deleted`, now(), message, board)
		if err != nil {
			return fmt.Errorf("failed to delete message: %w", err)
		}
		return expectAffected(res, "message")
	})
}

func (s *Storage) MarkMessageSent(ctx context.Context, message uuid.UUID, at time.Time) error {
	return s.markSent(ctx, "messages", "message_uuid", message, at)
}

// =========================================================================
// Internal Methods
// =========================================================================

func (s *Storage) getMessage(ctx context.Context, q Querier, board, message uuid.UUID) (domain.Message, error) {
	msgs, err := s.messages(ctx, q, `m.board_uuid = $1 AND m.message_uuid = $2`, board, message)
	if err != nil {
		return domain.Message{}, err
	}
	if len(msgs) == 0 {
		return domain.Message{}, internal_errors.NotFound("message not found")
	}
	return msgs[0], nil
}

func (s *Storage) messages(ctx context.Context, q Querier, where string, args ...any) ([]domain.Message, error) {
	rows, err := q.QueryContext(ctx, messageSelect+` AND `+where+` ORDER BY m.created_at, m.message_uuid`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var msgs []domain.Message
	for rows.Next() {
		var (
			m                                       domain.Message
			sendTime, scheduledSendTime, updatedAt sql.NullTime
		)
		if err := rows.Scan(&m.MessageUUID, &m.Body, &sendTime, &scheduledSendTime, &m.CreatedAt, &updatedAt,
			&m.Board.BoardUUID, &m.Board.BoardID, &m.Board.BoardName); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		m.SendTime = timePtr(sendTime)
		m.ScheduledSendTime = timePtr(scheduledSendTime)
		m.UpdatedAt = timePtr(updatedAt)
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}
	if len(msgs) == 0 {
		return msgs, nil
	}

	ids := make([]uuid.UUID, len(msgs))
	for i := range msgs {
		ids[i] = msgs[i].MessageUUID
	}
	subboards, err := s.linkedSubboards(ctx, q, "subboard_messages", "message_uuid", ids)
	if err != nil {
		return nil, err
	}
	for i := range msgs {
		msgs[i].Subboards = subboards[msgs[i].MessageUUID]
	}
	return msgs, nil
}

// linkSubboards inserts one join row per distinct subboard. table and keyCol are constants.
func linkSubboards(ctx context.Context, q Querier, table, keyCol string, id uuid.UUID, subboards []uuid.UUID) error {
	if len(subboards) == 0 {
		return nil
	}
	query := fmt.Sprintf(`INSERT INTO %s(subboard_uuid, %s)
		SELECT DISTINCT unnest($1::uuid[]), $2::uuid`, table, keyCol)
	if _, err := q.ExecContext(ctx, query, uuidArray(subboards), id); err != nil {
		return fmt.Errorf("failed to link subboards in %s: %w", table, err)
	}
	return nil
}

// markSent stamps send_time once. table and keyCol are constants.
func (s *Storage) markSent(ctx context.Context, table, keyCol string, id uuid.UUID, at time.Time) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		query := fmt.Sprintf(`UPDATE %s SET send_time = $1, updated_at = $2 WHERE %s = $3 AND NOT deleted`, table, keyCol)
		res, err := tx.ExecContext(ctx, query, at.UTC(), now(), id)
		if err != nil {
			return fmt.Errorf("failed to stamp send time in %s: %w", table, err)
		}
		return expectAffected(res, table)
	})
}
