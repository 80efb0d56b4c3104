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

var directMessageSelect = `SELECT dm.direct_message_uuid, dm.body, dm.send_time, dm.scheduled_send_time, dm.created_at, dm.updated_at,
	` + userCols("f", "flu") + `,
	` + userCols("t", "tlu") + `
	FROM direct_messages dm
	JOIN users f ON f.user_uuid = dm.send_from_uuid AND NOT f.deleted
	` + lineJoin("f", "flu") + `
	JOIN users t ON t.user_uuid = dm.send_to_uuid AND NOT t.deleted
	` + lineJoin("t", "tlu") + `
	WHERE NOT dm.deleted`

// =========================================================================
// Public Methods
// =========================================================================

// CreateDirectMessages stores one row per distinct recipient. Every recipient
// must be a live user.
func (s *Storage) CreateDirectMessages(ctx context.Context, data domain.DirectMessageCreationData) ([]domain.DirectMessage, error) {
	recipients := domain.UniqueUUIDs(data.SendTo)
	var dms []domain.DirectMessage
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var live int
		err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE user_uuid = ANY($1::uuid[]) AND NOT deleted`,
			uuidArray(recipients)).Scan(&live)
		if err != nil {
			return fmt.Errorf("failed to check recipients: %w", err)
		}
		if live != len(recipients) {
			return internal_errors.BadRequest("Unknown recipient")
		}

		ids := make([]uuid.UUID, 0, len(recipients))
		ts := now()
		for _, to := range recipients {
			id := uuid.New()
			_, err := tx.ExecContext(ctx, `INSERT INTO direct_messages(direct_message_uuid, send_from_uuid, send_to_uuid, body, scheduled_send_time, created_at)
				VALUES($1, $2, $3, $4, $5, $6)`, id, data.SendFrom, to, data.Body, data.ScheduledSendTime, ts)
			if err != nil {
				return fmt.Errorf("failed to insert direct message: %w", err)
			}
			ids = append(ids, id)
		}
		dms, err = s.directMessages(ctx, tx, `dm.direct_message_uuid = ANY($1::uuid[])`, uuidArray(ids))
		return err
	})
	return dms, err
}

// GetSentDirectMessages returns what user sent, oldest first.
func (s *Storage) GetSentDirectMessages(ctx context.Context, user uuid.UUID) ([]domain.DirectMessage, error) {
	return s.directMessages(ctx, s.db, `dm.send_from_uuid = $1`, user)
}

// GetReceivedDirectMessages returns what user received, oldest first.
func (s *Storage) GetReceivedDirectMessages(ctx context.Context, user uuid.UUID) ([]domain.DirectMessage, error) {
	return s.directMessages(ctx, s.db, `dm.send_to_uuid = $1`, user)
}

func (s *Storage) GetDirectMessage(ctx context.Context, id uuid.UUID) (domain.DirectMessage, error) {
	dms, err := s.directMessages(ctx, s.db, `dm.direct_message_uuid = $1`, id)
	if err != nil {
		return domain.DirectMessage{}, err
	}
	if len(dms) == 0 {
		return domain.DirectMessage{}, internal_errors.NotFound("direct message not found")
	}
	return dms[0], nil
}

func (s *Storage) DeleteDirectMessage(ctx context.Context, id uuid.UUID) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE direct_messages SET deleted = TRUE, updated_at = $1
			WHERE direct_message_uuid = $2 AND NOT deleted`, now(), id)
		if err != nil {
			return fmt.Errorf("failed to delete direct message: %w", err)
		}
		return expectAffected(res, "direct message")
	})
}

func (s *Storage) MarkDirectMessageSent(ctx context.Context, id uuid.UUID, at time.Time) error {
	return s.markSent(ctx, "direct_messages", "direct_message_uuid", id, at)
}

// =========================================================================
// Internal Methods
// =========================================================================

func (s *Storage) directMessages(ctx context.Context, q Querier, where string, args ...any) ([]domain.DirectMessage, error) {
	rows, err := q.QueryContext(ctx, directMessageSelect+` AND `+where+` ORDER BY dm.created_at, dm.direct_message_uuid`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query direct messages: %w", err)
	}
	defer rows.Close()

	var dms []domain.DirectMessage
	for rows.Next() {
		var (
			dm                                     domain.DirectMessage
			sendTime, scheduledSendTime, updatedAt sql.NullTime
			from, to                               userRow
		)
		dest := []any{&dm.DirectMessageUUID, &dm.Body, &sendTime, &scheduledSendTime, &dm.CreatedAt, &updatedAt}
		dest = append(dest, from.dest()...)
		dest = append(dest, to.dest()...)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan direct message: %w", err)
		}
		dm.SendTime = timePtr(sendTime)
		dm.ScheduledSendTime = timePtr(scheduledSendTime)
		dm.UpdatedAt = timePtr(updatedAt)
		dm.SendFrom = from.value()
		dm.SendTo = to.value()
		dms = append(dms, dm)
	}
	return dms, rows.Err()
}
