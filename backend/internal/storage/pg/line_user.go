package pg

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/mosacup/webboard/shared/domain"
)

const lineUserColumns = `line_user_uuid, user_id, conversation_state, created_at, updated_at`

func scanLineUser(row rowScanner) (domain.LineUser, error) {
	var (
		lu        domain.LineUser
		state     string
		updatedAt sql.NullTime
	)
	if err := row.Scan(&lu.LineUserUUID, &lu.UserID, &state, &lu.CreatedAt, &updatedAt); err != nil {
		return domain.LineUser{}, err
	}
	lu.ConversationState = domain.ConversationState(state)
	lu.UpdatedAt = timePtr(updatedAt)
	return lu, nil
}

// EnsureLineUser returns the row for a platform user id, creating it on first contact.
func (s *Storage) EnsureLineUser(ctx context.Context, lineID domain.LineID) (domain.LineUser, error) {
	var lu domain.LineUser
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO line_users(line_user_uuid, user_id, conversation_state, created_at)
			VALUES($1, $2, $3, $4) ON CONFLICT (user_id) DO NOTHING`,
			uuid.New(), lineID, string(domain.StateIdle), now())
		if err != nil {
			return fmt.Errorf("failed to insert line user: %w", err)
		}
		lu, err = s.getLineUser(ctx, tx, lineID)
		return err
	})
	return lu, err
}

func (s *Storage) SetConversationState(ctx context.Context, lineUserUUID uuid.UUID, state domain.ConversationState) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE line_users SET conversation_state = $1, updated_at = $2
			WHERE line_user_uuid = $3 AND NOT deleted`, string(state), now(), lineUserUUID)
		if err != nil {
			return fmt.Errorf("failed to update conversation state: %w", err)
		}
		return expectAffected(res, "line user")
	})
}

func (s *Storage) getLineUser(ctx context.Context, q Querier, lineID domain.LineID) (domain.LineUser, error) {
	row := q.QueryRowContext(ctx, `SELECT `+lineUserColumns+` FROM line_users WHERE user_id = $1 AND NOT deleted`, lineID)
	lu, err := scanLineUser(row)
	if err != nil {
		return domain.LineUser{}, notFoundOr(err, "line user")
	}
	return lu, nil
}
