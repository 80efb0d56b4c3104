package pg

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/mosacup/webboard/shared/domain"
	internal_errors "github.com/mosacup/webboard/shared/errors"
	sharedpg "github.com/mosacup/webboard/shared/storage/pg"
)

// userCols selects a user and its linked line user from the aliases u and lu.
func userCols(u, lu string) string {
	return fmt.Sprintf(`%[1]s.user_uuid, %[1]s.username, %[1]s.hashed_password, %[1]s.display_name, %[1]s.created_at, %[1]s.updated_at,
	%[2]s.line_user_uuid, %[2]s.user_id, %[2]s.conversation_state, %[2]s.created_at`, u, lu)
}

func lineJoin(u, lu string) string {
	return fmt.Sprintf(`LEFT JOIN line_users %[2]s ON %[2]s.line_user_uuid = %[1]s.line_user_uuid AND NOT %[2]s.deleted`, u, lu)
}

var (
	userColumns = userCols("u", "lu")
	userFrom    = "users u " + lineJoin("u", "lu")
)

// userRow holds the nullable scan targets of one userCols projection.
type userRow struct {
	user          domain.User
	displayName   sql.NullString
	updatedAt     sql.NullTime
	lineUserUUID  uuid.NullUUID
	lineID        sql.NullString
	state         sql.NullString
	lineCreatedAt sql.NullTime
}

func (r *userRow) dest() []any {
	return []any{&r.user.UserUUID, &r.user.Username, &r.user.HashedPassword, &r.displayName, &r.user.CreatedAt, &r.updatedAt,
		&r.lineUserUUID, &r.lineID, &r.state, &r.lineCreatedAt}
}

func (r *userRow) value() domain.User {
	user := r.user
	user.DisplayName = stringPtr(r.displayName)
	user.UpdatedAt = timePtr(r.updatedAt)
	if r.lineUserUUID.Valid {
		user.LineUser = &domain.LineUser{
			LineUserUUID:      r.lineUserUUID.UUID,
			UserID:            r.lineID.String,
			ConversationState: domain.ConversationState(r.state.String),
			CreatedAt:         r.lineCreatedAt.Time,
		}
	}
	return user
}

// scanUser scans userColumns followed by any extra columns.
func scanUser(row rowScanner, extra ...any) (domain.User, error) {
	var r userRow
	if err := row.Scan(append(r.dest(), extra...)...); err != nil {
		return domain.User{}, err
	}
	return r.value(), nil
}

// =========================================================================
// Public Methods
// =========================================================================

func (s *Storage) CreateUser(ctx context.Context, username, hashedPassword string, lineUserUUID *uuid.UUID) (domain.User, error) {
	var user domain.User
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		id, err := s.createUser(ctx, tx, username, hashedPassword, lineUserUUID)
		if err != nil {
			return err
		}
		user, err = s.getUser(ctx, tx, id)
		return err
	})
	return user, err
}

func (s *Storage) GetUser(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return s.getUser(ctx, s.db, id)
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM `+userFrom+` WHERE u.username = $1 AND NOT u.deleted`, username)
	user, err := scanUser(row)
	if err != nil {
		return domain.User{}, notFoundOr(err, "user")
	}
	return user, nil
}

// GetUserByLineID finds the live account linked to a platform user id.
func (s *Storage) GetUserByLineID(ctx context.Context, lineID domain.LineID) (domain.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM `+userFrom+` WHERE lu.user_id = $1 AND NOT u.deleted`, lineID)
	user, err := scanUser(row)
	if err != nil {
		return domain.User{}, notFoundOr(err, "user")
	}
	return user, nil
}

func (s *Storage) UpdatePassword(ctx context.Context, id uuid.UUID, hashedPassword string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE users SET hashed_password = $1, updated_at = $2 WHERE user_uuid = $3 AND NOT deleted`,
			hashedPassword, now(), id)
		if err != nil {
			return fmt.Errorf("failed to update password: %w", err)
		}
		return expectAffected(res, "user")
	})
}

func (s *Storage) UpdateDisplayName(ctx context.Context, id uuid.UUID, displayName string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE users SET display_name = $1, updated_at = $2 WHERE user_uuid = $3 AND NOT deleted`,
			displayName, now(), id)
		if err != nil {
			return fmt.Errorf("failed to update display name: %w", err)
		}
		return expectAffected(res, "user")
	})
}

// DeleteUser soft deletes the account. Its boards and messages stay as they are.
func (s *Storage) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE users SET deleted = TRUE, updated_at = $1 WHERE user_uuid = $2 AND NOT deleted`, now(), id)
		if err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		return expectAffected(res, "user")
	})
}

// =========================================================================
// Internal Methods
// =========================================================================

func (s *Storage) createUser(ctx context.Context, q Querier, username, hashedPassword string, lineUserUUID *uuid.UUID) (uuid.UUID, error) {
	id := uuid.New()
	var lineUser uuid.NullUUID
	if lineUserUUID != nil {
		lineUser = uuid.NullUUID{UUID: *lineUserUUID, Valid: true}
	}
	_, err := q.ExecContext(ctx, `INSERT INTO users(user_uuid, username, hashed_password, line_user_uuid, created_at)
		VALUES($1, $2, $3, $4, $5)`, id, username, hashedPassword, lineUser, now())
	if err != nil {
		switch {
		case sharedpg.IsUniqueViolation(err):
			return uuid.Nil, internal_errors.BadRequest("User already exists")
		case sharedpg.IsForeignKeyViolation(err):
			return uuid.Nil, internal_errors.BadRequest("Unknown line user")
		}
		return uuid.Nil, fmt.Errorf("failed to insert user: %w", err)
	}
	return id, nil
}

func (s *Storage) getUser(ctx context.Context, q Querier, id uuid.UUID) (domain.User, error) {
	row := q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM `+userFrom+` WHERE u.user_uuid = $1 AND NOT u.deleted`, id)
	user, err := scanUser(row)
	if err != nil {
		return domain.User{}, notFoundOr(err, "user")
	}
	return user, nil
}
