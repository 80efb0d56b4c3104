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

// boardSelect joins the live administrator; callers append their WHERE clause with "AND".
var boardSelect = `SELECT ` + userColumns + `, b.board_uuid, b.board_id, b.board_name, b.created_at, b.updated_at
	FROM boards b
	JOIN users u ON u.user_uuid = b.administrator_uuid AND NOT u.deleted
	` + lineJoin("u", "lu") + `
	WHERE NOT b.deleted`

// =========================================================================
// Public Methods
// =========================================================================

func (s *Storage) CreateBoard(ctx context.Context, data domain.BoardCreationData) (domain.Board, error) {
	var board domain.Board
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		id := uuid.New()
		_, err := tx.ExecContext(ctx, `INSERT INTO boards(board_uuid, board_id, board_name, administrator_uuid, created_at)
			VALUES($1, $2, $3, $4, $5)`, id, data.BoardID, data.BoardName, data.Administrator, now())
		if err != nil {
			if sharedpg.IsUniqueViolation(err) {
				return internal_errors.BadRequest("Board ID already exists")
			}
			return fmt.Errorf("failed to insert board: %w", err)
		}
		board, err = s.getBoard(ctx, tx, "b.board_uuid = $1", id)
		return err
	})
	return board, err
}

// GetBoard loads a live board with its members and subboards (with their members).
func (s *Storage) GetBoard(ctx context.Context, id uuid.UUID) (domain.Board, error) {
	return s.getBoard(ctx, s.db, "b.board_uuid = $1", id)
}

func (s *Storage) GetBoardByBoardID(ctx context.Context, boardID domain.BoardID) (domain.Board, error) {
	return s.getBoard(ctx, s.db, "b.board_id = $1", boardID)
}

// GetAdministeredBoards returns the boards administered by user, fully loaded.
func (s *Storage) GetAdministeredBoards(ctx context.Context, user uuid.UUID) ([]domain.Board, error) {
	return s.boards(ctx, s.db, true, "b.administrator_uuid = $1", user)
}

// GetMyBoards returns the boards user is a member of. Member lists are not loaded.
func (s *Storage) GetMyBoards(ctx context.Context, user uuid.UUID) ([]domain.Board, error) {
	return s.boards(ctx, s.db, false,
		"EXISTS (SELECT 1 FROM board_members bm WHERE bm.board_uuid = b.board_uuid AND bm.user_uuid = $1)", user)
}

// DeleteBoard soft deletes the board and all of its subboards.
func (s *Storage) DeleteBoard(ctx context.Context, id uuid.UUID) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		ts := now()
		res, err := tx.ExecContext(ctx, `UPDATE boards SET deleted = TRUE, updated_at = $1 WHERE board_uuid = $2 AND NOT deleted`, ts, id)
		if err != nil {
			return fmt.Errorf("failed to delete board: %w", err)
		}
		if err := expectAffected(res, "board"); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `UPDATE subboards SET deleted = TRUE, updated_at = $1 WHERE board_uuid = $2 AND NOT deleted`, ts, id); err != nil {
			return fmt.Errorf("failed to delete subboards: %w", err)
		}
		return nil
	})
}

// ReplaceBoardMemberships makes user a member of exactly the live boards among ids.
func (s *Storage) ReplaceBoardMemberships(ctx context.Context, user uuid.UUID, ids []uuid.UUID) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM board_members WHERE user_uuid = $1`, user); err != nil {
			return fmt.Errorf("failed to clear board memberships: %w", err)
		}
		_, err := tx.ExecContext(ctx, `INSERT INTO board_members(board_uuid, user_uuid)
			SELECT board_uuid, $1 FROM boards WHERE board_uuid = ANY($2::uuid[]) AND NOT deleted`, user, uuidArray(ids))
		if err != nil {
			return fmt.Errorf("failed to insert board memberships: %w", err)
		}
		return nil
	})
}

// =========================================================================
// Internal Methods
// =========================================================================

func (s *Storage) getBoard(ctx context.Context, q Querier, where string, arg any) (domain.Board, error) {
	boards, err := s.boards(ctx, q, true, where, arg)
	if err != nil {
		return domain.Board{}, err
	}
	if len(boards) == 0 {
		return domain.Board{}, internal_errors.NotFound("board not found")
	}
	return boards[0], nil
}

// boards runs boardSelect filtered by where and attaches subboards, plus member
// lists when withMembers is set.
func (s *Storage) boards(ctx context.Context, q Querier, withMembers bool, where string, args ...any) ([]domain.Board, error) {
	rows, err := q.QueryContext(ctx, boardSelect+` AND `+where+` ORDER BY b.created_at, b.board_id`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query boards: %w", err)
	}
	defer rows.Close()

	var boards []domain.Board
	for rows.Next() {
		var (
			b         domain.Board
			updatedAt sql.NullTime
		)
		admin, err := scanUser(rows, &b.BoardUUID, &b.BoardID, &b.BoardName, &b.CreatedAt, &updatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan board: %w", err)
		}
		b.Administrator = admin
		b.UpdatedAt = timePtr(updatedAt)
		boards = append(boards, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate boards: %w", err)
	}
	if len(boards) == 0 {
		return boards, nil
	}

	ids := make([]uuid.UUID, len(boards))
	for i := range boards {
		ids[i] = boards[i].BoardUUID
	}
	subboards, err := s.subboardsOfBoards(ctx, q, ids, withMembers)
	if err != nil {
		return nil, err
	}
	var members map[uuid.UUID][]domain.User
	if withMembers {
		members, err = s.members(ctx, q, "board_members", "board_uuid", ids)
		if err != nil {
			return nil, err
		}
	}
	for i := range boards {
		boards[i].Subboards = subboards[boards[i].BoardUUID]
		boards[i].Members = members[boards[i].BoardUUID]
	}
	return boards, nil
}

// members loads the live users of a join table keyed by keyCol.
// table and keyCol are compile-time constants, never user input.
func (s *Storage) members(ctx context.Context, q Querier, table, keyCol string, ids []uuid.UUID) (map[uuid.UUID][]domain.User, error) {
	query := fmt.Sprintf(`SELECT %s, m.%s FROM %s m
		JOIN users u ON u.user_uuid = m.user_uuid AND NOT u.deleted
		%s
		WHERE m.%s = ANY($1::uuid[])
		ORDER BY u.username`, userColumns, keyCol, table, lineJoin("u", "lu"), keyCol)
	rows, err := q.QueryContext(ctx, query, uuidArray(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]domain.User)
	for rows.Next() {
		var key uuid.UUID
		user, err := scanUser(rows, &key)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", table, err)
		}
		out[key] = append(out[key], user)
	}
	return out, rows.Err()
}
