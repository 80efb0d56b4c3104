package pg

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/mosacup/webboard/shared/domain"
)

const subboardColumns = `s.subboard_uuid, s.board_uuid, s.subboard_name, s.created_at, s.updated_at`

func scanSubboard(row rowScanner, extra ...any) (domain.Subboard, error) {
	var (
		sb        domain.Subboard
		updatedAt sql.NullTime
	)
	dest := []any{&sb.SubboardUUID, &sb.BoardUUID, &sb.SubboardName, &sb.CreatedAt, &updatedAt}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return domain.Subboard{}, err
	}
	sb.UpdatedAt = timePtr(updatedAt)
	return sb, nil
}

// =========================================================================
// Public Methods
// =========================================================================

func (s *Storage) CreateSubboard(ctx context.Context, data domain.SubboardCreationData) (domain.Subboard, error) {
	var sb domain.Subboard
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		id := uuid.New()
		_, err := tx.ExecContext(ctx, `INSERT INTO subboards(subboard_uuid, board_uuid, subboard_name, created_at)
			VALUES($1, $2, $3, $4)`, id, data.BoardUUID, data.SubboardName, now())
		if err != nil {
			return fmt.Errorf("failed to insert subboard: %w", err)
		}
		sb, err = s.getSubboard(ctx, tx, data.BoardUUID, id)
		return err
	})
	return sb, err
}

// GetSubboards returns the live subboards of board with their members.
func (s *Storage) GetSubboards(ctx context.Context, board uuid.UUID) ([]domain.Subboard, error) {
	byBoard, err := s.subboardsOfBoards(ctx, s.db, []uuid.UUID{board}, true)
	if err != nil {
		return nil, err
	}
	return byBoard[board], nil
}

func (s *Storage) GetSubboard(ctx context.Context, board, subboard uuid.UUID) (domain.Subboard, error) {
	return s.getSubboard(ctx, s.db, board, subboard)
}

func (s *Storage) DeleteSubboard(ctx context.Context, board, subboard uuid.UUID) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE subboards SET deleted = TRUE, updated_at = $1
			WHERE subboard_uuid = $2 AND board_uuid = $3 AND NOT deleted`, now(), subboard, board)
		if err != nil {
			return fmt.Errorf("failed to delete subboard: %w", err)
		}
		return expectAffected(res, "subboard")
	})
}

// GetMySubboards returns the live subboards of board that user belongs to.
func (s *Storage) GetMySubboards(ctx context.Context, user, board uuid.UUID) ([]domain.Subboard, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+subboardColumns+` FROM subboards s
		JOIN subboard_members sm ON sm.subboard_uuid = s.subboard_uuid AND sm.user_uuid = $1
		WHERE s.board_uuid = $2 AND NOT s.deleted
		ORDER BY s.created_at, s.subboard_name`, user, board)
	if err != nil {
		return nil, fmt.Errorf("failed to query my subboards: %w", err)
	}
	defer rows.Close()

	var subboards []domain.Subboard
	for rows.Next() {
		sb, err := scanSubboard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan subboard: %w", err)
		}
		subboards = append(subboards, sb)
	}
	return subboards, rows.Err()
}

// ReplaceSubboardMemberships makes user a member of exactly the live subboards of
// board among ids. Memberships in other boards are untouched.
func (s *Storage) ReplaceSubboardMemberships(ctx context.Context, user, board uuid.UUID, ids []uuid.UUID) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `DELETE FROM subboard_members sm USING subboards s
			WHERE sm.subboard_uuid = s.subboard_uuid AND s.board_uuid = $1 AND sm.user_uuid = $2`, board, user)
		if err != nil {
			return fmt.Errorf("failed to clear subboard memberships: %w", err)
		}
		_, err = tx.ExecContext(ctx, `INSERT INTO subboard_members(subboard_uuid, user_uuid)
			SELECT subboard_uuid, $1 FROM subboards
			WHERE board_uuid = $2 AND subboard_uuid = ANY($3::uuid[]) AND NOT deleted`, user, board, uuidArray(ids))
		if err != nil {
			return fmt.Errorf("failed to insert subboard memberships: %w", err)
		}
		return nil
	})
}

// LiveSubboardIDs returns the ids among ids that are live subboards of board.
func (s *Storage) LiveSubboardIDs(ctx context.Context, board uuid.UUID, ids []uuid.UUID) ([]uuid.UUID, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT subboard_uuid FROM subboards
		WHERE board_uuid = $1 AND subboard_uuid = ANY($2::uuid[]) AND NOT deleted`, board, uuidArray(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to query subboard ids: %w", err)
	}
	defer rows.Close()

	var live []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan subboard id: %w", err)
		}
		live = append(live, id)
	}
	return live, rows.Err()
}

// RecipientLineIDs returns the de-duplicated platform ids of the live, linked
// members of the live subboards among ids.
func (s *Storage) RecipientLineIDs(ctx context.Context, subboards []uuid.UUID) ([]domain.LineID, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT lu.user_id
		FROM subboard_members sm
		JOIN subboards s ON s.subboard_uuid = sm.subboard_uuid AND NOT s.deleted
		JOIN users u ON u.user_uuid = sm.user_uuid AND NOT u.deleted
		JOIN line_users lu ON lu.line_user_uuid = u.line_user_uuid AND NOT lu.deleted
		WHERE sm.subboard_uuid = ANY($1::uuid[])
		ORDER BY lu.user_id`, uuidArray(subboards))
	if err != nil {
		return nil, fmt.Errorf("failed to query recipients: %w", err)
	}
	defer rows.Close()

	var ids []domain.LineID
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan recipient: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// =========================================================================
// Internal Methods
// =========================================================================

func (s *Storage) getSubboard(ctx context.Context, q Querier, board, subboard uuid.UUID) (domain.Subboard, error) {
	row := q.QueryRowContext(ctx, `SELECT `+subboardColumns+` FROM subboards s
		WHERE s.subboard_uuid = $1 AND s.board_uuid = $2 AND NOT s.deleted`, subboard, board)
	sb, err := scanSubboard(row)
	if err != nil {
		return domain.Subboard{}, notFoundOr(err, "subboard")
	}
	members, err := s.members(ctx, q, "subboard_members", "subboard_uuid", []uuid.UUID{sb.SubboardUUID})
	if err != nil {
		return domain.Subboard{}, err
	}
	sb.Members = members[sb.SubboardUUID]
	return sb, nil
}

func (s *Storage) subboardsOfBoards(ctx context.Context, q Querier, boards []uuid.UUID, withMembers bool) (map[uuid.UUID][]domain.Subboard, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+subboardColumns+` FROM subboards s
		WHERE s.board_uuid = ANY($1::uuid[]) AND NOT s.deleted
		ORDER BY s.created_at, s.subboard_name`, uuidArray(boards))
	if err != nil {
		return nil, fmt.Errorf("failed to query subboards: %w", err)
	}
	defer rows.Close()

	var all []domain.Subboard
	for rows.Next() {
		sb, err := scanSubboard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan subboard: %w", err)
		}
		all = append(all, sb)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate subboards: %w", err)
	}
	return s.groupSubboards(ctx, q, all, withMembers, func(sb domain.Subboard) uuid.UUID { return sb.BoardUUID })
}

// linkedSubboards loads the live subboards attached to messages or forms through
// a join table. table and keyCol are constants.
func (s *Storage) linkedSubboards(ctx context.Context, q Querier, table, keyCol string, ids []uuid.UUID) (map[uuid.UUID][]domain.Subboard, error) {
	query := fmt.Sprintf(`SELECT %s, l.%s FROM %s l
		JOIN subboards s ON s.subboard_uuid = l.subboard_uuid AND NOT s.deleted
		WHERE l.%s = ANY($1::uuid[])
		ORDER BY s.created_at, s.subboard_name`, subboardColumns, keyCol, table, keyCol)
	rows, err := q.QueryContext(ctx, query, uuidArray(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]domain.Subboard)
	for rows.Next() {
		var key uuid.UUID
		sb, err := scanSubboard(rows, &key)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", table, err)
		}
		out[key] = append(out[key], sb)
	}
	return out, rows.Err()
}

func (s *Storage) groupSubboards(ctx context.Context, q Querier, all []domain.Subboard, withMembers bool, key func(domain.Subboard) uuid.UUID) (map[uuid.UUID][]domain.Subboard, error) {
	if withMembers && len(all) > 0 {
		ids := make([]uuid.UUID, len(all))
		for i := range all {
			ids[i] = all[i].SubboardUUID
		}
		members, err := s.members(ctx, q, "subboard_members", "subboard_uuid", ids)
		if err != nil {
			return nil, err
		}
		for i := range all {
			all[i].Members = members[all[i].SubboardUUID]
		}
	}
	out := make(map[uuid.UUID][]domain.Subboard)
	for _, sb := range all {
		out[key(sb)] = append(out[key(sb)], sb)
	}
	return out, nil
}
