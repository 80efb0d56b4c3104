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

const formSelect = `SELECT f.form_uuid, f.title, f.send_time, f.scheduled_send_time, f.created_at, f.updated_at,
	b.board_uuid, b.board_id, b.board_name
	FROM forms f
	JOIN boards b ON b.board_uuid = f.board_uuid AND NOT b.deleted
	WHERE NOT f.deleted`

// =========================================================================
// Public Methods
// =========================================================================

// CreateForm stores the form, its subboard links and its questions in order.
func (s *Storage) CreateForm(ctx context.Context, data domain.FormCreationData) (domain.Form, error) {
	var form domain.Form
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		id := uuid.New()
		ts := now()
		_, err := tx.ExecContext(ctx, `INSERT INTO forms(form_uuid, board_uuid, title, scheduled_send_time, created_at)
			VALUES($1, $2, $3, $4, $5)`, id, data.BoardUUID, data.Title, data.ScheduledSendTime, ts)
		if err != nil {
			return fmt.Errorf("failed to insert form: %w", err)
		}
		if err := linkSubboards(ctx, tx, "subboard_forms", "form_uuid", id, data.SubboardUUIDs); err != nil {
			return err
		}
		for i, q := range data.Questions {
			_, err := tx.ExecContext(ctx, `INSERT INTO form_questions(form_question_uuid, form_uuid, position, title, yes_label, no_label, created_at)
				VALUES($1, $2, $3, $4, $5, $6, $7)`, uuid.New(), id, i, q.Title, q.Yes, q.No, ts)
			if err != nil {
				return fmt.Errorf("failed to insert form question: %w", err)
			}
		}
		form, err = s.getForm(ctx, tx, data.BoardUUID, id)
		return err
	})
	return form, err
}

// GetForms returns the forms of board with questions and every response.
func (s *Storage) GetForms(ctx context.Context, board uuid.UUID) ([]domain.Form, error) {
	return s.forms(ctx, s.db, nil, `f.board_uuid = $1`, board)
}

func (s *Storage) GetForm(ctx context.Context, board, form uuid.UUID) (domain.Form, error) {
	return s.getForm(ctx, s.db, board, form)
}

// GetMyForms returns the forms of board addressed to a subboard user belongs to,
// carrying only user's own responses.
func (s *Storage) GetMyForms(ctx context.Context, user, board uuid.UUID) ([]domain.Form, error) {
	return s.forms(ctx, s.db, &user, `f.board_uuid = $1 AND `+fmt.Sprintf(mySubboardFilter, "subboard_forms", "form_uuid", "f.form_uuid"), board, user)
}

func (s *Storage) GetMyFormResponses(ctx context.Context, user, form uuid.UUID) ([]domain.FormResponse, error) {
	responses, err := s.formResponses(ctx, s.db, []uuid.UUID{form}, &user)
	if err != nil {
		return nil, err
	}
	return responses[form], nil
}

// CreateFormResponse stores one answer set. Answers must already be validated
// against the form's questions.
func (s *Storage) CreateFormResponse(ctx context.Context, data domain.FormResponseCreationData) (domain.FormResponse, error) {
	var response domain.FormResponse
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		id := uuid.New()
		ts := now()
		_, err := tx.ExecContext(ctx, `INSERT INTO form_responses(form_response_uuid, form_uuid, respondent_uuid, created_at)
			VALUES($1, $2, $3, $4)`, id, data.FormUUID, data.Respondent, ts)
		if err != nil {
			return fmt.Errorf("failed to insert form response: %w", err)
		}
		for _, a := range data.Answers {
			_, err := tx.ExecContext(ctx, `INSERT INTO form_question_responses(form_question_response_uuid, form_response_uuid, form_question_uuid, answer_yes, answer_no, created_at)
				VALUES($1, $2, $3, $4, $5, $6)`, uuid.New(), id, a.FormQuestionUUID, a.Yes, a.No, ts)
			if err != nil {
				return fmt.Errorf("failed to insert form question response: %w", err)
			}
		}
		byForm, err := s.formResponses(ctx, tx, []uuid.UUID{data.FormUUID}, &data.Respondent)
		if err != nil {
			return err
		}
		for _, r := range byForm[data.FormUUID] {
			if r.FormResponseUUID == id {
				response = r
				return nil
			}
		}
		return internal_errors.NotFound("form response not found")
	})
	return response, err
}

// DeleteForm soft deletes the form and its questions.
func (s *Storage) DeleteForm(ctx context.Context, board, form uuid.UUID) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		ts := now()
		res, err := tx.ExecContext(ctx, `UPDATE forms SET deleted = TRUE, updated_at = $1
			WHERE form_uuid = $2 AND board_uuid = $3 AND NOT deleted`, ts, form, board)
		if err != nil {
			return fmt.Errorf("failed to delete form: %w", err)
		}
		if err := expectAffected(res, "form"); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `UPDATE form_questions SET deleted = TRUE, updated_at = $1 WHERE form_uuid = $2 AND NOT deleted`, ts, form); err != nil {
			return fmt.Errorf("failed to delete form questions: %w", err)
		}
		return nil
	})
}

func (s *Storage) MarkFormSent(ctx context.Context, form uuid.UUID, at time.Time) error {
	return s.markSent(ctx, "forms", "form_uuid", form, at)
}

// =========================================================================
// Internal Methods
// =========================================================================

func (s *Storage) getForm(ctx context.Context, q Querier, board, form uuid.UUID) (domain.Form, error) {
	forms, err := s.forms(ctx, q, nil, `f.board_uuid = $1 AND f.form_uuid = $2`, board, form)
	if err != nil {
		return domain.Form{}, err
	}
	if len(forms) == 0 {
		return domain.Form{}, internal_errors.NotFound("form not found")
	}
	return forms[0], nil
}

// forms loads forms with subboards, questions and responses. A non-nil respondent
// restricts responses to that user.
func (s *Storage) forms(ctx context.Context, q Querier, respondent *uuid.UUID, where string, args ...any) ([]domain.Form, error) {
	rows, err := q.QueryContext(ctx, formSelect+` AND `+where+` ORDER BY f.created_at, f.form_uuid`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query forms: %w", err)
	}
	defer rows.Close()

	var forms []domain.Form
	for rows.Next() {
		var (
			f                                      domain.Form
			sendTime, scheduledSendTime, updatedAt sql.NullTime
		)
		if err := rows.Scan(&f.FormUUID, &f.Title, &sendTime, &scheduledSendTime, &f.CreatedAt, &updatedAt,
			&f.Board.BoardUUID, &f.Board.BoardID, &f.Board.BoardName); err != nil {
			return nil, fmt.Errorf("failed to scan form: %w", err)
		}
		f.SendTime = timePtr(sendTime)
		f.ScheduledSendTime = timePtr(scheduledSendTime)
		f.UpdatedAt = timePtr(updatedAt)
		forms = append(forms, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate forms: %w", err)
	}
	if len(forms) == 0 {
		return forms, nil
	}

	ids := make([]uuid.UUID, len(forms))
	for i := range forms {
		ids[i] = forms[i].FormUUID
	}
	subboards, err := s.linkedSubboards(ctx, q, "subboard_forms", "form_uuid", ids)
	if err != nil {
		return nil, err
	}
	questions, err := s.formQuestions(ctx, q, ids)
	if err != nil {
		return nil, err
	}
	responses, err := s.formResponses(ctx, q, ids, respondent)
	if err != nil {
		return nil, err
	}
	for i := range forms {
		id := forms[i].FormUUID
		forms[i].Subboards = subboards[id]
		forms[i].FormQuestions = questions[id]
		forms[i].FormResponses = responses[id]
	}
	return forms, nil
}

func (s *Storage) formQuestions(ctx context.Context, q Querier, forms []uuid.UUID) (map[uuid.UUID][]domain.FormYesNoQuestion, error) {
	rows, err := q.QueryContext(ctx, `SELECT form_uuid, form_question_uuid, position, title, yes_label, no_label
		FROM form_questions WHERE form_uuid = ANY($1::uuid[]) AND NOT deleted
		ORDER BY form_uuid, position`, uuidArray(forms))
	if err != nil {
		return nil, fmt.Errorf("failed to query form questions: %w", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]domain.FormYesNoQuestion)
	for rows.Next() {
		var (
			form uuid.UUID
			fq   domain.FormYesNoQuestion
		)
		if err := rows.Scan(&form, &fq.FormQuestionUUID, &fq.Position, &fq.Title, &fq.Yes, &fq.No); err != nil {
			return nil, fmt.Errorf("failed to scan form question: %w", err)
		}
		out[form] = append(out[form], fq)
	}
	return out, rows.Err()
}

func (s *Storage) formResponses(ctx context.Context, q Querier, forms []uuid.UUID, respondent *uuid.UUID) (map[uuid.UUID][]domain.FormResponse, error) {
	query := `SELECT ` + userColumns + `, fr.form_response_uuid, fr.form_uuid, fr.created_at
		FROM form_responses fr
		JOIN users u ON u.user_uuid = fr.respondent_uuid AND NOT u.deleted
		` + lineJoin("u", "lu") + `
		WHERE fr.form_uuid = ANY($1::uuid[]) AND NOT fr.deleted`
	args := []any{uuidArray(forms)}
	if respondent != nil {
		query += ` AND fr.respondent_uuid = $2`
		args = append(args, *respondent)
	}
	rows, err := q.QueryContext(ctx, query+` ORDER BY fr.created_at, fr.form_response_uuid`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query form responses: %w", err)
	}
	defer rows.Close()

	var all []domain.FormResponse
	for rows.Next() {
		var r domain.FormResponse
		user, err := scanUser(rows, &r.FormResponseUUID, &r.FormUUID, &r.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan form response: %w", err)
		}
		r.Respondent = user
		all = append(all, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate form responses: %w", err)
	}

	out := make(map[uuid.UUID][]domain.FormResponse)
	if len(all) == 0 {
		return out, nil
	}
	ids := make([]uuid.UUID, len(all))
	for i := range all {
		ids[i] = all[i].FormResponseUUID
	}
	answers, err := s.questionResponses(ctx, q, ids)
	if err != nil {
		return nil, err
	}
	for _, r := range all {
		r.FormQuestionResponses = answers[r.FormResponseUUID]
		out[r.FormUUID] = append(out[r.FormUUID], r)
	}
	return out, nil
}

func (s *Storage) questionResponses(ctx context.Context, q Querier, responses []uuid.UUID) (map[uuid.UUID][]domain.FormYesNoQuestionResponse, error) {
	rows, err := q.QueryContext(ctx, `SELECT qr.form_response_uuid, qr.form_question_response_uuid, qr.form_question_uuid, qr.answer_yes, qr.answer_no
		FROM form_question_responses qr
		JOIN form_questions fq ON fq.form_question_uuid = qr.form_question_uuid AND NOT fq.deleted
		WHERE qr.form_response_uuid = ANY($1::uuid[]) AND NOT qr.deleted
		ORDER BY qr.form_response_uuid, fq.position`, uuidArray(responses))
	if err != nil {
		return nil, fmt.Errorf("failed to query form question responses: %w", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]domain.FormYesNoQuestionResponse)
	for rows.Next() {
		var (
			response uuid.UUID
			a        domain.FormYesNoQuestionResponse
		)
		if err := rows.Scan(&response, &a.FormQuestionResponseUUID, &a.FormQuestionUUID, &a.Yes, &a.No); err != nil {
			return nil, fmt.Errorf("failed to scan form question response: %w", err)
		}
		out[response] = append(out[response], a)
	}
	return out, rows.Err()
}
