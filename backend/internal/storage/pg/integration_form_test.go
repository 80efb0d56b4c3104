package pg

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/mosacup/webboard/shared/domain"
	internal_errors "github.com/mosacup/webboard/shared/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestForm(t *testing.T, board domain.Board, subboards ...uuid.UUID) domain.Form {
	t.Helper()
	form, err := storage.CreateForm(context.Background(), domain.FormCreationData{
		BoardUUID:     board.BoardUUID,
		SubboardUUIDs: subboards,
		Title:         "Field trip",
		Questions: []domain.FormQuestionData{
			{Title: "Attending?", Yes: "Yes", No: "No"},
			{Title: "Need a bus?", Yes: "Bus", No: "Own car"},
		},
	})
	require.NoError(t, err)
	return form
}

func TestCreateForm(t *testing.T) {
	admin := createTestUser(t)
	board := createTestBoard(t, admin)
	x := createTestSubboard(t, board, "X")

	form := createTestForm(t, board, x.SubboardUUID)

	assert.Equal(t, "Field trip", form.Title)
	assert.Equal(t, []uuid.UUID{x.SubboardUUID}, subboardIDs(form.Subboards))
	require.Len(t, form.FormQuestions, 2)
	assert.Equal(t, "Attending?", form.FormQuestions[0].Title)
	assert.Equal(t, 0, form.FormQuestions[0].Position)
	assert.Equal(t, "Own car", form.FormQuestions[1].No)
	assert.Empty(t, form.FormResponses)
	assert.True(t, form.HasQuestion(form.FormQuestions[1].FormQuestionUUID))
}

func TestFormResponses(t *testing.T) {
	ctx := context.Background()
	admin := createTestUser(t)
	alice := createTestUser(t)
	bob := createTestUser(t)
	board := createTestBoard(t, admin)
	x := createTestSubboard(t, board, "X")
	require.NoError(t, storage.ReplaceSubboardMemberships(ctx, alice.UserUUID, board.BoardUUID, []uuid.UUID{x.SubboardUUID}))
	require.NoError(t, storage.ReplaceSubboardMemberships(ctx, bob.UserUUID, board.BoardUUID, []uuid.UUID{x.SubboardUUID}))

	form := createTestForm(t, board, x.SubboardUUID)
	q1, q2 := form.FormQuestions[0].FormQuestionUUID, form.FormQuestions[1].FormQuestionUUID

	resp, err := storage.CreateFormResponse(ctx, domain.FormResponseCreationData{
		FormUUID:   form.FormUUID,
		Respondent: alice.UserUUID,
		Answers: []domain.QuestionAnswer{
			{FormQuestionUUID: q2, No: true},
			{FormQuestionUUID: q1, Yes: true},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, alice.UserUUID, resp.Respondent.UserUUID)
	require.Len(t, resp.FormQuestionResponses, 2)
	assert.Equal(t, q1, resp.FormQuestionResponses[0].FormQuestionUUID, "answers follow question order")
	assert.True(t, resp.FormQuestionResponses[0].Yes)
	assert.True(t, resp.FormQuestionResponses[1].No)

	_, err = storage.CreateFormResponse(ctx, domain.FormResponseCreationData{
		FormUUID:   form.FormUUID,
		Respondent: bob.UserUUID,
		Answers:    []domain.QuestionAnswer{{FormQuestionUUID: q1, No: true}},
	})
	require.NoError(t, err)

	t.Run("administrator sees every response", func(t *testing.T) {
		got, err := storage.GetForm(ctx, board.BoardUUID, form.FormUUID)
		require.NoError(t, err)
		assert.Len(t, got.FormResponses, 2)
	})

	t.Run("member sees only own responses", func(t *testing.T) {
		mine, err := storage.GetMyForms(ctx, alice.UserUUID, board.BoardUUID)
		require.NoError(t, err)
		require.Len(t, mine, 1)
		require.Len(t, mine[0].FormResponses, 1)
		assert.Equal(t, alice.UserUUID, mine[0].FormResponses[0].Respondent.UserUUID)
		assert.Len(t, mine[0].FormQuestions, 2)

		responses, err := storage.GetMyFormResponses(ctx, bob.UserUUID, form.FormUUID)
		require.NoError(t, err)
		require.Len(t, responses, 1)
		assert.Equal(t, bob.UserUUID, responses[0].Respondent.UserUUID)
	})

	t.Run("non member sees nothing", func(t *testing.T) {
		mine, err := storage.GetMyForms(ctx, admin.UserUUID, board.BoardUUID)
		require.NoError(t, err)
		assert.Empty(t, mine)
	})
}

func TestDeleteForm(t *testing.T) {
	ctx := context.Background()
	admin := createTestUser(t)
	board := createTestBoard(t, admin)
	form := createTestForm(t, board)

	forms, err := storage.GetForms(ctx, board.BoardUUID)
	require.NoError(t, err)
	assert.Len(t, forms, 1)

	require.NoError(t, storage.MarkFormSent(ctx, form.FormUUID, form.CreatedAt))
	require.NoError(t, storage.DeleteForm(ctx, board.BoardUUID, form.FormUUID))

	_, err = storage.GetForm(ctx, board.BoardUUID, form.FormUUID)
	assert.True(t, internal_errors.IsNotFound(err))
	assert.True(t, internal_errors.IsNotFound(storage.DeleteForm(ctx, board.BoardUUID, form.FormUUID)))
}
