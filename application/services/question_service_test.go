package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"qaforum/domain/core/entities"
	"qaforum/pkg/common"
	pkgerrors "qaforum/pkg/errors"
)

func newQuestionFixture(t *testing.T) (*QuestionService, *memQuestionRepo, *memAnswerRepo, *fakeEventPublisher) {
	t.Helper()
	questionRepo := newMemQuestionRepo()
	answerRepo := newMemAnswerRepo()
	publisher := &fakeEventPublisher{}
	svc := NewQuestionService(questionRepo, answerRepo, publisher, zap.NewNop())
	return svc, questionRepo, answerRepo, publisher
}

func TestQuestionServiceCreate(t *testing.T) {
	ctx := context.Background()
	svc, questionRepo, _, publisher := newQuestionFixture(t)

	question, err := svc.Create(ctx, "asker", "How do I do the thing?", "A longer description.", []string{"Go", "HTTP"})

	require.NoError(t, err)
	assert.Equal(t, []string{"go", "http"}, question.Tags)

	stored, err := questionRepo.GetByID(ctx, question.ID)
	require.NoError(t, err)
	assert.Equal(t, question.Title, stored.Title)
	assert.Equal(t, []string{"question.created"}, publisher.eventTypes())

	_, err = svc.Create(ctx, "asker", "bad", "short", nil)
	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeValidation))
}

func TestQuestionServiceList(t *testing.T) {
	ctx := context.Background()
	svc, questionRepo, _, _ := newQuestionFixture(t)

	q1, err := svc.Create(ctx, "asker", "Parsing JSON in Go?", "How do I parse JSON payloads?", []string{"go", "json"})
	require.NoError(t, err)
	q2, err := svc.Create(ctx, "asker", "HTTP routing question", "Which router should I pick?", []string{"go", "http"})
	require.NoError(t, err)
	q3, err := svc.Create(ctx, "other", "Database modeling help", "How do I model a forum?", []string{"dynamodb"})
	require.NoError(t, err)

	page := common.PaginationParams{Page: 1, PageSize: 10}

	t.Run("no filter returns everything", func(t *testing.T) {
		questions, pagination, err := svc.List(ctx, ListQuestionsParams{Pagination: page})
		require.NoError(t, err)
		assert.Len(t, questions, 3)
		assert.Equal(t, 3, pagination.Total)
	})

	t.Run("tag filter", func(t *testing.T) {
		questions, _, err := svc.List(ctx, ListQuestionsParams{Tag: "json", Pagination: page})
		require.NoError(t, err)
		require.Len(t, questions, 1)
		assert.Equal(t, q1.ID, questions[0].ID)
	})

	t.Run("search matches title and description", func(t *testing.T) {
		questions, _, err := svc.List(ctx, ListQuestionsParams{Search: "router", Pagination: page})
		require.NoError(t, err)
		require.Len(t, questions, 1)
		assert.Equal(t, q2.ID, questions[0].ID)

		questions, _, err = svc.List(ctx, ListQuestionsParams{Search: "FORUM", Pagination: page})
		require.NoError(t, err)
		require.Len(t, questions, 1)
		assert.Equal(t, q3.ID, questions[0].ID)
	})

	t.Run("most-votes sort", func(t *testing.T) {
		voteSvc := NewVoteService(questionRepo, newMemAnswerRepo(), nil, nil, zap.NewNop())
		_, err := voteSvc.Apply(ctx, TargetQuestion, q3.ID, "voter", entities.Upvote)
		require.NoError(t, err)

		questions, _, err := svc.List(ctx, ListQuestionsParams{Pagination: common.PaginationParams{Page: 1, PageSize: 10, Sort: SortMostVotes}})
		require.NoError(t, err)
		assert.Equal(t, q3.ID, questions[0].ID)
	})

	t.Run("pagination slices the result", func(t *testing.T) {
		questions, pagination, err := svc.List(ctx, ListQuestionsParams{Pagination: common.PaginationParams{Page: 2, PageSize: 2}})
		require.NoError(t, err)
		assert.Len(t, questions, 1)
		assert.Equal(t, 2, pagination.TotalPages)
		assert.True(t, pagination.HasPrev)
		assert.False(t, pagination.HasNext)
	})
}

func TestQuestionServiceGet(t *testing.T) {
	ctx := context.Background()
	svc, questionRepo, _, _ := newQuestionFixture(t)

	question, err := svc.Create(ctx, "asker", "How do I do the thing?", "A longer description.", []string{"go"})
	require.NoError(t, err)

	got, err := svc.Get(ctx, question.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.ViewCount)

	got, err = svc.Get(ctx, question.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.ViewCount)

	stored, _ := questionRepo.GetByID(ctx, question.ID)
	assert.Equal(t, 2, stored.ViewCount)

	_, err = svc.Get(ctx, "nope")
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestQuestionServiceUpdate(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newQuestionFixture(t)

	question, err := svc.Create(ctx, "asker", "How do I do the thing?", "A longer description.", []string{"go"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, question.ID, "stranger", "A hijacked title", "", nil)
	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeForbidden))

	updated, err := svc.Update(ctx, question.ID, "asker", "A sharper question title", "", nil)
	require.NoError(t, err)
	assert.Equal(t, "A sharper question title", updated.Title)
	assert.Equal(t, "A longer description.", updated.Description)
}

func TestQuestionServiceDelete(t *testing.T) {
	ctx := context.Background()
	svc, questionRepo, answerRepo, _ := newQuestionFixture(t)

	question, err := svc.Create(ctx, "asker", "How do I do the thing?", "A longer description.", []string{"go"})
	require.NoError(t, err)

	answer, err := entities.NewAnswer(question.ID, "answerer", "This is a helpful answer.")
	require.NoError(t, err)
	require.NoError(t, answerRepo.Create(ctx, answer))

	t.Run("only the author may delete", func(t *testing.T) {
		err := svc.Delete(ctx, question.ID, "stranger")
		assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeForbidden))
	})

	t.Run("delete cascades to answers", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, question.ID, "asker"))

		_, err := questionRepo.GetByID(ctx, question.ID)
		assert.True(t, pkgerrors.IsNotFound(err))

		answers, err := answerRepo.ListByQuestion(ctx, question.ID)
		require.NoError(t, err)
		assert.Empty(t, answers)
	})
}
