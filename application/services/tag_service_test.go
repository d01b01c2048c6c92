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

func TestTagService(t *testing.T) {
	ctx := context.Background()
	questionRepo := newMemQuestionRepo()
	svc := NewTagService(questionRepo, zap.NewNop())

	seed := func(title string, tags []string) *entities.Question {
		q, err := entities.NewQuestion("asker", title, "A longer description.", tags)
		require.NoError(t, err)
		require.NoError(t, questionRepo.Create(ctx, q))
		return q
	}

	seed("First question title", []string{"go", "http"})
	seed("Second question title", []string{"go", "json"})
	tagged := seed("Third question title", []string{"json"})

	t.Run("list counts and orders tags", func(t *testing.T) {
		tags, err := svc.List(ctx)
		require.NoError(t, err)
		require.Len(t, tags, 3)
		assert.Equal(t, TagCount{Tag: "go", Count: 2}, tags[0])
		assert.Equal(t, TagCount{Tag: "json", Count: 2}, tags[1])
		assert.Equal(t, TagCount{Tag: "http", Count: 1}, tags[2])
	})

	t.Run("get filters questions by tag", func(t *testing.T) {
		questions, pagination, err := svc.Get(ctx, " JSON ", common.PaginationParams{Page: 1, PageSize: 10})
		require.NoError(t, err)
		assert.Len(t, questions, 2)
		assert.Equal(t, 2, pagination.Total)

		ids := []string{questions[0].ID, questions[1].ID}
		assert.Contains(t, ids, tagged.ID)
	})

	t.Run("blank tag rejected", func(t *testing.T) {
		_, _, err := svc.Get(ctx, "  ", common.PaginationParams{Page: 1, PageSize: 10})
		assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeValidation))
	})
}
