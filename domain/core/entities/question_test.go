package entities

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "qaforum/pkg/errors"
)

func TestNewQuestion(t *testing.T) {
	t.Run("valid question", func(t *testing.T) {
		q, err := NewQuestion("user-1", "How do I test this?", "A longer description of the problem.", []string{"Go", "testing"})

		require.NoError(t, err)
		assert.NotEmpty(t, q.ID)
		assert.Equal(t, "user-1", q.AuthorID)
		assert.Equal(t, []string{"go", "testing"}, q.Tags)
		assert.Equal(t, 0, q.Score)
		assert.Equal(t, 0, q.AnswerCount)
		assert.Equal(t, 1, q.Version)
	})

	t.Run("title too short", func(t *testing.T) {
		_, err := NewQuestion("user-1", "Hi?", "A longer description of the problem.", []string{"go"})
		assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeValidation))
	})

	t.Run("title too long", func(t *testing.T) {
		_, err := NewQuestion("user-1", strings.Repeat("x", 201), "A longer description.", []string{"go"})
		assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeValidation))
	})

	t.Run("lengths are counted in runes", func(t *testing.T) {
		// Multibyte text clears the minimums by rune count even though the
		// byte counts are three times larger.
		_, err := NewQuestion("user-1", "質問のタイトルです。", "説明はもっと長い文章。", []string{"go"})
		require.NoError(t, err)

		_, err = NewQuestion("user-1", strings.Repeat("長", 201), "A longer description.", []string{"go"})
		assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeValidation))
	})

	t.Run("description too short", func(t *testing.T) {
		_, err := NewQuestion("user-1", "How do I test this?", "short", []string{"go"})
		assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeValidation))
	})

	t.Run("no tags", func(t *testing.T) {
		_, err := NewQuestion("user-1", "How do I test this?", "A longer description.", nil)
		assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeValidation))
	})

	t.Run("too many tags", func(t *testing.T) {
		_, err := NewQuestion("user-1", "How do I test this?", "A longer description.", []string{"a", "b", "c", "d", "e", "f"})
		assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeValidation))
	})

	t.Run("duplicate tags collapse before the limit check", func(t *testing.T) {
		q, err := NewQuestion("user-1", "How do I test this?", "A longer description.", []string{"go", "GO", " go ", "testing"})
		require.NoError(t, err)
		assert.Equal(t, []string{"go", "testing"}, q.Tags)
	})
}

func TestQuestionUpdate(t *testing.T) {
	q, err := NewQuestion("user-1", "Original title here", "Original description text.", []string{"go"})
	require.NoError(t, err)

	t.Run("blank fields stay untouched", func(t *testing.T) {
		err := q.Update("", "", nil)
		require.NoError(t, err)
		assert.Equal(t, "Original title here", q.Title)
		assert.Equal(t, []string{"go"}, q.Tags)
	})

	t.Run("provided fields replace", func(t *testing.T) {
		err := q.Update("A brand new title", "", []string{"go", "http"})
		require.NoError(t, err)
		assert.Equal(t, "A brand new title", q.Title)
		assert.Equal(t, "Original description text.", q.Description)
		assert.Equal(t, []string{"go", "http"}, q.Tags)
	})

	t.Run("invalid replacement rejected", func(t *testing.T) {
		err := q.Update("nah", "", nil)
		assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeValidation))
	})
}

func TestQuestionApplyVote(t *testing.T) {
	q, err := NewQuestion("author", "How do I test this?", "A longer description.", []string{"go"})
	require.NoError(t, err)

	t.Run("self vote rejected without mutation", func(t *testing.T) {
		_, err := q.ApplyVote("author", Upvote)
		assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeValidation))
		assert.Equal(t, 0, q.Score)
		assert.Empty(t, q.Votes)
	})

	t.Run("vote updates score and ledger", func(t *testing.T) {
		dir, err := q.ApplyVote("voter", Upvote)
		require.NoError(t, err)
		require.NotNil(t, dir)
		assert.Equal(t, 1, q.Score)
		assert.Equal(t, q.Votes.Score(), q.Score)
	})
}

func TestQuestionHasTag(t *testing.T) {
	q, err := NewQuestion("author", "How do I test this?", "A longer description.", []string{"go", "http"})
	require.NoError(t, err)

	assert.True(t, q.HasTag("go"))
	assert.True(t, q.HasTag(" GO "))
	assert.False(t, q.HasTag("rust"))
}
