package dynamodb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qaforum/domain/core/entities"
)

func testQuestion(t *testing.T) *entities.Question {
	t.Helper()
	question, err := entities.NewQuestion("author", "How do I do the thing?", "A longer description.", []string{"go"})
	require.NoError(t, err)
	return question
}

// ViewCount and AnswerCount are maintained by atomic ADD updates; versioned
// writes carrying a stale entity must never touch them.
func TestQuestionUpdateExpressionsLeaveCountersAlone(t *testing.T) {
	question := testQuestion(t)
	question.ViewCount = 7
	question.AnswerCount = 2

	t.Run("edit", func(t *testing.T) {
		names := updateNames(t, questionEditUpdate(question))
		assert.Contains(t, names, "Title")
		assert.Contains(t, names, "Description")
		assert.Contains(t, names, "Tags")
		assert.NotContains(t, names, "ViewCount")
		assert.NotContains(t, names, "AnswerCount")
	})

	t.Run("vote write", func(t *testing.T) {
		names := updateNames(t, questionVoteUpdate(question))
		assert.Contains(t, names, "Votes")
		assert.Contains(t, names, "Score")
		assert.NotContains(t, names, "ViewCount")
		assert.NotContains(t, names, "AnswerCount")
	})
}
