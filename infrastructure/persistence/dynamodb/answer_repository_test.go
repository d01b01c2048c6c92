package dynamodb

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"qaforum/domain/core/entities"
)

func testAnswer(t *testing.T, questionID string) *entities.Answer {
	t.Helper()
	answer, err := entities.NewAnswer(questionID, "author", "This is a helpful answer.")
	require.NoError(t, err)
	return answer
}

func updateNames(t *testing.T, update expression.UpdateBuilder) []string {
	t.Helper()
	expr, err := expression.NewBuilder().WithUpdate(update).Build()
	require.NoError(t, err)

	names := make([]string, 0, len(expr.Names()))
	for _, name := range expr.Names() {
		names = append(names, name)
	}
	return names
}

func acceptedFlags(t *testing.T, items []types.TransactWriteItem) map[string]bool {
	t.Helper()
	flags := make(map[string]bool, len(items))
	for _, item := range items {
		require.NotNil(t, item.Update)
		sk := item.Update.Key["SK"].(*types.AttributeValueMemberS).Value
		flags[sk] = item.Update.ExpressionAttributeValues[":accepted"].(*types.AttributeValueMemberBOOL).Value
	}
	return flags
}

// Two concurrent accepts must contend on the same items, so the transaction
// has to write every answer of the question, not just those accepted at
// read time.
func TestAcceptTransactItemsCoverEveryAnswer(t *testing.T) {
	r := &AnswerRepository{tableName: "qaforum", logger: zap.NewNop()}
	a1 := testAnswer(t, "q-1")
	a2 := testAnswer(t, "q-1")
	answers := []*entities.Answer{a1, a2}

	items, found := r.acceptTransactItems(answers, "q-1", a1.ID)
	require.True(t, found)
	require.Len(t, items, len(answers))

	flags := acceptedFlags(t, items)
	assert.True(t, flags[answerSK(a1.ID)])
	assert.False(t, flags[answerSK(a2.ID)])

	items, found = r.acceptTransactItems(answers, "q-1", a2.ID)
	require.True(t, found)
	require.Len(t, items, len(answers))

	flags = acceptedFlags(t, items)
	assert.False(t, flags[answerSK(a1.ID)])
	assert.True(t, flags[answerSK(a2.ID)])
}

func TestAcceptTransactItemsMissingTarget(t *testing.T) {
	r := &AnswerRepository{tableName: "qaforum", logger: zap.NewNop()}
	a1 := testAnswer(t, "q-1")

	_, found := r.acceptTransactItems([]*entities.Answer{a1}, "q-1", "nope")
	assert.False(t, found)
}

func TestAnswerUpdateExpressionsScopedToOwnedFields(t *testing.T) {
	answer := testAnswer(t, "q-1")

	t.Run("edit leaves votes and accepted flag alone", func(t *testing.T) {
		names := updateNames(t, answerEditUpdate(answer))
		assert.Contains(t, names, "Content")
		assert.Contains(t, names, "Comments")
		assert.NotContains(t, names, "IsAccepted")
		assert.NotContains(t, names, "Votes")
		assert.NotContains(t, names, "Score")
	})

	t.Run("vote write leaves content and accepted flag alone", func(t *testing.T) {
		names := updateNames(t, answerVoteUpdate(answer))
		assert.Contains(t, names, "Votes")
		assert.Contains(t, names, "Score")
		assert.NotContains(t, names, "IsAccepted")
		assert.NotContains(t, names, "Content")
		assert.NotContains(t, names, "Comments")
	})
}
