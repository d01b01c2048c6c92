package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVoteLedgerApply(t *testing.T) {
	t.Run("first vote appends", func(t *testing.T) {
		ledger := VoteLedger{}

		delta, dir := ledger.Apply("alice", Upvote)

		assert.Equal(t, 1, delta)
		require.NotNil(t, dir)
		assert.Equal(t, Upvote, *dir)
		assert.Len(t, ledger, 1)
	})

	t.Run("same direction toggles off", func(t *testing.T) {
		ledger := VoteLedger{{UserID: "alice", Direction: Upvote}}

		delta, dir := ledger.Apply("alice", Upvote)

		assert.Equal(t, -1, delta)
		assert.Nil(t, dir)
		assert.Empty(t, ledger)
	})

	t.Run("downvote toggle off reverses delta", func(t *testing.T) {
		ledger := VoteLedger{{UserID: "alice", Direction: Downvote}}

		delta, dir := ledger.Apply("alice", Downvote)

		assert.Equal(t, 1, delta)
		assert.Nil(t, dir)
	})

	t.Run("opposite direction switches with double delta", func(t *testing.T) {
		ledger := VoteLedger{{UserID: "alice", Direction: Downvote}}

		delta, dir := ledger.Apply("alice", Upvote)

		assert.Equal(t, 2, delta)
		require.NotNil(t, dir)
		assert.Equal(t, Upvote, *dir)
		assert.Len(t, ledger, 1)
	})

	t.Run("one vote per user", func(t *testing.T) {
		ledger := VoteLedger{}
		ledger.Apply("alice", Upvote)
		ledger.Apply("alice", Downvote)
		ledger.Apply("bob", Upvote)

		assert.Len(t, ledger, 2)
	})

	t.Run("score stays equal to up minus down", func(t *testing.T) {
		ledger := VoteLedger{}
		score := 0

		apply := func(user string, d VoteDirection) {
			delta, _ := ledger.Apply(user, d)
			score += delta
		}

		apply("alice", Upvote)
		apply("bob", Downvote)
		apply("carol", Upvote)
		apply("bob", Upvote)   // switch
		apply("alice", Upvote) // toggle off

		assert.Equal(t, ledger.Score(), score)
		assert.Equal(t, 2, score)
	})
}

func TestVoteLedgerDirectionFor(t *testing.T) {
	ledger := VoteLedger{{UserID: "alice", Direction: Downvote}}

	dir := ledger.DirectionFor("alice")
	require.NotNil(t, dir)
	assert.Equal(t, Downvote, *dir)

	assert.Nil(t, ledger.DirectionFor("bob"))
}

func TestValidDirection(t *testing.T) {
	assert.True(t, ValidDirection(Upvote))
	assert.True(t, ValidDirection(Downvote))
	assert.False(t, ValidDirection("sideways"))
}
