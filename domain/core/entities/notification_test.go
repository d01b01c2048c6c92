package entities

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncateTitleCountsRunes(t *testing.T) {
	t.Run("long multibyte title truncates on rune boundaries", func(t *testing.T) {
		long := strings.Repeat("é", 150)
		got := truncateTitle(long)

		assert.True(t, utf8.ValidString(got))
		assert.Equal(t, notificationTitleMaxLength, utf8.RuneCountInString(got))
		assert.Equal(t, strings.Repeat("é", notificationTitleMaxLength-3)+"...", got)
	})

	t.Run("multibyte title at the limit is kept whole", func(t *testing.T) {
		title := strings.Repeat("é", notificationTitleMaxLength)
		assert.Equal(t, title, truncateTitle(title))
	})

	t.Run("short title is untouched", func(t *testing.T) {
		assert.Equal(t, "How do I parse JSON?", truncateTitle("How do I parse JSON?"))
	})
}

func TestAnswerNotificationMessageStaysValidUTF8(t *testing.T) {
	question, err := NewQuestion("asker", strings.Repeat("日本語のタイトル", 20), "A longer description.", []string{"go"})
	require.NoError(t, err)
	answer, err := NewAnswer(question.ID, "answerer", "This is a helpful answer.")
	require.NoError(t, err)

	n := NewAnswerNotification(question, answer, "answerer")
	assert.True(t, utf8.ValidString(n.Message))
	assert.Contains(t, n.Message, "...")
}
