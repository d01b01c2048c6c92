package entities

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NotificationType classifies what a notification is about
type NotificationType string

const (
	NotificationTypeAnswer  NotificationType = "answer"
	NotificationTypeComment NotificationType = "comment"
	NotificationTypeMention NotificationType = "mention"
	NotificationTypeAccept  NotificationType = "accept"
	NotificationTypeVote    NotificationType = "vote"
)

const notificationTitleMaxLength = 100

// Notification is a best-effort message addressed to a user. It is created
// only by the notification service, mutated only by read-state transitions,
// and deleted explicitly by its recipient.
type Notification struct {
	ID              string           `json:"id"`
	RecipientID     string           `json:"recipientId"`
	SenderID        string           `json:"senderId"`
	Type            NotificationType `json:"type"`
	Title           string           `json:"title"`
	Message         string           `json:"message"`
	RelatedQuestion string           `json:"relatedQuestion,omitempty"`
	RelatedAnswer   string           `json:"relatedAnswer,omitempty"`
	IsRead          bool             `json:"isRead"`
	Link            string           `json:"link"`
	CreatedAt       time.Time        `json:"createdAt"`
}

// NewAnswerNotification builds the notification sent to a question author
// when someone answers their question
func NewAnswerNotification(question *Question, answer *Answer, answererName string) *Notification {
	return &Notification{
		ID:              uuid.New().String(),
		RecipientID:     question.AuthorID,
		SenderID:        answer.AuthorID,
		Type:            NotificationTypeAnswer,
		Title:           "New answer to your question",
		Message:         fmt.Sprintf("%s answered your question: %q", answererName, truncateTitle(question.Title)),
		RelatedQuestion: question.ID,
		RelatedAnswer:   answer.ID,
		Link:            fmt.Sprintf("/questions/%s", question.ID),
		CreatedAt:       time.Now().UTC(),
	}
}

// NewAcceptNotification builds the notification sent to an answer author
// when their answer is accepted
func NewAcceptNotification(question *Question, answer *Answer) *Notification {
	return &Notification{
		ID:              uuid.New().String(),
		RecipientID:     answer.AuthorID,
		SenderID:        question.AuthorID,
		Type:            NotificationTypeAccept,
		Title:           "Your answer was accepted",
		Message:         fmt.Sprintf("Your answer to %q was accepted", truncateTitle(question.Title)),
		RelatedQuestion: question.ID,
		RelatedAnswer:   answer.ID,
		Link:            fmt.Sprintf("/questions/%s", question.ID),
		CreatedAt:       time.Now().UTC(),
	}
}

// NewCommentNotification builds the notification sent to an answer author
// when someone comments on their answer
func NewCommentNotification(answer *Answer, commenterID, commenterName string) *Notification {
	return &Notification{
		ID:              uuid.New().String(),
		RecipientID:     answer.AuthorID,
		SenderID:        commenterID,
		Type:            NotificationTypeComment,
		Title:           "New comment on your answer",
		Message:         fmt.Sprintf("%s commented on your answer", commenterName),
		RelatedQuestion: answer.QuestionID,
		RelatedAnswer:   answer.ID,
		Link:            fmt.Sprintf("/questions/%s", answer.QuestionID),
		CreatedAt:       time.Now().UTC(),
	}
}

// MarkRead transitions the notification to the read state
func (n *Notification) MarkRead() {
	n.IsRead = true
}

// truncateTitle shortens a title to the notification limit, counting runes
// so multibyte text is never split mid-character.
func truncateTitle(title string) string {
	runes := []rune(title)
	if len(runes) <= notificationTitleMaxLength {
		return title
	}
	return string(runes[:notificationTitleMaxLength-3]) + "..."
}
