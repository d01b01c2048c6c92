package entities

import (
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	pkgerrors "qaforum/pkg/errors"
)

const (
	contentMinLength = 10
	commentMaxLength = 500
)

// Comment is a short remark embedded in an answer
type Comment struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"authorId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Answer is a voteable reply to a question. The parent question reference
// is immutable; at most one answer per question may be accepted.
type Answer struct {
	ID         string     `json:"id"`
	QuestionID string     `json:"questionId"`
	Content    string     `json:"content"`
	AuthorID   string     `json:"authorId"`
	Votes      VoteLedger `json:"votes"`
	Score      int        `json:"score"`
	IsAccepted bool       `json:"isAccepted"`
	Comments   []Comment  `json:"comments"`
	Version    int        `json:"-"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// NewAnswer creates an answer with full invariant validation
func NewAnswer(questionID, authorID, content string) (*Answer, error) {
	if questionID == "" {
		return nil, pkgerrors.NewValidationError("question is required")
	}
	if authorID == "" {
		return nil, pkgerrors.NewValidationError("author is required")
	}
	if utf8.RuneCountInString(content) < contentMinLength {
		return nil, pkgerrors.NewValidationError("answer must be at least 10 characters long")
	}

	now := time.Now().UTC()
	return &Answer{
		ID:         uuid.New().String(),
		QuestionID: questionID,
		Content:    content,
		AuthorID:   authorID,
		Votes:      VoteLedger{},
		Comments:   []Comment{},
		Version:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// UpdateContent replaces the answer body
func (a *Answer) UpdateContent(content string) error {
	if utf8.RuneCountInString(content) < contentMinLength {
		return pkgerrors.NewValidationError("answer must be at least 10 characters long")
	}
	a.Content = content
	a.UpdatedAt = time.Now().UTC()
	return nil
}

// ApplyVote applies a vote to the answer's ledger and score. Self-votes
// are rejected without mutating anything.
func (a *Answer) ApplyVote(voterID string, direction VoteDirection) (*VoteDirection, error) {
	if voterID == a.AuthorID {
		return nil, pkgerrors.NewValidationError("you cannot vote on your own content")
	}

	delta, result := a.Votes.Apply(voterID, direction)
	a.Score += delta
	a.UpdatedAt = time.Now().UTC()
	return result, nil
}

// AddComment appends an embedded comment to the answer
func (a *Answer) AddComment(authorID, content string) (*Comment, error) {
	if authorID == "" {
		return nil, pkgerrors.NewValidationError("author is required")
	}
	if content == "" {
		return nil, pkgerrors.NewValidationError("comment content is required")
	}
	if utf8.RuneCountInString(content) > commentMaxLength {
		return nil, pkgerrors.NewValidationError("comment must be at most 500 characters long")
	}

	comment := Comment{
		ID:        uuid.New().String(),
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	a.Comments = append(a.Comments, comment)
	a.UpdatedAt = comment.CreatedAt
	return &comment, nil
}

// IsAuthor reports whether userID owns this answer
func (a *Answer) IsAuthor(userID string) bool {
	return a.AuthorID == userID
}
