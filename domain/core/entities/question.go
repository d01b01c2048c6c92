package entities

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	pkgerrors "qaforum/pkg/errors"
)

const (
	titleMinLength       = 5
	titleMaxLength       = 200
	descriptionMinLength = 10
	minTags              = 1
	maxTags              = 5
)

// Question is a voteable post asking for answers. The author is immutable
// after creation; AnswerCount is a denormalized cache kept in lockstep with
// answer lifecycle; Score is derived from the vote ledger.
type Question struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Tags        []string   `json:"tags"`
	AuthorID    string     `json:"authorId"`
	ViewCount   int        `json:"viewCount"`
	AnswerCount int        `json:"answerCount"`
	Votes       VoteLedger `json:"votes"`
	Score       int        `json:"score"`
	Version     int        `json:"-"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// NewQuestion creates a question with full invariant validation
func NewQuestion(authorID, title, description string, tags []string) (*Question, error) {
	if authorID == "" {
		return nil, pkgerrors.NewValidationError("author is required")
	}
	if err := validateQuestionContent(title, description, tags); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Question{
		ID:          uuid.New().String(),
		Title:       strings.TrimSpace(title),
		Description: description,
		Tags:        NormalizeTags(tags),
		AuthorID:    authorID,
		Votes:       VoteLedger{},
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Update replaces the editable fields, leaving blanks untouched
func (q *Question) Update(title, description string, tags []string) error {
	newTitle := q.Title
	if title != "" {
		newTitle = title
	}
	newDescription := q.Description
	if description != "" {
		newDescription = description
	}
	newTags := q.Tags
	if tags != nil {
		newTags = tags
	}

	if err := validateQuestionContent(newTitle, newDescription, newTags); err != nil {
		return err
	}

	q.Title = strings.TrimSpace(newTitle)
	q.Description = newDescription
	q.Tags = NormalizeTags(newTags)
	q.UpdatedAt = time.Now().UTC()
	return nil
}

// ApplyVote applies a vote to the question's ledger and score. Self-votes
// are rejected without mutating anything.
func (q *Question) ApplyVote(voterID string, direction VoteDirection) (*VoteDirection, error) {
	if voterID == q.AuthorID {
		return nil, pkgerrors.NewValidationError("you cannot vote on your own content")
	}

	delta, result := q.Votes.Apply(voterID, direction)
	q.Score += delta
	q.UpdatedAt = time.Now().UTC()
	return result, nil
}

// IsAuthor reports whether userID owns this question
func (q *Question) IsAuthor(userID string) bool {
	return q.AuthorID == userID
}

// HasTag reports whether the question carries the given tag
func (q *Question) HasTag(tag string) bool {
	tag = strings.ToLower(strings.TrimSpace(tag))
	for _, t := range q.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// NormalizeTags lowercases, trims, and de-duplicates tags preserving order
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	normalized := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		normalized = append(normalized, t)
	}
	return normalized
}

func validateQuestionContent(title, description string, tags []string) error {
	title = strings.TrimSpace(title)
	if utf8.RuneCountInString(title) < titleMinLength {
		return pkgerrors.NewValidationError("title must be at least 5 characters long")
	}
	if utf8.RuneCountInString(title) > titleMaxLength {
		return pkgerrors.NewValidationError("title must be at most 200 characters long")
	}
	if utf8.RuneCountInString(description) < descriptionMinLength {
		return pkgerrors.NewValidationError("description must be at least 10 characters long")
	}

	normalized := NormalizeTags(tags)
	if len(normalized) < minTags {
		return pkgerrors.NewValidationError("at least one tag is required")
	}
	if len(normalized) > maxTags {
		return pkgerrors.NewValidationError("at most 5 tags are allowed")
	}
	return nil
}
