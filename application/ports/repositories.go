package ports

import (
	"context"

	"qaforum/domain/core/entities"
)

// UserRepository defines the interface for user persistence.
// Implementations own username and email uniqueness.
type UserRepository interface {
	// Create persists a new user, failing with a conflict error when the
	// username or email is already taken
	Create(ctx context.Context, user *entities.User) error

	// GetByID retrieves a user by its ID
	GetByID(ctx context.Context, id string) (*entities.User, error)

	// GetByUsername retrieves a user by username
	GetByUsername(ctx context.Context, username string) (*entities.User, error)

	// GetByEmail retrieves a user by email
	GetByEmail(ctx context.Context, email string) (*entities.User, error)

	// Update persists profile changes. prevUsername and prevEmail identify
	// the uniqueness markers to release when either field changed.
	Update(ctx context.Context, user *entities.User, prevUsername, prevEmail string) error
}

// QuestionRepository defines the interface for question persistence
type QuestionRepository interface {
	// Create persists a new question
	Create(ctx context.Context, question *entities.Question) error

	// GetByID retrieves a question by its ID
	GetByID(ctx context.Context, id string) (*entities.Question, error)

	// List retrieves all questions ordered by creation time descending.
	// Filtering, sorting, and pagination happen in the service layer.
	List(ctx context.Context) ([]*entities.Question, error)

	// ListByAuthor retrieves a user's questions, newest first
	ListByAuthor(ctx context.Context, authorID string) ([]*entities.Question, error)

	// Update persists content edits guarded by the question's version
	Update(ctx context.Context, question *entities.Question) error

	// UpdateVotes persists the vote ledger and score as a single
	// conditional write guarded by the question's version. Fails with a
	// conflict error when a concurrent vote won the race.
	UpdateVotes(ctx context.Context, question *entities.Question) error

	// IncrementViewCount atomically bumps the view counter
	IncrementViewCount(ctx context.Context, id string) error

	// AdjustAnswerCount atomically adds delta to the denormalized answer
	// counter
	AdjustAnswerCount(ctx context.Context, id string, delta int) error

	// Delete removes the question record. Child answers are deleted
	// separately, before the question (see AnswerRepository.DeleteByQuestion).
	Delete(ctx context.Context, id string) error
}

// AnswerRepository defines the interface for answer persistence.
// Answers live in their parent question's partition so acceptance
// exclusivity and cascade deletion stay partition-scoped.
type AnswerRepository interface {
	// Create persists a new answer
	Create(ctx context.Context, answer *entities.Answer) error

	// GetByID retrieves an answer by its ID alone
	GetByID(ctx context.Context, id string) (*entities.Answer, error)

	// ListByQuestion retrieves all answers for a question
	ListByQuestion(ctx context.Context, questionID string) ([]*entities.Answer, error)

	// ListByAuthor retrieves a user's answers, newest first
	ListByAuthor(ctx context.Context, authorID string) ([]*entities.Answer, error)

	// Update persists content or comment edits guarded by the answer's
	// version
	Update(ctx context.Context, answer *entities.Answer) error

	// UpdateVotes persists the vote ledger and score as a single
	// conditional write guarded by the answer's version
	UpdateVotes(ctx context.Context, answer *entities.Answer) error

	// AcceptExclusive atomically clears the accepted flag on every other
	// answer of the question and sets it on answerID, in one transaction.
	// No intermediate state with two accepted answers is observable.
	AcceptExclusive(ctx context.Context, questionID, answerID string) error

	// SetAccepted sets the accepted flag on a single answer without an
	// exclusivity pass (used for unaccepting)
	SetAccepted(ctx context.Context, questionID, answerID string, accepted bool) error

	// Delete removes one answer
	Delete(ctx context.Context, questionID, answerID string) error

	// DeleteByQuestion removes all answers of a question
	DeleteByQuestion(ctx context.Context, questionID string) error
}

// NotificationRepository defines the interface for notification persistence
type NotificationRepository interface {
	// Create persists a notification
	Create(ctx context.Context, notification *entities.Notification) error

	// ListByRecipient retrieves a user's notifications, newest first,
	// optionally restricted to unread ones
	ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool) ([]*entities.Notification, error)

	// MarkRead marks one notification read; recipient-scoped
	MarkRead(ctx context.Context, recipientID, notificationID string) error

	// MarkAllRead marks all of a recipient's notifications read
	MarkAllRead(ctx context.Context, recipientID string) error

	// Delete removes one notification; recipient-scoped
	Delete(ctx context.Context, recipientID, notificationID string) error
}
