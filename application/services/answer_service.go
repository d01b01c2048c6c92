package services

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"qaforum/application/ports"
	"qaforum/domain/core/entities"
	"qaforum/domain/events"
	"qaforum/pkg/common"
	pkgerrors "qaforum/pkg/errors"
)

// Answer list sort orders. The default puts the accepted answer first,
// then ranks by score.
const (
	AnswerSortAccepted = "accepted"
	AnswerSortVotes    = "votes"
	AnswerSortNewest   = "newest"
	AnswerSortOldest   = "oldest"
)

// AnswerService handles the answer lifecycle, embedded comments, and the
// question's denormalized answer counter
type AnswerService struct {
	answerRepo     ports.AnswerRepository
	questionRepo   ports.QuestionRepository
	userRepo       ports.UserRepository
	notifications  *NotificationService
	eventPublisher ports.EventPublisher
	logger         *zap.Logger
}

// NewAnswerService creates a new answer service
func NewAnswerService(
	answerRepo ports.AnswerRepository,
	questionRepo ports.QuestionRepository,
	userRepo ports.UserRepository,
	notifications *NotificationService,
	eventPublisher ports.EventPublisher,
	logger *zap.Logger,
) *AnswerService {
	return &AnswerService{
		answerRepo:     answerRepo,
		questionRepo:   questionRepo,
		userRepo:       userRepo,
		notifications:  notifications,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// Create posts a new answer to a question, bumps the question's answer
// counter, and notifies the question author
func (s *AnswerService) Create(ctx context.Context, questionID, authorID, content string) (*entities.Answer, error) {
	question, err := s.questionRepo.GetByID(ctx, questionID)
	if err != nil {
		return nil, err
	}

	answer, err := entities.NewAnswer(questionID, authorID, content)
	if err != nil {
		return nil, err
	}

	if err := s.answerRepo.Create(ctx, answer); err != nil {
		return nil, err
	}

	if err := s.questionRepo.AdjustAnswerCount(ctx, questionID, 1); err != nil {
		s.logger.Warn("Failed to bump answer count", zap.String("questionID", questionID), zap.Error(err))
	}

	s.notifications.NotifyAnswerCreated(ctx, question, answer, s.displayName(ctx, authorID))
	s.publish(ctx, events.NewAnswerCreated(questionID, answer.ID, authorID))

	s.logger.Info("Answer created",
		zap.String("answerID", answer.ID),
		zap.String("questionID", questionID),
		zap.String("authorID", authorID),
	)

	return answer, nil
}

// ListByQuestion returns one page of a question's answers in the requested
// order
func (s *AnswerService) ListByQuestion(ctx context.Context, questionID string, params common.PaginationParams) ([]*entities.Answer, *common.PaginationInfo, error) {
	if _, err := s.questionRepo.GetByID(ctx, questionID); err != nil {
		return nil, nil, err
	}

	answers, err := s.answerRepo.ListByQuestion(ctx, questionID)
	if err != nil {
		return nil, nil, err
	}

	sortAnswers(answers, params.Sort)

	total := len(answers)
	page := common.PageSlice(answers, params)
	return page, common.BuildPaginationInfo(params.Page, params.PageSize, total), nil
}

// Get retrieves an answer by its ID
func (s *AnswerService) Get(ctx context.Context, answerID string) (*entities.Answer, error) {
	return s.answerRepo.GetByID(ctx, answerID)
}

// Update edits an answer's content. Only the author may edit.
func (s *AnswerService) Update(ctx context.Context, answerID, userID, content string) (*entities.Answer, error) {
	answer, err := s.answerRepo.GetByID(ctx, answerID)
	if err != nil {
		return nil, err
	}
	if !answer.IsAuthor(userID) {
		return nil, pkgerrors.NewForbiddenError("only the author can edit this answer")
	}

	if err := answer.UpdateContent(content); err != nil {
		return nil, err
	}

	if err := s.answerRepo.Update(ctx, answer); err != nil {
		return nil, err
	}

	return answer, nil
}

// Delete removes an answer and decrements the question's answer counter.
// Only the author may delete.
func (s *AnswerService) Delete(ctx context.Context, answerID, userID string) error {
	answer, err := s.answerRepo.GetByID(ctx, answerID)
	if err != nil {
		return err
	}
	if !answer.IsAuthor(userID) {
		return pkgerrors.NewForbiddenError("only the author can delete this answer")
	}

	if err := s.answerRepo.Delete(ctx, answer.QuestionID, answerID); err != nil {
		return err
	}

	if err := s.questionRepo.AdjustAnswerCount(ctx, answer.QuestionID, -1); err != nil {
		s.logger.Warn("Failed to drop answer count", zap.String("questionID", answer.QuestionID), zap.Error(err))
	}

	s.logger.Info("Answer deleted",
		zap.String("answerID", answerID),
		zap.String("userID", userID),
	)

	return nil
}

// AddComment embeds a comment in an answer and notifies the answer author
func (s *AnswerService) AddComment(ctx context.Context, answerID, userID, content string) (*entities.Answer, error) {
	answer, err := s.answerRepo.GetByID(ctx, answerID)
	if err != nil {
		return nil, err
	}

	if _, err := answer.AddComment(userID, content); err != nil {
		return nil, err
	}

	if err := s.answerRepo.Update(ctx, answer); err != nil {
		return nil, err
	}

	s.notifications.NotifyCommentAdded(ctx, answer, userID, s.displayName(ctx, userID))

	return answer, nil
}

// displayName resolves a user's username for notification text, falling
// back to a neutral label when the lookup fails
func (s *AnswerService) displayName(ctx context.Context, userID string) string {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return "Someone"
	}
	return user.Username
}

func (s *AnswerService) publish(ctx context.Context, event events.DomainEvent) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish event",
			zap.String("eventType", event.GetEventType()),
			zap.Error(err),
		)
	}
}

func sortAnswers(answers []*entities.Answer, order string) {
	switch order {
	case AnswerSortVotes:
		sort.SliceStable(answers, func(i, j int) bool {
			return answers[i].Score > answers[j].Score
		})
	case AnswerSortNewest:
		sort.SliceStable(answers, func(i, j int) bool {
			return answers[i].CreatedAt.After(answers[j].CreatedAt)
		})
	case AnswerSortOldest:
		sort.SliceStable(answers, func(i, j int) bool {
			return answers[i].CreatedAt.Before(answers[j].CreatedAt)
		})
	default:
		// Accepted answer first, then by score, then newest.
		sort.SliceStable(answers, func(i, j int) bool {
			if answers[i].IsAccepted != answers[j].IsAccepted {
				return answers[i].IsAccepted
			}
			if answers[i].Score != answers[j].Score {
				return answers[i].Score > answers[j].Score
			}
			return answers[i].CreatedAt.After(answers[j].CreatedAt)
		})
	}
}
