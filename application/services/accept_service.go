package services

import (
	"context"

	"go.uber.org/zap"

	"qaforum/application/ports"
	"qaforum/domain/core/entities"
	"qaforum/domain/events"
	pkgerrors "qaforum/pkg/errors"
	"qaforum/pkg/observability"
)

// AcceptanceService marks answers as accepted. At most one answer per
// question carries the accepted flag; the exclusivity pass is a single
// transaction in the repository.
type AcceptanceService struct {
	answerRepo     ports.AnswerRepository
	questionRepo   ports.QuestionRepository
	notifications  *NotificationService
	eventPublisher ports.EventPublisher
	metrics        *observability.Metrics
	logger         *zap.Logger
}

// NewAcceptanceService creates a new acceptance service
func NewAcceptanceService(
	answerRepo ports.AnswerRepository,
	questionRepo ports.QuestionRepository,
	notifications *NotificationService,
	eventPublisher ports.EventPublisher,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *AcceptanceService {
	return &AcceptanceService{
		answerRepo:     answerRepo,
		questionRepo:   questionRepo,
		notifications:  notifications,
		eventPublisher: eventPublisher,
		metrics:        metrics,
		logger:         logger,
	}
}

// Accept marks an answer as the question's accepted one, clearing the flag
// on any previously accepted answer. Only the question author may accept.
func (s *AcceptanceService) Accept(ctx context.Context, questionID, answerID, userID string) (*entities.Answer, error) {
	question, answer, err := s.load(ctx, questionID, answerID, userID)
	if err != nil {
		return nil, err
	}

	if err := s.answerRepo.AcceptExclusive(ctx, questionID, answerID); err != nil {
		return nil, err
	}
	answer.IsAccepted = true

	s.notifications.NotifyAnswerAccepted(ctx, question, answer)
	s.publish(ctx, events.NewAnswerAccepted(questionID, answerID, true))
	s.metrics.AnswerAccepted(true)

	s.logger.Info("Answer accepted",
		zap.String("questionID", questionID),
		zap.String("answerID", answerID),
	)

	return answer, nil
}

// Unaccept clears the accepted flag from an answer. Only the question
// author may unaccept.
func (s *AcceptanceService) Unaccept(ctx context.Context, questionID, answerID, userID string) (*entities.Answer, error) {
	_, answer, err := s.load(ctx, questionID, answerID, userID)
	if err != nil {
		return nil, err
	}

	if err := s.answerRepo.SetAccepted(ctx, questionID, answerID, false); err != nil {
		return nil, err
	}
	answer.IsAccepted = false

	s.publish(ctx, events.NewAnswerAccepted(questionID, answerID, false))
	s.metrics.AnswerAccepted(false)

	return answer, nil
}

// load fetches the question and answer and checks that userID may change
// acceptance state
func (s *AcceptanceService) load(ctx context.Context, questionID, answerID, userID string) (*entities.Question, *entities.Answer, error) {
	question, err := s.questionRepo.GetByID(ctx, questionID)
	if err != nil {
		return nil, nil, err
	}
	if !question.IsAuthor(userID) {
		return nil, nil, pkgerrors.NewForbiddenError("only the question author can accept answers")
	}

	answer, err := s.answerRepo.GetByID(ctx, answerID)
	if err != nil {
		return nil, nil, err
	}
	if answer.QuestionID != questionID {
		return nil, nil, pkgerrors.NewValidationError("answer does not belong to this question")
	}

	return question, answer, nil
}

func (s *AcceptanceService) publish(ctx context.Context, event events.DomainEvent) {
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
