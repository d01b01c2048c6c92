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

// Vote target types
const (
	TargetQuestion = "question"
	TargetAnswer   = "answer"
)

// maxVoteRetries bounds the optimistic retry loop when concurrent votes
// race on the same target
const maxVoteRetries = 3

// Reputation weights. Reputation is derived on demand, never stored.
const (
	reputationPerUpvote   = 10
	reputationPerDownvote = -2
	reputationPerAccept   = 15
)

// VoteResult is the outcome of applying a vote: the target's new score and
// the voter's resulting direction (nil when the vote was toggled off)
type VoteResult struct {
	TargetType string                  `json:"targetType"`
	TargetID   string                  `json:"targetId"`
	Score      int                     `json:"score"`
	UserVote   *entities.VoteDirection `json:"userVote"`
}

// VoteStats aggregates the votes a user's content has received
type VoteStats struct {
	UpvotesReceived   int `json:"upvotesReceived"`
	DownvotesReceived int `json:"downvotesReceived"`
	AcceptedAnswers   int `json:"acceptedAnswers"`
	Reputation        int `json:"reputation"`
}

// VoteService applies toggle-semantics votes to questions and answers.
// Each vote is one conditional write; a lost race against a concurrent
// voter is retried on a fresh read.
type VoteService struct {
	questionRepo   ports.QuestionRepository
	answerRepo     ports.AnswerRepository
	eventPublisher ports.EventPublisher
	metrics        *observability.Metrics
	logger         *zap.Logger
}

// NewVoteService creates a new vote service
func NewVoteService(
	questionRepo ports.QuestionRepository,
	answerRepo ports.AnswerRepository,
	eventPublisher ports.EventPublisher,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *VoteService {
	return &VoteService{
		questionRepo:   questionRepo,
		answerRepo:     answerRepo,
		eventPublisher: eventPublisher,
		metrics:        metrics,
		logger:         logger,
	}
}

// Apply casts, switches, or removes a vote on a question or answer.
// Voting the same direction twice removes the vote; voting the opposite
// direction switches it.
func (s *VoteService) Apply(ctx context.Context, targetType, targetID, voterID string, direction entities.VoteDirection) (*VoteResult, error) {
	if !entities.ValidDirection(direction) {
		return nil, pkgerrors.NewValidationError("direction must be upvote or downvote")
	}

	var result *VoteResult
	var err error
	switch targetType {
	case TargetQuestion:
		result, err = s.applyToQuestion(ctx, targetID, voterID, direction)
	case TargetAnswer:
		result, err = s.applyToAnswer(ctx, targetID, voterID, direction)
	default:
		return nil, pkgerrors.NewValidationError("target type must be question or answer")
	}
	if err != nil {
		return nil, err
	}

	outcome := "removed"
	if result.UserVote != nil {
		outcome = string(*result.UserVote)
	}
	s.metrics.VoteCast(targetType, outcome)

	dir := ""
	if result.UserVote != nil {
		dir = string(*result.UserVote)
	}
	s.publish(ctx, events.NewVoteCast(targetType, targetID, voterID, dir, result.Score))

	return result, nil
}

func (s *VoteService) applyToQuestion(ctx context.Context, questionID, voterID string, direction entities.VoteDirection) (*VoteResult, error) {
	var lastErr error
	for attempt := 0; attempt < maxVoteRetries; attempt++ {
		question, err := s.questionRepo.GetByID(ctx, questionID)
		if err != nil {
			return nil, err
		}

		userVote, err := question.ApplyVote(voterID, direction)
		if err != nil {
			return nil, err
		}

		err = s.questionRepo.UpdateVotes(ctx, question)
		if err == nil {
			return &VoteResult{
				TargetType: TargetQuestion,
				TargetID:   questionID,
				Score:      question.Score,
				UserVote:   userVote,
			}, nil
		}
		if !pkgerrors.IsConflict(err) {
			return nil, err
		}
		lastErr = err
		s.logger.Debug("Vote write conflicted, retrying",
			zap.String("questionID", questionID),
			zap.Int("attempt", attempt+1),
		)
	}
	return nil, lastErr
}

func (s *VoteService) applyToAnswer(ctx context.Context, answerID, voterID string, direction entities.VoteDirection) (*VoteResult, error) {
	var lastErr error
	for attempt := 0; attempt < maxVoteRetries; attempt++ {
		answer, err := s.answerRepo.GetByID(ctx, answerID)
		if err != nil {
			return nil, err
		}

		userVote, err := answer.ApplyVote(voterID, direction)
		if err != nil {
			return nil, err
		}

		err = s.answerRepo.UpdateVotes(ctx, answer)
		if err == nil {
			return &VoteResult{
				TargetType: TargetAnswer,
				TargetID:   answerID,
				Score:      answer.Score,
				UserVote:   userVote,
			}, nil
		}
		if !pkgerrors.IsConflict(err) {
			return nil, err
		}
		lastErr = err
		s.logger.Debug("Vote write conflicted, retrying",
			zap.String("answerID", answerID),
			zap.Int("attempt", attempt+1),
		)
	}
	return nil, lastErr
}

// GetVotesForQuestion returns the voter's current directions on a question
// and each of its answers, keyed by target ID. Targets without a vote are
// absent.
func (s *VoteService) GetVotesForQuestion(ctx context.Context, voterID, questionID string) (map[string]entities.VoteDirection, error) {
	question, err := s.questionRepo.GetByID(ctx, questionID)
	if err != nil {
		return nil, err
	}
	answers, err := s.answerRepo.ListByQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}

	votes := make(map[string]entities.VoteDirection)
	if d := question.Votes.DirectionFor(voterID); d != nil {
		votes[question.ID] = *d
	}
	for _, answer := range answers {
		if d := answer.Votes.DirectionFor(voterID); d != nil {
			votes[answer.ID] = *d
		}
	}

	return votes, nil
}

// UserVoteStats aggregates the votes received across a user's questions
// and answers and derives their reputation
func (s *VoteService) UserVoteStats(ctx context.Context, userID string) (*VoteStats, error) {
	questions, err := s.questionRepo.ListByAuthor(ctx, userID)
	if err != nil {
		return nil, err
	}
	answers, err := s.answerRepo.ListByAuthor(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &VoteStats{}
	tally := func(ledger entities.VoteLedger) {
		for _, v := range ledger {
			if v.Direction == entities.Upvote {
				stats.UpvotesReceived++
			} else {
				stats.DownvotesReceived++
			}
		}
	}

	for _, q := range questions {
		tally(q.Votes)
	}
	for _, a := range answers {
		tally(a.Votes)
		if a.IsAccepted {
			stats.AcceptedAnswers++
		}
	}

	stats.Reputation = stats.UpvotesReceived*reputationPerUpvote +
		stats.DownvotesReceived*reputationPerDownvote +
		stats.AcceptedAnswers*reputationPerAccept

	return stats, nil
}

func (s *VoteService) publish(ctx context.Context, event events.DomainEvent) {
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
