package services

import (
	"context"

	"go.uber.org/zap"

	"qaforum/application/ports"
	"qaforum/domain/core/entities"
	"qaforum/pkg/common"
	pkgerrors "qaforum/pkg/errors"
)

// UserProfile is a user's public profile with derived activity stats
type UserProfile struct {
	User          *entities.User `json:"user"`
	QuestionCount int            `json:"questionCount"`
	AnswerCount   int            `json:"answerCount"`
	Stats         *VoteStats     `json:"stats"`
}

// UserService serves user profiles and profile edits
type UserService struct {
	userRepo     ports.UserRepository
	questionRepo ports.QuestionRepository
	answerRepo   ports.AnswerRepository
	votes        *VoteService
	logger       *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(
	userRepo ports.UserRepository,
	questionRepo ports.QuestionRepository,
	answerRepo ports.AnswerRepository,
	votes *VoteService,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:     userRepo,
		questionRepo: questionRepo,
		answerRepo:   answerRepo,
		votes:        votes,
		logger:       logger,
	}
}

// GetProfile returns a user's profile with derived stats
func (s *UserService) GetProfile(ctx context.Context, userID string) (*UserProfile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	questions, err := s.questionRepo.ListByAuthor(ctx, userID)
	if err != nil {
		return nil, err
	}
	answers, err := s.answerRepo.ListByAuthor(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats, err := s.votes.UserVoteStats(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &UserProfile{
		User:          user,
		QuestionCount: len(questions),
		AnswerCount:   len(answers),
		Stats:         stats,
	}, nil
}

// UpdateProfile edits a user's own profile. Blank fields are left
// untouched; username and email stay unique.
func (s *UserService) UpdateProfile(ctx context.Context, userID, requesterID, username, email, bio, avatar string) (*entities.User, error) {
	if userID != requesterID {
		return nil, pkgerrors.NewForbiddenError("you can only edit your own profile")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	prevUsername := user.Username
	prevEmail := user.Email
	if err := user.UpdateProfile(username, email, bio, avatar); err != nil {
		return nil, err
	}

	if err := s.userRepo.Update(ctx, user, prevUsername, prevEmail); err != nil {
		return nil, err
	}

	return user, nil
}

// ListQuestions returns one page of a user's questions, newest first
func (s *UserService) ListQuestions(ctx context.Context, userID string, params common.PaginationParams) ([]*entities.Question, *common.PaginationInfo, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, nil, err
	}

	questions, err := s.questionRepo.ListByAuthor(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	total := len(questions)
	return common.PageSlice(questions, params), common.BuildPaginationInfo(params.Page, params.PageSize, total), nil
}

// ListAnswers returns one page of a user's answers, newest first
func (s *UserService) ListAnswers(ctx context.Context, userID string, params common.PaginationParams) ([]*entities.Answer, *common.PaginationInfo, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, nil, err
	}

	answers, err := s.answerRepo.ListByAuthor(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	total := len(answers)
	return common.PageSlice(answers, params), common.BuildPaginationInfo(params.Page, params.PageSize, total), nil
}
