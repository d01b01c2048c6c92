package services

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"qaforum/application/ports"
	"qaforum/domain/core/entities"
	"qaforum/domain/events"
	"qaforum/pkg/common"
	pkgerrors "qaforum/pkg/errors"
)

// Question list sort orders
const (
	SortLatest      = "latest"
	SortOldest      = "oldest"
	SortMostAnswers = "most-answers"
	SortMostVotes   = "most-votes"
)

// ListQuestionsParams narrows and orders the question listing
type ListQuestionsParams struct {
	Search     string
	Tag        string
	Pagination common.PaginationParams
}

// QuestionService handles the question lifecycle
type QuestionService struct {
	questionRepo   ports.QuestionRepository
	answerRepo     ports.AnswerRepository
	eventPublisher ports.EventPublisher
	logger         *zap.Logger
}

// NewQuestionService creates a new question service
func NewQuestionService(
	questionRepo ports.QuestionRepository,
	answerRepo ports.AnswerRepository,
	eventPublisher ports.EventPublisher,
	logger *zap.Logger,
) *QuestionService {
	return &QuestionService{
		questionRepo:   questionRepo,
		answerRepo:     answerRepo,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// Create posts a new question
func (s *QuestionService) Create(ctx context.Context, authorID, title, description string, tags []string) (*entities.Question, error) {
	question, err := entities.NewQuestion(authorID, title, description, tags)
	if err != nil {
		return nil, err
	}

	if err := s.questionRepo.Create(ctx, question); err != nil {
		return nil, err
	}

	s.publish(ctx, events.NewQuestionCreated(question.ID, question.AuthorID, question.Tags))

	s.logger.Info("Question created",
		zap.String("questionID", question.ID),
		zap.String("authorID", authorID),
	)

	return question, nil
}

// List returns one page of questions after applying search, tag filter,
// and sort order in memory
func (s *QuestionService) List(ctx context.Context, params ListQuestionsParams) ([]*entities.Question, *common.PaginationInfo, error) {
	questions, err := s.questionRepo.List(ctx)
	if err != nil {
		return nil, nil, err
	}

	questions = filterQuestions(questions, params.Search, params.Tag)
	sortQuestions(questions, params.Pagination.Sort)

	total := len(questions)
	page := common.PageSlice(questions, params.Pagination)
	return page, common.BuildPaginationInfo(params.Pagination.Page, params.Pagination.PageSize, total), nil
}

// Get retrieves a question and records the view. The returned entity
// reflects the incremented view count; counter failures are logged and
// don't fail the read.
func (s *QuestionService) Get(ctx context.Context, id string) (*entities.Question, error) {
	question, err := s.questionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.questionRepo.IncrementViewCount(ctx, id); err != nil {
		s.logger.Warn("Failed to increment view count", zap.String("questionID", id), zap.Error(err))
	} else {
		question.ViewCount++
	}

	return question, nil
}

// Update edits a question's content. Only the author may edit; blank fields
// are left untouched.
func (s *QuestionService) Update(ctx context.Context, questionID, userID, title, description string, tags []string) (*entities.Question, error) {
	question, err := s.questionRepo.GetByID(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if !question.IsAuthor(userID) {
		return nil, pkgerrors.NewForbiddenError("only the author can edit this question")
	}

	if err := question.Update(title, description, tags); err != nil {
		return nil, err
	}

	if err := s.questionRepo.Update(ctx, question); err != nil {
		return nil, err
	}

	return question, nil
}

// Delete removes a question and all of its answers. Only the author may
// delete. Answers go first so a failure never leaves orphaned answers
// behind a missing question.
func (s *QuestionService) Delete(ctx context.Context, questionID, userID string) error {
	question, err := s.questionRepo.GetByID(ctx, questionID)
	if err != nil {
		return err
	}
	if !question.IsAuthor(userID) {
		return pkgerrors.NewForbiddenError("only the author can delete this question")
	}

	if err := s.answerRepo.DeleteByQuestion(ctx, questionID); err != nil {
		return err
	}
	if err := s.questionRepo.Delete(ctx, questionID); err != nil {
		return err
	}

	s.logger.Info("Question deleted",
		zap.String("questionID", questionID),
		zap.String("userID", userID),
	)

	return nil
}

func (s *QuestionService) publish(ctx context.Context, event events.DomainEvent) {
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

func filterQuestions(questions []*entities.Question, search, tag string) []*entities.Question {
	if search == "" && tag == "" {
		return questions
	}

	search = strings.ToLower(strings.TrimSpace(search))
	filtered := make([]*entities.Question, 0, len(questions))
	for _, q := range questions {
		if tag != "" && !q.HasTag(tag) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(q.Title), search) &&
			!strings.Contains(strings.ToLower(q.Description), search) {
			continue
		}
		filtered = append(filtered, q)
	}
	return filtered
}

// sortQuestions orders the listing. The repository returns newest first,
// so the default order needs no pass.
func sortQuestions(questions []*entities.Question, order string) {
	switch order {
	case SortOldest:
		sort.SliceStable(questions, func(i, j int) bool {
			return questions[i].CreatedAt.Before(questions[j].CreatedAt)
		})
	case SortMostAnswers:
		sort.SliceStable(questions, func(i, j int) bool {
			return questions[i].AnswerCount > questions[j].AnswerCount
		})
	case SortMostVotes:
		sort.SliceStable(questions, func(i, j int) bool {
			return questions[i].Score > questions[j].Score
		})
	default:
		sort.SliceStable(questions, func(i, j int) bool {
			return questions[i].CreatedAt.After(questions[j].CreatedAt)
		})
	}
}
