package services

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"qaforum/application/ports"
	"qaforum/domain/core/entities"
	"qaforum/pkg/common"
	pkgerrors "qaforum/pkg/errors"
)

// TagCount is a tag with the number of questions carrying it
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// TagService aggregates tags across the question corpus. Tags have no
// storage of their own; they exist only on questions.
type TagService struct {
	questionRepo ports.QuestionRepository
	logger       *zap.Logger
}

// NewTagService creates a new tag service
func NewTagService(questionRepo ports.QuestionRepository, logger *zap.Logger) *TagService {
	return &TagService{
		questionRepo: questionRepo,
		logger:       logger,
	}
}

// List returns every tag in use with its question count, most used first.
// Ties break alphabetically so the ordering is stable.
func (s *TagService) List(ctx context.Context) ([]TagCount, error) {
	questions, err := s.questionRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, q := range questions {
		for _, tag := range q.Tags {
			counts[tag]++
		}
	}

	tags := make([]TagCount, 0, len(counts))
	for tag, count := range counts {
		tags = append(tags, TagCount{Tag: tag, Count: count})
	}
	sort.Slice(tags, func(i, j int) bool {
		if tags[i].Count != tags[j].Count {
			return tags[i].Count > tags[j].Count
		}
		return tags[i].Tag < tags[j].Tag
	})

	return tags, nil
}

// Get returns one page of the questions carrying a tag, newest first
func (s *TagService) Get(ctx context.Context, tag string, params common.PaginationParams) ([]*entities.Question, *common.PaginationInfo, error) {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if tag == "" {
		return nil, nil, pkgerrors.NewValidationError("tag is required")
	}

	questions, err := s.questionRepo.List(ctx)
	if err != nil {
		return nil, nil, err
	}

	tagged := make([]*entities.Question, 0)
	for _, q := range questions {
		if q.HasTag(tag) {
			tagged = append(tagged, q)
		}
	}

	total := len(tagged)
	return common.PageSlice(tagged, params), common.BuildPaginationInfo(params.Page, params.PageSize, total), nil
}
