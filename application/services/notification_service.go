package services

import (
	"context"

	"go.uber.org/zap"

	"qaforum/application/ports"
	"qaforum/domain/core/entities"
	"qaforum/pkg/common"
	"qaforum/pkg/observability"
)

// NotificationService emits notifications for forum activity and serves a
// recipient's notification feed. Emission is best-effort: a failed write is
// logged and never fails the operation that triggered it. Nothing here
// emits notifications for votes.
type NotificationService struct {
	notificationRepo ports.NotificationRepository
	metrics          *observability.Metrics
	logger           *zap.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(
	notificationRepo ports.NotificationRepository,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		metrics:          metrics,
		logger:           logger,
	}
}

// NotificationFeed is one page of a recipient's notifications
type NotificationFeed struct {
	Notifications []*entities.Notification `json:"notifications"`
	UnreadCount   int                      `json:"unreadCount"`
	Pagination    *common.PaginationInfo   `json:"pagination"`
}

// NotifyAnswerCreated tells a question author their question was answered.
// Self-answers produce no notification.
func (s *NotificationService) NotifyAnswerCreated(ctx context.Context, question *entities.Question, answer *entities.Answer, answererName string) {
	if answer.AuthorID == question.AuthorID {
		return
	}
	s.emit(ctx, entities.NewAnswerNotification(question, answer, answererName))
}

// NotifyAnswerAccepted tells an answer author their answer was accepted.
// Accepting one's own answer produces no notification.
func (s *NotificationService) NotifyAnswerAccepted(ctx context.Context, question *entities.Question, answer *entities.Answer) {
	if answer.AuthorID == question.AuthorID {
		return
	}
	s.emit(ctx, entities.NewAcceptNotification(question, answer))
}

// NotifyCommentAdded tells an answer author someone commented on their
// answer. Commenting on one's own answer produces no notification.
func (s *NotificationService) NotifyCommentAdded(ctx context.Context, answer *entities.Answer, commenterID, commenterName string) {
	if commenterID == answer.AuthorID {
		return
	}
	s.emit(ctx, entities.NewCommentNotification(answer, commenterID, commenterName))
}

func (s *NotificationService) emit(ctx context.Context, notification *entities.Notification) {
	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		s.logger.Warn("Failed to emit notification",
			zap.String("type", string(notification.Type)),
			zap.String("recipientID", notification.RecipientID),
			zap.Error(err),
		)
		return
	}
	s.metrics.NotificationEmitted(string(notification.Type))
}

// List returns one page of the recipient's notifications, newest first,
// along with the recipient's total unread count
func (s *NotificationService) List(ctx context.Context, recipientID string, unreadOnly bool, params common.PaginationParams) (*NotificationFeed, error) {
	notifications, err := s.notificationRepo.ListByRecipient(ctx, recipientID, unreadOnly)
	if err != nil {
		return nil, err
	}

	unread := 0
	if unreadOnly {
		unread = len(notifications)
	} else {
		for _, n := range notifications {
			if !n.IsRead {
				unread++
			}
		}
	}

	total := len(notifications)
	return &NotificationFeed{
		Notifications: common.PageSlice(notifications, params),
		UnreadCount:   unread,
		Pagination:    common.BuildPaginationInfo(params.Page, params.PageSize, total),
	}, nil
}

// MarkRead marks one of the recipient's notifications read
func (s *NotificationService) MarkRead(ctx context.Context, recipientID, notificationID string) error {
	return s.notificationRepo.MarkRead(ctx, recipientID, notificationID)
}

// MarkAllRead marks all of the recipient's notifications read
func (s *NotificationService) MarkAllRead(ctx context.Context, recipientID string) error {
	return s.notificationRepo.MarkAllRead(ctx, recipientID)
}

// Delete removes one of the recipient's notifications
func (s *NotificationService) Delete(ctx context.Context, recipientID, notificationID string) error {
	return s.notificationRepo.Delete(ctx, recipientID, notificationID)
}
