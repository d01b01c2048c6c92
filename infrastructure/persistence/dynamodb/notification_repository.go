package dynamodb

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"qaforum/application/ports"
	"qaforum/domain/core/entities"
	pkgerrors "qaforum/pkg/errors"
)

// NotificationRepository implements ports.NotificationRepository using
// DynamoDB. Notifications live in their recipient's partition with a
// time-ordered sort key, so listing newest-first is a reverse range query.
type NotificationRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) ports.NotificationRepository {
	return &NotificationRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// notificationItem represents the DynamoDB item structure for a notification
type notificationItem struct {
	PK              string `dynamodbav:"PK"`
	SK              string `dynamodbav:"SK"`
	EntityType      string `dynamodbav:"EntityType"`
	NotificationID  string `dynamodbav:"NotificationID"`
	RecipientID     string `dynamodbav:"RecipientID"`
	SenderID        string `dynamodbav:"SenderID"`
	Type            string `dynamodbav:"Type"`
	Title           string `dynamodbav:"Title"`
	Message         string `dynamodbav:"Message"`
	RelatedQuestion string `dynamodbav:"RelatedQuestion,omitempty"`
	RelatedAnswer   string `dynamodbav:"RelatedAnswer,omitempty"`
	IsRead          bool   `dynamodbav:"IsRead"`
	Link            string `dynamodbav:"Link"`
	CreatedAt       string `dynamodbav:"CreatedAt"`
}

// Create persists a notification
func (r *NotificationRepository) Create(ctx context.Context, notification *entities.Notification) error {
	item, err := attributevalue.MarshalMap(r.toItem(notification))
	if err != nil {
		return pkgerrors.NewDatabaseError("marshal notification", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	if err != nil {
		r.logger.Error("Failed to create notification",
			zap.String("notificationID", notification.ID),
			zap.String("recipientID", notification.RecipientID),
			zap.Error(err),
		)
		return pkgerrors.NewDatabaseError("create notification", err)
	}

	return nil
}

// ListByRecipient retrieves a user's notifications, newest first
func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool) ([]*entities.Notification, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(userPK(recipientID))).
		And(expression.Key("SK").BeginsWith("NOTIF#"))
	builder := expression.NewBuilder().WithKeyCondition(keyCond)
	if unreadOnly {
		builder = builder.WithFilter(expression.Name("IsRead").Equal(expression.Value(false)))
	}
	expr, err := builder.Build()
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("build notification query", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(false),
	}

	var notifications []*entities.Notification
	var lastKey map[string]types.AttributeValue
	for {
		input.ExclusiveStartKey = lastKey
		result, err := r.client.Query(ctx, input)
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("query notifications", err)
		}

		for _, raw := range result.Items {
			var item notificationItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				return nil, pkgerrors.NewDatabaseError("unmarshal notification", err)
			}
			notification, err := r.fromItem(item)
			if err != nil {
				return nil, err
			}
			notifications = append(notifications, notification)
		}

		if result.LastEvaluatedKey == nil {
			break
		}
		lastKey = result.LastEvaluatedKey
	}

	return notifications, nil
}

// MarkRead marks one notification read; recipient-scoped
func (r *NotificationRepository) MarkRead(ctx context.Context, recipientID, notificationID string) error {
	sk, err := r.findSortKey(ctx, recipientID, notificationID)
	if err != nil {
		return err
	}

	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: userPK(recipientID)},
			"SK": &types.AttributeValueMemberS{Value: sk},
		},
		UpdateExpression:    aws.String("SET IsRead = :read"),
		ConditionExpression: aws.String("attribute_exists(PK)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":read": &types.AttributeValueMemberBOOL{Value: true},
		},
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return pkgerrors.NewNotFoundError("notification")
		}
		return pkgerrors.NewDatabaseError("mark notification read", err)
	}

	return nil
}

// MarkAllRead marks all of a recipient's unread notifications read
func (r *NotificationRepository) MarkAllRead(ctx context.Context, recipientID string) error {
	notifications, err := r.ListByRecipient(ctx, recipientID, true)
	if err != nil {
		return err
	}

	for _, notification := range notifications {
		_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
			TableName: aws.String(r.tableName),
			Key: map[string]types.AttributeValue{
				"PK": &types.AttributeValueMemberS{Value: userPK(recipientID)},
				"SK": &types.AttributeValueMemberS{Value: notificationSK(notification.CreatedAt, notification.ID)},
			},
			UpdateExpression: aws.String("SET IsRead = :read"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":read": &types.AttributeValueMemberBOOL{Value: true},
			},
		})
		if err != nil {
			r.logger.Error("Failed to mark notification read",
				zap.String("notificationID", notification.ID),
				zap.Error(err),
			)
			return pkgerrors.NewDatabaseError("mark notifications read", err)
		}
	}

	return nil
}

// Delete removes one notification; recipient-scoped
func (r *NotificationRepository) Delete(ctx context.Context, recipientID, notificationID string) error {
	sk, err := r.findSortKey(ctx, recipientID, notificationID)
	if err != nil {
		return err
	}

	_, err = r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: userPK(recipientID)},
			"SK": &types.AttributeValueMemberS{Value: sk},
		},
	})
	if err != nil {
		return pkgerrors.NewDatabaseError("delete notification", err)
	}

	return nil
}

// findSortKey locates a notification's full sort key within the recipient's
// partition. The sort key embeds the creation timestamp, which callers
// addressing a notification by ID alone don't have.
func (r *NotificationRepository) findSortKey(ctx context.Context, recipientID, notificationID string) (string, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(userPK(recipientID))).
		And(expression.Key("SK").BeginsWith("NOTIF#"))
	expr, err := expression.NewBuilder().
		WithKeyCondition(keyCond).
		WithFilter(expression.Name("NotificationID").Equal(expression.Value(notificationID))).
		Build()
	if err != nil {
		return "", pkgerrors.NewDatabaseError("build notification query", err)
	}

	var lastKey map[string]types.AttributeValue
	for {
		result, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(r.tableName),
			KeyConditionExpression:    expr.KeyCondition(),
			FilterExpression:          expr.Filter(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ExclusiveStartKey:         lastKey,
		})
		if err != nil {
			return "", pkgerrors.NewDatabaseError("find notification", err)
		}

		if len(result.Items) > 0 {
			var item notificationItem
			if err := attributevalue.UnmarshalMap(result.Items[0], &item); err != nil {
				return "", pkgerrors.NewDatabaseError("unmarshal notification", err)
			}
			if strings.HasPrefix(item.SK, "NOTIF#") {
				return item.SK, nil
			}
		}

		if result.LastEvaluatedKey == nil {
			return "", pkgerrors.NewNotFoundError("notification")
		}
		lastKey = result.LastEvaluatedKey
	}
}

func (r *NotificationRepository) toItem(notification *entities.Notification) notificationItem {
	return notificationItem{
		PK:              userPK(notification.RecipientID),
		SK:              notificationSK(notification.CreatedAt, notification.ID),
		EntityType:      entityTypeNotification,
		NotificationID:  notification.ID,
		RecipientID:     notification.RecipientID,
		SenderID:        notification.SenderID,
		Type:            string(notification.Type),
		Title:           notification.Title,
		Message:         notification.Message,
		RelatedQuestion: notification.RelatedQuestion,
		RelatedAnswer:   notification.RelatedAnswer,
		IsRead:          notification.IsRead,
		Link:            notification.Link,
		CreatedAt:       notification.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func (r *NotificationRepository) fromItem(item notificationItem) (*entities.Notification, error) {
	createdAt, err := time.Parse(time.RFC3339Nano, item.CreatedAt)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("parse notification timestamps", err)
	}

	return &entities.Notification{
		ID:              item.NotificationID,
		RecipientID:     item.RecipientID,
		SenderID:        item.SenderID,
		Type:            entities.NotificationType(item.Type),
		Title:           item.Title,
		Message:         item.Message,
		RelatedQuestion: item.RelatedQuestion,
		RelatedAnswer:   item.RelatedAnswer,
		IsRead:          item.IsRead,
		Link:            item.Link,
		CreatedAt:       createdAt,
	}, nil
}
