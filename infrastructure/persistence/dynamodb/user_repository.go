package dynamodb

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"qaforum/application/ports"
	"qaforum/domain/core/entities"
	pkgerrors "qaforum/pkg/errors"
)

// UserRepository implements ports.UserRepository using DynamoDB.
// Username and email uniqueness is enforced with marker items written in
// the same transaction as the profile item.
type UserRepository struct {
	client    *dynamodb.Client
	tableName string
	indexName string
	logger    *zap.Logger
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(client *dynamodb.Client, tableName, indexName string, logger *zap.Logger) ports.UserRepository {
	return &UserRepository{
		client:    client,
		tableName: tableName,
		indexName: indexName,
		logger:    logger,
	}
}

// userItem represents the DynamoDB item structure for a user profile
type userItem struct {
	PK           string `dynamodbav:"PK"`
	SK           string `dynamodbav:"SK"`
	GSI1PK       string `dynamodbav:"GSI1PK"`
	GSI1SK       string `dynamodbav:"GSI1SK"`
	EntityType   string `dynamodbav:"EntityType"`
	UserID       string `dynamodbav:"UserID"`
	Username     string `dynamodbav:"Username"`
	Email        string `dynamodbav:"Email"`
	PasswordHash string `dynamodbav:"PasswordHash"`
	Bio          string `dynamodbav:"Bio,omitempty"`
	Avatar       string `dynamodbav:"Avatar,omitempty"`
	CreatedAt    string `dynamodbav:"CreatedAt"`
	UpdatedAt    string `dynamodbav:"UpdatedAt"`
}

// markerItem reserves a unique username or email
type markerItem struct {
	PK     string `dynamodbav:"PK"`
	SK     string `dynamodbav:"SK"`
	UserID string `dynamodbav:"UserID"`
}

// Create persists a new user together with its uniqueness markers in one
// transaction; any taken username or email cancels the whole write.
func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	profile, err := attributevalue.MarshalMap(r.toItem(user))
	if err != nil {
		return pkgerrors.NewDatabaseError("marshal user", err)
	}
	usernameMarker, err := attributevalue.MarshalMap(markerItem{
		PK:     usernameMarkerPK(user.Username),
		SK:     skMarker,
		UserID: user.ID,
	})
	if err != nil {
		return pkgerrors.NewDatabaseError("marshal username marker", err)
	}
	emailMarker, err := attributevalue.MarshalMap(markerItem{
		PK:     emailMarkerPK(user.Email),
		SK:     skMarker,
		UserID: user.ID,
	})
	if err != nil {
		return pkgerrors.NewDatabaseError("marshal email marker", err)
	}

	notExists := aws.String("attribute_not_exists(PK)")
	_, err = r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Put: &types.Put{TableName: aws.String(r.tableName), Item: profile, ConditionExpression: notExists}},
			{Put: &types.Put{TableName: aws.String(r.tableName), Item: usernameMarker, ConditionExpression: notExists}},
			{Put: &types.Put{TableName: aws.String(r.tableName), Item: emailMarker, ConditionExpression: notExists}},
		},
	})
	if err != nil {
		var canceled *types.TransactionCanceledException
		if errors.As(err, &canceled) {
			return pkgerrors.NewConflictError("username or email already exists")
		}
		r.logger.Error("Failed to create user",
			zap.String("userID", user.ID),
			zap.Error(err),
		)
		return pkgerrors.NewDatabaseError("create user", err)
	}

	return nil
}

// GetByID retrieves a user by its ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*entities.User, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: userPK(id)},
			"SK": &types.AttributeValueMemberS{Value: skProfile},
		},
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get user", err)
	}
	if result.Item == nil {
		return nil, pkgerrors.NewNotFoundError("user")
	}

	var item userItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, pkgerrors.NewDatabaseError("unmarshal user", err)
	}

	return r.fromItem(item)
}

// GetByUsername retrieves a user by username via GSI1
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*entities.User, error) {
	result, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(r.indexName),
		KeyConditionExpression: aws.String("GSI1PK = :pk AND GSI1SK = :sk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: usernameGSI1PK(username)},
			":sk": &types.AttributeValueMemberS{Value: skProfile},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("query user by username", err)
	}
	if len(result.Items) == 0 {
		return nil, pkgerrors.NewNotFoundError("user")
	}

	var item userItem
	if err := attributevalue.UnmarshalMap(result.Items[0], &item); err != nil {
		return nil, pkgerrors.NewDatabaseError("unmarshal user", err)
	}

	return r.fromItem(item)
}

// GetByEmail resolves the email uniqueness marker to a user ID, then loads
// the profile
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: emailMarkerPK(email)},
			"SK": &types.AttributeValueMemberS{Value: skMarker},
		},
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get email marker", err)
	}
	if result.Item == nil {
		return nil, pkgerrors.NewNotFoundError("user")
	}

	var marker markerItem
	if err := attributevalue.UnmarshalMap(result.Item, &marker); err != nil {
		return nil, pkgerrors.NewDatabaseError("unmarshal email marker", err)
	}

	return r.GetByID(ctx, marker.UserID)
}

// Update persists profile changes, swapping uniqueness markers for any
// changed username or email in the same transaction
func (r *UserRepository) Update(ctx context.Context, user *entities.User, prevUsername, prevEmail string) error {
	profile, err := attributevalue.MarshalMap(r.toItem(user))
	if err != nil {
		return pkgerrors.NewDatabaseError("marshal user", err)
	}

	items := []types.TransactWriteItem{
		{Put: &types.Put{
			TableName:           aws.String(r.tableName),
			Item:                profile,
			ConditionExpression: aws.String("attribute_exists(PK)"),
		}},
	}

	if user.Username != prevUsername {
		swap, err := r.markerSwap(usernameMarkerPK(prevUsername), usernameMarkerPK(user.Username), user.ID)
		if err != nil {
			return err
		}
		items = append(items, swap...)
	}
	if user.Email != prevEmail {
		swap, err := r.markerSwap(emailMarkerPK(prevEmail), emailMarkerPK(user.Email), user.ID)
		if err != nil {
			return err
		}
		items = append(items, swap...)
	}

	_, err = r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
	if err != nil {
		var canceled *types.TransactionCanceledException
		if errors.As(err, &canceled) {
			return pkgerrors.NewConflictError("username or email already exists")
		}
		r.logger.Error("Failed to update user",
			zap.String("userID", user.ID),
			zap.Error(err),
		)
		return pkgerrors.NewDatabaseError("update user", err)
	}

	return nil
}

// markerSwap releases an old uniqueness marker and claims a new one
func (r *UserRepository) markerSwap(oldPK, newPK, userID string) ([]types.TransactWriteItem, error) {
	newMarker, err := attributevalue.MarshalMap(markerItem{PK: newPK, SK: skMarker, UserID: userID})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("marshal uniqueness marker", err)
	}
	return []types.TransactWriteItem{
		{Delete: &types.Delete{
			TableName: aws.String(r.tableName),
			Key: map[string]types.AttributeValue{
				"PK": &types.AttributeValueMemberS{Value: oldPK},
				"SK": &types.AttributeValueMemberS{Value: skMarker},
			},
		}},
		{Put: &types.Put{
			TableName:           aws.String(r.tableName),
			Item:                newMarker,
			ConditionExpression: aws.String("attribute_not_exists(PK)"),
		}},
	}, nil
}

func (r *UserRepository) toItem(user *entities.User) userItem {
	return userItem{
		PK:           userPK(user.ID),
		SK:           skProfile,
		GSI1PK:       usernameGSI1PK(user.Username),
		GSI1SK:       skProfile,
		EntityType:   entityTypeUser,
		UserID:       user.ID,
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Bio:          user.Bio,
		Avatar:       user.Avatar,
		CreatedAt:    user.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:    user.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func (r *UserRepository) fromItem(item userItem) (*entities.User, error) {
	createdAt, err := time.Parse(time.RFC3339Nano, item.CreatedAt)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("parse user timestamps", err)
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, item.UpdatedAt)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("parse user timestamps", err)
	}

	return &entities.User{
		ID:           item.UserID,
		Username:     item.Username,
		Email:        item.Email,
		PasswordHash: item.PasswordHash,
		Bio:          item.Bio,
		Avatar:       item.Avatar,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}, nil
}
