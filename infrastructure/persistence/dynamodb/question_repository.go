package dynamodb

import (
	"context"
	"errors"
	"strconv"
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

// QuestionRepository implements ports.QuestionRepository using DynamoDB
type QuestionRepository struct {
	client        *dynamodb.Client
	tableName     string
	indexName     string
	gsi2IndexName string
	logger        *zap.Logger
}

// NewQuestionRepository creates a new QuestionRepository
func NewQuestionRepository(client *dynamodb.Client, tableName, indexName, gsi2IndexName string, logger *zap.Logger) ports.QuestionRepository {
	return &QuestionRepository{
		client:        client,
		tableName:     tableName,
		indexName:     indexName,
		gsi2IndexName: gsi2IndexName,
		logger:        logger,
	}
}

// questionItem represents the DynamoDB item structure for a question.
// GSI1 keys it by author, GSI2 keys every question under one partition
// ordered by creation time for global listing.
type questionItem struct {
	PK          string          `dynamodbav:"PK"`
	SK          string          `dynamodbav:"SK"`
	GSI1PK      string          `dynamodbav:"GSI1PK"`
	GSI1SK      string          `dynamodbav:"GSI1SK"`
	GSI2PK      string          `dynamodbav:"GSI2PK"`
	GSI2SK      string          `dynamodbav:"GSI2SK"`
	EntityType  string          `dynamodbav:"EntityType"`
	QuestionID  string          `dynamodbav:"QuestionID"`
	Title       string          `dynamodbav:"Title"`
	Description string          `dynamodbav:"Description"`
	Tags        []string        `dynamodbav:"Tags"`
	AuthorID    string          `dynamodbav:"AuthorID"`
	ViewCount   int             `dynamodbav:"ViewCount"`
	AnswerCount int             `dynamodbav:"AnswerCount"`
	Votes       []entities.Vote `dynamodbav:"Votes"`
	Score       int             `dynamodbav:"Score"`
	Version     int             `dynamodbav:"Version"`
	CreatedAt   string          `dynamodbav:"CreatedAt"`
	UpdatedAt   string          `dynamodbav:"UpdatedAt"`
}

// Create persists a new question
func (r *QuestionRepository) Create(ctx context.Context, question *entities.Question) error {
	item, err := attributevalue.MarshalMap(r.toItem(question))
	if err != nil {
		return pkgerrors.NewDatabaseError("marshal question", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return pkgerrors.NewConflictError("question already exists")
		}
		r.logger.Error("Failed to create question",
			zap.String("questionID", question.ID),
			zap.Error(err),
		)
		return pkgerrors.NewDatabaseError("create question", err)
	}

	return nil
}

// GetByID retrieves a question by its ID
func (r *QuestionRepository) GetByID(ctx context.Context, id string) (*entities.Question, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: questionPK(id)},
			"SK": &types.AttributeValueMemberS{Value: skMetadata},
		},
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get question", err)
	}
	if result.Item == nil {
		return nil, pkgerrors.NewNotFoundError("question")
	}

	var item questionItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, pkgerrors.NewDatabaseError("unmarshal question", err)
	}

	return r.fromItem(item)
}

// List retrieves all questions via GSI2, newest first
func (r *QuestionRepository) List(ctx context.Context) ([]*entities.Question, error) {
	return r.queryQuestions(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(r.gsi2IndexName),
		KeyConditionExpression: aws.String("GSI2PK = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: gsi2AllQuestions},
		},
		ScanIndexForward: aws.Bool(false),
	})
}

// ListByAuthor retrieves a user's questions via GSI1, newest first
func (r *QuestionRepository) ListByAuthor(ctx context.Context, authorID string) ([]*entities.Question, error) {
	return r.queryQuestions(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(r.indexName),
		KeyConditionExpression: aws.String("GSI1PK = :pk AND begins_with(GSI1SK, :sk)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: userPK(authorID)},
			":sk": &types.AttributeValueMemberS{Value: "QUESTION#"},
		},
		ScanIndexForward: aws.Bool(false),
	})
}

func (r *QuestionRepository) queryQuestions(ctx context.Context, input *dynamodb.QueryInput) ([]*entities.Question, error) {
	var questions []*entities.Question
	var lastKey map[string]types.AttributeValue

	for {
		input.ExclusiveStartKey = lastKey
		result, err := r.client.Query(ctx, input)
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("query questions", err)
		}

		for _, raw := range result.Items {
			var item questionItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				return nil, pkgerrors.NewDatabaseError("unmarshal question", err)
			}
			question, err := r.fromItem(item)
			if err != nil {
				return nil, err
			}
			questions = append(questions, question)
		}

		if result.LastEvaluatedKey == nil {
			break
		}
		lastKey = result.LastEvaluatedKey
	}

	return questions, nil
}

// Update persists content edits guarded by the question's version
func (r *QuestionRepository) Update(ctx context.Context, question *entities.Question) error {
	return r.updateVersioned(ctx, question, questionEditUpdate(question), "update question")
}

// UpdateVotes persists the vote ledger and score guarded by the question's
// version. The caller re-reads and retries on conflict.
func (r *QuestionRepository) UpdateVotes(ctx context.Context, question *entities.Question) error {
	return r.updateVersioned(ctx, question, questionVoteUpdate(question), "update question votes")
}

func questionEditUpdate(question *entities.Question) expression.UpdateBuilder {
	return expression.Set(expression.Name("Title"), expression.Value(question.Title)).
		Set(expression.Name("Description"), expression.Value(question.Description)).
		Set(expression.Name("Tags"), expression.Value(question.Tags))
}

func questionVoteUpdate(question *entities.Question) expression.UpdateBuilder {
	votes := question.Votes
	if votes == nil {
		votes = entities.VoteLedger{}
	}
	return expression.Set(expression.Name("Votes"), expression.Value(votes)).
		Set(expression.Name("Score"), expression.Value(question.Score))
}

// updateVersioned applies a field-scoped conditional update, requiring the
// stored version to match the version the entity was read at. The counters
// maintained by atomic ADD (ViewCount, AnswerCount) are never part of the
// update expression, so a stale read cannot write them back.
func (r *QuestionRepository) updateVersioned(ctx context.Context, question *entities.Question, update expression.UpdateBuilder, operation string) error {
	readVersion := question.Version
	question.Version++

	update = update.
		Set(expression.Name("UpdatedAt"), expression.Value(question.UpdatedAt.UTC().Format(time.RFC3339Nano))).
		Set(expression.Name("Version"), expression.Value(question.Version))
	cond := expression.AttributeExists(expression.Name("PK")).
		And(expression.Name("Version").Equal(expression.Value(readVersion)))
	expr, err := expression.NewBuilder().WithUpdate(update).WithCondition(cond).Build()
	if err != nil {
		question.Version = readVersion
		return pkgerrors.NewDatabaseError("build question update", err)
	}

	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: questionPK(question.ID)},
			"SK": &types.AttributeValueMemberS{Value: skMetadata},
		},
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		question.Version = readVersion
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return pkgerrors.NewConflictError("question was modified concurrently")
		}
		r.logger.Error("Failed to write question",
			zap.String("questionID", question.ID),
			zap.String("operation", operation),
			zap.Error(err),
		)
		return pkgerrors.NewDatabaseError(operation, err)
	}

	return nil
}

// IncrementViewCount atomically bumps the view counter
func (r *QuestionRepository) IncrementViewCount(ctx context.Context, id string) error {
	return r.addToCounter(ctx, id, "ViewCount", 1)
}

// AdjustAnswerCount atomically adds delta to the denormalized answer counter
func (r *QuestionRepository) AdjustAnswerCount(ctx context.Context, id string, delta int) error {
	return r.addToCounter(ctx, id, "AnswerCount", delta)
}

func (r *QuestionRepository) addToCounter(ctx context.Context, id, attribute string, delta int) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: questionPK(id)},
			"SK": &types.AttributeValueMemberS{Value: skMetadata},
		},
		UpdateExpression:    aws.String("ADD #attr :delta"),
		ConditionExpression: aws.String("attribute_exists(PK)"),
		ExpressionAttributeNames: map[string]string{
			"#attr": attribute,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":delta": &types.AttributeValueMemberN{Value: strconv.Itoa(delta)},
		},
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return pkgerrors.NewNotFoundError("question")
		}
		return pkgerrors.NewDatabaseError("adjust question counter", err)
	}
	return nil
}

// Delete removes the question record
func (r *QuestionRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: questionPK(id)},
			"SK": &types.AttributeValueMemberS{Value: skMetadata},
		},
		ConditionExpression: aws.String("attribute_exists(PK)"),
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return pkgerrors.NewNotFoundError("question")
		}
		r.logger.Error("Failed to delete question",
			zap.String("questionID", id),
			zap.Error(err),
		)
		return pkgerrors.NewDatabaseError("delete question", err)
	}

	return nil
}

func (r *QuestionRepository) toItem(question *entities.Question) questionItem {
	votes := question.Votes
	if votes == nil {
		votes = entities.VoteLedger{}
	}
	return questionItem{
		PK:          questionPK(question.ID),
		SK:          skMetadata,
		GSI1PK:      userPK(question.AuthorID),
		GSI1SK:      questionGSI1SK(question.CreatedAt, question.ID),
		GSI2PK:      gsi2AllQuestions,
		GSI2SK:      questionGSI2SK(question.CreatedAt, question.ID),
		EntityType:  entityTypeQuestion,
		QuestionID:  question.ID,
		Title:       question.Title,
		Description: question.Description,
		Tags:        question.Tags,
		AuthorID:    question.AuthorID,
		ViewCount:   question.ViewCount,
		AnswerCount: question.AnswerCount,
		Votes:       votes,
		Score:       question.Score,
		Version:     question.Version,
		CreatedAt:   question.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:   question.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func (r *QuestionRepository) fromItem(item questionItem) (*entities.Question, error) {
	createdAt, err := time.Parse(time.RFC3339Nano, item.CreatedAt)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("parse question timestamps", err)
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, item.UpdatedAt)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("parse question timestamps", err)
	}

	votes := entities.VoteLedger(item.Votes)
	if votes == nil {
		votes = entities.VoteLedger{}
	}
	tags := item.Tags
	if tags == nil {
		tags = []string{}
	}

	return &entities.Question{
		ID:          item.QuestionID,
		Title:       item.Title,
		Description: item.Description,
		Tags:        tags,
		AuthorID:    item.AuthorID,
		ViewCount:   item.ViewCount,
		AnswerCount: item.AnswerCount,
		Votes:       votes,
		Score:       item.Score,
		Version:     item.Version,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}
