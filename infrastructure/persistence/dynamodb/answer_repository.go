package dynamodb

import (
	"context"
	"errors"
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

const batchWriteMaxItems = 25

// AnswerRepository implements ports.AnswerRepository using DynamoDB.
// Answer items share their parent question's partition, which keeps
// acceptance exclusivity and cascade deletion partition-scoped.
type AnswerRepository struct {
	client        *dynamodb.Client
	tableName     string
	indexName     string
	gsi2IndexName string
	logger        *zap.Logger
}

// NewAnswerRepository creates a new AnswerRepository
func NewAnswerRepository(client *dynamodb.Client, tableName, indexName, gsi2IndexName string, logger *zap.Logger) ports.AnswerRepository {
	return &AnswerRepository{
		client:        client,
		tableName:     tableName,
		indexName:     indexName,
		gsi2IndexName: gsi2IndexName,
		logger:        logger,
	}
}

// answerItem represents the DynamoDB item structure for an answer.
// GSI1 keys it by answer ID for lookups that don't know the question;
// GSI2 keys it by author for user content listings.
type answerItem struct {
	PK         string             `dynamodbav:"PK"`
	SK         string             `dynamodbav:"SK"`
	GSI1PK     string             `dynamodbav:"GSI1PK"`
	GSI1SK     string             `dynamodbav:"GSI1SK"`
	GSI2PK     string             `dynamodbav:"GSI2PK"`
	GSI2SK     string             `dynamodbav:"GSI2SK"`
	EntityType string             `dynamodbav:"EntityType"`
	AnswerID   string             `dynamodbav:"AnswerID"`
	QuestionID string             `dynamodbav:"QuestionID"`
	Content    string             `dynamodbav:"Content"`
	AuthorID   string             `dynamodbav:"AuthorID"`
	Votes      []entities.Vote    `dynamodbav:"Votes"`
	Score      int                `dynamodbav:"Score"`
	IsAccepted bool               `dynamodbav:"IsAccepted"`
	Comments   []entities.Comment `dynamodbav:"Comments"`
	Version    int                `dynamodbav:"Version"`
	CreatedAt  string             `dynamodbav:"CreatedAt"`
	UpdatedAt  string             `dynamodbav:"UpdatedAt"`
}

// Create persists a new answer
func (r *AnswerRepository) Create(ctx context.Context, answer *entities.Answer) error {
	item, err := attributevalue.MarshalMap(r.toItem(answer))
	if err != nil {
		return pkgerrors.NewDatabaseError("marshal answer", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return pkgerrors.NewConflictError("answer already exists")
		}
		r.logger.Error("Failed to create answer",
			zap.String("answerID", answer.ID),
			zap.String("questionID", answer.QuestionID),
			zap.Error(err),
		)
		return pkgerrors.NewDatabaseError("create answer", err)
	}

	return nil
}

// GetByID retrieves an answer by its ID alone via GSI1
func (r *AnswerRepository) GetByID(ctx context.Context, id string) (*entities.Answer, error) {
	result, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(r.indexName),
		KeyConditionExpression: aws.String("GSI1PK = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: answerGSI1PK(id)},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("query answer by ID", err)
	}
	if len(result.Items) == 0 {
		return nil, pkgerrors.NewNotFoundError("answer")
	}

	var item answerItem
	if err := attributevalue.UnmarshalMap(result.Items[0], &item); err != nil {
		return nil, pkgerrors.NewDatabaseError("unmarshal answer", err)
	}

	return r.fromItem(item)
}

// ListByQuestion retrieves all answers in a question's partition
func (r *AnswerRepository) ListByQuestion(ctx context.Context, questionID string) ([]*entities.Answer, error) {
	return r.queryAnswers(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :sk)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: questionPK(questionID)},
			":sk": &types.AttributeValueMemberS{Value: "ANSWER#"},
		},
	})
}

// ListByAuthor retrieves a user's answers via GSI2, newest first
func (r *AnswerRepository) ListByAuthor(ctx context.Context, authorID string) ([]*entities.Answer, error) {
	return r.queryAnswers(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(r.gsi2IndexName),
		KeyConditionExpression: aws.String("GSI2PK = :pk AND begins_with(GSI2SK, :sk)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: userPK(authorID)},
			":sk": &types.AttributeValueMemberS{Value: "ANSWER#"},
		},
		ScanIndexForward: aws.Bool(false),
	})
}

func (r *AnswerRepository) queryAnswers(ctx context.Context, input *dynamodb.QueryInput) ([]*entities.Answer, error) {
	var answers []*entities.Answer
	var lastKey map[string]types.AttributeValue

	for {
		input.ExclusiveStartKey = lastKey
		result, err := r.client.Query(ctx, input)
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("query answers", err)
		}

		for _, raw := range result.Items {
			var item answerItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				return nil, pkgerrors.NewDatabaseError("unmarshal answer", err)
			}
			answer, err := r.fromItem(item)
			if err != nil {
				return nil, err
			}
			answers = append(answers, answer)
		}

		if result.LastEvaluatedKey == nil {
			break
		}
		lastKey = result.LastEvaluatedKey
	}

	return answers, nil
}

// Update persists content or comment edits guarded by the answer's version
func (r *AnswerRepository) Update(ctx context.Context, answer *entities.Answer) error {
	return r.updateVersioned(ctx, answer, answerEditUpdate(answer), "update answer")
}

// UpdateVotes persists the vote ledger and score guarded by the answer's
// version. The caller re-reads and retries on conflict.
func (r *AnswerRepository) UpdateVotes(ctx context.Context, answer *entities.Answer) error {
	return r.updateVersioned(ctx, answer, answerVoteUpdate(answer), "update answer votes")
}

func answerEditUpdate(answer *entities.Answer) expression.UpdateBuilder {
	comments := answer.Comments
	if comments == nil {
		comments = []entities.Comment{}
	}
	return expression.Set(expression.Name("Content"), expression.Value(answer.Content)).
		Set(expression.Name("Comments"), expression.Value(comments))
}

func answerVoteUpdate(answer *entities.Answer) expression.UpdateBuilder {
	votes := answer.Votes
	if votes == nil {
		votes = entities.VoteLedger{}
	}
	return expression.Set(expression.Name("Votes"), expression.Value(votes)).
		Set(expression.Name("Score"), expression.Value(answer.Score))
}

// updateVersioned applies a field-scoped conditional update, requiring the
// stored version to match the version the entity was read at. Fields owned
// by other operations (IsAccepted) are never part of the update expression,
// so a stale read cannot write them back.
func (r *AnswerRepository) updateVersioned(ctx context.Context, answer *entities.Answer, update expression.UpdateBuilder, operation string) error {
	readVersion := answer.Version
	answer.Version++

	update = update.
		Set(expression.Name("UpdatedAt"), expression.Value(answer.UpdatedAt.UTC().Format(time.RFC3339Nano))).
		Set(expression.Name("Version"), expression.Value(answer.Version))
	cond := expression.AttributeExists(expression.Name("PK")).
		And(expression.Name("Version").Equal(expression.Value(readVersion)))
	expr, err := expression.NewBuilder().WithUpdate(update).WithCondition(cond).Build()
	if err != nil {
		answer.Version = readVersion
		return pkgerrors.NewDatabaseError("build answer update", err)
	}

	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: questionPK(answer.QuestionID)},
			"SK": &types.AttributeValueMemberS{Value: answerSK(answer.ID)},
		},
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		answer.Version = readVersion
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return pkgerrors.NewConflictError("answer was modified concurrently")
		}
		r.logger.Error("Failed to write answer",
			zap.String("answerID", answer.ID),
			zap.String("operation", operation),
			zap.Error(err),
		)
		return pkgerrors.NewDatabaseError(operation, err)
	}

	return nil
}

// AcceptExclusive clears the accepted flag on every other answer of the
// question and sets it on answerID, all in one transaction. Every sibling
// is written, accepted at read time or not, so concurrent accepts contend
// on the full item set and the last committed transaction wins exclusively.
func (r *AnswerRepository) AcceptExclusive(ctx context.Context, questionID, answerID string) error {
	answers, err := r.ListByQuestion(ctx, questionID)
	if err != nil {
		return err
	}

	items, found := r.acceptTransactItems(answers, questionID, answerID)
	if !found {
		return pkgerrors.NewNotFoundError("answer")
	}

	_, err = r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
	if err != nil {
		var canceled *types.TransactionCanceledException
		if errors.As(err, &canceled) {
			return pkgerrors.NewConflictError("question answers changed concurrently")
		}
		r.logger.Error("Failed to accept answer",
			zap.String("questionID", questionID),
			zap.String("answerID", answerID),
			zap.Error(err),
		)
		return pkgerrors.NewDatabaseError("accept answer", err)
	}

	return nil
}

func (r *AnswerRepository) acceptTransactItems(answers []*entities.Answer, questionID, answerID string) ([]types.TransactWriteItem, bool) {
	items := make([]types.TransactWriteItem, 0, len(answers))
	found := false
	for _, answer := range answers {
		accepted := answer.ID == answerID
		if accepted {
			found = true
		}
		items = append(items, r.setAcceptedItem(questionID, answer.ID, accepted))
	}
	return items, found
}

// SetAccepted sets the accepted flag on a single answer
func (r *AnswerRepository) SetAccepted(ctx context.Context, questionID, answerID string, accepted bool) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: questionPK(questionID)},
			"SK": &types.AttributeValueMemberS{Value: answerSK(answerID)},
		},
		UpdateExpression:    aws.String("SET IsAccepted = :accepted, UpdatedAt = :now"),
		ConditionExpression: aws.String("attribute_exists(PK)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":accepted": &types.AttributeValueMemberBOOL{Value: accepted},
			":now":      &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339Nano)},
		},
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return pkgerrors.NewNotFoundError("answer")
		}
		return pkgerrors.NewDatabaseError("set answer accepted", err)
	}

	return nil
}

func (r *AnswerRepository) setAcceptedItem(questionID, answerID string, accepted bool) types.TransactWriteItem {
	return types.TransactWriteItem{
		Update: &types.Update{
			TableName: aws.String(r.tableName),
			Key: map[string]types.AttributeValue{
				"PK": &types.AttributeValueMemberS{Value: questionPK(questionID)},
				"SK": &types.AttributeValueMemberS{Value: answerSK(answerID)},
			},
			UpdateExpression:    aws.String("SET IsAccepted = :accepted, UpdatedAt = :now"),
			ConditionExpression: aws.String("attribute_exists(PK)"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":accepted": &types.AttributeValueMemberBOOL{Value: accepted},
				":now":      &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339Nano)},
			},
		},
	}
}

// Delete removes one answer
func (r *AnswerRepository) Delete(ctx context.Context, questionID, answerID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: questionPK(questionID)},
			"SK": &types.AttributeValueMemberS{Value: answerSK(answerID)},
		},
		ConditionExpression: aws.String("attribute_exists(PK)"),
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return pkgerrors.NewNotFoundError("answer")
		}
		r.logger.Error("Failed to delete answer",
			zap.String("questionID", questionID),
			zap.String("answerID", answerID),
			zap.Error(err),
		)
		return pkgerrors.NewDatabaseError("delete answer", err)
	}

	return nil
}

// DeleteByQuestion removes all answers in a question's partition in
// batches
func (r *AnswerRepository) DeleteByQuestion(ctx context.Context, questionID string) error {
	answers, err := r.ListByQuestion(ctx, questionID)
	if err != nil {
		return err
	}

	var requests []types.WriteRequest
	for _, answer := range answers {
		requests = append(requests, types.WriteRequest{
			DeleteRequest: &types.DeleteRequest{
				Key: map[string]types.AttributeValue{
					"PK": &types.AttributeValueMemberS{Value: questionPK(questionID)},
					"SK": &types.AttributeValueMemberS{Value: answerSK(answer.ID)},
				},
			},
		})
	}

	for start := 0; start < len(requests); start += batchWriteMaxItems {
		end := start + batchWriteMaxItems
		if end > len(requests) {
			end = len(requests)
		}

		batch := map[string][]types.WriteRequest{r.tableName: requests[start:end]}
		for len(batch[r.tableName]) > 0 {
			result, err := r.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{RequestItems: batch})
			if err != nil {
				r.logger.Error("Failed to delete question answers",
					zap.String("questionID", questionID),
					zap.Error(err),
				)
				return pkgerrors.NewDatabaseError("delete question answers", err)
			}
			batch = result.UnprocessedItems
		}
	}

	return nil
}

func (r *AnswerRepository) toItem(answer *entities.Answer) answerItem {
	votes := answer.Votes
	if votes == nil {
		votes = entities.VoteLedger{}
	}
	comments := answer.Comments
	if comments == nil {
		comments = []entities.Comment{}
	}
	return answerItem{
		PK:         questionPK(answer.QuestionID),
		SK:         answerSK(answer.ID),
		GSI1PK:     answerGSI1PK(answer.ID),
		GSI1SK:     skMetadata,
		GSI2PK:     userPK(answer.AuthorID),
		GSI2SK:     answerGSI2SK(answer.CreatedAt, answer.ID),
		EntityType: entityTypeAnswer,
		AnswerID:   answer.ID,
		QuestionID: answer.QuestionID,
		Content:    answer.Content,
		AuthorID:   answer.AuthorID,
		Votes:      votes,
		Score:      answer.Score,
		IsAccepted: answer.IsAccepted,
		Comments:   comments,
		Version:    answer.Version,
		CreatedAt:  answer.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:  answer.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func (r *AnswerRepository) fromItem(item answerItem) (*entities.Answer, error) {
	createdAt, err := time.Parse(time.RFC3339Nano, item.CreatedAt)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("parse answer timestamps", err)
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, item.UpdatedAt)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("parse answer timestamps", err)
	}

	votes := entities.VoteLedger(item.Votes)
	if votes == nil {
		votes = entities.VoteLedger{}
	}
	comments := item.Comments
	if comments == nil {
		comments = []entities.Comment{}
	}

	return &entities.Answer{
		ID:         item.AnswerID,
		QuestionID: item.QuestionID,
		Content:    item.Content,
		AuthorID:   item.AuthorID,
		Votes:      votes,
		Score:      item.Score,
		IsAccepted: item.IsAccepted,
		Comments:   comments,
		Version:    item.Version,
		CreatedAt:  createdAt,
		UpdatedAt:  updatedAt,
	}, nil
}
