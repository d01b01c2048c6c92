package di

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"

	"qaforum/application/ports"
	"qaforum/application/services"
	"qaforum/infrastructure/config"
	"qaforum/infrastructure/messaging/eventbridge"
	"qaforum/infrastructure/persistence/dynamodb"
	"qaforum/pkg/auth"
	"qaforum/pkg/observability"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates a CloudWatch client
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvideMetrics creates a metrics publisher. Metrics are disabled by
// returning a nil publisher, which every call site treats as a no-op.
func ProvideMetrics(client *awscloudwatch.Client, cfg *config.Config) *observability.Metrics {
	if !cfg.EnableMetrics {
		return nil
	}
	namespace := fmt.Sprintf("QAForum/%s", cfg.Environment)
	return observability.NewMetrics(namespace, client)
}

// ProvideJWTValidator creates a JWT validator
func ProvideJWTValidator(cfg *config.Config) (*auth.JWTValidator, error) {
	return auth.NewJWTValidator(auth.JWTConfig{
		SecretKey: cfg.JWTSecret,
		Issuer:    cfg.JWTIssuer,
		Expiry:    cfg.TokenExpiry,
	})
}

// ProvideJWTGenerator creates a JWT generator
func ProvideJWTGenerator(cfg *config.Config) (*auth.JWTGenerator, error) {
	return auth.NewJWTGenerator(auth.JWTConfig{
		SecretKey: cfg.JWTSecret,
		Issuer:    cfg.JWTIssuer,
		Expiry:    cfg.TokenExpiry,
	})
}

// ProvideUserRepository creates a user repository
func ProvideUserRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.UserRepository {
	return dynamodb.NewUserRepository(client, cfg.DynamoDBTable, cfg.IndexName, logger)
}

// ProvideQuestionRepository creates a question repository
func ProvideQuestionRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.QuestionRepository {
	return dynamodb.NewQuestionRepository(client, cfg.DynamoDBTable, cfg.IndexName, cfg.GSI2IndexName, logger)
}

// ProvideAnswerRepository creates an answer repository
func ProvideAnswerRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.AnswerRepository {
	return dynamodb.NewAnswerRepository(client, cfg.DynamoDBTable, cfg.IndexName, cfg.GSI2IndexName, logger)
}

// ProvideNotificationRepository creates a notification repository
func ProvideNotificationRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.NotificationRepository {
	return dynamodb.NewNotificationRepository(client, cfg.DynamoDBTable, logger)
}

// ProvideEventPublisher creates the domain event publisher
func ProvideEventPublisher(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.EventPublisher {
	return eventbridge.NewEventBridgePublisher(client, cfg.EventBusName, logger)
}

// ProvideAuthService creates the auth service
func ProvideAuthService(userRepo ports.UserRepository, generator *auth.JWTGenerator, logger *zap.Logger) *services.AuthService {
	return services.NewAuthService(userRepo, generator, logger)
}

// ProvideNotificationService creates the notification service
func ProvideNotificationService(
	notificationRepo ports.NotificationRepository,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *services.NotificationService {
	return services.NewNotificationService(notificationRepo, metrics, logger)
}

// ProvideQuestionService creates the question service
func ProvideQuestionService(
	questionRepo ports.QuestionRepository,
	answerRepo ports.AnswerRepository,
	eventPublisher ports.EventPublisher,
	logger *zap.Logger,
) *services.QuestionService {
	return services.NewQuestionService(questionRepo, answerRepo, eventPublisher, logger)
}

// ProvideAnswerService creates the answer service
func ProvideAnswerService(
	answerRepo ports.AnswerRepository,
	questionRepo ports.QuestionRepository,
	userRepo ports.UserRepository,
	notifications *services.NotificationService,
	eventPublisher ports.EventPublisher,
	logger *zap.Logger,
) *services.AnswerService {
	return services.NewAnswerService(answerRepo, questionRepo, userRepo, notifications, eventPublisher, logger)
}

// ProvideAcceptanceService creates the acceptance service
func ProvideAcceptanceService(
	answerRepo ports.AnswerRepository,
	questionRepo ports.QuestionRepository,
	notifications *services.NotificationService,
	eventPublisher ports.EventPublisher,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *services.AcceptanceService {
	return services.NewAcceptanceService(answerRepo, questionRepo, notifications, eventPublisher, metrics, logger)
}

// ProvideVoteService creates the vote service
func ProvideVoteService(
	questionRepo ports.QuestionRepository,
	answerRepo ports.AnswerRepository,
	eventPublisher ports.EventPublisher,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *services.VoteService {
	return services.NewVoteService(questionRepo, answerRepo, eventPublisher, metrics, logger)
}

// ProvideUserService creates the user service
func ProvideUserService(
	userRepo ports.UserRepository,
	questionRepo ports.QuestionRepository,
	answerRepo ports.AnswerRepository,
	votes *services.VoteService,
	logger *zap.Logger,
) *services.UserService {
	return services.NewUserService(userRepo, questionRepo, answerRepo, votes, logger)
}

// ProvideTagService creates the tag service
func ProvideTagService(questionRepo ports.QuestionRepository, logger *zap.Logger) *services.TagService {
	return services.NewTagService(questionRepo, logger)
}
