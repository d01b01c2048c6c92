//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"
	"go.uber.org/zap"

	"qaforum/application/ports"
	"qaforum/application/services"
	"qaforum/infrastructure/config"
	"qaforum/pkg/auth"
	"qaforum/pkg/observability"
)

// Container holds all application dependencies
type Container struct {
	Config              *config.Config
	Logger              *zap.Logger
	UserRepo            ports.UserRepository
	QuestionRepo        ports.QuestionRepository
	AnswerRepo          ports.AnswerRepository
	NotificationRepo    ports.NotificationRepository
	EventPublisher      ports.EventPublisher
	Metrics             *observability.Metrics
	JWTValidator        *auth.JWTValidator
	JWTGenerator        *auth.JWTGenerator
	AuthService         *services.AuthService
	QuestionService     *services.QuestionService
	AnswerService       *services.AnswerService
	AcceptanceService   *services.AcceptanceService
	VoteService         *services.VoteService
	UserService         *services.UserService
	TagService          *services.TagService
	NotificationService *services.NotificationService
}

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideEventBridgeClient,
	ProvideCloudWatchClient,
	ProvideMetrics,
	ProvideJWTValidator,
	ProvideJWTGenerator,
	ProvideUserRepository,
	ProvideQuestionRepository,
	ProvideAnswerRepository,
	ProvideNotificationRepository,
	ProvideEventPublisher,
	ProvideAuthService,
	ProvideNotificationService,
	ProvideQuestionService,
	ProvideAnswerService,
	ProvideAcceptanceService,
	ProvideVoteService,
	ProvideUserService,
	ProvideTagService,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}
