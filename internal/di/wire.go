//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	chathandler "socialapp/internal/chat/handler"
	chatrepo "socialapp/internal/chat/repository"
	chatservice "socialapp/internal/chat/service"
	"socialapp/internal/common"
	"socialapp/internal/config"
	"socialapp/internal/dbmysql"
	"socialapp/internal/feed"
	"socialapp/internal/logging"
	"socialapp/internal/media"
	"socialapp/internal/notif"
	"socialapp/internal/server"
	"socialapp/internal/user"
)

var storageSet = wire.NewSet(
	dbmysql.NewDatabase,
	dbmysql.NewTransactor,
	ProvideMediaStorage,
	ProvideMediaStore,
	ProvideFileOpener,
)

var repositorySet = wire.NewSet(
	user.NewUserRepository,
	user.NewFollowRepository,
	feed.NewPostRepository,
	chatrepo.NewChatRepository,
	dbmysql.NewNotificationRepository,
	ProvideAuthLookup,
	ProvideNotificationLookup,
	ProvideChatLookup,
)

var serviceSet = wire.NewSet(
	common.NewTokenManager,
	notif.NewNotificationService,
	ProvideNotifier,
	ProvideNotificationUsecase,
	user.NewUserService,
	user.NewFollowService,
	feed.NewFeedService,
	chatservice.NewChatService,
)

var transportSet = wire.NewSet(
	user.NewHandler,
	ProvideFeedHandlers,
	chathandler.NewChatHandler,
	notif.NewNotificationHandler,
	media.NewHTTPServer,
	ProvideHandlers,
	server.NewAuthenticator,
	server.NewRouter,
	server.NewGRPCServer,
)

func InitializeApplication() (*Application, func(), error) {
	wire.Build(
		config.LoadConfig,
		logging.NewLogger,
		storageSet,
		repositorySet,
		serviceSet,
		transportSet,
		wire.Struct(new(Application), "*"),
	)
	return nil, nil, nil
}
