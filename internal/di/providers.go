package di

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	chathandler "socialapp/internal/chat/handler"
	chatservice "socialapp/internal/chat/service"
	"socialapp/internal/common"
	"socialapp/internal/config"
	"socialapp/internal/dbmongo"
	"socialapp/internal/feed"
	"socialapp/internal/media"
	"socialapp/internal/notif"
	"socialapp/internal/server"
	"socialapp/internal/user"
)

// Application is everything cmd/socialapp needs to serve traffic.
type Application struct {
	Config *config.Config
	Logger *zap.Logger
	DB     *gorm.DB
	HTTP   http.Handler
	GRPC   *server.GRPCServer
}

// ProvideMediaStorage connects to GridFS when MongoDB is enabled and returns nil otherwise.
func ProvideMediaStorage(cfg *config.Config, log *zap.Logger) (*dbmongo.MediaStorage, func(), error) {
	if !cfg.MongoDB.Enabled {
		log.Info("media storage disabled")
		return nil, func() {}, nil
	}

	client, err := dbmongo.NewMongoConnection(cfg)
	if err != nil {
		return nil, nil, err
	}
	log.Info("connected to mongodb", zap.String("database", cfg.MongoDB.Database), zap.String("bucket", cfg.MongoDB.Bucket))

	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Close(ctx); err != nil {
			log.Warn("closing mongodb", zap.Error(err))
		}
	}
	return dbmongo.NewMediaStorage(client, cfg.Media.URLPrefix), cleanup, nil
}

// The two adapters below keep a disabled store a true nil interface.

func ProvideMediaStore(storage *dbmongo.MediaStorage) common.MediaStore {
	if storage == nil {
		return nil
	}
	return storage
}

func ProvideFileOpener(storage *dbmongo.MediaStorage) media.FileOpener {
	if storage == nil {
		return nil
	}
	return storage
}

func ProvideFeedHandlers(svc *feed.FeedService, cfg *config.Config, log *zap.Logger) *feed.FeedHandlers {
	return &feed.FeedHandlers{
		FeedSvc:   svc,
		MaxUpload: cfg.Media.MaxUploadBytes,
		Log:       log,
	}
}

func ProvideHandlers(users *user.Handler, posts *feed.FeedHandlers, chat *chathandler.ChatHandler,
	notifications *notif.NotificationHandler, files *media.HTTPServer) server.Handlers {
	return server.Handlers{
		Users:         users,
		Feed:          posts,
		Chat:          chat,
		Notifications: notifications,
		Media:         files,
	}
}

// Repositories satisfy the narrow lookup interfaces declared by their consumers.

func ProvideAuthLookup(repo user.UserRepository) server.UserLookup {
	return repo
}

func ProvideNotificationLookup(repo user.UserRepository) notif.UserLookup {
	return repo
}

func ProvideChatLookup(repo user.UserRepository) chatservice.UserLookup {
	return repo
}

func ProvideNotifier(svc *notif.NotificationService) common.Notifier {
	return svc
}

func ProvideNotificationUsecase(svc *notif.NotificationService) notif.NotificationUsecase {
	return svc
}
