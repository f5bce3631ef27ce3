package http

import (
	"context"
	"errors"
	"fmt"
	stdhttp "net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/errgroup"

	"socialfeed/internal/auth"
	"socialfeed/internal/cache"
	"socialfeed/internal/config"
	"socialfeed/internal/database"
	"socialfeed/internal/handler"
	"socialfeed/internal/logger"
	"socialfeed/internal/queue"
	"socialfeed/internal/redis"
	"socialfeed/internal/repository"
	"socialfeed/internal/service"
	"socialfeed/internal/worker"
)

const shutdownTimeout = 10 * time.Second

// App is the wired application: services, router and, when Redis is
// configured, the invalidation workers.
type App struct {
	DB       *sqlx.DB
	Router   stdhttp.Handler
	Activity *service.ActivityEmitter
	Workers  *worker.Manager // nil without Redis

	redis *redis.Client
}

// NewApp wires every layer on top of an open database. redisClient may be nil.
func NewApp(cfg *config.Config, db *sqlx.DB, redisClient *redis.Client) *App {
	repos := repository.NewRepositories(db)

	var (
		publisher queue.Publisher = queue.NopPublisher{}
		home      cache.HomeCache
		workers   *worker.Manager
	)
	if redisClient != nil {
		publisher = queue.NewPublisher(redisClient.Client)
		home = cache.NewHomeCache(redisClient.Client, cfg.HomeCacheTTL)
		workers = worker.NewManager(
			queue.NewConsumer(redisClient.Client),
			worker.NewHandler(home),
			worker.ManagerConfig{WorkerCount: cfg.WorkerCount},
		)
	}

	activity := service.NewActivityEmitter(publisher, cfg.PublishTimeout)

	identity := service.NewIdentityService(repos.Users)
	toggle := service.NewToggleService(db, repos, activity)
	interaction := service.NewInteractionService(db, repos, activity)
	notifications := service.NewNotificationService(repos.Notifications)
	feed := service.NewFeedService(repos, home)
	profile := service.NewProfileService(repos, activity)

	router := NewRouter(RouterConfig{
		UserHandler:         handler.NewUserHandler(identity, profile),
		FollowHandler:       handler.NewFollowHandler(identity, toggle, profile),
		FeedHandler:         handler.NewFeedHandler(feed),
		PostHandler:         handler.NewPostHandler(identity, interaction, toggle),
		CommentHandler:      handler.NewCommentHandler(identity, interaction),
		NotificationHandler: handler.NewNotificationHandler(identity, notifications),
		Tokens:              auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL),
		Logger:              logger.L(),
	})

	return &App{
		DB:       db,
		Router:   router,
		Activity: activity,
		Workers:  workers,
		redis:    redisClient,
	}
}

// Run connects to the stores, serves HTTP and runs the workers until ctx is
// cancelled, then shuts everything down.
func Run(ctx context.Context, cfg *config.Config) error {
	log := logger.Component("server")

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = redis.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer redisClient.Close()
		log.Info().Msg("redis connected, home cache and invalidation enabled")
	} else {
		log.Info().Msg("REDIS_URL not set, running without home cache")
	}

	app := NewApp(cfg, db, redisClient)
	defer app.Activity.Wait()

	srv := &stdhttp.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           app.Router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		log.Info().Msg("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if app.Workers != nil {
		g.Go(func() error {
			return app.Workers.Run(gCtx)
		})
	}

	return g.Wait()
}
