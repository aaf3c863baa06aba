package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"learnpath-backend/internal/courses"
	"learnpath-backend/internal/enrollments"
	"learnpath-backend/internal/events"
	"learnpath-backend/internal/learners"
	"learnpath-backend/internal/queue"
	"learnpath-backend/internal/recommendations"
	"learnpath-backend/internal/services/health"
	"learnpath-backend/internal/shared/config"
	"learnpath-backend/internal/shared/server"
	"learnpath-backend/internal/shared/server/middleware"
	"learnpath-backend/internal/shared/storage/db"
	"learnpath-backend/internal/shared/storage/object"
	localstore "learnpath-backend/internal/shared/storage/object/local"
	s3store "learnpath-backend/internal/shared/storage/object/s3"
	"learnpath-backend/internal/shared/telemetry"
)

// App holds shared dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Redis  *redis.Client
	Store  object.ObjectStore
	Queue  queue.Client

	LearnersRepo    learners.Repo
	EnrollmentsRepo enrollments.Repo
	CoursesRepo     courses.Repo
	EventsRepo      events.Repo
	EventSink       events.Sink

	LearnersService        *learners.Service
	RecommendationsService *recommendations.Service
	CatalogImporter        *courses.Importer
	Health                 *health.Service
}

// Build prepares shared dependencies and the HTTP router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	telemetry.SetLevel(cfg.LogLevel)
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	queueClient, err := buildQueue(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Redis:  buildRedis(cfg),
		Store:  store,
		Queue:  queueClient,
	}
	buildRepos(app)
	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:                 app.Config,
		Health:                 app.Health,
		CourseHandler:          courses.NewHandler(app.CoursesRepo),
		LearnerHandler:         learners.NewHandler(app.LearnersService),
		RecommendationsHandler: recommendations.NewHandler(app.RecommendationsService),
		EventsHandler:          events.NewHandler(app.EventsRepo),
		RateLimiter:            middleware.NewRateLimiter(nil),
	})

	return app, nil
}

// Close releases connections held by the app.
func (a *App) Close() {
	if a == nil {
		return
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.DB != nil && !db.IsLambdaRuntime() {
		_ = a.DB.Close()
	}
}

// openDatabase returns the Lambda-shared or per-process pool.
var openDatabase = db.Open

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if cfg.IsDevLike() {
			telemetry.Info("bootstrap.database_url_empty", map[string]any{"repos": "memory", "env": cfg.Env})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, err := openDatabase(ctx, cfg)
	if err != nil {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.database_unavailable", map[string]any{"repos": "memory", "error": err})
			return nil, nil
		}
		return nil, err
	}

	return sqlDB, nil
}

func buildRedis(cfg config.Config) *redis.Client {
	raw := strings.TrimSpace(cfg.RedisURL)
	if raw == "" {
		return nil
	}
	opts, err := redis.ParseURL(raw)
	if err != nil {
		telemetry.Warn("bootstrap.redis_url_invalid", map[string]any{"cache": "disabled", "error": err})
		return nil
	}
	return redis.NewClient(opts)
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildQueue(ctx context.Context, cfg config.Config) (queue.Client, error) {
	if strings.TrimSpace(cfg.SQSQueueURL) == "" {
		return nil, nil
	}
	return queue.NewSQSClient(ctx, cfg.AWSRegion, cfg.SQSQueueURL)
}

func buildRepos(app *App) {
	if app.DB != nil {
		app.LearnersRepo = &learners.PGRepo{DB: app.DB}
		app.EnrollmentsRepo = &enrollments.PGRepo{DB: app.DB}
		app.CoursesRepo = &courses.PGRepo{DB: app.DB}
		app.EventsRepo = &events.PGRepo{DB: app.DB}
	} else {
		app.LearnersRepo = learners.NewMemoryRepo()
		app.EnrollmentsRepo = enrollments.NewMemoryRepo()
		app.CoursesRepo = courses.NewMemoryRepo()
		app.EventsRepo = events.NewMemoryRepo()
	}

	if app.Redis != nil {
		app.CoursesRepo = courses.NewCachedRepo(app.CoursesRepo, app.Redis, app.Config.CatalogCacheTTL)
	}

	if app.Queue != nil {
		app.EventSink = events.NewPublisher(app.Queue, events.DefaultBreakerSettings())
	} else {
		app.EventSink = app.EventsRepo
	}
}

func buildServices(app *App) {
	app.LearnersService = learners.NewService(app.LearnersRepo)
	app.RecommendationsService = &recommendations.Service{
		Learners:    app.LearnersRepo,
		Enrollments: app.EnrollmentsRepo,
		Courses:     app.CoursesRepo,
		Events:      app.EventSink,
		Engine: recommendations.Engine{
			OnboardingLimit: app.Config.OnboardingLimit,
			FallbackLimit:   app.Config.FallbackLimit,
		},
		EventTimeout: app.Config.EventTimeout,
	}
	app.CatalogImporter = &courses.Importer{Store: app.Store, Repo: app.CoursesRepo}

	checks := map[string]health.Pinger{}
	if app.DB != nil {
		checks["database"] = app.DB
	}
	if app.Redis != nil {
		rdb := app.Redis
		checks["cache"] = health.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
	}
	app.Health = health.NewService(checks)
}
