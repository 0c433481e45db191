package app

import (
	"CliniGoal/internal/app/server"
	"CliniGoal/internal/config"
	"CliniGoal/internal/delivery/http"
	"CliniGoal/internal/notify"
	"CliniGoal/internal/realtime"
	"CliniGoal/internal/service"
	"CliniGoal/internal/service/auth"
	"CliniGoal/internal/service/catalog"
	"CliniGoal/internal/service/enrollment"
	"CliniGoal/internal/service/progress"
	"CliniGoal/internal/service/quiz"
	"CliniGoal/internal/service/review"
	"CliniGoal/internal/storage/elastic"
	"CliniGoal/internal/storage/minio_storage"
	"CliniGoal/internal/storage/postgres"
	"CliniGoal/internal/storage/rediscache"
	"CliniGoal/pkg/logger"
	"context"
	"os"
	"os/signal"
	"syscall"
)

const mediaBucket = "media"

func Run(cfg *config.Config) {
	log := logger.New(cfg.Env)
	log.Info("Starting with Env: " + cfg.Env)

	ctx := context.Background()

	pg, err := postgres.NewPostgresPool(cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.DBName)
	if err != nil {
		log.FatalErr("error connecting to database", err)
	}
	defer pg.Close()

	redisClient, err := rediscache.NewClient(ctx, cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB, log)
	if err != nil {
		log.FatalErr("error connecting to redis", err)
	}
	defer redisClient.Close()

	esClient, err := elastic.NewElasticClient(cfg.ES.Password, cfg.ES.Hosts)
	if err != nil {
		log.FatalErr("error connecting to elasticsearch", err)
	}
	searchIndex := cfg.ES.Index
	if searchIndex == "" {
		searchIndex = elastic.CourseIndex
	}
	searchRepo := elastic.NewCourseSearchRepository(esClient, searchIndex)
	if err := searchRepo.CreateIndexIfNotExist(ctx); err != nil {
		log.FatalErr("error preparing search index", err)
	}

	minioStorage, err := minio_storage.NewMinioStorage(cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Minio.UseSSL, cfg.Minio.Buckets)
	if err != nil {
		log.FatalErr("error connecting to minio", err)
	}
	bucket := cfg.Minio.Buckets[mediaBucket]
	mediaRepo, err := minio_storage.NewMediaStorage(minioStorage, bucket.Name, bucket.PresignTTL)
	if err != nil {
		log.FatalErr("error preparing media storage", err)
	}

	userRepo := postgres.NewUserPostgres(pg.Pool)
	tokenRepo := postgres.NewTokensPostgres(pg.Pool)
	courseRepo := postgres.NewCoursePostgres(pg.Pool)
	videoRepo := postgres.NewVideoPostgres(pg.Pool)
	noteRepo := postgres.NewNotePostgres(pg.Pool)
	quizRepo := postgres.NewQuizPostgres(pg.Pool)
	enrollmentRepo := postgres.NewEnrollmentPostgres(pg.Pool)
	reviewRepo := postgres.NewReviewPostgres(pg.Pool)
	progressRepo := postgres.NewProgressPostgres(pg.Pool)
	certRepo := postgres.NewCertificatePostgres(pg.Pool)

	catalogCache := rediscache.NewCatalogCache(redisClient, cfg.Catalog.CacheTTL)

	pubsub := realtime.NewRedisPubSub(redisClient, log)
	hub := realtime.NewHub(log, pubsub, pubsub)

	bus := notify.NewBus(cfg.Notifications.TTL)
	defer bus.Stop()

	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, "clinigoal", cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	authService := auth.NewAuthService(log, jwtManager, userRepo, tokenRepo)
	enrollmentService := enrollment.NewLedgerService(log, courseRepo, enrollmentRepo, hub, bus)
	catalogService := catalog.NewService(log, courseRepo, videoRepo, noteRepo, quizRepo, mediaRepo, searchRepo, catalogCache, enrollmentService)
	progressService := progress.NewService(log, progressRepo, certRepo, courseRepo, videoRepo, noteRepo, quizRepo, userRepo, enrollmentService)
	quizEngine := quiz.NewEngine(log, quizRepo, enrollmentService, progressService)
	reviewService := review.NewService(log, reviewRepo, userRepo, enrollmentService)

	u := service.Collection{
		Auth:       authService,
		Catalog:    catalogService,
		Enrollment: enrollmentService,
		Quiz:       quizEngine,
		Progress:   progressService,
		Review:     reviewService,
	}

	r := http.InitRoutes(log, u, bus, hub, cfg.HTTPServer.CORSOrigins)

	srv := server.New(cfg.HTTPServer.Address, cfg.HTTPServer.Timeout, cfg.HTTPServer.IdleTimeout, r)
	srv.Start()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		log.Info("app signal: " + s.String())
	case err := <-srv.Notify():
		log.ErrorErr("server error", err)
	}
	if err := srv.Shutdown(); err != nil {
		log.ErrorErr("shutdown error", err)
	}
}
