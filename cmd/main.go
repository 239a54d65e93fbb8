package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"gitlab.com/codechallenge.net/internal/adapter/judge0"
	"gitlab.com/codechallenge.net/internal/adapter/logging"
	"gitlab.com/codechallenge.net/internal/adapter/memory"
	"gitlab.com/codechallenge.net/internal/adapter/metrics"
	"gitlab.com/codechallenge.net/internal/adapter/postgres/profilerepository"
	"gitlab.com/codechallenge.net/internal/adapter/postgres/submissionrepository"
	"gitlab.com/codechallenge.net/internal/adapter/postgres/testcaserepository"
	"gitlab.com/codechallenge.net/internal/adapter/redis/lockport"
	"gitlab.com/codechallenge.net/internal/adapter/redis/rankingport"
	"gitlab.com/codechallenge.net/internal/adapter/redis/solvedport"
	"gitlab.com/codechallenge.net/internal/config"
	"gitlab.com/codechallenge.net/internal/core/ports/primary"
	"gitlab.com/codechallenge.net/internal/core/ports/secondary"
	"gitlab.com/codechallenge.net/internal/core/services/evaluation"
	"gitlab.com/codechallenge.net/internal/core/services/ranking"
	"gitlab.com/codechallenge.net/internal/core/services/submission"
	"gitlab.com/codechallenge.net/internal/domain"
	logger2 "gitlab.com/codechallenge.net/internal/global/logger"
	http2 "gitlab.com/codechallenge.net/internal/http"
)

type stores struct {
	testCases   secondary.TestCaseRepository
	submissions secondary.SubmissionRepository
	profiles    secondary.ProfileRepository
	close       func()
}

func main() {
	InitReader()

	sysCfg := config.NewSystemConfig()
	zapLogger := logging.NewZapLogger(sysCfg.LogLevel, sysCfg.DebugMode)
	defer func() { _ = zapLogger.Sync() }()
	logger2.Set(zapLogger)
	logger := logger2.Logger

	logger.Info("Starting submission evaluation service")

	ctxBg := context.Background()
	st, err := setupStores(ctxBg, sysCfg, logger)
	if err != nil {
		logger.Error("Failed to set up stores", "error", err)
		os.Exit(1)
	}
	defer st.close()

	recorder := metrics.NewRecorder()
	executor := setupJudge(sysCfg.JudgeConfig, recorder, logger)

	submissionOpts := []submission.Option{
		submission.WithProfileRepository(st.profiles),
		submission.WithRecorder(recorder),
		submission.WithHistoryLimit(sysCfg.SubmissionConfig.HistoryLimit),
	}
	if strategy := evaluation.ByName(sysCfg.SubmissionConfig.EvaluationStrategy); strategy != nil {
		submissionOpts = append(submissionOpts, submission.WithEvaluationStrategy(strategy))
	}

	var rankingCache secondary.RankingCache
	if sysCfg.RedisConfig.Enabled {
		redisClient := setupRedis(sysCfg.RedisConfig)
		defer redisClient.Close()
		if err := redisClient.Ping(ctxBg).Err(); err != nil {
			logger.Error("Failed to connect to redis", "error", err)
			os.Exit(1)
		}
		submissionOpts = append(submissionOpts,
			submission.WithLocker(lockport.NewLocker(redisClient, sysCfg.RedisConfig.LockTTL, logger)),
			submission.WithSolvedTracker(solvedport.NewSolvedRepository(redisClient, logger)),
		)
		rankingCache = rankingport.NewRankingCache(redisClient, logger)
	} else {
		submissionOpts = append(submissionOpts, submission.WithLocker(memory.NewKeyedLocker()))
	}

	//services
	submissionSvc := submission.NewSubmissionService(st.testCases, st.submissions, executor, logger, submissionOpts...)
	rankingSvc := ranking.NewRankingService(st.profiles, rankingCache, sysCfg.SubmissionConfig.RankingCacheTTL, logger)
	serviceProvider := http2.NewServiceProvider(submissionSvc, rankingSvc, recorder.Handler())

	//server
	httpServer := http2.NewServer(sysCfg.HttpConfig.Port, "submissionEvaluator", *serviceProvider, logger)
	if err := httpServer.Init(); err != nil {
		logger.Error("Failed to init http server", "error", err)
		os.Exit(1)
	}
	serverErr := httpServer.Start()

	// Set up graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		if err != nil {
			logger.Error("Server stopped unexpectedly", "error", err)
		}
	}
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(ctxBg, sysCfg.HttpConfig.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Stop(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("successfully shutdown server")
}

func setupStores(ctx context.Context, cfg *config.AppConfig, logger primary.Logger) (*stores, error) {
	if cfg.UseInMemory {
		st := &stores{
			testCases:   memory.NewTestCaseRepository(),
			submissions: memory.NewSubmissionRepository(),
			profiles:    memory.NewProfileRepository(),
			close:       func() {},
		}
		if err := seedTestCases(ctx, st.testCases); err != nil {
			return nil, err
		}
		logger.Info("Using in-memory stores")
		return st, nil
	}

	db, err := setupDatabase(cfg.PostgresConfig)
	if err != nil {
		return nil, err
	}
	schema := cfg.PostgresConfig.Schema
	return &stores{
		testCases:   testcaserepository.New(db, logger, schema),
		submissions: submissionrepository.New(db, logger, schema),
		profiles:    profilerepository.New(db, logger, schema),
		close:       func() { _ = db.Close() },
	}, nil
}

func setupJudge(cfg *config.JudgeConfig, recorder judge0.Recorder, logger primary.Logger) secondary.CodeExecutor {
	if cfg.Mocked() {
		logger.Warn("Using mock judge; submissions are not executed")
		return judge0.NewMockClient()
	}
	return judge0.NewClient(cfg.ApiUrl, logger,
		judge0.WithAPIKey(cfg.ApiKey),
		judge0.WithTimeout(cfg.RequestTimeout),
		judge0.WithMaxRetries(cfg.MaxRetries),
		judge0.WithConcurrency(cfg.Concurrency),
		judge0.WithRecorder(recorder),
	)
}

// seedTestCases loads the hello-world challenge into an empty in-memory store
func seedTestCases(ctx context.Context, repo secondary.TestCaseRepository) error {
	tc, err := domain.NewTestCase("hello-world-1", "hello-world", "x", "Hello World", false)
	if err != nil {
		return err
	}
	if err := repo.SaveMany(ctx, []domain.TestCase{tc}); err != nil {
		return fmt.Errorf("failed to seed test cases: %w", err)
	}
	return nil
}

// setupDatabase sets up the PostgreSQL connection
func setupDatabase(cfg *config.PostgresConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", cfg.Url)
	if err != nil {
		return nil, err
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// setupRedis sets up the Redis connection
func setupRedis(cfg *config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Url,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// InitReader loads <env>.env when an environment name is passed, .env otherwise.
// A missing file is not an error; the process environment still applies.
func InitReader() {
	file := ".env"
	if len(os.Args) >= 2 {
		file = os.Args[1] + ".env"
	}

	if err := godotenv.Load(file); err != nil {
		logger2.Warn("Env file not loaded", "file", file, "error", err)
	}
}
