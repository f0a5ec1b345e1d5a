package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Artexxx/perf-tracker/internal/api"
	"github.com/Artexxx/perf-tracker/internal/config"
	"github.com/Artexxx/perf-tracker/internal/reports"
	"github.com/Artexxx/perf-tracker/internal/repository/employee"
	"github.com/Artexxx/perf-tracker/internal/repository/project"
	reviewrepo "github.com/Artexxx/perf-tracker/internal/repository/review"
	"github.com/Artexxx/perf-tracker/library/mongodb"
	"github.com/Artexxx/perf-tracker/library/pg"
	"github.com/Artexxx/perf-tracker/library/yamlreader"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

func main() {
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithCancel(rootCtx)
	defer cancel()

	cfg := MustNewConfig(parseFlags())

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	zerolog.TimeFieldFormat = time.RFC3339

	pgClient, err := pg.NewPG(rootCtx, cfg.Postgres.Conn.Value, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("postgres init failed")
	}
	defer pgClient.Close()

	mongoClient, err := mongodb.NewMongo(rootCtx, cfg.Mongo.URI.Value, cfg.Mongo.Database.Value, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("mongo init failed")
	}
	defer func() { _ = mongoClient.Close(context.Background()) }()

	employeeRepo := employee.NewRepository(pgClient.Pool())
	projectRepo := project.NewRepository(pgClient.Pool())
	reviewRepo := reviewrepo.NewRepository(mongoClient.Database())

	// Legacy review documents may predate counter-based ids; assign them before serving.
	migrated, err := reviewRepo.EnsureReviewIDs(rootCtx)
	if err != nil {
		log.Fatal().Err(err).Msg("review id backfill failed")
	}
	if migrated > 0 {
		log.Info().Int("migrated", migrated).Msg("assigned review ids to legacy documents")
	}

	reportsService := reports.NewService(employeeRepo, projectRepo, reviewRepo)

	apiService := api.NewService(api.ServiceDeps{
		Port:          cfg.API.Port.Value,
		EmployeesRepo: employeeRepo,
		ProjectsRepo:  projectRepo,
		ReviewsRepo:   reviewRepo,
		Reports:       reportsService,
	})

	group, gctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		log.Info().Msg("starting HTTP API")
		if err := apiService.Start(gctx); err != nil {
			log.Error().Err(err).Msg("HTTP API stopped with error")

			return err
		}

		log.Info().Msg("HTTP API stopped")

		return nil
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = group.Wait()
	}()

	select {
	case <-rootCtx.Done():
		log.Info().Msg("signal received, graceful shutdown...")
		<-done
		log.Info().Msg("all services stopped")
	case <-done:
		log.Info().Msg("all services stopped")
	}
}

func MustNewConfig(path string) *config.Config {
	cfg, err := yamlreader.NewConfig[config.Config](path)

	if err != nil {
		log.Fatal().Str("path", path).Err(err).Msg("failed to read application config")
		return nil
	}

	return cfg
}

func parseFlags() string {
	var configPath string

	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.Parse()

	if configPath == "" {
		configPath = os.Getenv("CONFIG_PATH")
	}

	godotenv.Load(".env")

	if configPath == "" {
		configPath = "config/application-local.yaml"
	}
	return configPath
}
