package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Astemirdum/catalog-service/catalog/config"
	"github.com/Astemirdum/catalog-service/catalog/internal/events"
	"github.com/Astemirdum/catalog-service/catalog/internal/handler"
	"github.com/Astemirdum/catalog-service/catalog/internal/repository"
	"github.com/Astemirdum/catalog-service/catalog/internal/server"
	"github.com/Astemirdum/catalog-service/catalog/internal/service"
	"github.com/Astemirdum/catalog-service/catalog/internal/validation"
	"github.com/Astemirdum/catalog-service/catalog/migrations"
	"github.com/Astemirdum/catalog-service/pkg/auth"
	"github.com/Astemirdum/catalog-service/pkg/kafka"
	"github.com/Astemirdum/catalog-service/pkg/logger"
	"github.com/Astemirdum/catalog-service/pkg/postgres"
)

const shutdownTimeout = 5 * time.Second

type publisher interface {
	service.Publisher
	Close() error
}

func Run(cfg *config.Config) error {
	log := logger.NewLogger(cfg.Log, "catalog")
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, err := newRepository(ctx, cfg, log)
	if err != nil {
		return errors.Wrap(err, "repository")
	}
	defer repo.Close()

	// the remote backend owns its data
	if cfg.Storage.Seed && cfg.Storage.Driver != config.DriverRemote {
		if err = repository.Seed(ctx, repo, repository.DemoBooks()); err != nil {
			return errors.Wrap(err, "seed")
		}
	}

	pub, err := newPublisher(cfg.Kafka, log)
	if err != nil {
		return errors.Wrap(err, "kafka.NewProducer")
	}
	defer func() {
		if err := pub.Close(); err != nil {
			log.Warn("publisher close", zap.Error(err))
		}
	}()

	gate, err := service.NewGate(
		service.NewMemorySession(),
		auth.NewIssuer(cfg.Auth.JWTKey, cfg.Auth.TokenTTL),
		cfg.Auth.Delay,
		log,
	)
	if err != nil {
		return errors.Wrap(err, "gate")
	}
	catalog := service.NewCatalog(repo, validation.New(time.Now), pub, log)

	h := handler.New(catalog, gate, log)
	srv := server.NewServer(cfg.Server, h.NewRouter())

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("http server start ON: ",
			zap.String("addr", srv.Addr()),
			zap.String("storage", cfg.Storage.Driver))
		return srv.Run()
	})
	g.Go(func() error {
		<-gCtx.Done()
		log.Debug("Graceful shutdown")

		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Stop(closeCtx)
	})
	if err = g.Wait(); err != nil {
		return err
	}
	log.Info("Graceful shutdown finished")
	return nil
}

func newRepository(ctx context.Context, cfg *config.Config, log *zap.Logger) (repository.Repository, error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		return repository.NewMemory(log, time.Now), nil
	case config.DriverPostgres:
		db, err := postgres.NewPostgresDB(ctx, &cfg.Database, migrations.MigrationFiles)
		if err != nil {
			return nil, errors.Wrap(err, "db init")
		}
		return repository.NewPostgres(db, log, time.Now), nil
	case config.DriverRemote:
		return repository.NewRemote(cfg.Remote, log), nil
	}
	return nil, errors.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}

func newPublisher(cfg kafka.Config, log *zap.Logger) (publisher, error) {
	if !cfg.Enabled() {
		log.Info("kafka disabled, catalog events are dropped")
		return events.Nop{}, nil
	}
	producer, err := kafka.NewProducer(cfg)
	if err != nil {
		return nil, err
	}
	return events.NewKafkaPublisher(producer, cfg.Topic, log), nil
}
