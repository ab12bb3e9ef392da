package bootstrap

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/portfolio-showcase/portfolio-api/internal/config"
	"github.com/portfolio-showcase/portfolio-api/internal/infra/blob"
	"github.com/portfolio-showcase/portfolio-api/internal/infra/cache"
	"github.com/portfolio-showcase/portfolio-api/internal/infra/db"
	"github.com/portfolio-showcase/portfolio-api/internal/infra/lock"
	"github.com/portfolio-showcase/portfolio-api/internal/infra/logger"
	"github.com/portfolio-showcase/portfolio-api/internal/modules/handler"
	"github.com/portfolio-showcase/portfolio-api/internal/modules/repo"
	"github.com/portfolio-showcase/portfolio-api/internal/modules/service"
	"github.com/portfolio-showcase/portfolio-api/internal/router"
	"github.com/portfolio-showcase/portfolio-api/internal/telemetry"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Closers collects release funcs for connections opened by providers.
// The injector calls Shutdown on it after every dependent service.
type Closers struct {
	mu  sync.Mutex
	fns []func() error
}

func (c *Closers) add(fn func() error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fns = append(c.fns, fn)
}

func (c *Closers) Shutdown() error {
	c.mu.Lock()
	fns := c.fns
	c.fns = nil
	c.mu.Unlock()

	var errs []error
	for i := len(fns) - 1; i >= 0; i-- {
		if err := fns[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// BuildContainer wires the application. configPath may be empty.
func BuildContainer(configPath string) *do.Injector {
	inj := do.New()

	do.Provide(inj, func(i *do.Injector) (*Closers, error) {
		return &Closers{}, nil
	})

	// config
	do.Provide(inj, func(i *do.Injector) (*config.Config, error) {
		return config.Load(configPath)
	})

	// logger
	do.Provide(inj, func(i *do.Injector) (*zap.Logger, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return logger.New(cfg.Log.Level, cfg.Log.Format)
	})

	do.Provide(inj, func(i *do.Injector) (*telemetry.Metrics, error) {
		return telemetry.NewMetrics(), nil
	})

	// DB
	do.Provide(inj, func(i *do.Injector) (*gorm.DB, error) {
		cfg := do.MustInvoke[*config.Config](i)
		closers := do.MustInvoke[*Closers](i)
		d, err := db.New(cfg)
		if err != nil {
			return nil, err
		}
		closers.add(func() error { return db.Close(d) })

		if telemetry.TracingEnabled(cfg) {
			if err := db.RegisterOpenTelemetryPlugin(d); err != nil {
				return nil, err
			}
		}
		// [optional] auto migrate
		if cfg.Database.AutoMigrate {
			if err := db.Migrate(d); err != nil {
				return nil, err
			}
		}
		return d, nil
	})

	// Mongo
	do.Provide(inj, func(i *do.Injector) (*mongo.Collection, error) {
		cfg := do.MustInvoke[*config.Config](i)
		closers := do.MustInvoke[*Closers](i)
		client, err := db.NewMongo(cfg)
		if err != nil {
			return nil, err
		}
		closers.add(func() error { return db.CloseMongo(client) })

		coll := db.ProjectsCollection(client, cfg)
		if cfg.Database.AutoMigrate {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := db.MigrateMongo(ctx, coll); err != nil {
				return nil, err
			}
		}
		return coll, nil
	})

	// Redis
	do.Provide(inj, func(i *do.Injector) (*redis.Client, error) {
		cfg := do.MustInvoke[*config.Config](i)
		closers := do.MustInvoke[*Closers](i)
		rdb, err := cache.New(cfg)
		if err != nil {
			return nil, err
		}
		closers.add(func() error { return cache.Close(rdb) })

		if telemetry.TracingEnabled(cfg) {
			if err := cache.RegisterOpenTelemetryPlugin(rdb); err != nil {
				return nil, err
			}
		}
		return rdb, nil
	})

	do.Provide(inj, func(i *do.Injector) (lock.Locker, error) {
		cfg := do.MustInvoke[*config.Config](i)
		wait := time.Duration(cfg.Lock.WaitSec) * time.Second
		switch cfg.Lock.Driver {
		case "redis":
			return lock.NewRedis(
				do.MustInvoke[*redis.Client](i),
				time.Duration(cfg.Lock.TTLSec)*time.Second,
				wait,
				do.MustInvoke[*zap.Logger](i),
			), nil
		case "none":
			return lock.Noop{}, nil
		default:
			return lock.NewLocal(wait), nil
		}
	})

	// Blob
	do.Provide(inj, func(i *do.Injector) (blob.Backend, error) {
		cfg := do.MustInvoke[*config.Config](i)
		if cfg.Storage.Driver == "s3" {
			return blob.NewS3Backend(context.Background(), cfg)
		}
		return blob.NewLocalBackend(cfg.Storage.Dir)
	})
	do.Provide(inj, func(i *do.Injector) (*blob.FileStore, error) {
		return blob.NewFileStore(
			do.MustInvoke[blob.Backend](i),
			do.MustInvoke[*zap.Logger](i),
			do.MustInvoke[*telemetry.Metrics](i).CleanupCounter(),
		), nil
	})

	// Repo
	do.Provide(inj, func(i *do.Injector) (repo.ProjectRepo, error) {
		cfg := do.MustInvoke[*config.Config](i)
		if cfg.Database.Driver == "mongo" {
			return repo.NewMongoProjectRepo(do.MustInvoke[*mongo.Collection](i)), nil
		}
		return repo.NewProjectRepo(do.MustInvoke[*gorm.DB](i)), nil
	})

	// Service
	do.Provide(inj, func(i *do.Injector) (service.UploadService, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return service.NewUploadService(
			do.MustInvoke[*blob.FileStore](i),
			service.UploadLimits{
				MaxFileSizeBytes: cfg.Upload.MaxFileSizeBytes,
				MaxMainImages:    cfg.Upload.MaxMainImages,
				MaxOtherImages:   cfg.Upload.MaxOtherImages,
			},
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.ProjectService, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return service.NewProjectService(
			do.MustInvoke[repo.ProjectRepo](i),
			do.MustInvoke[*blob.FileStore](i),
			do.MustInvoke[lock.Locker](i),
			service.ProjectServiceOptions{
				ValidateOnUpdate:     cfg.Project.ValidateOnUpdate,
				LegacyRequiredFields: cfg.Project.LegacyRequiredFields,
			},
			do.MustInvoke[*zap.Logger](i),
			do.MustInvoke[*telemetry.Metrics](i),
		), nil
	})

	// Handler
	do.Provide(inj, func(i *do.Injector) (*handler.ProjectHandler, error) {
		return handler.NewProjectHandler(
			do.MustInvoke[service.ProjectService](i),
			do.MustInvoke[service.UploadService](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.FileHandler, error) {
		return handler.NewFileHandler(do.MustInvoke[*blob.FileStore](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.HealthHandler, error) {
		return handler.NewHealthHandler(do.MustInvoke[repo.ProjectRepo](i)), nil
	})

	do.Provide(inj, func(i *do.Injector) (router.RouterDeps, error) {
		return router.RouterDeps{
			Config:         do.MustInvoke[*config.Config](i),
			Log:            do.MustInvoke[*zap.Logger](i),
			Metrics:        do.MustInvoke[*telemetry.Metrics](i),
			ProjectHandler: do.MustInvoke[*handler.ProjectHandler](i),
			FileHandler:    do.MustInvoke[*handler.FileHandler](i),
			HealthHandler:  do.MustInvoke[*handler.HealthHandler](i),
		}, nil
	})
	return inj
}
