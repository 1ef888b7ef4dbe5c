package main

import (
	"context"
	"fmt"

	"contractors/db"
	"contractors/db/migrations"
	"contractors/internal/config"
	"contractors/internal/metrics"
	"contractors/internal/notify"
	"contractors/internal/service"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// closers закрывает подключения в обратном порядке
type closers []func() error

func (c closers) Close() error {
	var err error
	for i := len(c) - 1; i >= 0; i-- {
		err = multierr.Append(err, c[i]())
	}
	return err
}

func connectPostgres(ctx context.Context, pc config.PostgresConfig) (*sqlx.DB, error) {
	dbConn, err := sqlx.ConnectContext(ctx, "postgres", pc.Conn)
	if err != nil {
		return nil, fmt.Errorf("cannot connect to DB: %w", err)
	}
	if pc.MaxOpenConns > 0 {
		dbConn.SetMaxOpenConns(pc.MaxOpenConns)
	}
	return dbConn, nil
}

// openStore выбирает хранилище по storage.driver
func openStore(ctx context.Context) (service.Store, closers, error) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		dbConn, err := connectPostgres(ctx, cfg.Postgres)
		if err != nil {
			return nil, nil, err
		}
		if err := migrations.Run(dbConn.DB); err != nil {
			dbConn.Close()
			return nil, nil, err
		}
		log.Info("using postgres store")
		return db.NewStorage(dbConn), closers{dbConn.Close}, nil

	case config.DriverRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, nil, fmt.Errorf("cannot connect to redis: %w", err)
		}
		log.Info("using redis store", zap.String("addr", cfg.Redis.Addr), zap.String("key", cfg.Redis.Key))
		return db.NewRedisStore(rdb, cfg.Redis.Key), closers{rdb.Close}, nil

	default:
		store := db.NewFileStore(cfg.Storage.DataDir)
		log.Info("using file store", zap.String("path", store.Path()))
		return store, nil, nil
	}
}

// newService собирает сервис со всеми зависимостями из конфигурации
func newService(ctx context.Context, m *metrics.Metrics) (*service.Service, closers, error) {
	store, cl, err := openStore(ctx)
	if err != nil {
		return nil, nil, err
	}

	n := cfg.Notifications
	notifier, err := notify.NewFromConfig(ctx, notify.Config{
		AWSRegion:    n.AWSRegion,
		FromEmail:    n.FromEmail,
		ToEmails:     n.ToEmails,
		SMSNumbers:   n.SMSNumbers,
		SlackToken:   n.SlackToken,
		SlackChannel: n.SlackChannel,
		Timeout:      n.Timeout,
	}, log)
	if err != nil {
		return nil, nil, multierr.Append(err, cl.Close())
	}

	svc := service.New(service.Deps{
		Store:        store,
		Applications: db.NewApplicationLog(cfg.Storage.DataDir),
		Notifier:     notifier,
		Metrics:      m,
		Logger:       log,
	})
	return svc, cl, nil
}
