package bootstrap

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"arb-dashboard/internal/backend"
	"arb-dashboard/internal/cache"
	"arb-dashboard/internal/config"
	"arb-dashboard/internal/dashboard"
	"arb-dashboard/internal/pkg/logger"
	rabbitmqClient "arb-dashboard/internal/platform/rabbitmq"
	redisClient "arb-dashboard/internal/platform/redis"
	"arb-dashboard/internal/worker"
)

type App struct {
	Config      *config.Config
	Backend     *backend.Client
	Store       dashboard.Store
	Locks       *dashboard.Locks
	Redis       *redis.Client
	MQConn      *amqp.Connection
	Usage       *rabbitmqClient.UsagePublisher
	UsageWorker *worker.UsageLogWorker

	StartedAt time.Time
}

// New builds the process-wide resources. Redis and RabbitMQ are only dialled
// when the configuration asks for them.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{
		Config:    cfg,
		Backend:   backend.NewClient(backend.OptionsFromConfig(cfg.Backend)),
		Locks:     &dashboard.Locks{},
		StartedAt: time.Now(),
	}

	switch cfg.Context.Driver {
	case "redis":
		redisCli, err := redisClient.New(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		app.Redis = redisCli
		app.Store = cache.NewRedisContextStore(redisCli, cfg.ContextTTL())
	case "memory", "":
		app.Store = cache.NewMemoryContextStore(cfg.ContextTTL())
	default:
		return nil, fmt.Errorf("unknown context driver %q", cfg.Context.Driver)
	}

	if cfg.RabbitMQ.Enabled {
		mqConn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL)
		if err != nil {
			_ = app.Close()
			return nil, err
		}
		app.MQConn = mqConn
		app.Usage = rabbitmqClient.NewUsagePublisher(mqConn, cfg.RabbitMQ.UsageQueue)

		usageWorker := worker.NewUsageLogWorker(mqConn, cfg.RabbitMQ.UsageQueue)
		if err := usageWorker.Start(ctx); err != nil {
			_ = app.Close()
			return nil, fmt.Errorf("start usage worker failed: %w", err)
		}
		app.UsageWorker = usageWorker
	}

	logger.Infof("dashboard ready: backend=%s context_driver=%s rabbitmq=%t",
		cfg.Backend.BaseURL, cfg.Context.Driver, cfg.RabbitMQ.Enabled)
	return app, nil
}

func (a *App) Close() error {
	var closeErr error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.UsageWorker != nil {
		a.UsageWorker.Close()
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	return closeErr
}
