package bootstrap

import (
	"context"
	"fmt"
	"os"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/ai"
	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/app"
	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/config"
	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/model"
	mysqlClient "github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/platform/mysql"
	rabbitmqClient "github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/platform/rabbitmq"
	redisClient "github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/platform/redis"
	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/repository"
	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/tenant"
	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/worker"
)

// App is the explicitly constructed application context: every shared
// resource lives here and is passed into the router at startup.
type App struct {
	Config         *config.Config
	MySQL          *gorm.DB
	Redis          *redis.Client
	MQConn         *amqp.Connection
	Publisher      app.JobPublisher
	AssistantAPI   app.AssistantAPI
	Resolver       *tenant.Resolver
	IndexWorker    *worker.FileIndexWorker
	SessionSweeper *worker.SessionSweeper

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	mysqlDB, err := mysqlClient.New(ctx, cfg.MySQLDSN())
	if err != nil {
		return nil, err
	}
	if err := mysqlDB.AutoMigrate(
		&model.Client{},
		&model.Group{},
		&model.Template{},
		&model.Assistant{},
		&model.Thread{},
		&model.Message{},
		&model.File{},
		&model.AssistantFile{},
		&model.AssistantFunction{},
		&model.Session{},
	); err != nil {
		return nil, fmt.Errorf("auto migrate tables failed: %w", err)
	}

	redisCli, err := redisClient.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, err
	}

	mqConn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.Uploads.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir failed: %w", err)
	}

	resolver := tenant.NewResolver(cfg.OpenAI.GroupKeys)
	assistantAPI := ai.NewClient(cfg.OpenAI.BaseURL, time.Duration(cfg.OpenAI.TimeoutSeconds)*time.Second)
	publisher := rabbitmqClient.NewJobPublisher(mqConn, cfg.RabbitMQ.FileIndexQueue)

	fileRepo := repository.NewFileRepository(mysqlDB)
	assistantFileRepo := repository.NewAssistantFileRepository(mysqlDB)
	indexWorker := worker.NewFileIndexWorker(
		mqConn,
		cfg.RabbitMQ.FileIndexQueue,
		fileRepo,
		assistantFileRepo,
		resolver,
		assistantAPI,
		cfg.Uploads.Dir,
		0,
	)
	if err := indexWorker.Start(ctx); err != nil {
		return nil, fmt.Errorf("start file index worker failed: %w", err)
	}

	sessionSweeper := worker.NewSessionSweeper(repository.NewSessionRepository(mysqlDB), 0)
	sessionSweeper.Start(ctx)

	return &App{
		Config:         cfg,
		MySQL:          mysqlDB,
		Redis:          redisCli,
		MQConn:         mqConn,
		Publisher:      publisher,
		AssistantAPI:   assistantAPI,
		Resolver:       resolver,
		IndexWorker:    indexWorker,
		SessionSweeper: sessionSweeper,
		StartedAt:      time.Now(),
	}, nil
}

func (a *App) Close() error {
	var closeErr error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.SessionSweeper != nil {
		a.SessionSweeper.Close()
	}
	if a.IndexWorker != nil {
		a.IndexWorker.Close()
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MySQL != nil {
		sqlDB, err := a.MySQL.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	return closeErr
}
