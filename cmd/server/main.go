package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/St1cky1/taskboard/internal/api"
	grpcapi "github.com/St1cky1/taskboard/internal/api/grpc"
	"github.com/St1cky1/taskboard/internal/api/middleware"
	"github.com/St1cky1/taskboard/internal/config"
	"github.com/St1cky1/taskboard/internal/infrastructure/auth"
	"github.com/St1cky1/taskboard/internal/infrastructure/client"
	"github.com/St1cky1/taskboard/internal/repository"
	"github.com/St1cky1/taskboard/internal/repository/memory"
	mongostore "github.com/St1cky1/taskboard/internal/repository/mongo"
	"github.com/St1cky1/taskboard/internal/repository/postgres"
	"github.com/St1cky1/taskboard/internal/usecase"
	"github.com/St1cky1/taskboard/internal/worker"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/redis/go-redis/v9"
)

const healthInterval = 15 * time.Second

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatal("❌ Ошибка конфигурации: ", err)
	}

	ctx := context.Background()

	// Подключаемся к хранилищу
	store, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal("❌ Ошибка подключения к хранилищу: ", err)
	}
	log.Printf("✅ Хранилище готово: %s", cfg.Store)

	var wg sync.WaitGroup
	workerCtx, workerCancel := context.WithCancel(ctx)

	// Аудит через RabbitMQ, если он настроен, иначе пишем сразу в хранилище
	var publisher usecase.AuditPublisher = worker.NewInlinePublisher(store.Audits())
	var rabbitMQ *client.RabbitMQClient
	if cfg.RabbitMQURL != "" {
		rabbitMQ, err = client.NewRabbitMQClient(cfg.RabbitMQURL)
		if err != nil {
			log.Fatal("❌ Ошибка подключения к RabbitMQ: ", err)
		}
		publisher = rabbitMQ
		log.Println("✅ Подключение к RabbitMQ установлено")

		auditWorker := worker.NewAuditWorker(rabbitMQ, store.Audits())
		wg.Add(1)
		go func() {
			defer wg.Done()
			auditWorker.Start(workerCtx)
		}()
	} else {
		log.Println("RABBITMQ_HOST не задан, аудит пишется синхронно")
	}

	// Лимит запросов, если есть Redis
	var redisClient *redis.Client
	var limiter middleware.Limiter
	if cfg.Redis.Addr != "" {
		redisClient, err = client.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal("❌ Ошибка подключения к Redis: ", err)
		}
		limiter = middleware.NewRedisLimiter(redisClient, "taskboard:ratelimit", cfg.RateLimit, cfg.RateLimitWindow)
		log.Println("✅ Подключение к Redis установлено")
	}

	taskService := usecase.NewTaskService(store.Tasks(), store.Audits(), publisher)
	authService := usecase.NewAuthService(
		store.Users(),
		auth.NewPasswordManager(),
		auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL),
	)

	httpServer := &http.Server{
		Addr: ":" + cfg.HTTPPort,
		Handler: api.NewRouter(api.Deps{
			TaskService: taskService,
			AuthService: authService,
			Store:       store,
			StoreName:   cfg.Store,
			Limiter:     limiter,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Printf("HTTP API на порту %s", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("❌ HTTP server error: ", err)
		}
	}()

	healthServer := grpcapi.NewHealthServer(store, healthInterval)
	wg.Add(1)
	go func() {
		defer wg.Done()
		healthServer.Watch(workerCtx)
	}()
	go func() {
		if err := healthServer.Start(cfg.GRPCPort); err != nil {
			log.Printf("❌ gRPC server error: %v", err)
		}
	}()

	log.Println("Для остановки нажмите Ctrl+C")

	wait := gfshutdown.GracefulShutdown(ctx, cfg.ShutdownTimeout, map[string]gfshutdown.Operation{
		"taskboard": func(ctx context.Context) error {
			log.Println("Завершение работы...")

			// сначала перестаём принимать запросы
			err := httpServer.Shutdown(ctx)
			healthServer.Stop()

			// дожидаемся отправки аудита, затем останавливаем воркер
			taskService.Flush()
			workerCancel()
			wg.Wait()

			if rabbitMQ != nil {
				err = errors.Join(err, rabbitMQ.Close())
			}
			if redisClient != nil {
				err = errors.Join(err, redisClient.Close())
			}
			return errors.Join(err, store.Close(ctx))
		},
	})

	exitCode := <-wait
	log.Printf("Приложение завершено с кодом %d", exitCode)
	os.Exit(exitCode)
}

func openStore(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	switch cfg.Store {
	case config.StoreMongo:
		mc, err := client.NewMongoClient(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		store := mongostore.NewStore(mc, cfg.MongoDB)
		if err := store.EnsureIndexes(ctx); err != nil {
			return nil, err
		}
		return store, nil
	case config.StoreMemory:
		return memory.NewStore(), nil
	default:
		// Запускаем миграции
		if err := postgres.RunMigrations(cfg.Postgres.URL()); err != nil {
			return nil, err
		}
		pg, err := client.NewPostgresClient(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		return postgres.NewStore(pg.Pool), nil
	}
}
