package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/Comanda-api/internal/application/inventory"
	"github.com/jhoicas/Comanda-api/internal/application/ordering"
	"github.com/jhoicas/Comanda-api/internal/application/ports"
	"github.com/jhoicas/Comanda-api/internal/application/usecase"
	"github.com/jhoicas/Comanda-api/internal/domain/repository"
	infrakafka "github.com/jhoicas/Comanda-api/internal/infrastructure/kafka"
	"github.com/jhoicas/Comanda-api/internal/infrastructure/memory"
	"github.com/jhoicas/Comanda-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/Comanda-api/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/Comanda-api/internal/interfaces/http"
	"github.com/jhoicas/Comanda-api/pkg/config"
	"github.com/jhoicas/Comanda-api/pkg/logger"
)

// txRunner lo implementan postgres.TxRunner y memory.Store.
type txRunner interface {
	inventory.TxRunner
	ordering.OrderTxRunner
}

type storage struct {
	tx        txRunner
	products  repository.ProductRepository
	movements repository.StockMovementRepository
	orders    repository.OrderRepository
	close     func()
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) storage {
	if cfg.Storage == config.StorageMemory {
		log.Warn().Msg("STORAGE=memory: los datos se pierden al reiniciar")
		store := memory.NewStore()
		return storage{
			tx:        store,
			products:  store.ProductRepository(),
			movements: store.StockMovementRepository(),
			orders:    store.OrderRepository(),
			close:     func() {},
		}
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	return storage{
		tx:        postgres.NewTxRunner(pool),
		products:  postgres.NewProductRepository(pool),
		movements: postgres.NewStockMovementRepository(pool),
		orders:    postgres.NewOrderRepository(pool),
		close:     pool.Close,
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store := openStorage(ctx, cfg, log)
	defer store.close()

	// Cache de pedidos (opcional)
	var cache ports.OrderCache = ports.NoopOrderCache{}
	if cfg.Redis.Enabled() {
		rdb := infraredis.NewClient(cfg.Redis)
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis no responde; se sigue sin cache efectivo")
		}
		cache = infraredis.NewOrderCache(rdb, log)
	}

	// Eventos (opcional)
	var publisher ports.EventPublisher = ports.NoopPublisher{}
	var producer *infrakafka.Publisher
	if cfg.Kafka.Enabled() {
		producer = infrakafka.NewPublisher(cfg.Kafka, cfg.App.Name, log)
		producer.Start()
		publisher = producer
	}

	stockManager := inventory.NewStockManager(store.tx, publisher)
	stockPolicy := inventory.NewStockPolicy(stockManager, store.tx, store.products, store.movements)
	productUC := usecase.NewProductUseCase(store.products, store.tx, stockManager, cfg.Stock.DefaultLowThreshold)
	orderUC := ordering.NewOrderUseCase(store.orders, publisher, cache)
	createOrderUC := ordering.NewCreateOrderUseCase(store.tx, stockManager, store.products, orderUC, publisher, cache)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Named("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Comanda API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:   productUC,
		StockPolicy: stockPolicy,
		CreateOrder: createOrderUC,
		OrderUC:     orderUC,
		JWTSecret:   cfg.JWT.Secret,
		Logger:      log.Named("http"),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	// Después del HTTP: ya no entran eventos nuevos; se vacía la cola
	if producer != nil {
		producer.Close()
	}

	log.Info().Msg("aplicación detenida")
}
