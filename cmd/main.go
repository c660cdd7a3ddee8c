package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wincantonlogs/firewood/internal/adapter/checkout"
	"github.com/wincantonlogs/firewood/internal/adapter/logger"
	"github.com/wincantonlogs/firewood/internal/adapter/mailer"
	"github.com/wincantonlogs/firewood/internal/adapter/postgres"
	"github.com/wincantonlogs/firewood/internal/adapter/rabbitmq"
	"github.com/wincantonlogs/firewood/internal/app/admin"
	"github.com/wincantonlogs/firewood/internal/app/catalog"
	"github.com/wincantonlogs/firewood/internal/app/order"
	"github.com/wincantonlogs/firewood/internal/app/payment"
	"github.com/wincantonlogs/firewood/internal/config"
	"github.com/wincantonlogs/firewood/internal/domain"

	amqpAdapter "github.com/wincantonlogs/firewood/internal/adapter/amqp"
	httpAdapter "github.com/wincantonlogs/firewood/internal/adapter/http"
)

func main() {
	mode := flag.String("mode", "", "Service mode: shop-service, admin-service, notification-worker")
	port := flag.Int("port", 3000, "HTTP port")
	configPath := flag.String("config", "config.yaml", "Path to config file")
	flag.Parse()

	if *mode == "" {
		log.Fatal("--mode flag is required")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()
	lgr := logger.New(*mode)

	switch *mode {
	case "shop-service":
		runShopService(ctx, cfg, lgr, *port)

	case "admin-service":
		runAdminService(ctx, cfg, lgr, *port)

	case "notification-worker":
		runNotificationWorker(ctx, cfg, lgr)

	default:
		log.Fatalf("Invalid mode: %s", *mode)
	}
}

func feeTable(cfg *config.Config) domain.FeeTable {
	if len(cfg.Delivery.Zones) == 0 {
		return domain.DefaultFeeTable()
	}
	return domain.FeeTable{
		Zones:      cfg.Delivery.Zones,
		DefaultFee: cfg.Delivery.DefaultFee,
	}
}

func runShopService(ctx context.Context, cfg *config.Config, lgr logger.Logger, port int) {
	db, err := postgres.Connect(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer db.Close()

	lgr.Info("db_connected", "Connected to PostgreSQL database", "startup", map[string]interface{}{
		"host": cfg.Database.Host,
		"db":   cfg.Database.Database,
	})

	mqConn, err := rabbitmq.Connect(cfg.RabbitMQ)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer mqConn.Close()

	orderRepo := postgres.NewOrderRepository(db)
	productRepo := postgres.NewProductRepository(db)
	publisher := rabbitmq.NewPublisher(mqConn)
	gateway := checkout.NewClient(cfg.Checkout, cfg.Secrets.CheckoutAPIKey)

	catalogService := catalog.NewService(productRepo, lgr)
	orderService := order.NewService(orderRepo, productRepo, publisher, gateway, cfg.Checkout, feeTable(cfg), lgr)
	paymentService := payment.NewService(orderRepo, gateway, lgr)

	shopHandler := httpAdapter.NewShopHandler(catalogService, orderService, lgr)
	webhookHandler := httpAdapter.NewWebhookHandler(paymentService, lgr)

	handler := httpAdapter.NewShopRouter(shopHandler, webhookHandler, lgr)
	serveHTTP(handler, lgr, "Shop Service", port)
}

func runAdminService(ctx context.Context, cfg *config.Config, lgr logger.Logger, port int) {
	db, err := postgres.Connect(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer db.Close()

	mqConn, err := rabbitmq.Connect(cfg.RabbitMQ)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer mqConn.Close()

	orderRepo := postgres.NewOrderRepository(db)
	husbandryRepo := postgres.NewHusbandryRepository(db)
	publisher := rabbitmq.NewPublisher(mqConn)

	adminService := admin.NewService(orderRepo, husbandryRepo, publisher, lgr)
	adminHandler := httpAdapter.NewAdminHandler(adminService, lgr)

	handler := httpAdapter.NewAdminRouter(adminHandler, cfg.Secrets.AdminUser, cfg.Secrets.AdminPass, lgr)
	serveHTTP(handler, lgr, "Admin Service", port)
}

func runNotificationWorker(ctx context.Context, cfg *config.Config, lgr logger.Logger) {
	mqConn, err := rabbitmq.Connect(cfg.RabbitMQ)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer mqConn.Close()

	consumer := rabbitmq.NewConsumer(mqConn)
	m := mailer.New(cfg.SMTP, cfg.Secrets.SMTPPassword)
	handler := amqpAdapter.NewNotificationHandler(m, cfg.SMTP.StaffAddress, lgr)

	lgr.Info("service_started", "Notification Worker started", "startup", nil)

	workerCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		if err := consumer.ConsumeNotifications(workerCtx, handler.HandleNotification); err != nil && workerCtx.Err() == nil {
			lgr.Error("consumer_error", "Error consuming notifications", "runtime", nil, err)
		}
	}()

	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
	<-sigint

	lgr.Info("shutdown_initiated", "Shutting down Notification Worker", "shutdown", nil)
}

func serveHTTP(handler http.Handler, lgr logger.Logger, name string, port int) {
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	lgr.Info("service_started", fmt.Sprintf("%s started on port %d", name, port), "startup", map[string]interface{}{
		"port": port,
	})

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		lgr.Info("shutdown_initiated", fmt.Sprintf("Shutting down %s", name), "shutdown", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			lgr.Error("shutdown_error", "Error during shutdown", "shutdown", nil, err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		lgr.Error("server_error", "Server error", "runtime", nil, err)
	}
}
