package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/furnix/furnix-api/internal/config"
	"github.com/furnix/furnix-api/internal/events"
	"github.com/furnix/furnix-api/internal/handler"
	"github.com/furnix/furnix-api/internal/middleware"
	"github.com/furnix/furnix-api/internal/notify"
	"github.com/furnix/furnix-api/internal/realtime"
	"github.com/furnix/furnix-api/internal/repository"
	"github.com/furnix/furnix-api/internal/service"
	"github.com/furnix/furnix-api/internal/storage"
	"github.com/furnix/furnix-api/internal/token"
	"github.com/furnix/furnix-api/internal/worker"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// Optional .env for local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// MongoDB
	connectCtx, connectCancel := context.WithTimeout(ctx, 10*time.Second)
	mongoClient, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		connectCancel()
		log.Error("connect to MongoDB", "error", err)
		os.Exit(1)
	}
	if err := mongoClient.Ping(connectCtx, readpref.Primary()); err != nil {
		connectCancel()
		log.Error("ping MongoDB", "error", err)
		os.Exit(1)
	}
	connectCancel()
	defer mongoClient.Disconnect(context.Background())

	db := mongoClient.Database(cfg.Mongo.Database)
	if err := repository.EnsureUserIndexes(ctx, db); err != nil {
		log.Error("ensure user indexes", "error", err)
		os.Exit(1)
	}
	if err := repository.EnsureProductIndexes(ctx, db); err != nil {
		log.Error("ensure product indexes", "error", err)
		os.Exit(1)
	}
	log.Info("connected to MongoDB", "database", cfg.Mongo.Database)

	// Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Error("connect to Redis", "error", err)
		os.Exit(1)
	}
	log.Info("connected to Redis")

	// RabbitMQ
	amqpConn, err := amqp.Dial(cfg.RabbitMQ.URL)
	if err != nil {
		log.Error("connect to RabbitMQ", "error", err)
		os.Exit(1)
	}
	defer amqpConn.Close()

	amqpCh, err := amqpConn.Channel()
	if err != nil {
		log.Error("open RabbitMQ channel", "error", err)
		os.Exit(1)
	}
	defer amqpCh.Close()

	if err := events.Setup(amqpCh); err != nil {
		log.Error("setup RabbitMQ", "error", err)
		os.Exit(1)
	}
	log.Info("connected to RabbitMQ")

	// File storage
	files, err := storage.NewDisk(cfg.Upload.Dir)
	if err != nil {
		log.Error("init upload storage", "error", err)
		os.Exit(1)
	}

	// Realtime hub
	hub := realtime.NewHub(log)

	// Notification transports
	var emailSender notify.EmailSender
	if cfg.SMTP.Enabled() {
		sender, err := notify.NewSMTPSender(cfg.SMTP)
		if err != nil {
			log.Error("init SMTP sender", "error", err)
			os.Exit(1)
		}
		emailSender = sender
	} else {
		log.Warn("SMTP not configured, email notifications disabled")
	}

	var smsSender notify.SMSSender
	if cfg.Twilio.Enabled() {
		smsSender = notify.NewTwilioSender(cfg.Twilio)
	} else {
		log.Warn("Twilio not configured, SMS notifications disabled")
	}

	dispatcher := notify.NewDispatcher(emailSender, smsSender, hub, cfg.Notify.ChannelTimeout, log)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	customOrderRepo := repository.NewCustomOrderRepository(db)

	// Services
	tokens := token.NewManager(cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	publisher := events.NewAMQPPublisher(amqpCh)

	authSvc := service.NewAuthService(userRepo, tokens)
	productSvc := service.NewProductService(productRepo, categoryRepo, redisClient, hub)
	orderSvc := service.NewOrderService(orderRepo, userRepo, publisher, log)
	customOrderSvc := service.NewCustomOrderService(customOrderRepo, files, publisher, log)

	// Handlers
	authH := handler.NewAuthHandler(authSvc)
	productH := handler.NewProductHandler(productSvc)
	orderH := handler.NewOrderHandler(orderSvc)
	customOrderH := handler.NewCustomOrderHandler(customOrderSvc)
	paymentH := handler.NewPaymentHandler(cfg.Frontend.Origin)
	healthH := handler.NewHealthHandler(mongoClient, redisClient, amqpConn)

	// Worker
	notificationWorker := worker.NewNotificationWorker(
		amqpCh, orderRepo, customOrderRepo, userRepo,
		redisClient, dispatcher, cfg.Notify.AdminEmail, log,
	)

	// Router
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.Frontend.Origin},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", healthH.Healthz)
	router.GET("/readyz", healthH.Readyz)
	router.GET("/ws", hub.Handle)
	router.Static(storage.PublicPrefix, files.Root())
	router.GET("/users", middleware.AuthRequired(tokens), middleware.AdminOnly(), authH.ListUsers)

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		auth.POST("/register", authH.Register)
		auth.POST("/login", authH.Login)
		auth.GET("/refresh", authH.Refresh)

		products := api.Group("/products")
		products.GET("", productH.List)
		products.GET("/:id", productH.Get)

		adminProducts := products.Group("", middleware.AuthRequired(tokens), middleware.AdminOnly())
		adminProducts.POST("", productH.Create)
		adminProducts.PUT("/:id", productH.Update)
		adminProducts.DELETE("/:id", productH.Delete)

		api.GET("/categories", productH.Categories)
		api.POST("/categories", middleware.AuthRequired(tokens), middleware.AdminOnly(), productH.CreateCategory)
		api.GET("/search", productH.Search)

		orders := api.Group("/orders")
		orders.GET("", orderH.List)
		orders.POST("", middleware.AuthRequired(tokens), orderH.Create)
		orders.GET("/distributors", middleware.AuthRequired(tokens), middleware.AdminOnly(), orderH.Distributors)
		orders.PATCH("/:id/assign", middleware.AuthRequired(tokens), middleware.AdminOnly(), orderH.Assign)
		orders.PUT("/:id/status", middleware.AuthRequired(tokens), middleware.AdminOnly(), orderH.UpdateStatus)

		customOrders := api.Group("/custom-orders")
		customOrders.POST("", middleware.AuthOptional(tokens), customOrderH.Create)
		customOrders.GET("", middleware.AuthRequired(tokens), customOrderH.List)
		customOrders.GET("/custom-mine", middleware.AuthRequired(tokens), customOrderH.Mine)
		customOrders.GET("/:id", middleware.AuthRequired(tokens), customOrderH.Get)
		customOrders.PUT("/:id/status", middleware.AuthRequired(tokens), middleware.AdminOnly(), customOrderH.UpdateStatus)
		customOrders.DELETE("/:id", middleware.AuthRequired(tokens), middleware.AdminOnly(), customOrderH.Delete)

		api.POST("/payments/sslcommerz/init", paymentH.Init)
	}

	if err := notificationWorker.Start(ctx); err != nil {
		log.Error("start notification worker", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("starting HTTP server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", "error", err)
	}

	notificationWorker.Stop()
	time.Sleep(500 * time.Millisecond)
	cancel()
	log.Info("server stopped")
}
