package main

import (
	"os"

	"conference-review-api/config"
	"conference-review-api/controllers"
	"conference-review-api/middleware"
	"conference-review-api/monitor"
	"conference-review-api/routes"
	"conference-review-api/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using environment variables")
	}
	config.App = config.Load()

	logFile, _ := config.InitLogging(config.App.IsProduction())
	if logFile != nil {
		defer logFile.Close()
	}

	if config.App.JWTSecret == "" {
		logrus.Fatal("JWT_SECRET is required")
	}

	// Initialize database
	config.InitDB()

	notifiers := services.MultiNotifier{services.NewStoreNotifier(config.DB)}
	if config.MailConfigured() {
		notifiers = append(notifiers, services.NewMailNotifier(config.DB, config.SendMail))
		logrus.Info("email notifications enabled")
	}
	if config.App.AMQPURL != "" {
		broker, err := config.DialBroker(config.App.AMQPURL, config.App.AMQPQueue)
		if err != nil {
			logrus.WithError(err).Warn("message queue unavailable, notification events disabled")
		} else {
			defer broker.Close()
			notifiers = append(notifiers, services.NewQueueNotifier(broker.Channel, broker.Queue.Name))
			logrus.WithField("queue", broker.Queue.Name).Info("notification events enabled")
		}
	}

	controllers.UseDependencies(services.Dependencies{
		DB:            config.DB,
		Access:        services.NewDBAccessChecker(config.DB),
		Notifier:      notifiers,
		Files:         services.NewLocalFileStore(config.App.UploadPath),
		MaxKeywords:   config.App.MaxKeywords,
		MaxUploadSize: config.App.MaxUploadSize,
	})

	if config.App.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	gin.DefaultWriter = config.LogWriter
	gin.DefaultErrorWriter = config.LogWriter

	router := gin.New()
	router.Use(gin.LoggerWithWriter(config.LogWriter))
	router.Use(gin.RecoveryWithWriter(config.LogWriter))

	// Add security headers middleware
	router.Use(func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Content-Security-Policy", "default-src 'self'")
		c.Next()
	})
	router.Use(middleware.CORSMiddleware())

	monitor.RegisterStatusRoute(router, config.DB)
	monitor.RegisterLogsRoute(router, config.LogFilePath(), config.App.LogsToken)

	routes.SetupRoutes(router)

	if err := os.MkdirAll(config.App.UploadPath, os.ModePerm); err != nil {
		logrus.WithError(err).Warn("failed to create upload directory")
	}

	logrus.WithFields(logrus.Fields{
		"port":        config.App.ServerPort,
		"environment": config.App.Environment,
		"db_driver":   config.App.DBDriver,
	}).Info("server starting")

	if err := router.Run(":" + config.App.ServerPort); err != nil {
		logrus.WithError(err).Fatal("failed to start server")
	}
}
