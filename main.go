package main

import (
	"context"
	"log"
	"os"

	"github.com/Bart3kD/task-manager/config"
	"github.com/Bart3kD/task-manager/modules/activity"
	"github.com/Bart3kD/task-manager/modules/api"
	"github.com/Bart3kD/task-manager/modules/auth"
	"github.com/Bart3kD/task-manager/modules/ratelimit"
	"github.com/Bart3kD/task-manager/modules/task"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

func main() {
	log.Println("=== Task Manager ===")

	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logLevel := mono.LogLevelInfo
	if cfg.LogLevel == "error" {
		logLevel = mono.LogLevelError
	}

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(cfg.ShutdownTimeout),
		mono.WithLogLevel(logLevel),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}
	logger := app.Logger()
	loc := cfg.Location()

	jwtConfig := auth.DefaultJWTConfig()
	if cfg.JWTSecret != "" {
		jwtConfig.SecretKey = cfg.JWTSecret
	}
	jwtConfig.Issuer = cfg.JWTIssuer
	jwtConfig.Audience = cfg.JWTAudience

	authModule := auth.NewModule(jwtConfig, logger.WithModule("auth"))
	rateLimitModule := ratelimit.NewModule(cfg.RedisAddr, ratelimit.Config{
		Requests:  cfg.RateLimitRequests,
		Window:    cfg.RateLimitWindow,
		KeyPrefix: ratelimit.DefaultConfig().KeyPrefix,
	}, logger.WithModule("ratelimit"))
	taskModule := task.NewModule(task.StoreConfig{
		Driver: cfg.DBDriver,
		Path:   cfg.DBPath,
		DSN:    cfg.DatabaseURL,
		Debug:  cfg.DBDebug,
	}, loc, logger.WithModule("task"))

	// Order: independent modules first, then modules with dependencies
	app.Register(authModule)
	app.Register(rateLimitModule)
	app.Register(activity.NewModule(cfg.ActivityCapacity, logger.WithModule("activity")))
	app.Register(taskModule)
	app.Register(api.NewModule(cfg.Port, loc, rateLimitModule.Middleware(), logger.WithModule("api")))

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	logger.Info("Task manager started",
		"port", cfg.Port,
		"driver", cfg.DBDriver,
		"rate_limiting", rateLimitModule.Enabled(),
		"timezone", loc.String())

	if cfg.DevTokenUser != "" {
		token, err := authModule.Manager().GenerateAccessToken(cfg.DevTokenUser, "")
		if err != nil {
			logger.Error("Failed to mint development token", "error", err.Error())
		} else {
			logger.Warn("Development token issued, do not enable DEV_TOKEN_USER in production",
				"user_id", cfg.DevTokenUser,
				"token", token)
		}
	}

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}
