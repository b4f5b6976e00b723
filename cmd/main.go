package main

import (
	"context"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/33kotidham/admin-gateway/config"
	"github.com/33kotidham/admin-gateway/database"
	"github.com/33kotidham/admin-gateway/internal/auditlog"
	"github.com/33kotidham/admin-gateway/internal/auth"
	"github.com/33kotidham/admin-gateway/internal/staging"
	"github.com/33kotidham/admin-gateway/internal/upstream"
	"github.com/33kotidham/admin-gateway/routes"
	"github.com/33kotidham/admin-gateway/utils"
)

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	cfg := config.Load()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	if err := db.AutoMigrate(&auditlog.AuditLog{}, &auth.User{}); err != nil {
		log.Fatal().Err(err).Msg("database migration failed")
	}

	if err := utils.InitRedis(cfg); err != nil {
		log.Warn().Err(err).Msg("redis unavailable, rate limiting falls back to memory")
	}

	if cfg.KafkaBrokers != "" {
		utils.InitializeKafka(cfg)
	}

	area, err := staging.NewArea(cfg.StagingDir)
	if err != nil {
		log.Fatal().Err(err).Msg("staging area init failed")
	}

	api := upstream.NewClient(cfg.UpstreamBaseURL, cfg.UpstreamTimeout, log.Logger)

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	auditSvc := routes.Setup(router, cfg, api, area)

	if utils.KafkaEnabled() {
		go auditlog.StartKafkaConsumer(context.Background(), cfg, auditSvc)
	}

	log.Info().Str("port", cfg.Port).Str("upstream", cfg.UpstreamBaseURL).Msg("admin gateway starting")
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
