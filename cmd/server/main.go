package main

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Vamshik07/marketmind/internal/ai"
	"github.com/Vamshik07/marketmind/internal/config"
	"github.com/Vamshik07/marketmind/internal/database"
	"github.com/Vamshik07/marketmind/internal/handler"
	"github.com/Vamshik07/marketmind/internal/middleware"
	"github.com/Vamshik07/marketmind/internal/queue"
	"github.com/Vamshik07/marketmind/internal/repository"
	"github.com/Vamshik07/marketmind/internal/router"
	"github.com/Vamshik07/marketmind/internal/service"
	"github.com/Vamshik07/marketmind/internal/service/queuepublisher"
	"github.com/Vamshik07/marketmind/internal/utils"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer func() { _ = db.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureSchema(ctx, db); err != nil {
		cancel()
		log.Fatalf("schema: %v", err)
	}
	cancel()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	histRepo := repository.NewHistoryRepo(db)

	smtpMailer := service.SMTPMailer{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	}
	var mailer service.Mailer = smtpMailer
	if cfg.EmailAsync {
		// Enqueue instead of sending inline; the consumer drains the
		// queue through the same SMTP transport.
		mailer = queuepublisher.QueueMailer{}
		go queue.StartEmailConsumer(smtpMailer)
	}

	actionTokens := utils.ActionTokens{Secret: cfg.SecretKey}
	accounts := service.NewAccountService(users, actionTokens, mailer, cfg.AppURL, cfg.BcryptCost)
	hist := service.NewHistoryService(histRepo)

	if cfg.HistoryRetentionDays > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		if n, err := hist.PruneAll(ctx, cfg.HistoryRetentionDays); err != nil {
			log.Printf("history prune: %v", err)
		} else if n > 0 {
			log.Printf("history prune: removed %d entries older than %d days", n, cfg.HistoryRetentionDays)
		}
		cancel()
	}

	rdb := config.NewRedisClient()
	cacheCfg := config.LoadCacheConfig()

	gen := ai.NewClient(cfg.AIBaseURL, cfg.AIAPIKey, cfg.AIModel)

	authH := handler.NewAuthHandler(cfg, accounts, tokens, hist)
	histH := handler.NewHistoryHandler(hist, cacheCfg, rdb)
	genH := handler.NewGenerateHandler(gen, hist)

	e := echo.New()
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(middleware.VisitorID())

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.SecretKey)
	router.RegisterAPI(e, histH, genH, cfg.SecretKey, cacheCfg, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
