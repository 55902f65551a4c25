package app

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"nawala/internal/app/bot"
	"nawala/internal/app/server"
	"nawala/internal/checker"
	"nawala/internal/config"
	"nawala/internal/database"
	"nawala/internal/jobs/hourly"
	"nawala/internal/notify"
	"nawala/internal/support"
)

const defaultAPIPort = 3000

func Run() error {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found. Falling back to system environment variables.")
	}

	log.SetLevel(log.DebugLevel)

	portFlag := flag.Int("port", defaultAPIPort, "Port for the API server")
	productionFlag := flag.Bool("production", false, "Run in production mode")
	flag.Parse()

	config.SetProductionMode(*productionFlag)
	config.ReadSettings()

	port := resolvePort("PORT", "API_PORT", *portFlag)

	db, err := database.SetupDB()
	if err != nil {
		return fmt.Errorf("failed to set up database: %w", err)
	}

	registry := database.NewDomainRegistry(db)
	history := database.NewHistoryStore(db)
	oracle := checker.NewClient(registry)

	var (
		hourlyChecker *hourly.Checker
		telegramBot   *bot.Bot
	)

	token := support.GetEnv("TELEGRAM_BOT_TOKEN", "")
	adminID := support.GetEnvInt64("TELEGRAM_ADMIN_ID", 0)

	if token != "" && adminID != 0 {
		api, err := tgbotapi.NewBotAPI(token)
		if err != nil {
			return fmt.Errorf("failed to connect Telegram bot: %w", err)
		}

		notifier := notify.NewTelegramNotifier(api, adminID)
		hourlyChecker = hourly.New(registry, oracle, history, notifier)
		telegramBot = bot.New(api, adminID, registry, history, oracle, hourlyChecker)
	} else {
		log.Warn("Telegram credentials not configured, running without bot and notifications")
		hourlyChecker = hourly.New(registry, oracle, history, nil)
	}

	cfg := config.GetConfig()
	initialDelay := time.Duration(cfg.Scheduler.InitialDelaySeconds) * time.Second
	if err := hourlyChecker.Start(cfg.Scheduler.CronExpression, cfg.Scheduler.Timezone, initialDelay); err != nil {
		return fmt.Errorf("failed to start hourly checker: %w", err)
	}
	defer hourlyChecker.Stop()

	apiServer := server.NewServer(registry, history, oracle)

	group, ctx := errgroup.WithContext(context.Background())
	group.Go(func() error {
		return server.OpenRoutes(port, apiServer)
	})
	if telegramBot != nil {
		group.Go(func() error {
			return telegramBot.Run(ctx)
		})
	}

	return group.Wait()
}

func resolvePort(primaryEnv, legacyEnv string, fallback int) int {
	if port := readPort(primaryEnv); port != 0 {
		return port
	}
	if port := readPort(legacyEnv); port != 0 {
		return port
	}
	return fallback
}

func readPort(envKey string) int {
	raw := os.Getenv(envKey)
	if raw == "" {
		return 0
	}
	port, err := strconv.Atoi(raw)
	if err != nil || port == 0 {
		log.Warn("invalid port override", "env", envKey, "value", raw)
		return 0
	}
	return port
}
