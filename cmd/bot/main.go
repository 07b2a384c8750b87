package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/vitos/hyper_position_bot/internal/domain"
	"github.com/vitos/hyper_position_bot/internal/infrastructure/hyperliquid"
	"github.com/vitos/hyper_position_bot/internal/infrastructure/logger"
	"github.com/vitos/hyper_position_bot/internal/infrastructure/storage"
	"github.com/vitos/hyper_position_bot/internal/infrastructure/telegram"
	"github.com/vitos/hyper_position_bot/internal/usecase"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Telegram struct {
		Token  string  `yaml:"token"`
		ChatID int64   `yaml:"chat_id"`
		Admins []int64 `yaml:"admins"`
	} `yaml:"telegram"`
	Hyperliquid struct {
		BaseURL        string `yaml:"base_url"`
		WSURL          string `yaml:"ws_url"`
		EnableMidsFeed bool   `yaml:"enable_mids_feed"`
	} `yaml:"hyperliquid"`
	Storage struct {
		Backend string `yaml:"backend"`
		Path    string `yaml:"path"`
	} `yaml:"storage"`
	Polling struct {
		MonitorIntervalSec int `yaml:"monitor_interval_sec"`
		CommandIdleMs      int `yaml:"command_idle_ms"`
	} `yaml:"polling"`
	Logging struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
	} `yaml:"logging"`
}

func loadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func main() {
	// .env is optional; the yaml config carries everything but secrets.
	_ = godotenv.Load()

	cfg, err := loadConfig("config/config.yaml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		cfg.Telegram.Token = token
	}
	if cfg.Telegram.Token == "" {
		fmt.Println("Telegram bot token missing: set telegram.token or TELEGRAM_BOT_TOKEN")
		os.Exit(1)
	}

	var log *zap.Logger
	if cfg.Logging.File != "" {
		log, err = logger.NewFileLogger(cfg.Logging.File, cfg.Logging.Level)
	} else {
		log, err = logger.NewLogger(cfg.Logging.Level)
	}
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	var store domain.AddressStore
	switch cfg.Storage.Backend {
	case "sqlite":
		s, err := storage.NewSQLiteAddressStore(cfg.Storage.Path)
		if err != nil {
			log.Fatal("Failed to init sqlite", zap.Error(err))
		}
		defer s.Close()
		store = s
	default:
		path := cfg.Storage.Path
		if path == "" {
			path = "user_addresses.json"
		}
		store = storage.NewFileAddressStore(path)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	registry, err := usecase.NewAddressRegistry(ctx, store)
	if err != nil {
		log.Fatal("Failed to load address list", zap.Error(err))
	}
	log.Info("address list loaded", zap.Int("addresses", registry.Len()))

	client := hyperliquid.NewClient(cfg.Hyperliquid.BaseURL)
	tg := telegram.NewClient(cfg.Telegram.Token)

	var prices domain.PriceSource = client
	if cfg.Hyperliquid.EnableMidsFeed {
		feed := hyperliquid.NewMidsFeed(cfg.Hyperliquid.WSURL, log)
		go feed.Start(ctx)
		prices = hyperliquid.NewFallbackPriceSource(feed, client)
	}

	interval := time.Duration(cfg.Polling.MonitorIntervalSec) * time.Second
	if interval <= 0 {
		interval = 60 * time.Second
	}
	idle := time.Duration(cfg.Polling.CommandIdleMs) * time.Millisecond
	if idle <= 0 {
		idle = time.Second
	}

	notifier := usecase.NewNotifier(tg, prices, cfg.Telegram.ChatID, log)
	monitor := usecase.NewMonitorService(registry, client, notifier, interval, log)
	processor := usecase.NewCommandProcessor(registry, tg, cfg.Telegram.Admins, log)
	poller := usecase.NewCommandPoller(tg, processor, idle, log)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-stop
		log.Info("Shutting down...")
		cancel()
	}()

	go poller.Run(ctx)
	monitor.Run(ctx)
}
