package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/vitos/hyper_position_bot/internal/domain"
	"github.com/vitos/hyper_position_bot/internal/infrastructure/storage"
	"gopkg.in/yaml.v3"
)

// Interactive first-run setup: writes config/config.yaml and the initial
// address file so cmd/bot can start.

type setupConfig struct {
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

func main() {
	in := bufio.NewScanner(os.Stdin)

	var cfg setupConfig
	cfg.Hyperliquid.BaseURL = "https://api.hyperliquid.xyz"
	cfg.Hyperliquid.WSURL = "wss://api.hyperliquid.xyz/ws"
	cfg.Hyperliquid.EnableMidsFeed = true
	cfg.Storage.Backend = "json"
	cfg.Storage.Path = "user_addresses.json"
	cfg.Polling.MonitorIntervalSec = 60
	cfg.Polling.CommandIdleMs = 1000
	cfg.Logging.Level = "info"
	cfg.Logging.File = "bot.log"

	for {
		token := prompt(in, "Telegram bot token: ")
		if strings.Contains(token, ":") {
			cfg.Telegram.Token = token
			break
		}
		fmt.Println("A bot token contains ':' and must not be empty.")
	}

	for {
		raw := prompt(in, "Broadcast chat ID: ")
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			fmt.Println("Chat ID must be a number (may be negative).")
			continue
		}
		cfg.Telegram.ChatID = id
		break
	}

	for {
		raw := prompt(in, "Admin chat IDs (comma separated): ")
		admins, err := parseAdmins(raw)
		if err != nil {
			fmt.Println("Admins must be numbers separated by commas, e.g. -123456789,123456.")
			continue
		}
		cfg.Telegram.Admins = admins
		break
	}

	fmt.Println("\nEnter addresses to monitor (empty line to finish):")
	var addresses []domain.Address
	for {
		raw := prompt(in, "Address: ")
		if raw == "" {
			break
		}
		address, err := domain.ParseAddress(raw)
		if err != nil {
			fmt.Println("An address starts with 0x and is 42 characters long.")
			continue
		}
		addresses = append(addresses, address)
	}

	if err := writeConfig(&cfg); err != nil {
		fmt.Printf("Failed to write config: %v\n", err)
		os.Exit(1)
	}

	store := storage.NewFileAddressStore(cfg.Storage.Path)
	if err := store.Save(context.Background(), addresses); err != nil {
		fmt.Printf("Failed to write address file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nSetup complete: config/config.yaml and %s written (%d addresses).\n", cfg.Storage.Path, len(addresses))
}

func prompt(in *bufio.Scanner, label string) string {
	fmt.Print(label)
	if !in.Scan() {
		return ""
	}
	return strings.TrimSpace(in.Text())
}

func parseAdmins(raw string) ([]int64, error) {
	parts := strings.Split(raw, ",")
	admins := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, err
		}
		admins = append(admins, id)
	}
	if len(admins) == 0 {
		return nil, fmt.Errorf("no admin ids")
	}
	return admins, nil
}

func writeConfig(cfg *setupConfig) error {
	if err := os.MkdirAll("config", 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile("config/config.yaml", data, 0644)
}
