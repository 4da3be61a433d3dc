package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/tandemly/wordpair/internal"
)

// Config is everything the coordinator needs to run against a chat host.
// Values come from the environment, optionally seeded from a .env file.
type Config struct {
	// Chat host connection
	ChatHost string
	ChatPort string
	BotToken string
	BotUser  string

	// Task wiring
	TaskID        string
	WaitingRoomID string

	// Content
	ItemFile     string
	WordlistFile string
	GreetingFile string

	// Game parameters
	Rounds   int
	Order    internal.OrderMode
	Seed     int64
	GameMode internal.GameMode
	Public   bool

	// Timers
	RoundTimeout   time.Duration
	GraceTimeout   time.Duration
	WaitingTimeout time.Duration

	// Status server
	ListenAddr string
	LogLevel   string
}

// Load reads configuration from a .env file (if present) and the
// environment. Only the chat credentials are hard requirements.
func Load() (*Config, error) {
	// A missing .env file is fine: production sets real env vars.
	_ = godotenv.Load()

	cfg := &Config{
		ChatHost:       envString("CHAT_HOST", "http://localhost"),
		ChatPort:       envString("CHAT_PORT", "5000"),
		BotToken:       os.Getenv("BOT_TOKEN"),
		BotUser:        os.Getenv("BOT_USER"),
		TaskID:         envString("TASK_ID", "1"),
		WaitingRoomID:  os.Getenv("WAITING_ROOM"),
		ItemFile:       envString("ITEM_FILE", "data/image_data.tsv"),
		WordlistFile:   envString("WORD_LIST", "data/wordlist.txt"),
		GreetingFile:   os.Getenv("TASK_GREETING"),
		Rounds:         envInt("ROUNDS", 3),
		Order:          internal.OrderMode(envString("ORDER", string(internal.OrderShuffled))),
		Seed:           int64(envInt("SEED", 0)),
		GameMode:       internal.GameMode(envString("GAME_MODE", string(internal.ModeOneBlind))),
		Public:         envBool("PUBLIC", false),
		RoundTimeout:   envDuration("ROUND_TIMEOUT", internal.DefaultRoundDuration),
		GraceTimeout:   envDuration("GRACE_TIMEOUT", internal.DefaultGraceDuration),
		WaitingTimeout: envDuration("WAITING_TIMEOUT", internal.DefaultWaitingDuration),
		ListenAddr:     envString("LISTEN_ADDR", ":8080"),
		LogLevel:       envString("LOG_LEVEL", "info"),
	}

	if cfg.BotToken == "" {
		return nil, fmt.Errorf("config: BOT_TOKEN is required")
	}
	if cfg.BotUser == "" {
		return nil, fmt.Errorf("config: BOT_USER is required")
	}

	switch cfg.GameMode {
	case internal.ModeSame, internal.ModeDifferent, internal.ModeOneBlind:
	default:
		return nil, fmt.Errorf("config: unknown GAME_MODE %q", cfg.GameMode)
	}
	switch cfg.Order {
	case internal.OrderLinear, internal.OrderShuffled:
	default:
		return nil, fmt.Errorf("config: unknown ORDER %q", cfg.Order)
	}

	return cfg, nil
}

// ChatURL is the base URL of the chat host, port included.
func (c *Config) ChatURL() string {
	if c.ChatPort == "" {
		return c.ChatHost
	}
	return c.ChatHost + ":" + c.ChatPort
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
