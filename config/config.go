package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig    `json:"server"`
	Backend   BackendConfig   `json:"backend"`
	Credits   CreditsConfig   `json:"credits"`
	Polling   PollingConfig   `json:"polling"`
	Cache     CacheConfig     `json:"cache"`
	Redis     RedisConfig     `json:"redis"`
	MongoDB   MongoDBConfig   `json:"mongodb"`
	GeoIP     GeoIPConfig     `json:"geoip"`
	WebSocket WebSocketConfig `json:"websocket"`
	Gemini    GeminiConfig    `json:"gemini"`
	Jupiter   JupiterConfig   `json:"jupiter"`
	Discord   DiscordConfig   `json:"discord"`
	Network   NetworkConfig   `json:"network"`
}

type ServerConfig struct {
	Port           int      `json:"port"`
	Host           string   `json:"host"`
	AllowedOrigins []string `json:"allowed_origins"`
}

// BackendConfig points at the external pNode REST API every fetch adapter
// and the proxy layer forward to.
type BackendConfig struct {
	BaseURL string `json:"base_url"`
	APIKey  string `json:"api_key"`
	Timeout int    `json:"timeout_seconds"`
}

type CreditsConfig struct {
	BaseURL string `json:"base_url"`
	Network string `json:"network"` // "devnet" or "mainnet"
}

type PollingConfig struct {
	StatsInterval   int `json:"stats_interval_seconds"`
	CreditsInterval int `json:"credits_interval_seconds"`
	HistoryInterval int `json:"history_interval_seconds"`
}

type CacheConfig struct {
	TTL int `json:"ttl_seconds"`
}

type RedisConfig struct {
	Address  string `json:"address"`
	Password string `json:"password"`
	DB       int    `json:"db"`
	Enabled  bool   `json:"enabled"`
	UseTLS   bool   `json:"use_tls"`
}

type MongoDBConfig struct {
	URI      string `json:"uri"`
	Database string `json:"database"`
	Enabled  bool   `json:"enabled"`
}

type GeoIPConfig struct {
	DBPath string `json:"db_path"`
}

type WebSocketConfig struct {
	URL           string `json:"url"`
	MaxReconnects int    `json:"max_reconnects"`
	BackoffStep   int    `json:"backoff_step_seconds"`
}

type GeminiConfig struct {
	APIKey string `json:"api_key"`
	Model  string `json:"model"`
}

type JupiterConfig struct {
	BaseURL string `json:"base_url"`
}

type DiscordConfig struct {
	BotToken  string `json:"bot_token"`
	ChannelID string `json:"channel_id"`
}

type NetworkConfig struct {
	LatestVersion string `json:"latest_version"`
}

func LoadConfig() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	// Default configuration
	cfg := &Config{
		Server: ServerConfig{
			Port:           8080,
			Host:           "0.0.0.0",
			AllowedOrigins: []string{"*"},
		},
		Backend: BackendConfig{
			Timeout: 10,
		},
		Credits: CreditsConfig{
			BaseURL: "https://podcredits.xandeum.network",
			Network: "mainnet",
		},
		Polling: PollingConfig{
			StatsInterval:   30,
			CreditsInterval: 30,
			HistoryInterval: 60,
		},
		Cache: CacheConfig{
			TTL: 35,
		},
		Redis: RedisConfig{
			Address: "localhost:6379",
			Enabled: true,
		},
		MongoDB: MongoDBConfig{
			URI:      "mongodb://localhost:27017",
			Database: "pnode_analytics",
			Enabled:  true,
		},
		WebSocket: WebSocketConfig{
			MaxReconnects: 10,
			BackoffStep:   3,
		},
		Gemini: GeminiConfig{
			Model: "gemini-2.5-flash",
		},
		Jupiter: JupiterConfig{
			BaseURL: "https://quote-api.jup.ag/v6",
		},
	}

	// Load from config file if exists
	configPath := os.Getenv("CONFIG_FILE")
	if configPath == "" {
		configPath = "config/config.json"
	}

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.Open(configPath)
		if err == nil {
			defer file.Close()
			decoder := json.NewDecoder(file)
			if err := decoder.Decode(cfg); err != nil {
				fmt.Printf("Warning: Failed to decode config file: %v\n", err)
			}
		}
	}

	// Environment variables override the config file
	loadEnv(cfg)

	// Command-line flags override everything
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	var serverPort int
	var serverHost string

	fs.IntVar(&serverPort, "port", 0, "Server port")
	fs.StringVar(&serverHost, "host", "", "Server host")

	_ = fs.Parse(os.Args[1:])

	if isFlagPassed(fs, "port") {
		cfg.Server.Port = serverPort
	}
	if isFlagPassed(fs, "host") {
		cfg.Server.Host = serverHost
	}

	return cfg, nil
}

func isFlagPassed(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

func loadEnv(cfg *Config) {
	// Server configuration
	if val := os.Getenv("SERVER_PORT"); val != "" {
		if p, err := strconv.Atoi(val); err == nil {
			cfg.Server.Port = p
		}
	}
	if val := os.Getenv("SERVER_HOST"); val != "" {
		cfg.Server.Host = val
	}
	if val := os.Getenv("ALLOWED_ORIGINS"); val != "" {
		cfg.Server.AllowedOrigins = strings.Split(val, ",")
	}

	// Backend API
	if val := os.Getenv("API_BASE"); val != "" {
		cfg.Backend.BaseURL = strings.TrimRight(val, "/")
	}
	if val := os.Getenv("API_KEY"); val != "" {
		cfg.Backend.APIKey = val
	}
	if val := os.Getenv("API_TIMEOUT"); val != "" {
		if p, err := strconv.Atoi(val); err == nil {
			cfg.Backend.Timeout = p
		}
	}

	// Credits feed
	if val := os.Getenv("CREDITS_BASE_URL"); val != "" {
		cfg.Credits.BaseURL = strings.TrimRight(val, "/")
	}
	if val := os.Getenv("CREDITS_NETWORK"); val != "" {
		cfg.Credits.Network = val
	}

	// Polling
	if val := os.Getenv("STATS_INTERVAL"); val != "" {
		if p, err := strconv.Atoi(val); err == nil {
			cfg.Polling.StatsInterval = p
		}
	}
	if val := os.Getenv("CREDITS_INTERVAL"); val != "" {
		if p, err := strconv.Atoi(val); err == nil {
			cfg.Polling.CreditsInterval = p
		}
	}
	if val := os.Getenv("HISTORY_INTERVAL"); val != "" {
		if p, err := strconv.Atoi(val); err == nil {
			cfg.Polling.HistoryInterval = p
		}
	}

	// Cache
	if val := os.Getenv("CACHE_TTL"); val != "" {
		if p, err := strconv.Atoi(val); err == nil {
			cfg.Cache.TTL = p
		}
	}

	// Redis
	if val := os.Getenv("REDIS_ADDRESS"); val != "" {
		cfg.Redis.Address = val
	}
	if val := os.Getenv("REDIS_PASSWORD"); val != "" {
		cfg.Redis.Password = val
	}
	if val := os.Getenv("REDIS_DB"); val != "" {
		if p, err := strconv.Atoi(val); err == nil {
			cfg.Redis.DB = p
		}
	}
	if val := os.Getenv("REDIS_ENABLED"); val != "" {
		cfg.Redis.Enabled = val == "true" || val == "1"
	}
	if val := os.Getenv("REDIS_USE_TLS"); val != "" {
		cfg.Redis.UseTLS = val == "true" || val == "1"
	}

	// MongoDB
	if val := os.Getenv("MONGODB_URI"); val != "" {
		cfg.MongoDB.URI = val
	}
	if val := os.Getenv("MONGODB_DATABASE"); val != "" {
		cfg.MongoDB.Database = val
	}
	if val := os.Getenv("MONGODB_ENABLED"); val != "" {
		cfg.MongoDB.Enabled = val == "true" || val == "1"
	}

	// GeoIP
	if val := os.Getenv("GEOIP_DB_PATH"); val != "" {
		cfg.GeoIP.DBPath = val
	}

	// WebSocket live-update channel
	if val := os.Getenv("WEBSOCKET_URL"); val != "" {
		cfg.WebSocket.URL = val
	}
	if val := os.Getenv("WEBSOCKET_MAX_RECONNECTS"); val != "" {
		if p, err := strconv.Atoi(val); err == nil {
			cfg.WebSocket.MaxReconnects = p
		}
	}

	// Gemini
	if val := os.Getenv("GEMINI_API_KEY"); val != "" {
		cfg.Gemini.APIKey = val
	}
	if val := os.Getenv("GEMINI_MODEL"); val != "" {
		cfg.Gemini.Model = val
	}

	// Jupiter
	if val := os.Getenv("JUPITER_BASE_URL"); val != "" {
		cfg.Jupiter.BaseURL = strings.TrimRight(val, "/")
	}

	// Discord notifications
	if val := os.Getenv("DISCORD_BOT_TOKEN"); val != "" {
		cfg.Discord.BotToken = val
	}
	if val := os.Getenv("DISCORD_CHANNEL_ID"); val != "" {
		cfg.Discord.ChannelID = val
	}

	// Network metadata
	if val := os.Getenv("LATEST_VERSION"); val != "" {
		cfg.Network.LatestVersion = val
	}
}

// Maintenance reports whether the upstream backend is unconfigured; the HTTP
// layer short-circuits API routes with a fixed maintenance response in that
// case.
func (c *Config) Maintenance() bool {
	return c.Backend.BaseURL == "" || c.Backend.APIKey == ""
}

// Helper methods for duration conversion
func (c *Config) BackendTimeoutDuration() time.Duration {
	return time.Duration(c.Backend.Timeout) * time.Second
}

func (c *Config) StatsIntervalDuration() time.Duration {
	return time.Duration(c.Polling.StatsInterval) * time.Second
}

func (c *Config) CreditsIntervalDuration() time.Duration {
	return time.Duration(c.Polling.CreditsInterval) * time.Second
}

func (c *Config) HistoryIntervalDuration() time.Duration {
	return time.Duration(c.Polling.HistoryInterval) * time.Second
}

func (c *Config) CacheTTLDuration() time.Duration {
	return time.Duration(c.Cache.TTL) * time.Second
}

func (c *Config) WebSocketBackoffStep() time.Duration {
	return time.Duration(c.WebSocket.BackoffStep) * time.Second
}
