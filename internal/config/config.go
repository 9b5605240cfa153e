// internal/config/config.go
package config

import (
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Cache      CacheConfig
	Simulation SimulationConfig
	Export     ExportConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type CacheConfig struct {
	Enabled          bool
	RedisURL         string
	RedisHost        string
	RedisPort        string
	RedisPassword    string
	RedisDB          int
	ResultTTLSeconds int
}

type SimulationConfig struct {
	DataDir           string
	AnnualHoldingRate float64
	StockoutPenalty   float64
	// OrderCost of 0 means "estimate from the supplier contract".
	OrderCost float64
	Seed      int64
}

type ExportConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		// Set default values
		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_READ_TIMEOUT", 15)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 15)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("DB_HOST", "localhost")
		viper.SetDefault("DB_PORT", "5432")
		viper.SetDefault("DB_USER", "postgres")
		viper.SetDefault("DB_PASSWORD", "postgres")
		viper.SetDefault("DB_NAME", "stocksim")
		viper.SetDefault("DB_SSLMODE", "disable")
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_RESULT_TTL_SECONDS", 300)
		viper.SetDefault("SIM_DATA_DIR", "./data")
		viper.SetDefault("SIM_ANNUAL_HOLDING_RATE", 0.25)
		viper.SetDefault("SIM_STOCKOUT_PENALTY", 5.0)
		viper.SetDefault("SIM_ORDER_COST", 0.0)
		viper.SetDefault("SIM_SEED", 42)
		viper.SetDefault("EXPORT_ENDPOINT", "")
		viper.SetDefault("EXPORT_ACCESS_KEY", "")
		viper.SetDefault("EXPORT_SECRET_KEY", "")
		viper.SetDefault("EXPORT_BUCKET", "")
		viper.SetDefault("EXPORT_REGION", "us-east-1")
		viper.SetDefault("EXPORT_USE_SSL", true)

		// Read from environment variables
		viper.AutomaticEnv()

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			Database: DatabaseConfig{
				Host:     viper.GetString("DB_HOST"),
				Port:     viper.GetString("DB_PORT"),
				User:     viper.GetString("DB_USER"),
				Password: viper.GetString("DB_PASSWORD"),
				DBName:   viper.GetString("DB_NAME"),
				SSLMode:  viper.GetString("DB_SSLMODE"),
			},
			Cache: CacheConfig{
				Enabled:          viper.GetBool("CACHE_ENABLED"),
				RedisURL:         viper.GetString("REDIS_URL"),
				RedisHost:        viper.GetString("REDIS_HOST"),
				RedisPort:        viper.GetString("REDIS_PORT"),
				RedisPassword:    viper.GetString("REDIS_PASSWORD"),
				RedisDB:          viper.GetInt("REDIS_DB"),
				ResultTTLSeconds: viper.GetInt("CACHE_RESULT_TTL_SECONDS"),
			},
			Simulation: SimulationConfig{
				DataDir:           viper.GetString("SIM_DATA_DIR"),
				AnnualHoldingRate: viper.GetFloat64("SIM_ANNUAL_HOLDING_RATE"),
				StockoutPenalty:   viper.GetFloat64("SIM_STOCKOUT_PENALTY"),
				OrderCost:         viper.GetFloat64("SIM_ORDER_COST"),
				Seed:              viper.GetInt64("SIM_SEED"),
			},
			Export: ExportConfig{
				Endpoint:  viper.GetString("EXPORT_ENDPOINT"),
				AccessKey: viper.GetString("EXPORT_ACCESS_KEY"),
				SecretKey: viper.GetString("EXPORT_SECRET_KEY"),
				Bucket:    viper.GetString("EXPORT_BUCKET"),
				Region:    viper.GetString("EXPORT_REGION"),
				UseSSL:    viper.GetBool("EXPORT_USE_SSL"),
			},
		}
	})

	return instance
}
