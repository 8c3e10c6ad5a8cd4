package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Cache     CacheConfig
	Log       LogConfig
	Worker    WorkerConfig
	Routing   RoutingConfig
	Optimizer OptimizerConfig
}

type ServerConfig struct {
	Host string
	Port int
	Env  string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CacheConfig struct {
	ResultCacheTTL time.Duration
}

type LogConfig struct {
	Level string
}

type WorkerConfig struct {
	Enabled           bool
	ConsumerGroup     string
	StreamReadTimeout time.Duration
	MaxRetries        int
	BatchSize         int
}

// RoutingConfig - настройки внешнего routing-движка (OSRM)
type RoutingConfig struct {
	OSRMBaseURL     string
	Profile         string
	RequestTimeout  time.Duration
	RetryAttempts   int
	MaxMatrixPoints int
	FallbackSpeed   float64 // км/ч для haversine-оценки времени
	DetourFactor    float64 // множитель haversine -> дорожное расстояние
}

// OptimizerConfig - настройки построения маршрутов
type OptimizerConfig struct {
	DefaultPointDemand float64 // литры на точку без указанного объёма
	StopServiceTime    time.Duration
	RequestTimeout     time.Duration
	TwoOptMaxPasses    int
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: viper.GetString("API_HOST"),
			Port: viper.GetInt("API_PORT"),
			Env:  viper.GetString("API_ENV"),
		},
		Database: DatabaseConfig{
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			User:            viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			DBName:          viper.GetString("DB_NAME"),
			SSLMode:         viper.GetString("DB_SSLMODE"),
			MaxConns:        viper.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(viper.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(viper.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetInt("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			ResultCacheTTL: time.Duration(viper.GetInt("RESULT_CACHE_TTL")) * time.Second,
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
		Worker: WorkerConfig{
			Enabled:           viper.GetBool("WORKER_ENABLED"),
			ConsumerGroup:     viper.GetString("WORKER_CONSUMER_GROUP"),
			StreamReadTimeout: time.Duration(viper.GetInt("WORKER_STREAM_READ_TIMEOUT")) * time.Millisecond,
			MaxRetries:        viper.GetInt("WORKER_MAX_RETRIES"),
			BatchSize:         viper.GetInt("WORKER_BATCH_SIZE"),
		},
		Routing: RoutingConfig{
			OSRMBaseURL:     viper.GetString("OSRM_BASE_URL"),
			Profile:         viper.GetString("OSRM_PROFILE"),
			RequestTimeout:  time.Duration(viper.GetInt("OSRM_REQUEST_TIMEOUT")) * time.Millisecond,
			RetryAttempts:   viper.GetInt("OSRM_RETRY_ATTEMPTS"),
			MaxMatrixPoints: viper.GetInt("OSRM_MAX_MATRIX_POINTS"),
			FallbackSpeed:   viper.GetFloat64("ROUTING_FALLBACK_SPEED_KMH"),
			DetourFactor:    viper.GetFloat64("ROUTING_DETOUR_FACTOR"),
		},
		Optimizer: OptimizerConfig{
			DefaultPointDemand: viper.GetFloat64("OPTIMIZER_DEFAULT_POINT_DEMAND"),
			StopServiceTime:    time.Duration(viper.GetInt("OPTIMIZER_STOP_SERVICE_TIME")) * time.Second,
			RequestTimeout:     time.Duration(viper.GetInt("OPTIMIZER_REQUEST_TIMEOUT")) * time.Second,
			TwoOptMaxPasses:    viper.GetInt("OPTIMIZER_TWO_OPT_MAX_PASSES"),
		},
	}

	// Set default values if not provided
	if cfg.Cache.ResultCacheTTL == 0 {
		cfg.Cache.ResultCacheTTL = 24 * time.Hour
	}
	if cfg.Worker.ConsumerGroup == "" {
		cfg.Worker.ConsumerGroup = "optimization-workers"
	}
	if cfg.Worker.StreamReadTimeout == 0 {
		cfg.Worker.StreamReadTimeout = 5000 * time.Millisecond
	}
	if cfg.Worker.MaxRetries == 0 {
		cfg.Worker.MaxRetries = 3
	}
	if cfg.Worker.BatchSize == 0 {
		cfg.Worker.BatchSize = 10
	}
	if cfg.Routing.OSRMBaseURL == "" {
		cfg.Routing.OSRMBaseURL = "http://localhost:5000"
	}
	if cfg.Routing.Profile == "" {
		cfg.Routing.Profile = "driving"
	}
	if cfg.Routing.RequestTimeout == 0 {
		cfg.Routing.RequestTimeout = 10000 * time.Millisecond
	}
	if cfg.Routing.RetryAttempts == 0 {
		cfg.Routing.RetryAttempts = 4
	}
	if cfg.Routing.MaxMatrixPoints == 0 {
		cfg.Routing.MaxMatrixPoints = 200
	}
	if cfg.Routing.FallbackSpeed == 0 {
		cfg.Routing.FallbackSpeed = 30
	}
	if cfg.Routing.DetourFactor == 0 {
		cfg.Routing.DetourFactor = 1.3
	}
	if cfg.Optimizer.DefaultPointDemand == 0 {
		cfg.Optimizer.DefaultPointDemand = 120
	}
	if cfg.Optimizer.StopServiceTime == 0 {
		cfg.Optimizer.StopServiceTime = 180 * time.Second
	}
	if cfg.Optimizer.RequestTimeout == 0 {
		cfg.Optimizer.RequestTimeout = 30 * time.Second
	}
	if cfg.Optimizer.TwoOptMaxPasses == 0 {
		cfg.Optimizer.TwoOptMaxPasses = 25
	}

	return cfg, nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
