package config

import (
	"time"

	pkgconfig "github.com/artgaze/profile-service/pkg/config"
	"github.com/artgaze/profile-service/pkg/storage"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Kafka      KafkaConfig
	Reconciler ReconcilerConfig
	JWT        JWTConfig `mapstructure:"jwt"`
	Storage    StorageConfig
	Log        LogConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	FilePath        string `mapstructure:"file_path"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type KafkaConfig struct {
	Brokers string `mapstructure:"brokers"`
	Topic   string `mapstructure:"topic"`
	GroupID string `mapstructure:"group_id"`
}

type ReconcilerConfig struct {
	Interval time.Duration `mapstructure:"interval"`
	TopN     int           `mapstructure:"top_n"`
}

type JWTConfig struct {
	Secret   string        `mapstructure:"secret"`
	Issuer   string        `mapstructure:"issuer"`
	Duration time.Duration `mapstructure:"duration"`
}

type StorageConfig struct {
	Driver string              `mapstructure:"driver"` // s3, local
	URLTTL time.Duration       `mapstructure:"url_ttl"`
	Local  storage.LocalConfig `mapstructure:"local"`
	S3     storage.S3Config    `mapstructure:"s3"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

func Load() (*Config, error) {
	v, err := pkgconfig.Load("./config", "config")
	if err != nil {
		return nil, err
	}

	// Set defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8096)
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "postgres")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.file_path", "./data/profile.db")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", 60)
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("kafka.brokers", "localhost:9092")
	v.SetDefault("kafka.topic", "dbserver1.public.follows")
	v.SetDefault("kafka.group_id", "profile-service")
	v.SetDefault("reconciler.interval", "60s")
	v.SetDefault("reconciler.top_n", 100)
	v.SetDefault("jwt.issuer", "artgaze")
	v.SetDefault("jwt.duration", "15m")
	v.SetDefault("storage.driver", "local")
	v.SetDefault("storage.url_ttl", "15m")
	v.SetDefault("storage.local.base_url", "http://localhost:9000/media")
	v.SetDefault("log.level", "info")

	// Bind environment variables
	v.BindEnv("server.port", "PORT")
	v.BindEnv("database.driver", "DB_DRIVER")
	v.BindEnv("database.host", "DB_HOST")
	v.BindEnv("database.port", "DB_PORT")
	v.BindEnv("database.user", "DB_USER")
	v.BindEnv("database.password", "DB_PASSWORD")
	v.BindEnv("database.dbname", "DB_NAME")
	v.BindEnv("database.sslmode", "DB_SSLMODE")
	v.BindEnv("database.file_path", "DB_FILE_PATH")
	v.BindEnv("database.max_idle_conns", "DB_MAX_IDLE_CONNS")
	v.BindEnv("database.max_open_conns", "DB_MAX_OPEN_CONNS")
	v.BindEnv("database.conn_max_lifetime", "DB_CONN_MAX_LIFETIME")
	v.BindEnv("redis.address", "REDIS_ADDRESS")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("redis.db", "REDIS_DB")
	v.BindEnv("kafka.brokers", "KAFKA_BROKERS")
	v.BindEnv("kafka.topic", "KAFKA_TOPIC")
	v.BindEnv("kafka.group_id", "KAFKA_GROUP_ID")
	v.BindEnv("reconciler.interval", "RECONCILER_INTERVAL")
	v.BindEnv("reconciler.top_n", "RECONCILER_TOP_N")
	v.BindEnv("jwt.secret", "JWT_SECRET")
	v.BindEnv("jwt.issuer", "JWT_ISSUER")
	v.BindEnv("jwt.duration", "JWT_DURATION")
	v.BindEnv("storage.driver", "STORAGE_DRIVER")
	v.BindEnv("storage.url_ttl", "STORAGE_URL_TTL")
	v.BindEnv("storage.local.base_url", "STORAGE_LOCAL_BASE_URL")
	v.BindEnv("storage.s3.endpoint", "STORAGE_S3_ENDPOINT")
	v.BindEnv("storage.s3.region", "STORAGE_S3_REGION")
	v.BindEnv("storage.s3.bucket", "STORAGE_S3_BUCKET")
	v.BindEnv("storage.s3.access_key_id", "STORAGE_S3_ACCESS_KEY_ID")
	v.BindEnv("storage.s3.secret_access_key", "STORAGE_S3_SECRET_ACCESS_KEY")
	v.BindEnv("storage.s3.use_path_style", "STORAGE_S3_USE_PATH_STYLE")
	v.BindEnv("log.level", "LOG_LEVEL")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
