package config

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"github.com/mitchellh/mapstructure"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"github.com/spf13/viper"
)

const envPrefix = "FOODHUB"

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Auth     AuthConfig     `mapstructure:"auth"`
	SMTP     SMTPConfig     `mapstructure:"smtp"`
	Shop     ShopConfig     `mapstructure:"shop"`
	Orders   OrdersConfig   `mapstructure:"orders"`
	Images   ImagesConfig   `mapstructure:"images"`
	Maps     MapsConfig     `mapstructure:"maps"`
}

type ServerConfig struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	CORSOrigins  []string      `mapstructure:"cors_origins"`
}

type DatabaseConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	User         string        `mapstructure:"user"`
	Password     string        `mapstructure:"password"`
	Name         string        `mapstructure:"name"`
	SSLMode      string        `mapstructure:"sslmode"`
	MaxOpenConns int           `mapstructure:"max_open_conns"`
	MaxIdleConns int           `mapstructure:"max_idle_conns"`
	ConnLifetime time.Duration `mapstructure:"conn_lifetime"`
}

// DSN renders the lib/pq keyword/value connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type KafkaConfig struct {
	Enabled       bool     `mapstructure:"enabled"`
	Brokers       []string `mapstructure:"brokers"`
	OrdersTopic   string   `mapstructure:"orders_topic"`
	ConsumerGroup string   `mapstructure:"consumer_group"`
}

type AuthConfig struct {
	JWTSecret      string        `mapstructure:"jwt_secret"`
	TokenTTL       time.Duration `mapstructure:"token_ttl"`
	BcryptCost     int           `mapstructure:"bcrypt_cost"`
	OTPTTL         time.Duration `mapstructure:"otp_ttl"`
	OTPMaxAttempts int           `mapstructure:"otp_max_attempts"`
}

type SMTPConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type ShopConfig struct {
	Name          string  `mapstructure:"name"`
	Latitude      float64 `mapstructure:"latitude"`
	Longitude     float64 `mapstructure:"longitude"`
	MaxDeliveryKm float64 `mapstructure:"max_delivery_km"`
	PublicURL     string  `mapstructure:"public_url"`
}

type OrdersConfig struct {
	TaxRate             float64 `mapstructure:"tax_rate"`
	RejectTotalMismatch bool    `mapstructure:"reject_total_mismatch"`
	StrictStock         bool    `mapstructure:"strict_stock"`
	EnforceTransitions  bool    `mapstructure:"enforce_transitions"`
}

type ImagesConfig struct {
	Driver       string `mapstructure:"driver"`
	UploadDir    string `mapstructure:"upload_dir"`
	PublicPrefix string `mapstructure:"public_prefix"`
	S3Bucket     string `mapstructure:"s3_bucket"`
	S3Region     string `mapstructure:"s3_region"`
}

type MapsConfig struct {
	AutocompleteURL string        `mapstructure:"autocomplete_url"`
	APIKey          string        `mapstructure:"api_key"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8081")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.cors_origins", []string{"*"})

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "foodhub")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_lifetime", time.Hour)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("kafka.enabled", true)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.orders_topic", "orders")
	v.SetDefault("kafka.consumer_group", "agg-svc")

	v.SetDefault("auth.jwt_secret", "change-me")
	v.SetDefault("auth.token_ttl", 7*24*time.Hour)
	v.SetDefault("auth.bcrypt_cost", 10)
	v.SetDefault("auth.otp_ttl", 10*time.Minute)
	v.SetDefault("auth.otp_max_attempts", 5)

	v.SetDefault("smtp.enabled", false)
	v.SetDefault("smtp.host", "localhost")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.user", "")
	v.SetDefault("smtp.password", "")
	v.SetDefault("smtp.from", "no-reply@foodhub.local")

	v.SetDefault("shop.name", "FoodHub")
	v.SetDefault("shop.latitude", 41.3874)
	v.SetDefault("shop.longitude", 2.1686)
	v.SetDefault("shop.max_delivery_km", 6.0)
	v.SetDefault("shop.public_url", "http://localhost:8081")

	v.SetDefault("orders.tax_rate", 0.0)
	v.SetDefault("orders.reject_total_mismatch", false)
	v.SetDefault("orders.strict_stock", true)
	v.SetDefault("orders.enforce_transitions", true)

	v.SetDefault("images.driver", "local")
	v.SetDefault("images.upload_dir", "./uploads")
	v.SetDefault("images.public_prefix", "/uploads")
	v.SetDefault("images.s3_bucket", "")
	v.SetDefault("images.s3_region", "eu-west-1")

	v.SetDefault("maps.autocomplete_url", "https://nominatim.openstreetmap.org/search")
	v.SetDefault("maps.api_key", "")
	v.SetDefault("maps.timeout", 5*time.Second)
}

// Load reads the optional config file, then environment overrides such as
// FOODHUB_DATABASE_HOST.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	decoderConfigOption := viper.DecoderConfigOption(func(dc *mapstructure.DecoderConfig) {
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	})
	if err := v.Unmarshal(&cfg, decoderConfigOption); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Shop.MaxDeliveryKm <= 0 {
		return fmt.Errorf("shop.max_delivery_km must be positive")
	}
	if c.Orders.TaxRate < 0 || c.Orders.TaxRate >= 1 {
		return fmt.Errorf("orders.tax_rate must be in [0,1)")
	}
	switch c.Images.Driver {
	case "local", "s3":
	default:
		return fmt.Errorf("images.driver must be local or s3, got %q", c.Images.Driver)
	}
	return nil
}

func MustInitPostgres(cfg DatabaseConfig) *sql.DB {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err = db.Ping(); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnLifetime)

	return db
}

func MustInitRedis(cfg RedisConfig) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	return client
}

func NewKafkaReader(cfg KafkaConfig) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: cfg.Brokers,
		Topic:   cfg.OrdersTopic,
		GroupID: cfg.ConsumerGroup,
	})
}

func NewKafkaWriter(cfg KafkaConfig) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.OrdersTopic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
}
