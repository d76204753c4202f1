package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type Config struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"` // json | console

	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Events      EventsConfig      `mapstructure:"events"`
	Kafka       KafkaConfig       `mapstructure:"kafka"`
	RabbitMQ    RabbitMQConfig    `mapstructure:"rabbitmq"`
	Menu        MenuConfig        `mapstructure:"menu"`
	Content     ContentConfig     `mapstructure:"content"`
	Search      SearchConfig      `mapstructure:"search"`
	Reservation ReservationConfig `mapstructure:"reservation"`
	Payment     PaymentConfig     `mapstructure:"payment"`
	Cart        CartConfig        `mapstructure:"cart"`
	Export      ExportConfig      `mapstructure:"export"`
	Seed        SeedConfig        `mapstructure:"seed"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	SweepInterval   time.Duration `mapstructure:"sweep_interval"`
}

// DatabaseConfig selects persistence. An empty URL keeps everything in memory.
type DatabaseConfig struct {
	URL      string `mapstructure:"url"`
	MaxConns int32  `mapstructure:"max_conns"`
}

type EventsConfig struct {
	Sink        string `mapstructure:"sink"` // kafka | rabbitmq | log | none
	TopicPrefix string `mapstructure:"topic_prefix"`
}

type KafkaConfig struct {
	BrokerList       string `mapstructure:"broker_list"`
	SessionTimeoutMs int    `mapstructure:"session_timeout_ms"`
}

type RabbitMQConfig struct {
	URL      string `mapstructure:"url"`
	Exchange string `mapstructure:"exchange"`
}

type MenuConfig struct {
	Path         string `mapstructure:"path"`
	RestaurantID string `mapstructure:"restaurant_id"`
}

type ContentConfig struct {
	Path     string `mapstructure:"path"`
	S3Bucket string `mapstructure:"s3_bucket"`
	S3Key    string `mapstructure:"s3_key"`
	Region   string `mapstructure:"region"`
}

type SearchConfig struct {
	RemoteURL     string        `mapstructure:"remote_url"`
	RemoteTimeout time.Duration `mapstructure:"remote_timeout"`
	Weights       SearchWeights `mapstructure:"weights"`
}

type SearchWeights struct {
	Name        int `mapstructure:"name"`
	Description int `mapstructure:"description"`
	Category    int `mapstructure:"category"`
	Tag         int `mapstructure:"tag"`
}

type ReservationConfig struct {
	DebounceWindow  time.Duration `mapstructure:"debounce_window"`
	SlotInterval    time.Duration `mapstructure:"slot_interval"`
	SittingDuration time.Duration `mapstructure:"sitting_duration"`
	Timezone        string        `mapstructure:"timezone"`
	RPCURL          string        `mapstructure:"rpc_url"`
	RPCTimeout      time.Duration `mapstructure:"rpc_timeout"`
}

type PaymentConfig struct {
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	AwaitTimeout   time.Duration `mapstructure:"await_timeout"`
	SessionTTL     time.Duration `mapstructure:"session_ttl"`
}

type CartConfig struct {
	IdleTTL time.Duration `mapstructure:"idle_ttl"`
}

type ExportConfig struct {
	OutputPath   string `mapstructure:"output_path"`
	OutputFolder string `mapstructure:"output_folder"`
	Destination  string `mapstructure:"destination"` // local | s3
	BucketName   string `mapstructure:"bucket_name"`
	Region       string `mapstructure:"region"`
}

type SeedConfig struct {
	Seed        int64 `mapstructure:"seed"`
	Restaurants int   `mapstructure:"restaurants"`
	MinItems    int   `mapstructure:"min_items"`
	MaxItems    int   `mapstructure:"max_items"`
	Tables      int   `mapstructure:"tables"`
}

// SetDefaults registers every default on v so a config file only needs the
// values it changes.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", 5*time.Second)
	v.SetDefault("server.write_timeout", 35*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)
	v.SetDefault("server.sweep_interval", time.Minute)

	v.SetDefault("database.max_conns", 10)

	v.SetDefault("events.sink", "log")
	v.SetDefault("events.topic_prefix", "foodsite")
	v.SetDefault("kafka.broker_list", "localhost:9092")
	v.SetDefault("rabbitmq.exchange", "foodsite_events")

	v.SetDefault("content.region", "us-east-1")

	v.SetDefault("search.remote_timeout", 2*time.Second)
	v.SetDefault("search.weights.name", 10)
	v.SetDefault("search.weights.description", 5)
	v.SetDefault("search.weights.category", 3)
	v.SetDefault("search.weights.tag", 2)

	v.SetDefault("reservation.debounce_window", time.Second)
	v.SetDefault("reservation.slot_interval", 30*time.Minute)
	v.SetDefault("reservation.sitting_duration", 90*time.Minute)
	v.SetDefault("reservation.timezone", "UTC")
	v.SetDefault("reservation.rpc_url", "http://localhost:8080")
	v.SetDefault("reservation.rpc_timeout", 5*time.Second)

	v.SetDefault("payment.await_timeout", 30*time.Second)
	v.SetDefault("payment.session_ttl", 30*time.Minute)

	v.SetDefault("cart.idle_ttl", 24*time.Hour)

	v.SetDefault("export.output_path", ".")
	v.SetDefault("export.output_folder", "export")
	v.SetDefault("export.destination", "local")
	v.SetDefault("export.region", "us-east-1")

	v.SetDefault("seed.seed", 42)
	v.SetDefault("seed.restaurants", 3)
	v.SetDefault("seed.min_items", 10)
	v.SetDefault("seed.max_items", 30)
	v.SetDefault("seed.tables", 12)
}

// LoadConfig initializes and reads the configuration using Viper. A missing
// default config file is not an error; an explicit one that fails to read is.
func LoadConfig(v *viper.Viper, cfgFile string) (*Config, error) {
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("examples")
		v.SetConfigName("foodsite")
	}

	v.SetEnvPrefix("FOODSITE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	decoderConfigOption := viper.DecoderConfigOption(func(config *mapstructure.DecoderConfig) {
		config.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	})
	if err := v.Unmarshal(&config, decoderConfigOption); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) Validate() error {
	switch c.Events.Sink {
	case "kafka", "rabbitmq", "log", "none":
	default:
		return fmt.Errorf("invalid events.sink %q: must be kafka, rabbitmq, log or none", c.Events.Sink)
	}
	if c.Reservation.DebounceWindow < 0 {
		return fmt.Errorf("reservation.debounce_window must not be negative")
	}
	if c.Reservation.SlotInterval <= 0 {
		return fmt.Errorf("reservation.slot_interval must be positive")
	}
	if c.Reservation.SittingDuration <= 0 {
		return fmt.Errorf("reservation.sitting_duration must be positive")
	}
	if c.Server.SweepInterval <= 0 {
		return fmt.Errorf("server.sweep_interval must be positive")
	}
	if _, err := time.LoadLocation(c.Reservation.Timezone); err != nil {
		return fmt.Errorf("invalid reservation.timezone: %w", err)
	}
	return nil
}

// Location resolves Reservation.Timezone; Validate has already checked it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Reservation.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
