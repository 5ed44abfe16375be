package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server          ServerConfig
	Database        DatabaseConfig
	Redis           RedisConfig
	Kafka           KafkaConfig
	DistanceService ServiceConfig
	TaxService      ServiceConfig
	Pricing         PricingConfig
	Features        FeatureFlags
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
}

func (d DatabaseConfig) ConnectionString() string {
	return "host=" + d.Host +
		" port=" + strconv.Itoa(d.Port) +
		" user=" + d.User +
		" password=" + d.Password +
		" dbname=" + d.Name +
		" sslmode=" + d.SSLMode
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	TTL      time.Duration
}

type KafkaConfig struct {
	Brokers       []string
	QuotesTopic   string
	OrdersTopic   string
	BookingsTopic string
	ConsumerGroup string
}

type ServiceConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// PricingConfig carries order-level pricing defaults. Rates are in basis
// points (100bp = 1%); amounts are in minor units.
type PricingConfig struct {
	Currency            string
	DefaultTaxRateBP    int64
	ServiceFeeBP        int64
	ServiceFeeFixed     int64
	ServiceFeeIsPercent bool
}

type FeatureFlags struct {
	EnableQuoteCaching   bool
	EnableOrderEvents    bool
	EnableDistanceLookup bool
	EnableTaxLookup      bool
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnvInt("SERVER_PORT", 8082),
			ReadTimeout:  time.Duration(getEnvInt("SERVER_READ_TIMEOUT", 30)) * time.Second,
			WriteTimeout: time.Duration(getEnvInt("SERVER_WRITE_TIMEOUT", 30)) * time.Second,
		},
		Database: DatabaseConfig{
			Host:         getEnvString("DB_HOST", "localhost"),
			Port:         getEnvInt("DB_PORT", 5432),
			User:         getEnvString("DB_USER", "tablescape"),
			Password:     getEnvString("DB_PASSWORD", "tablescape"),
			Name:         getEnvString("DB_NAME", "tablescape_orders"),
			SSLMode:      getEnvString("DB_SSLMODE", "disable"),
			MaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:  time.Duration(getEnvInt("DB_CONN_MAX_LIFETIME", 300)) * time.Second,
		},
		Redis: RedisConfig{
			Host:     getEnvString("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnvString("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			TTL:      time.Duration(getEnvInt("REDIS_TTL_SECONDS", 300)) * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers:       []string{getEnvString("KAFKA_BROKER", "localhost:9092")},
			QuotesTopic:   getEnvString("KAFKA_QUOTES_TOPIC", "pricing.quotes"),
			OrdersTopic:   getEnvString("KAFKA_ORDERS_TOPIC", "pricing.orders"),
			BookingsTopic: getEnvString("KAFKA_BOOKINGS_TOPIC", "bookings.updates"),
			ConsumerGroup: getEnvString("KAFKA_CONSUMER_GROUP", "orders-service"),
		},
		DistanceService: ServiceConfig{
			BaseURL: getEnvString("DISTANCE_SERVICE_URL", "http://localhost:8091"),
			APIKey:  getEnvString("DISTANCE_SERVICE_API_KEY", ""),
			Timeout: time.Duration(getEnvInt("DISTANCE_SERVICE_TIMEOUT", 10)) * time.Second,
		},
		TaxService: ServiceConfig{
			BaseURL: getEnvString("TAX_SERVICE_URL", "http://localhost:8092"),
			APIKey:  getEnvString("TAX_SERVICE_API_KEY", ""),
			Timeout: time.Duration(getEnvInt("TAX_SERVICE_TIMEOUT", 10)) * time.Second,
		},
		Pricing: PricingConfig{
			Currency:            getEnvString("PRICING_CURRENCY", "USD"),
			DefaultTaxRateBP:    getEnvInt64("PRICING_DEFAULT_TAX_RATE_BP", 825),
			ServiceFeeBP:        getEnvInt64("PRICING_SERVICE_FEE_BP", 500),
			ServiceFeeFixed:     getEnvInt64("PRICING_SERVICE_FEE_FIXED", 0),
			ServiceFeeIsPercent: getEnvBool("PRICING_SERVICE_FEE_IS_PERCENT", true),
		},
		Features: FeatureFlags{
			EnableQuoteCaching:   getEnvBool("FEATURE_QUOTE_CACHING", true),
			EnableOrderEvents:    getEnvBool("FEATURE_ORDER_EVENTS", true),
			EnableDistanceLookup: getEnvBool("FEATURE_DISTANCE_LOOKUP", true),
			EnableTaxLookup:      getEnvBool("FEATURE_TAX_LOOKUP", false),
		},
	}
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
