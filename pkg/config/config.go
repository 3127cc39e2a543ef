package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full runtime configuration of the storefront service.
// Everything here is read once at startup and treated as immutable.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Pricing  PricingConfig  `mapstructure:"pricing"`
	Delivery DeliveryConfig `mapstructure:"delivery"`
	Payment  PaymentConfig  `mapstructure:"payment"`
	Cart     CartConfig     `mapstructure:"cart"`
	Redis    RedisConfig    `mapstructure:"redis"`
	BaaS     BaaSConfig     `mapstructure:"baas"`
	Events   EventsConfig   `mapstructure:"events"`
	Promos   []PromoConfig  `mapstructure:"promos"`
	Log      LogConfig      `mapstructure:"log"`
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
}

type ServerConfig struct {
	Port            int             `mapstructure:"port"`
	ReadTimeout     time.Duration   `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration   `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration   `mapstructure:"shutdown_timeout"`
	RateLimit       RateLimitConfig `mapstructure:"rate_limit"`
}

type RateLimitConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	Rate    float64 `mapstructure:"rate"`
	Burst   int     `mapstructure:"burst"`
}

// PricingConfig carries the storefront money constants. The shop serves
// a single market, so there is one currency and one flat shipping rate.
// Decimal values are kept as strings and parsed once at wiring time.
type PricingConfig struct {
	Currency              string `mapstructure:"currency"`
	CurrencySymbol        string `mapstructure:"currency_symbol"`
	TaxRate               string `mapstructure:"tax_rate"`
	ShippingCost          string `mapstructure:"shipping_cost"`
	FreeShippingThreshold string `mapstructure:"free_shipping_threshold"`
}

// DeliveryConfig is the delivery acceptance policy: the state field must
// contain one of the region keywords and the pincode must be in the
// allow-list. Both rules are load-bearing for order acceptance.
type DeliveryConfig struct {
	RegionName      string   `mapstructure:"region_name"`
	RegionKeywords  []string `mapstructure:"region_keywords"`
	AllowedPincodes []string `mapstructure:"allowed_pincodes"`
}

type PaymentConfig struct {
	Methods       []string `mapstructure:"methods"`
	DefaultMethod string   `mapstructure:"default_method"`
}

type CartConfig struct {
	Backend    string `mapstructure:"backend"` // file, redis or memory
	Path       string `mapstructure:"path"`
	StorageKey string `mapstructure:"storage_key"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type BaaSConfig struct {
	URL     string        `mapstructure:"url"`
	AnonKey string        `mapstructure:"anon_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type EventsConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type PromoConfig struct {
	Code    string `mapstructure:"code"`
	Type    string `mapstructure:"type"` // percentage or shipping
	Percent string `mapstructure:"percent"`
}

type LogConfig struct {
	Level     string `mapstructure:"level"`
	AddSource bool   `mapstructure:"add_source"`
}

// Load reads config.yaml (if present) and STORE_* environment
// variables, falling back to the built-in defaults.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("STORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "storefront")
	v.SetDefault("app.env", "dev")

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.rate_limit.enabled", true)
	v.SetDefault("server.rate_limit.rate", 100)
	v.SetDefault("server.rate_limit.burst", 200)

	v.SetDefault("pricing.currency", "INR")
	v.SetDefault("pricing.currency_symbol", "₹")
	v.SetDefault("pricing.tax_rate", "0")
	v.SetDefault("pricing.shipping_cost", "25")
	v.SetDefault("pricing.free_shipping_threshold", "999")

	v.SetDefault("delivery.region_name", "Jammu & Kashmir")
	v.SetDefault("delivery.region_keywords", []string{"jammu", "kashmir"})
	v.SetDefault("delivery.allowed_pincodes", []string{"192231", "192233"})

	v.SetDefault("payment.methods", []string{"cod", "card", "paypal", "apple"})
	v.SetDefault("payment.default_method", "cod")

	v.SetDefault("cart.backend", "file")
	v.SetDefault("cart.path", "data/storefront")
	v.SetDefault("cart.storage_key", "cart_items")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("baas.url", "http://localhost:54321")
	v.SetDefault("baas.anon_key", "")
	v.SetDefault("baas.timeout", "5s")

	v.SetDefault("events.enabled", false)
	v.SetDefault("events.brokers", []string{"localhost:9092"})
	v.SetDefault("events.topic", "storefront.orders.placed")

	v.SetDefault("promos", []map[string]any{
		{"code": "SAVE10", "type": "percentage", "percent": "10"},
		{"code": "WELCOME20", "type": "percentage", "percent": "20"},
		{"code": "FREESHIP", "type": "shipping", "percent": "0"},
	})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.add_source", true)
}
