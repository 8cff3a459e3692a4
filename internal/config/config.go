package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/l1-pricing/internal/model"
	"github.com/sells-group/l1-pricing/internal/pricing"
)

// Config holds the full application configuration.
type Config struct {
	Dataset   DatasetConfig   `json:"dataset" yaml:"dataset" mapstructure:"dataset"`
	Pricing   PricingConfig   `json:"pricing" yaml:"pricing" mapstructure:"pricing"`
	Server    ServerConfig    `json:"server" yaml:"server" mapstructure:"server"`
	Log       LogConfig       `json:"log" yaml:"log" mapstructure:"log"`
	Telemetry TelemetryConfig `json:"telemetry" yaml:"telemetry" mapstructure:"telemetry"`
}

// Dataset drivers.
const (
	DriverCSV      = "csv"
	DriverXLSX     = "xlsx"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

// DatasetConfig selects and locates the historical tender datasets.
type DatasetConfig struct {
	Driver        string `json:"driver" yaml:"driver" mapstructure:"driver"`
	FinancialPath string `json:"financial_path" yaml:"financial_path" mapstructure:"financial_path"`
	BasicPath     string `json:"basic_path" yaml:"basic_path" mapstructure:"basic_path"`
	Encoding      string `json:"encoding" yaml:"encoding" mapstructure:"encoding"`
	Sheet         string `json:"sheet" yaml:"sheet" mapstructure:"sheet"`
	DatabaseURL   string `json:"-" yaml:"database_url" mapstructure:"database_url"`
	MongoDatabase string `json:"mongo_database" yaml:"mongo_database" mapstructure:"mongo_database"`
	CacheTTLSecs  int    `json:"cache_ttl_secs" yaml:"cache_ttl_secs" mapstructure:"cache_ttl_secs"`
}

// CacheTTL returns the in-memory dataset lifetime; zero never expires.
func (d DatasetConfig) CacheTTL() time.Duration {
	return time.Duration(d.CacheTTLSecs) * time.Second
}

// PricingConfig holds the pricing policy knobs.
type PricingConfig struct {
	MinTenderPrice          float64 `json:"min_tender_price" yaml:"min_tender_price" mapstructure:"min_tender_price"`
	EnforceMinTenderPrice   bool    `json:"enforce_min_tender_price" yaml:"enforce_min_tender_price" mapstructure:"enforce_min_tender_price"`
	BandPolicy              string  `json:"band_policy" yaml:"band_policy" mapstructure:"band_policy"`
	SellerPercentile        float64 `json:"seller_percentile" yaml:"seller_percentile" mapstructure:"seller_percentile"`
	LowPercentile           float64 `json:"low_percentile" yaml:"low_percentile" mapstructure:"low_percentile"`
	HighPercentile          float64 `json:"high_percentile" yaml:"high_percentile" mapstructure:"high_percentile"`
	LowUndercut             float64 `json:"low_undercut" yaml:"low_undercut" mapstructure:"low_undercut"`
	HighUndercut            float64 `json:"high_undercut" yaml:"high_undercut" mapstructure:"high_undercut"`
	SpreadCorrection        float64 `json:"spread_correction" yaml:"spread_correction" mapstructure:"spread_correction"`
	MinSellersForPercentile int     `json:"min_sellers_for_percentile" yaml:"min_sellers_for_percentile" mapstructure:"min_sellers_for_percentile"`
	TopSellers              int     `json:"top_sellers" yaml:"top_sellers" mapstructure:"top_sellers"`
	QuantityTolerance       float64 `json:"quantity_tolerance" yaml:"quantity_tolerance" mapstructure:"quantity_tolerance"`
	CurrencyLocale          string  `json:"currency_locale" yaml:"currency_locale" mapstructure:"currency_locale"`
}

// Options converts the configured policy into engine options.
func (p PricingConfig) Options() pricing.Options {
	return pricing.Options{
		SellerPercentile:        p.SellerPercentile,
		LowPercentile:           p.LowPercentile,
		HighPercentile:          p.HighPercentile,
		LowUndercut:             p.LowUndercut,
		HighUndercut:            p.HighUndercut,
		SpreadCorrection:        p.SpreadCorrection,
		MinSellersForPercentile: p.MinSellersForPercentile,
		MinTenderPrice:          p.MinTenderPrice,
		EnforceMinTenderPrice:   p.EnforceMinTenderPrice,
		BandPolicy:              model.BandPolicy(p.BandPolicy),
		TopSellers:              p.TopSellers,
		QuantityTolerance:       p.QuantityTolerance,
	}
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port           int      `json:"port" yaml:"port" mapstructure:"port"`
	RateLimitRPS   float64  `json:"rate_limit_rps" yaml:"rate_limit_rps" mapstructure:"rate_limit_rps"`
	RateLimitBurst int      `json:"rate_limit_burst" yaml:"rate_limit_burst" mapstructure:"rate_limit_burst"`
	AllowedOrigins []string `json:"allowed_origins" yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `json:"level" yaml:"level" mapstructure:"level"`
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// TelemetryConfig configures trace export. An empty endpoint disables it.
type TelemetryConfig struct {
	OTLPEndpoint string `json:"otlp_endpoint" yaml:"otlp_endpoint" mapstructure:"otlp_endpoint"`
	ServiceName  string `json:"service_name" yaml:"service_name" mapstructure:"service_name"`
}

// Load reads configuration from config.yaml, environment variables, and defaults.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("PRICING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	def := pricing.DefaultOptions()
	v.SetDefault("dataset.driver", DriverCSV)
	v.SetDefault("dataset.financial_path", "data/raw/scraper_single_bid_results_financial.csv")
	v.SetDefault("dataset.basic_path", "data/raw/scraper_single_bid_results_basic.csv")
	v.SetDefault("dataset.encoding", "utf-8")
	v.SetDefault("dataset.sheet", "")
	v.SetDefault("dataset.database_url", "")
	v.SetDefault("dataset.mongo_database", "l1_pricing")
	v.SetDefault("dataset.cache_ttl_secs", 0)
	v.SetDefault("pricing.min_tender_price", def.MinTenderPrice)
	v.SetDefault("pricing.enforce_min_tender_price", def.EnforceMinTenderPrice)
	v.SetDefault("pricing.band_policy", string(def.BandPolicy))
	v.SetDefault("pricing.seller_percentile", def.SellerPercentile)
	v.SetDefault("pricing.low_percentile", def.LowPercentile)
	v.SetDefault("pricing.high_percentile", def.HighPercentile)
	v.SetDefault("pricing.low_undercut", def.LowUndercut)
	v.SetDefault("pricing.high_undercut", def.HighUndercut)
	v.SetDefault("pricing.spread_correction", def.SpreadCorrection)
	v.SetDefault("pricing.min_sellers_for_percentile", def.MinSellersForPercentile)
	v.SetDefault("pricing.top_sellers", def.TopSellers)
	v.SetDefault("pricing.quantity_tolerance", def.QuantityTolerance)
	v.SetDefault("pricing.currency_locale", "en-IN")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.rate_limit_rps", 10)
	v.SetDefault("server.rate_limit_burst", 20)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("telemetry.otlp_endpoint", "")
	v.SetDefault("telemetry.service_name", "l1-pricing")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	switch c.Dataset.Driver {
	case DriverCSV, DriverXLSX:
		if c.Dataset.FinancialPath == "" {
			return eris.New("config: dataset.financial_path is required")
		}
	case DriverSQLite, DriverPostgres, DriverMongo:
		if c.Dataset.DatabaseURL == "" {
			return eris.Errorf("config: dataset.database_url is required for %s", c.Dataset.Driver)
		}
	default:
		return eris.Errorf("config: unknown dataset.driver %q", c.Dataset.Driver)
	}
	if c.Dataset.CacheTTLSecs < 0 {
		return eris.New("config: dataset.cache_ttl_secs must not be negative")
	}
	if err := c.Pricing.Options().Validate(); err != nil {
		return eris.Wrap(err, "config: pricing")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return eris.Errorf("config: server.port %d out of range", c.Server.Port)
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
