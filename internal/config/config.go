package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Browser   BrowserConfig   `yaml:"browser" mapstructure:"browser"`
	Discovery DiscoveryConfig `yaml:"discovery" mapstructure:"discovery"`
	Crawl     CrawlConfig     `yaml:"crawl" mapstructure:"crawl"`
	Retention RetentionConfig `yaml:"retention" mapstructure:"retention"`
	Schedule  ScheduleConfig  `yaml:"schedule" mapstructure:"schedule"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// BrowserConfig configures the headless browser session.
type BrowserConfig struct {
	Headless       bool   `yaml:"headless" mapstructure:"headless"`
	ExecPath       string `yaml:"exec_path" mapstructure:"exec_path"`
	UserAgent      string `yaml:"user_agent" mapstructure:"user_agent"`
	Lang           string `yaml:"lang" mapstructure:"lang"`
	WindowWidth    int    `yaml:"window_width" mapstructure:"window_width"`
	WindowHeight   int    `yaml:"window_height" mapstructure:"window_height"`
	NavTimeoutSecs int    `yaml:"nav_timeout_secs" mapstructure:"nav_timeout_secs"`
	SettlePasses   int    `yaml:"settle_passes" mapstructure:"settle_passes"`
	SettlePauseMs  int    `yaml:"settle_pause_ms" mapstructure:"settle_pause_ms"`
	NavPerMinute   int    `yaml:"nav_per_minute" mapstructure:"nav_per_minute"`
}

// DiscoveryConfig configures brand discovery over category pages.
type DiscoveryConfig struct {
	BaseURL    string            `yaml:"base_url" mapstructure:"base_url"`
	Categories map[string]string `yaml:"categories" mapstructure:"categories"`
	BrandCap   int               `yaml:"brand_cap" mapstructure:"brand_cap"`
}

// CrawlConfig configures the per-brand listing crawl.
type CrawlConfig struct {
	PerBrandLimit     int      `yaml:"per_brand_limit" mapstructure:"per_brand_limit"`
	DetailBaseURL     string   `yaml:"detail_base_url" mapstructure:"detail_base_url"`
	PlaceholderImages []string `yaml:"placeholder_images" mapstructure:"placeholder_images"`
}

// RetentionConfig configures the stale-item purge.
type RetentionConfig struct {
	Days int `yaml:"days" mapstructure:"days"`
}

// ScheduleConfig configures the optional in-process daily schedule.
type ScheduleConfig struct {
	Enabled   bool `yaml:"enabled" mapstructure:"enabled"`
	CrawlHour int  `yaml:"crawl_hour" mapstructure:"crawl_hour"`
	PurgeHour int  `yaml:"purge_hour" mapstructure:"purge_hour"`
}

// ServerConfig configures the admin trigger server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("GIFTCRAWL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "giftcrawl.db")
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.user_agent", "Mozilla/5.0")
	v.SetDefault("browser.lang", "ko-KR")
	v.SetDefault("browser.window_width", 1280)
	v.SetDefault("browser.window_height", 2200)
	v.SetDefault("browser.nav_timeout_secs", 12)
	v.SetDefault("browser.settle_passes", 5)
	v.SetDefault("browser.settle_pause_ms", 500)
	v.SetDefault("browser.nav_per_minute", 30)
	v.SetDefault("discovery.base_url", "https://gift.kakao.com")
	v.SetDefault("discovery.brand_cap", 10)
	v.SetDefault("discovery.categories", map[string]string{
		"뷰티":  "https://gift.kakao.com/category/6",
		"패션":  "https://gift.kakao.com/category/7",
		"식품":  "https://gift.kakao.com/category/5",
		"디지털": "https://gift.kakao.com/category/8",
		"리빙":  "https://gift.kakao.com/category/4",
		"스포츠": "https://gift.kakao.com/category/9",
	})
	v.SetDefault("crawl.per_brand_limit", 30)
	v.SetDefault("crawl.detail_base_url", "https://gift.kakao.com/product/")
	v.SetDefault("crawl.placeholder_images", []string{"default_fallback_thumbnail.png"})
	v.SetDefault("retention.days", 7)
	v.SetDefault("schedule.enabled", false)
	v.SetDefault("schedule.crawl_hour", 0)
	v.SetDefault("schedule.purge_hour", 3)
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

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
