package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"

	"gluco/internal/domain/plan"
	vo "gluco/internal/domain/payment/valueobjects"
	sharedConfig "gluco/internal/shared/config"
)

type Config struct {
	Server    sharedConfig.ServerConfig    `mapstructure:"server"`
	Database  sharedConfig.DatabaseConfig  `mapstructure:"database"`
	Logger    sharedConfig.LoggerConfig    `mapstructure:"logger"`
	WechatPay sharedConfig.WechatPayConfig `mapstructure:"wechat_pay"`
	Plans     []sharedConfig.PlanConfig    `mapstructure:"plans"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load loads configuration from file and environment variables
func Load(env string) (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../configs")
	viper.AddConfigPath("../../configs")

	viper.SetEnvPrefix("GLUCO")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Allow env parameter to override server mode if provided
	if env != "" && env != "default" {
		viper.Set("server.mode", env)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// Get returns the loaded configuration
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

// BuildCatalog constructs the plan catalog from configuration. When no plans
// are configured, the built-in default catalog is used. List order defines
// the tier ranking for upgrade offers.
func (c *Config) BuildCatalog() (*plan.Catalog, error) {
	if len(c.Plans) == 0 {
		return plan.Default(), nil
	}

	plans := make([]*plan.Plan, 0, len(c.Plans))
	for _, pc := range c.Plans {
		p, err := plan.NewPlan(pc.ID, pc.Name, pc.Description, pc.DurationDays,
			pc.Lifetime, vo.NewMoney(pc.PriceFen, ""), pc.Available, pc.RenewalWindowDays)
		if err != nil {
			return nil, fmt.Errorf("invalid plan config %q: %w", pc.ID, err)
		}
		plans = append(plans, p)
	}
	return plan.NewCatalog(plans)
}

// setDefaults sets default configuration values
func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "debug")

	// Database defaults
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 3306)
	viper.SetDefault("database.username", "root")
	viper.SetDefault("database.password", "password")
	viper.SetDefault("database.database", "gluco_dev")
	viper.SetDefault("database.max_idle_conns", 10)
	viper.SetDefault("database.max_open_conns", 100)
	viper.SetDefault("database.conn_max_lifetime", 60)

	// Logger defaults
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "console")
	viper.SetDefault("logger.output_path", "stdout")

	// WeChat Pay defaults (credentials must be configured)
	viper.SetDefault("wechat_pay.app_id", "")
	viper.SetDefault("wechat_pay.mch_id", "")
	viper.SetDefault("wechat_pay.cert_serial_no", "")
	viper.SetDefault("wechat_pay.api_v3_key", "")
	viper.SetDefault("wechat_pay.notify_url", "")
	viper.SetDefault("wechat_pay.private_key_path", "./certs/apiclient_key.pem")
	viper.SetDefault("wechat_pay.platform_cert_path", "./certs/platform_cert.pem")
	viper.SetDefault("wechat_pay.api_base_url", "https://api.mch.weixin.qq.com")
}
