// Package config defines the configuration types shared across the service.
package config

import "fmt"

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// GetAddr returns the listen address.
func (c *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DatabaseConfig holds MySQL connection settings.
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// WechatPayConfig holds WeChat Pay v3 merchant credentials.
// The platform certificate verifies inbound notification signatures; the
// merchant private key signs outbound API requests; the APIv3 key decrypts
// notification resources.
type WechatPayConfig struct {
	AppID            string `mapstructure:"app_id"`
	MchID            string `mapstructure:"mch_id"`
	CertSerialNo     string `mapstructure:"cert_serial_no"`
	APIv3Key         string `mapstructure:"api_v3_key"`
	NotifyURL        string `mapstructure:"notify_url"`
	PrivateKeyPath   string `mapstructure:"private_key_path"`
	PlatformCertPath string `mapstructure:"platform_cert_path"`
	APIBaseURL       string `mapstructure:"api_base_url"`
}

// PlanConfig describes one entry of the static plan catalog. Order in the
// config list defines the tier ranking.
type PlanConfig struct {
	ID                string `mapstructure:"id"`
	Name              string `mapstructure:"name"`
	Description       string `mapstructure:"description"`
	DurationDays      int    `mapstructure:"duration_days"`
	Lifetime          bool   `mapstructure:"lifetime"`
	PriceFen          int64  `mapstructure:"price_fen"`
	Available         bool   `mapstructure:"available"`
	RenewalWindowDays int    `mapstructure:"renewal_window_days"`
}
