// Package config loads settings from configs/config.yml and RADIO_* env vars.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "RADIO"

type Config struct {
	Port     string         `mapstructure:"port"`
	DB       DBConfig       `mapstructure:"db"`
	Log      LogConfig      `mapstructure:"log"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Loop     LoopConfig     `mapstructure:"loop"`
	Portal   PortalConfig   `mapstructure:"portal"`
	Transfer TransferConfig `mapstructure:"transfer"`
	Radio    RadioConfig    `mapstructure:"radio"`
	MQTT     MQTTConfig     `mapstructure:"mqtt"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type AuthConfig struct {
	SigningKey string        `mapstructure:"signing_key"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
	// OpenSignUp lets anyone register once the first operator exists.
	OpenSignUp bool `mapstructure:"open_sign_up"`
}

type LoopConfig struct {
	Tick time.Duration `mapstructure:"tick"`
}

type PortalConfig struct {
	Addr string `mapstructure:"addr"`
	// Autostart brings the portal up at boot without going through the
	// API; the main loop adopts it on its first tick.
	Autostart string `mapstructure:"autostart"`
}

type TransferConfig struct {
	Addr string `mapstructure:"addr"`
	Root string `mapstructure:"root"`
}

// RadioConfig seeds the simulated driver.
type RadioConfig struct {
	StationConnected bool `mapstructure:"station_connected"`
}

type MQTTConfig struct {
	Broker      string `mapstructure:"broker"`
	ClientID    string `mapstructure:"client_id"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	TopicPrefix string `mapstructure:"topic_prefix"`
}

// Enabled reports whether a broker is configured.
func (m MQTTConfig) Enabled() bool { return m.Broker != "" }

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("db.path", "app.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("auth.signing_key", "")
	v.SetDefault("auth.token_ttl", time.Hour)
	v.SetDefault("auth.open_sign_up", false)
	v.SetDefault("loop.tick", 50*time.Millisecond)
	v.SetDefault("portal.addr", ":8081")
	v.SetDefault("portal.autostart", "")
	v.SetDefault("transfer.addr", ":8082")
	v.SetDefault("transfer.root", "./files")
	v.SetDefault("radio.station_connected", false)
	v.SetDefault("mqtt.broker", "")
	v.SetDefault("mqtt.client_id", "cardputer-radio")
	v.SetDefault("mqtt.username", "")
	v.SetDefault("mqtt.password", "")
	v.SetDefault("mqtt.topic_prefix", "cardputer/radio")
}

// Load reads config.yml from dir when present. A missing file is not an
// error; defaults and environment cover every key.
func Load(dir string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.AddConfigPath(dir)
	v.SetConfigName("config")
	v.SetConfigType("yml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Port) == "":
		return errors.New("config: port is empty")
	case c.DB.Path == "":
		return errors.New("config: db.path is empty")
	case c.Loop.Tick <= 0:
		return fmt.Errorf("config: loop.tick must be positive, got %s", c.Loop.Tick)
	case c.Auth.TokenTTL <= 0:
		return fmt.Errorf("config: auth.token_ttl must be positive, got %s", c.Auth.TokenTTL)
	case c.Portal.Addr == "":
		return errors.New("config: portal.addr is empty")
	case c.Transfer.Addr == "":
		return errors.New("config: transfer.addr is empty")
	case c.Transfer.Root == "":
		return errors.New("config: transfer.root is empty")
	case c.MQTT.Enabled() && c.MQTT.TopicPrefix == "":
		return errors.New("config: mqtt.topic_prefix is empty")
	}
	return nil
}
