package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override,
// e.g. SAMPLEAPP_SERVER_LISTEN_ADDR.
const EnvPrefix = "SAMPLEAPP"

type Config struct {
	ServiceName string          `mapstructure:"service_name"`
	LogLevel    string          `mapstructure:"log_level"`
	LogPretty   bool            `mapstructure:"log_pretty"`
	Server      ServerConfig    `mapstructure:"server"`
	Registry    RegistryConfig  `mapstructure:"registry"`
	Tracing     TracingConfig   `mapstructure:"tracing"`
	Simulator   SimulatorConfig `mapstructure:"simulator"`
}

type ServerConfig struct {
	ListenAddr      string        `mapstructure:"listen_addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type RegistryConfig struct {
	// Backend is "prometheus" or "inmemory".
	Backend           string `mapstructure:"backend"`
	Namespace         string `mapstructure:"namespace"`
	RuntimeCollectors bool   `mapstructure:"runtime_collectors"`
}

type TracingConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type SimulatorConfig struct {
	// Target is the base URL of the service under load.
	Target  string        `mapstructure:"target"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Load reads config.yaml from path, if present, and applies environment
// overrides on top of the defaults.
func Load(path string) (config Config, err error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.AddConfigPath(path)
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return
		}
		err = nil
	}

	err = v.Unmarshal(&config)
	return
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("service_name", "sampleapp")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_pretty", true)

	v.SetDefault("server.listen_addr", "0.0.0.0:8080")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("registry.backend", "prometheus")
	v.SetDefault("registry.namespace", "sampleapp")
	v.SetDefault("registry.runtime_collectors", false)

	v.SetDefault("tracing.enabled", false)

	v.SetDefault("simulator.target", "http://localhost:8080")
	v.SetDefault("simulator.timeout", 5*time.Second)
}
