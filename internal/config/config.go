package config

import "github.com/spf13/viper"

type Config struct {
	App struct {
		Env      string
		Timezone string
	} `mapstructure:"app"`

	Telegram struct {
		Token string
	} `mapstructure:"telegram"`

	API struct {
		BaseURL    string `mapstructure:"base_url"`
		TimeoutSec int    `mapstructure:"timeout_sec"`
	} `mapstructure:"api"`

	HTTP struct {
		Addr string
	} `mapstructure:"http"`

	Postgres struct {
		DSN string
	} `mapstructure:"postgres"`

	Metrics struct {
		Enabled bool
	} `mapstructure:"metrics"`

	Scan struct {
		MaxConcurrent int `mapstructure:"max_concurrent"`
	} `mapstructure:"scan"`

	Cache struct {
		TTLSec int `mapstructure:"ttl_sec"`
	} `mapstructure:"cache"`
}

func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	// overridable via ENV (APP_*)
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()

	v.SetDefault("api.timeout_sec", 10)
	v.SetDefault("scan.max_concurrent", 8)
	v.SetDefault("cache.ttl_sec", 300)

	var c Config
	if err := v.ReadInConfig(); err != nil {
		return c, err
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	return c, nil
}
