package config

import "github.com/spf13/viper"

// Config carries everything the process reads from its environment.
type Config struct {
	AppPort     string
	DatabaseURL string
	RabbitMQURL string
	Env         string
}

// Load reads configuration from environment variables with sensible
// defaults. An empty DATABASE_URL selects the in-memory repository; an
// empty RABBITMQ_URL disables event publishing.
func Load() *Config {
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.SetDefault("APP_ENV", "production")
	viper.AutomaticEnv()

	return &Config{
		AppPort:     viper.GetString("APP_PORT"),
		DatabaseURL: viper.GetString("DATABASE_URL"),
		RabbitMQURL: viper.GetString("RABBITMQ_URL"),
		Env:         viper.GetString("APP_ENV"),
	}
}

// IsDevelopment reports whether verbose failure messages are enabled.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
