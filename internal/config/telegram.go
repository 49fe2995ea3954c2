package config

import "os"

const telegramTokenEnvKey = "PLANNER_TELEGRAM_TOKEN"

type TelegramConfig struct {
	ApiToken string `yaml:"token"`
}

// Token prefers the environment over the config file.
func (t *TelegramConfig) Token() string {
	if token := os.Getenv(telegramTokenEnvKey); token != "" {
		return token
	}
	return t.ApiToken
}
