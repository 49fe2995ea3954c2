package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	configFile       = "data/config.yaml"
	configFileEnvKey = "CONFIG_FILE"
)

type config struct {
	Telegram  TelegramConfig  `yaml:"telegram"`
	App       AppConfig       `yaml:"app"`
	Postgres  PostgresConfig  `yaml:"postgres"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Memcached MemcachedConfig `yaml:"memcached"`
	Replica   ReplicaConfig   `yaml:"replica"`
	Tracing   TracingConfig   `yaml:"tracing"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

type Service struct {
	config config
}

func New() (*Service, error) {
	path := os.Getenv(configFileEnvKey)
	if path == "" {
		path = configFile
	}

	rawYAML, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading config file")
	}
	return Parse(rawYAML)
}

// Parse builds the service from raw yaml, filling defaults for the omitted app settings.
func Parse(rawYAML []byte) (*Service, error) {
	s := &Service{}
	err := yaml.Unmarshal(rawYAML, &s.config)
	if err != nil {
		return nil, errors.Wrap(err, "parsing yaml")
	}
	s.config.App.fillDefaults()
	return s, nil
}

func (s *Service) Telegram() *TelegramConfig {
	return &s.config.Telegram
}

func (s *Service) App() *AppConfig {
	return &s.config.App
}

func (s *Service) Postgres() *PostgresConfig {
	return &s.config.Postgres
}

func (s *Service) Kafka() *KafkaConfig {
	return &s.config.Kafka
}

func (s *Service) Memcached() *MemcachedConfig {
	return &s.config.Memcached
}

func (s *Service) Replica() *ReplicaConfig {
	return &s.config.Replica
}

func (s *Service) Tracing() *TracingConfig {
	return &s.config.Tracing
}

func (s *Service) Metrics() *MetricsConfig {
	return &s.config.Metrics
}
