package config

type MetricsConfig struct {
	Address string `yaml:"listen"`
}

func (s *MetricsConfig) Enabled() bool {
	return s.Address != ""
}

func (s *MetricsConfig) ListenAddr() string {
	return s.Address
}
