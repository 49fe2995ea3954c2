package config

type ReplicaConfig struct {
	FilePath string `yaml:"path"`
}

func (s *ReplicaConfig) Enabled() bool {
	return s.FilePath != ""
}

func (s *ReplicaConfig) Path() string {
	return s.FilePath
}
