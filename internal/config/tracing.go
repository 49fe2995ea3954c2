package config

type TracingConfig struct {
	Service   string `yaml:"service-name"`
	Agent     string `yaml:"agent-host-port"`
	SampleAll bool   `yaml:"sample-all"`
}

func (s *TracingConfig) ServiceName() string {
	if s.Service == "" {
		return "income-planner"
	}
	return s.Service
}

func (s *TracingConfig) AgentHostPort() string {
	return s.Agent
}

func (s *TracingConfig) SampleAllTraces() bool {
	return s.SampleAll
}
