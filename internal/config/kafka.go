package config

type KafkaConfig struct {
	BrokerList  []string `yaml:"brokers"`
	GroupPrefix string   `yaml:"consumer-group-prefix"`
	Topic       string   `yaml:"changes-topic"`
}

func (s *KafkaConfig) Enabled() bool {
	return len(s.BrokerList) > 0
}

func (s *KafkaConfig) Brokers() []string {
	return s.BrokerList
}

func (s *KafkaConfig) ConsumerGroupPrefix() string {
	return s.GroupPrefix
}

func (s *KafkaConfig) ChangesTopic() string {
	return s.Topic
}
