package kafka

import (
	"context"
	"encoding/json"

	"github.com/Shopify/sarama"
	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/income-planner/internal/entity/document"
	"max.ks1230/income-planner/internal/logger"
)

type producerConfig interface {
	Brokers() []string
	ChangesTopic() string
}

type Producer struct {
	producer sarama.SyncProducer
	topic    string
}

func NewProducer(cfg producerConfig) (*Producer, error) {
	config := sarama.NewConfig()
	config.Version = sarama.V2_5_0_0
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(cfg.Brokers(), config)
	if err != nil {
		return nil, errors.Wrap(err, "new sync producer")
	}
	return &Producer{
		producer: producer,
		topic:    cfg.ChangesTopic(),
	}, nil
}

// PublishChange keys messages by owner so the changes of one owner stay ordered within a partition.
func (p *Producer) PublishChange(ctx context.Context, change document.Change) error {
	span, _ := opentracing.StartSpanFromContext(ctx, "publishChange")
	defer span.Finish()

	raw, err := json.Marshal(change)
	if err != nil {
		return errors.Wrap(err, "encode change")
	}
	_, _, err = p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(change.OwnerID),
		Value: sarama.ByteEncoder(raw),
	})
	return errors.Wrap(err, "send change")
}

func (p *Producer) Close() {
	err := p.producer.Close()
	if err != nil {
		logger.Error("failed to close producer", zap.Error(err))
	}
}
