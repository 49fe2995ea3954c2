package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Shopify/sarama"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/income-planner/internal/entity/document"
	"max.ks1230/income-planner/internal/logger"
)

type consumerConfig interface {
	producerConfig
	ConsumerGroupPrefix() string
}

type changeDispatcher interface {
	Dispatch(change document.Change)
	Fail(err error)
}

// Consumer feeds document changes into the local subscription hub. Every process joins its own
// consumer group, so each device sees every change, and starts from the newest offset because
// subscribers read the current value on subscribe.
type Consumer struct {
	consumerGroup sarama.ConsumerGroup
	topic         string
	dispatcher    changeDispatcher
}

func NewConsumer(cfg consumerConfig, dispatcher changeDispatcher) (*Consumer, error) {
	config := sarama.NewConfig()
	config.Version = sarama.V2_5_0_0
	config.Consumer.Offsets.Initial = sarama.OffsetNewest

	group := consumerGroupName(cfg.ConsumerGroupPrefix())
	consumerGroup, err := sarama.NewConsumerGroup(cfg.Brokers(), group, config)
	if err != nil {
		return nil, errors.Wrap(err, "new consumer group")
	}
	logger.Info("kafka consumer group", zap.String("group", group))
	return &Consumer{
		consumerGroup: consumerGroup,
		topic:         cfg.ChangesTopic(),
		dispatcher:    dispatcher,
	}, nil
}

func consumerGroupName(prefix string) string {
	if prefix == "" {
		prefix = "income-planner"
	}
	return prefix + "-" + uuid.NewString()
}

func (c *Consumer) StartConsuming(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
			err := c.consumerGroup.Consume(ctx, []string{c.topic}, c)
			if err != nil {
				c.dispatcher.Fail(err)
				return errors.Wrap(err, fmt.Sprintf("consume from %s", c.topic))
			}
		}
	}
}

func (c *Consumer) Close() {
	if err := c.consumerGroup.Close(); err != nil {
		logger.Error("failed to close consumer group", zap.Error(err))
	}
}

func (c *Consumer) Setup(sarama.ConsumerGroupSession) error {
	logger.Info("consumer - setup")
	return nil
}

func (c *Consumer) Cleanup(sarama.ConsumerGroupSession) error {
	logger.Info("consumer - cleanup")
	return nil
}

func (c *Consumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		c.handleMessage(message.Key, message.Value)
		session.MarkMessage(message, "")
	}
	return nil
}

func (c *Consumer) handleMessage(key, value []byte) {
	var change document.Change
	if err := json.Unmarshal(value, &change); err != nil {
		logger.Error("cannot unmarshal kafka message", zap.Error(err), zap.ByteString("key", key))
		return
	}
	logger.Debug(
		"received document change",
		zap.String("owner", change.OwnerID),
		zap.String("key", change.Key),
		zap.Time("updatedAt", change.UpdatedAt),
	)
	c.dispatcher.Dispatch(change)
}
