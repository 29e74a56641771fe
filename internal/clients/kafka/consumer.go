package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Shopify/sarama"
	"max.ks1230/costs-service/internal/logger"
	"max.ks1230/costs-service/internal/model/audit"
)

type consumerConfig interface {
	producerConfig
	ConsumerGroup() string
}

type eventHandler interface {
	HandleCostEvent(ctx context.Context, ev audit.CostEvent) error
}

type Consumer struct {
	consumerGroup sarama.ConsumerGroup
	topic         string
	handler       eventHandler
}

func NewConsumer(cfg consumerConfig, handler eventHandler) (*Consumer, error) {
	config := sarama.NewConfig()
	config.Version = sarama.V2_5_0_0
	config.Consumer.Offsets.Initial = sarama.OffsetOldest

	consumerGroup, err := sarama.NewConsumerGroup(cfg.Brokers(), cfg.ConsumerGroup(), config)
	return &Consumer{
		consumerGroup: consumerGroup,
		topic:         cfg.CostEventsTopic(),
		handler:       handler,
	}, err
}

func (c *Consumer) StartConsuming(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
			err := c.consumerGroup.Consume(ctx, []string{c.topic}, c)
			if err != nil {
				return errors.Wrap(err, fmt.Sprintf("consume from %s", c.topic))
			}
		}
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
		var ev audit.CostEvent
		err := json.Unmarshal(message.Value, &ev)
		if err != nil {
			logger.Error("cannot unmarshal kafka message", zap.Error(err))
		} else {
			err = c.handler.HandleCostEvent(session.Context(), ev)
			if err != nil {
				logger.Error("failed to handle cost event", zap.Error(err))
			}
		}
		session.MarkMessage(message, "")
	}

	return nil
}
