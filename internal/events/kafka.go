package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"restopos-be/internal/logger"
	"restopos-be/internal/metrics"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

// Kafka publishes events without waiting for the broker. Delivery failures
// are logged and counted in Failures.
type Kafka struct {
	producer sarama.AsyncProducer
	topic    string
	wg       sync.WaitGroup

	Failures metrics.Counter
}

func NewKafka(brokers []string, topic string) (*Kafka, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Errors = true

	producer, err := sarama.NewAsyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create producer: %w", err)
	}

	logger.L().Info("kafka producer connected", zap.Strings("brokers", brokers), zap.String("topic", topic))
	return newKafkaWithProducer(producer, topic), nil
}

func newKafkaWithProducer(producer sarama.AsyncProducer, topic string) *Kafka {
	k := &Kafka{producer: producer, topic: topic}
	k.wg.Add(1)
	go k.drain()
	return k
}

// drain runs until the producer closes its Errors channel.
func (k *Kafka) drain() {
	defer k.wg.Done()
	for perr := range k.producer.Errors() {
		k.Failures.Inc()

		var target string
		if perr.Msg != nil && perr.Msg.Key != nil {
			if key, err := perr.Msg.Key.Encode(); err == nil {
				target = string(key)
			}
		}
		logger.L().Error("failed to deliver event",
			zap.String("layer", "events"),
			zap.String("target", target),
			zap.Error(perr.Err),
		)
	}
}

// Publish keys messages by order target so events of one table stay ordered
// within a partition. It only blocks while the producer's input buffer is
// full, and gives up when ctx is done.
func (k *Kafka) Publish(ctx context.Context, e Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: k.topic,
		Key:   sarama.StringEncoder(e.Target),
		Value: sarama.ByteEncoder(data),
	}

	select {
	case k.producer.Input() <- msg:
		return nil
	case <-ctx.Done():
		logger.FromCtx(ctx).Warn("event dropped, producer backlog",
			zap.String("type", e.Type),
			zap.String("target", e.Target),
		)
		return ctx.Err()
	}
}

// Close flushes buffered messages and waits for pending failures to be logged.
func (k *Kafka) Close() error {
	if k.producer == nil {
		return nil
	}
	err := k.producer.Close()
	k.wg.Wait()
	return err
}
