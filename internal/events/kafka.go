package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/gridpulse/energy-optimizer/internal/logger"
	"github.com/gridpulse/energy-optimizer/pkg/models"
)

// KafkaSink forwards bus events to a Kafka topic so external consumers
// (dashboards, billing, audit) can follow the optimization stream.
// Messages are keyed by building ID to keep per-building ordering.
type KafkaSink struct {
	writer    *kafka.Writer
	eventChan <-chan *models.Event
	ctx       context.Context
	cancel    context.CancelFunc
}

type KafkaSinkConfig struct {
	Brokers      []string
	Topic        string
	BatchTimeout time.Duration
}

func NewKafkaSink(cfg KafkaSinkConfig, eventChan <-chan *models.Event) *KafkaSink {
	if cfg.BatchTimeout == 0 {
		cfg.BatchTimeout = 250 * time.Millisecond
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: cfg.BatchTimeout,
		RequiredAcks: kafka.RequireOne,
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &KafkaSink{
		writer:    writer,
		eventChan: eventChan,
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (s *KafkaSink) Start() {
	go s.run()
}

func (s *KafkaSink) Stop() error {
	s.cancel()
	return s.writer.Close()
}

func (s *KafkaSink) run() {
	for {
		select {
		case <-s.ctx.Done():
			return
		case event, ok := <-s.eventChan:
			if !ok {
				return
			}
			s.forward(event)
		}
	}
}

func (s *KafkaSink) forward(event *models.Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		logger.Errorf("Failed to marshal event for kafka: %v", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(event.BuildingID),
		Value: payload,
		Time:  event.Timestamp,
	}

	ctx, cancel := context.WithTimeout(s.ctx, 5*time.Second)
	defer cancel()

	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		logger.Errorf("Failed to write event to kafka: %v", err)
	}
}
