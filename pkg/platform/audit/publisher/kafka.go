// Package publisher provides audit event sinks beyond the local store.
//
// KafkaPublisher mirrors the audit trail onto a Kafka topic so downstream
// consumers (reporting, anomaly detection) see reconciliation outcomes
// without querying the service database.
package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/twmb/franz-go/pkg/kgo"

	"leaguedesk/pkg/platform/audit"
)

// KafkaPublisher produces audit events to a single topic, keyed by batch ID
// so one batch's events stay ordered within a partition.
type KafkaPublisher struct {
	client *kgo.Client
	topic  string
}

// NewKafka connects to the given brokers (comma-separated).
func NewKafka(brokers, topic string) (*KafkaPublisher, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(strings.Split(brokers, ",")...),
		kgo.DefaultProduceTopic(topic),
	)
	if err != nil {
		return nil, fmt.Errorf("connect kafka: %w", err)
	}
	return &KafkaPublisher{client: client, topic: topic}, nil
}

func (p *KafkaPublisher) Emit(ctx context.Context, event audit.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}
	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(event.BatchID),
		Value: payload,
	}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce audit event: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() {
	p.client.Close()
}

// Tee fans one Emit out to several publishers, keeping the first error.
type Tee []audit.Publisher

func (t Tee) Emit(ctx context.Context, event audit.Event) error {
	var first error
	for _, p := range t {
		if err := p.Emit(ctx, event); err != nil && first == nil {
			first = err
		}
	}
	return first
}
