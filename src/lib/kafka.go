package lib

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
)

// Event is the envelope every outbound message carries.
type Event struct {
	Type       string         `json:"type"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload"`
}

func encodeEvent(event string, payload map[string]any, at time.Time) ([]byte, error) {
	return json.Marshal(Event{Type: event, OccurredAt: at.UTC(), Payload: payload})
}

// messageKey keeps events of one item on one partition.
func messageKey(payload map[string]any) []byte {
	if v, ok := payload["item_id"]; ok {
		return []byte(fmt.Sprint(v))
	}
	return nil
}

func GetKafkaProducerConfig(broker, clientId string) kafka.ConfigMap {
	return kafka.ConfigMap{
		"bootstrap.servers": broker,
		"client.id":         clientId,
		"acks":              "all",
	}
}

// KafkaPublisher writes each event to a topic named after the event type.
type KafkaPublisher struct {
	producer *kafka.Producer
}

func NewKafkaPublisher(broker, clientId string) (*KafkaPublisher, error) {
	cfg := GetKafkaProducerConfig(broker, clientId)
	p, err := kafka.NewProducer(&cfg)
	if err != nil {
		log.Printf("Error on producer: %s\n", err.Error())
		return nil, err
	}
	go func() {
		for e := range p.Events() {
			if m, ok := e.(*kafka.Message); ok && m.TopicPartition.Error != nil {
				log.Printf("Error delivering message to %s: %s\n", *m.TopicPartition.Topic, m.TopicPartition.Error.Error())
			}
		}
	}()
	return &KafkaPublisher{producer: p}, nil
}

func (k *KafkaPublisher) Publish(_ context.Context, event string, payload map[string]any) error {
	value, err := encodeEvent(event, payload, time.Now())
	if err != nil {
		return err
	}
	topic := event
	return k.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Key:            messageKey(payload),
		Value:          value,
		Headers:        []kafka.Header{{Key: "event", Value: []byte(event)}},
	}, nil)
}

// Close waits up to timeout for queued messages before closing the producer.
func (k *KafkaPublisher) Close(timeout time.Duration) {
	if left := k.producer.Flush(int(timeout.Milliseconds())); left > 0 {
		log.Printf("Kafka producer closed with %d undelivered messages\n", left)
	}
	k.producer.Close()
}

func KafkaCreateTopics(broker string, topics ...string) ([]kafka.TopicResult, error) {
	a, err := kafka.NewAdminClient(&kafka.ConfigMap{
		"bootstrap.servers": broker,
	})
	if err != nil {
		log.Printf("Error on AdminClient: %s\n", err.Error())
		return nil, err
	}
	defer a.Close()
	topicsDef := []kafka.TopicSpecification{}
	for _, topic := range topics {
		topicsDef = append(topicsDef, kafka.TopicSpecification{
			Topic:             topic,
			NumPartitions:     10,
			ReplicationFactor: 1,
		})
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	result, err := a.CreateTopics(ctx, topicsDef)
	if err != nil {
		log.Printf("Error creating topics: %s\n", err.Error())
		return nil, err
	}
	return result, nil
}

// LogPublisher is used when no broker is configured.
type LogPublisher struct{}

func (LogPublisher) Publish(_ context.Context, event string, payload map[string]any) error {
	value, err := encodeEvent(event, payload, time.Now())
	if err != nil {
		return err
	}
	log.Printf("[event] %s\n", value)
	return nil
}
