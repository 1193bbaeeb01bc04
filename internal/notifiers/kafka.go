package notifiers

import (
	"context"
	"encoding/json"

	"github.com/sbilibin2017/gw-user-activation/internal/models"
	"github.com/segmentio/kafka-go"
)

//go:generate mockgen -source=kafka.go -destination=kafka_mock.go -package=notifiers

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error // Writes messages to Kafka
	Close() error                                                   // Closes the Kafka writer
}

// KafkaNotifier publishes activation codes for an external mail worker.
// Messages are keyed by email so codes for one account stay ordered.
type KafkaNotifier struct {
	writer KafkaWriter
}

// NewKafkaWriter creates a writer for the given brokers and topic.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
}

func NewKafkaNotifier(writer KafkaWriter) *KafkaNotifier {
	return &KafkaNotifier{writer: writer}
}

// SendActivationCode publishes n as a JSON message.
func (k *KafkaNotifier) SendActivationCode(ctx context.Context, n models.ActivationNotification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return err
	}
	return k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(n.Email),
		Value: data,
	})
}

// Close closes the underlying writer.
func (k *KafkaNotifier) Close() error {
	return k.writer.Close()
}
