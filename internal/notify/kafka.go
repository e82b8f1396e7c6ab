package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
)

type KafkaNotifier struct {
	writer *kafka.Writer
}

func NewKafkaNotifier(brokers ...string) *KafkaNotifier {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  "cart-changes",
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaNotifier{writer: w}
}

func (n *KafkaNotifier) CartChanged(ctx context.Context, userID int64) error {
	payload, err := json.Marshal(map[string]interface{}{
		"user_id":    userID,
		"changed_at": time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal cart change event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(userID, 10)), // user_id for ordering
		Value: payload,
	}

	if err := n.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish cart change event: %w", err)
	}

	return nil
}

func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}
