package activity

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nerrad567/tasktrack-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/tasktrack-core/internal/task"
)

// Publisher is the subset of *mqtt.Client used by MQTTSink.
type Publisher interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// MQTTSink publishes task events to MQTT.
type MQTTSink struct {
	pub Publisher
	qos byte
}

// NewMQTTSink creates a sink publishing with the given QoS.
func NewMQTTSink(pub Publisher, qos byte) *MQTTSink {
	return &MQTTSink{pub: pub, qos: qos}
}

// Publish implements task.EventSink.
func (s *MQTTSink) Publish(_ context.Context, e task.Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encoding task event: %w", err)
	}
	if err := s.pub.Publish(mqtt.Topics{}.TaskEvent(e.TaskID), payload, s.qos, false); err != nil {
		return fmt.Errorf("publishing task event: %w", err)
	}
	return nil
}
