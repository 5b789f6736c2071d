package progress

import (
	"encoding/json"
	"log"
	"time"

	"github.com/eclipse/paho.mqtt.golang"
)

// Publisher is the part of mqtt.Client used to send progress.
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// Message is the JSON body of every progress update.
type Message struct {
	Type  string `json:"type"`
	Frame int    `json:"frame"`
	Total int    `json:"total"`
}

// MqttReporter publishes progress messages to an MQTT topic.
type MqttReporter struct {
	client  Publisher
	topic   string
	timeout time.Duration
	total   int
}

// NewMqttReporter creates a reporter publishing to topic.
func NewMqttReporter(client Publisher, topic string) *MqttReporter {
	r := new(MqttReporter)
	r.client = client
	r.topic = topic
	r.timeout = 5 * time.Second
	return r
}

func (r *MqttReporter) Start(total int) {
	r.total = total
	r.publish(Message{Type: "start", Total: total})
}

func (r *MqttReporter) Advance(frame int) {
	r.publish(Message{Type: "frame", Frame: frame, Total: r.total})
}

func (r *MqttReporter) Finish(frames int) {
	r.publish(Message{Type: "finish", Frame: frames, Total: r.total})
}

func (r *MqttReporter) publish(msg Message) {
	b, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Encoding progress: %v", err)
		return
	}

	token := r.client.Publish(r.topic, 0, false, b)
	if !token.WaitTimeout(r.timeout) {
		log.Printf("Publishing progress to %s timed out", r.topic)
		return
	}
	if err := token.Error(); err != nil {
		log.Printf("Publishing progress to %s: %v", r.topic, err)
	}
}
