// Package notify publishes refresh outcomes and rotation events over MQTT.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bytedance/sonic"
	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/fkcurrie/f1-led-golang/internal/cache"
	"github.com/fkcurrie/f1-led-golang/internal/config"
	"github.com/fkcurrie/f1-led-golang/internal/rotation"
)

const connectTimeout = 5 * time.Second

// Publisher sends a payload to a topic
type Publisher interface {
	Publish(topic string, retained bool, payload []byte) error
	Close()
}

// Notifier implements cache.Observer and rotation.Observer
type Notifier struct {
	pub    Publisher
	topic  string
	logger *slog.Logger
}

// RefreshMessage is published on <topic>/refresh
type RefreshMessage struct {
	Time         time.Time `json:"time"`
	Status       string    `json:"status"`
	DurationMs   int64     `json:"duration_ms"`
	Season       int       `json:"season,omitempty"`
	Round        int       `json:"round,omitempty"`
	Drivers      int       `json:"drivers,omitempty"`
	Constructors int       `json:"constructors,omitempty"`
	Error        string    `json:"error,omitempty"`
}

// New creates a notifier publishing below topic
func New(pub Publisher, topic string, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{pub: pub, topic: topic, logger: logger}
}

// Dial connects to the broker in cfg
func Dial(cfg config.MQTTConfig, logger *slog.Logger) (*Notifier, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectTimeout(connectTimeout)
	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("connect to %s: timed out", cfg.Broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to %s: %w", cfg.Broker, err)
	}
	return New(&clientPublisher{client: client}, cfg.Topic, logger), nil
}

// RefreshDone publishes a refresh outcome as a retained message
func (n *Notifier) RefreshDone(_ context.Context, o cache.Outcome) {
	msg := RefreshMessage{
		Time:       o.Finished,
		Status:     o.Status.String(),
		DurationMs: o.Duration().Milliseconds(),
	}
	if o.Snapshot != nil {
		msg.Season = o.Snapshot.Season
		msg.Round = o.Snapshot.Round
		msg.Drivers = len(o.Snapshot.Drivers)
		msg.Constructors = len(o.Snapshot.Constructors)
	}
	if o.Err != nil {
		msg.Error = o.Err.Error()
	}
	payload, err := sonic.Marshal(msg)
	if err != nil {
		n.logger.Warn("encode refresh message", "error", err)
		return
	}
	n.publish("refresh", true, payload)
}

// BoardStarted publishes the name of the board being shown
func (n *Notifier) BoardStarted(name string) {
	n.publish("board", false, []byte(name))
}

// StateChanged publishes the rotation state as a retained message
func (n *Notifier) StateChanged(s rotation.State) {
	n.publish("state", true, []byte(s.String()))
}

// Close disconnects from the broker
func (n *Notifier) Close() {
	n.pub.Close()
}

func (n *Notifier) publish(sub string, retained bool, payload []byte) {
	topic := n.topic + "/" + sub
	if err := n.pub.Publish(topic, retained, payload); err != nil {
		n.logger.Warn("mqtt publish failed", "topic", topic, "error", err)
	}
}

type clientPublisher struct {
	client mqtt.Client
}

func (p *clientPublisher) Publish(topic string, retained bool, payload []byte) error {
	token := p.client.Publish(topic, 1, retained, payload)
	if !token.WaitTimeout(connectTimeout) {
		return fmt.Errorf("publish %s: timed out", topic)
	}
	return token.Error()
}

func (p *clientPublisher) Close() {
	p.client.Disconnect(250)
}
