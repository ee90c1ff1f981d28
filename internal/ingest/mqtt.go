// Package ingest feeds the telemetry store from an MQTT broker, for
// vehicles that publish samples instead of POSTing them.
package ingest

import (
	"context"
	"encoding/json"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"

	"ecodrive/internal/telemetry"
)

type MQTTConfig struct {
	Broker   string
	ClientID string
	Topic    string
	QoS      byte
}

// MQTTConsumer subscribes to a telemetry topic and inserts decoded points.
// Malformed or shapeless messages are logged and dropped; ingestion never
// stops the subscription.
type MQTTConsumer struct {
	client mqtt.Client
	cfg    MQTTConfig
	store  telemetry.Store
	log    zerolog.Logger
}

func NewMQTTConsumer(cfg MQTTConfig, store telemetry.Store, log zerolog.Logger) (*MQTTConsumer, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetConnectTimeout(5 * time.Second).
		SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	return &MQTTConsumer{client: client, cfg: cfg, store: store, log: log}, nil
}

func (c *MQTTConsumer) Start() error {
	token := c.client.Subscribe(c.cfg.Topic, c.cfg.QoS, c.handleMessage)
	token.Wait()
	if err := token.Error(); err != nil {
		return err
	}
	c.log.Info().Str("topic", c.cfg.Topic).Msg("subscribed to telemetry topic")
	return nil
}

func (c *MQTTConsumer) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	var point telemetry.Point
	if err := json.Unmarshal(msg.Payload(), &point); err != nil {
		c.log.Warn().Err(err).Str("topic", msg.Topic()).Msg("dropping malformed telemetry message")
		return
	}
	if point.VehicleID == "" || point.TripID == "" || point.Timestamp.IsZero() {
		c.log.Warn().Str("topic", msg.Topic()).Msg("dropping telemetry message missing identity fields")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := c.store.Insert(ctx, []telemetry.Point{point}); err != nil {
		c.log.Error().Err(err).Str("trip_id", point.TripID).Msg("telemetry insert from mqtt failed")
	}
}

func (c *MQTTConsumer) Close() {
	if c.client.IsConnected() {
		c.client.Disconnect(250)
	}
}
