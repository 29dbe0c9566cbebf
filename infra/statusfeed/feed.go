// Package statusfeed subscribes to the fleet authority's push channel for
// server-driven status transitions (pickup confirmations, inspection
// verdicts). The client only observes these; it never asserts a status.
package statusfeed

import (
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/azvmotors/fleetcore/core/fleetstate"
	"github.com/azvmotors/fleetcore/core/logger"
	"github.com/azvmotors/fleetcore/core/model"
	infralogger "github.com/azvmotors/fleetcore/infra/logger"
)

// Config defines the connection parameters for the status feed broker.
type Config struct {
	Broker   string `json:"broker"`
	ClientID string `json:"client_id"`
	Username string `json:"username"`
	Password string `json:"password"`
	// Topic is the subscription filter for status updates.
	Topic string `json:"topic"`
	QoS   byte   `json:"qos"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Topic == "" {
		c.Topic = "fleet/status/+"
	}
	if c.ClientID == "" {
		c.ClientID = "fleetcore-status"
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.Broker == "" {
		return fmt.Errorf("statusfeed: broker is required")
	}
	return nil
}

// statusUpdate is the wire payload published per vehicle.
type statusUpdate struct {
	VehicleID int64  `json:"vehicle_id"`
	Status    string `json:"status"`
}

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Subscribe(topic string, qos byte, callback paho.MessageHandler) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// Feed applies pushed status updates to the vehicle cache.
type Feed struct {
	cli   pahoClient
	store fleetstate.Store
	topic string
	qos   byte
	log   logger.Logger
}

// New connects to the broker and subscribes to the status topic.
func New(cfg Config, store fleetstate.Store) (*Feed, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if store == nil {
		return nil, fmt.Errorf("statusfeed: nil store")
	}
	log := infralogger.New("status-feed")
	f := &Feed{store: store, topic: cfg.Topic, qos: cfg.QoS, log: log}

	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	opts.ConnectTimeout = 10 * time.Second
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	opts.OnConnect = func(c paho.Client) {
		log.Infof("status feed connected")
		if token := c.Subscribe(f.topic, f.qos, f.onMessage); token.Wait() && token.Error() != nil {
			log.Errorf("subscribe error: %v", token.Error())
		}
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("status feed connection lost: %v", err)
	}
	opts.OnReconnecting = func(_ paho.Client, _ *paho.ClientOptions) {
		log.Warnf("reconnecting to status feed broker")
	}

	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	f.cli = c
	return f, nil
}

func (f *Feed) onMessage(_ paho.Client, msg paho.Message) {
	var upd statusUpdate
	if err := json.Unmarshal(msg.Payload(), &upd); err != nil {
		f.log.Errorf("status update decode: %v", err)
		return
	}
	st, ok := model.ParseStatus(upd.Status)
	if !ok {
		// Surface the unknown value; do not default it into the cache.
		f.log.Warnf("vehicle %d: unrecognized pushed status %q", upd.VehicleID, upd.Status)
		return
	}
	f.store.SetStatus(upd.VehicleID, st)
	f.log.Debugw("status observed", map[string]any{
		"vehicle_id": upd.VehicleID,
		"status":     st.String(),
	})
}

// Close disconnects from the broker.
func (f *Feed) Close() {
	if f.cli != nil && f.cli.IsConnected() {
		f.cli.Disconnect(250)
	}
}
