package bridge

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/wardrobify/wardrobify/pkg/logger"
)

// Config wires the bridge to a broker on one side and the ingest endpoint on
// the other.
type Config struct {
	Broker    string
	BaseTopic string
	ClientID  string
	ServerURL string
	APIKey    string
	Timeout   time.Duration
}

// Bridge subscribes to device topics and forwards readings to the server's
// ingest endpoint with the shared key. Malformed messages are logged and
// dropped; forwarding failures never stop the subscription.
type Bridge struct {
	cfg    Config
	client mqtt.Client
	http   *http.Client
	log    *zap.Logger
}

// New constructs a Bridge. Connect must be called before messages flow.
func New(cfg Config) (*Bridge, error) {
	if strings.TrimSpace(cfg.Broker) == "" {
		return nil, errors.New("bridge: broker is required")
	}
	if strings.TrimSpace(cfg.BaseTopic) == "" {
		return nil, errors.New("bridge: base topic is required")
	}
	if strings.TrimSpace(cfg.ServerURL) == "" {
		return nil, errors.New("bridge: server url is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	b := &Bridge{
		cfg:  cfg,
		http: &http.Client{Timeout: timeout},
		log:  logger.WithModule("bridge"),
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetOnConnectHandler(b.onConnect).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			b.log.Warn("broker connection lost", zap.Error(err))
		})

	b.client = mqtt.NewClient(opts)
	return b, nil
}

// Connect dials the broker; the subscription is (re)established from the
// connect handler so it survives reconnects.
func (b *Bridge) Connect() error {
	token := b.client.Connect()
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("bridge: connect: %w", err)
	}
	return nil
}

// Close disconnects from the broker, allowing in-flight work to finish.
func (b *Bridge) Close() {
	b.client.Disconnect(250)
}

func (b *Bridge) onConnect(client mqtt.Client) {
	topic := b.cfg.BaseTopic + "/#"
	token := client.Subscribe(topic, 0, b.onMessage)
	token.Wait()
	if err := token.Error(); err != nil {
		b.log.Error("subscribe failed", zap.String("topic", topic), zap.Error(err))
		return
	}
	b.log.Info("subscribed", zap.String("topic", topic))
}

func (b *Bridge) onMessage(_ mqtt.Client, msg mqtt.Message) {
	reading, err := ParseMessage(msg.Topic(), msg.Payload())
	if err != nil {
		b.log.Warn("dropping message", zap.String("topic", msg.Topic()), zap.Error(err))
		return
	}

	if err := b.forward(reading); err != nil {
		b.log.Warn("forward failed", zap.String("address", reading.Address), zap.Error(err))
	}
}

// Reading is one measurement parsed off the wire.
type Reading struct {
	Value   float64
	Type    string
	Address string
}

// ParseMessage maps an MQTT message to a reading. The topic suffix selects
// the reading type and the fourth topic segment is the device address.
func ParseMessage(topic string, payload []byte) (*Reading, error) {
	var readingType string
	switch {
	case strings.HasSuffix(topic, "/temperature"):
		readingType = "Temperature"
	case strings.HasSuffix(topic, "/pressure"):
		readingType = "Pressure"
	default:
		return nil, fmt.Errorf("unsupported topic %q", topic)
	}

	segments := strings.Split(topic, "/")
	if len(segments) < 4 {
		return nil, fmt.Errorf("topic %q has no device segment", topic)
	}
	address := segments[3]
	if address == "" {
		return nil, fmt.Errorf("topic %q has an empty device segment", topic)
	}

	var body struct {
		Value *float64 `json:"value"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, fmt.Errorf("non-JSON payload: %w", err)
	}
	if body.Value == nil {
		return nil, errors.New("payload missing value")
	}

	return &Reading{Value: *body.Value, Type: readingType, Address: address}, nil
}

func (b *Bridge) forward(reading *Reading) error {
	body, err := json.Marshal(map[string]any{
		"value":   reading.Value,
		"type":    reading.Type,
		"address": reading.Address,
		"api_key": b.cfg.APIKey,
	})
	if err != nil {
		return fmt.Errorf("encode reading: %w", err)
	}

	url := strings.TrimRight(b.cfg.ServerURL, "/") + "/api/data"
	resp, err := b.http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("post reading: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ingest endpoint returned %d", resp.StatusCode)
	}
	return nil
}
