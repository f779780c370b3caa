// mqtt.go - Thin MQTT client used to publish audit events

package mqtt

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

const (
	connectTimeout = 10 * time.Second
	publishTimeout = 5 * time.Second
)

// Client publishes messages to a single broker.
type Client struct {
	conn paho.Client
	qos  byte
}

// Connect dials broker (e.g. "tcp://localhost:1883") and waits for the
// connection to be established.
func Connect(broker, clientID string) (*Client, error) {
	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectTimeout(connectTimeout)

	conn := paho.NewClient(opts)
	token := conn.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, errors.New("mqtt: connect timed out")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt: connect %s: %w", broker, err)
	}
	return &Client{conn: conn, qos: 1}, nil
}

// Publish sends payload to topic. Strings and byte slices are sent as-is,
// anything else is JSON encoded.
func (c *Client) Publish(topic string, payload any) error {
	body, err := encodePayload(payload)
	if err != nil {
		return err
	}

	token := c.conn.Publish(topic, c.qos, false, body)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("mqtt: publish to %s timed out", topic)
	}
	return token.Error()
}

func encodePayload(payload any) ([]byte, error) {
	switch p := payload.(type) {
	case []byte:
		return p, nil
	case string:
		return []byte(p), nil
	default:
		body, err := json.Marshal(p)
		if err != nil {
			return nil, fmt.Errorf("mqtt: encode payload: %w", err)
		}
		return body, nil
	}
}

// Close disconnects, giving in-flight messages a short grace period.
func (c *Client) Close() {
	c.conn.Disconnect(250)
}
