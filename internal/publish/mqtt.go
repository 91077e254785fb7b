// Package publish mirrors radio status to an MQTT broker.
package publish

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cardputer_radio/internal/logger"
	"cardputer_radio/internal/models"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const (
	defaultTimeout = 2 * time.Second
	disconnectMs   = 250
)

var ErrPublishTimeout = errors.New("mqtt publish timed out")

// Options configures the broker connection.
type Options struct {
	Broker      string
	ClientID    string
	Username    string
	Password    string
	TopicPrefix string
}

func (o Options) StatusTopic() string       { return o.TopicPrefix + "/status" }
func (o Options) AvailabilityTopic() string { return o.TopicPrefix + "/availability" }

// Client is the part of mqtt.Client the publisher needs.
type Client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// Publisher sends retained status snapshots. It is called from the main
// loop, so each publish waits at most timeout.
type Publisher struct {
	client  Client
	topic   string
	timeout time.Duration
}

func NewPublisher(client Client, opts Options) *Publisher {
	return &Publisher{client: client, topic: opts.StatusTopic(), timeout: defaultTimeout}
}

func (p *Publisher) PublishStatus(st models.ServiceStatus) error {
	payload, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal status: %w", err)
	}
	token := p.client.Publish(p.topic, 1, true, payload)
	if !token.WaitTimeout(p.timeout) {
		return ErrPublishTimeout
	}
	return token.Error()
}

// Connect dials the broker with a retained "offline" last will and
// announces "online" on every (re)connect.
func Connect(opts Options, log *logger.Logger) (mqtt.Client, error) {
	log = logger.OrNop(log).Named("mqtt")
	avail := opts.AvailabilityTopic()

	co := mqtt.NewClientOptions()
	co.AddBroker(opts.Broker)
	co.SetClientID(opts.ClientID)
	if opts.Username != "" {
		co.SetUsername(opts.Username)
		co.SetPassword(opts.Password)
	}
	co.SetAutoReconnect(true)
	co.SetWill(avail, "offline", 1, true)
	co.SetOnConnectHandler(func(c mqtt.Client) {
		log.Infow("mqtt_connected", "broker", opts.Broker)
		c.Publish(avail, 1, true, "online")
	})
	co.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		log.Warnw("mqtt_connection_lost", "err", err)
	})

	client := mqtt.NewClient(co)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect %s: %w", opts.Broker, token.Error())
	}
	return client, nil
}

// Close marks the device offline and disconnects.
func Close(client mqtt.Client, opts Options) {
	if client == nil {
		return
	}
	token := client.Publish(opts.AvailabilityTopic(), 1, true, "offline")
	token.WaitTimeout(defaultTimeout)
	client.Disconnect(disconnectMs)
}
