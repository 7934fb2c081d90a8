package ingest

import (
	"context"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"
)

// qosAtLeastOnce makes the broker redeliver until the handler returns.
const qosAtLeastOnce byte = 1

// MQTTConfig holds configuration for the MQTT subscriber.
type MQTTConfig struct {
	BrokerURL string
	Topic     string
	ClientID  string
	Username  string
	Password  string
	Handler   *Handler
	Logger    zerolog.Logger

	// ConnectTimeout bounds the initial connect (default: 10s).
	ConnectTimeout time.Duration
}

// MQTTSubscriber consumes measurement messages from an MQTT topic.
type MQTTSubscriber struct {
	client  mqtt.Client
	topic   string
	handler *Handler
	logger  zerolog.Logger
	timeout time.Duration
	ctx     context.Context
}

// NewMQTTSubscriber builds the client. Nothing connects until Start.
func NewMQTTSubscriber(cfg MQTTConfig) *MQTTSubscriber {
	s := &MQTTSubscriber{
		topic:   cfg.Topic,
		handler: cfg.Handler,
		logger:  cfg.Logger.With().Str("topic", cfg.Topic).Logger(),
		timeout: cfg.ConnectTimeout,
		ctx:     context.Background(),
	}
	if s.timeout == 0 {
		s.timeout = 10 * time.Second
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.BrokerURL).
		SetClientID(cfg.ClientID).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetCleanSession(false).
		SetAutoReconnect(true).
		SetConnectTimeout(s.timeout).
		SetOrderMatters(false)

	// Subscriptions are re-issued on every (re)connect.
	opts.SetOnConnectHandler(func(c mqtt.Client) {
		s.logger.Info().Msg("mqtt connected")
		token := c.Subscribe(s.topic, qosAtLeastOnce, s.onMessage)
		if token.WaitTimeout(s.timeout) && token.Error() != nil {
			s.logger.Error().Err(token.Error()).Msg("mqtt subscribe failed")
		}
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		s.logger.Warn().Err(err).Msg("mqtt connection lost")
	})

	s.client = mqtt.NewClient(opts)
	return s
}

// Start connects and consumes until ctx is cancelled.
func (s *MQTTSubscriber) Start(ctx context.Context) error {
	s.ctx = ctx
	s.logger.Info().Msg("starting mqtt subscriber")

	token := s.client.Connect()
	if !token.WaitTimeout(s.timeout) {
		return fmt.Errorf("mqtt connect: timed out after %s", s.timeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt connect: %w", err)
	}

	<-ctx.Done()
	return nil
}

// Close unsubscribes and disconnects.
func (s *MQTTSubscriber) Close() error {
	if !s.client.IsConnected() {
		return nil
	}
	token := s.client.Unsubscribe(s.topic)
	token.WaitTimeout(s.timeout)
	s.client.Disconnect(250)
	return token.Error()
}

func (s *MQTTSubscriber) onMessage(_ mqtt.Client, msg mqtt.Message) {
	logger := s.logger.With().Uint16("mqtt_message_id", msg.MessageID()).Logger()

	err := s.handler.Handle(s.ctx, msg.Payload())
	switch {
	case err == nil:
		logger.Debug().Msg("measurement stored")
	case ShouldAck(err):
		logger.Warn().Err(err).Msg("dropping unsupported message")
	default:
		// MQTT has no negative ack; the reading is lost.
		logger.Error().Err(err).Msg("failed to store measurement")
	}
}
