package ingest

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"github.com/rs/zerolog"
)

// PubSubConfig holds configuration for the Pub/Sub subscriber.
type PubSubConfig struct {
	ProjectID    string
	Subscription string
	Handler      *Handler
	Logger       zerolog.Logger
}

// PubSubSubscriber consumes measurement messages from a Pub/Sub subscription.
type PubSubSubscriber struct {
	client       *pubsub.Client
	subscriber   *pubsub.Subscriber
	subscription string
	handler      *Handler
	logger       zerolog.Logger
}

// NewPubSubSubscriber creates a subscriber for cfg.Subscription.
func NewPubSubSubscriber(ctx context.Context, cfg PubSubConfig) (*PubSubSubscriber, error) {
	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	subscriber := client.Subscriber(cfg.Subscription)
	subscriber.ReceiveSettings.MaxOutstandingMessages = 100
	subscriber.ReceiveSettings.MaxExtension = 2 * time.Minute

	return &PubSubSubscriber{
		client:       client,
		subscriber:   subscriber,
		subscription: cfg.Subscription,
		handler:      cfg.Handler,
		logger:       cfg.Logger,
	}, nil
}

// Start receives messages until ctx is cancelled.
func (s *PubSubSubscriber) Start(ctx context.Context) error {
	s.logger.Info().
		Str("subscription", s.subscription).
		Msg("starting pubsub subscriber")

	return s.subscriber.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		s.handleMessage(ctx, msg)
	})
}

// Close closes the Pub/Sub client.
func (s *PubSubSubscriber) Close() error {
	return s.client.Close()
}

func (s *PubSubSubscriber) handleMessage(ctx context.Context, msg *pubsub.Message) {
	logger := s.logger.With().
		Str("message_id", msg.ID).
		Str("publish_time", msg.PublishTime.Format(time.RFC3339)).
		Logger()

	err := s.handler.Handle(ctx, msg.Data)
	switch {
	case err == nil:
		logger.Debug().Msg("measurement stored")
	case ShouldAck(err):
		logger.Warn().Err(err).Msg("dropping unsupported message")
	default:
		logger.Error().Err(err).Msg("failed to store measurement")
		msg.Nack()
		return
	}
	msg.Ack()
}
