package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"cloud.google.com/go/pubsub"
	"github.com/accountsvc/apiserver/config"
	"google.golang.org/api/option"
)

// PubSubMailer queues activation email on a Google Cloud Pub/Sub topic.
// Publish results are awaited so broker failures surface synchronously.
type PubSubMailer struct {
	client  *pubsub.Client
	topic   string
	baseURL string
}

func NewPubSubMailer(ctx context.Context, cfg config.PubSubConfig, activationBaseURL string) (*PubSubMailer, error) {
	if strings.TrimSpace(cfg.ProjectID) == "" {
		return nil, errors.New("pubsub project id is required")
	}
	if strings.TrimSpace(cfg.Topic) == "" {
		return nil, errors.New("pubsub topic is required")
	}

	var opts []option.ClientOption
	if strings.TrimSpace(cfg.CredentialsFile) != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := pubsub.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, err
	}

	return &PubSubMailer{
		client:  client,
		topic:   cfg.Topic,
		baseURL: activationBaseURL,
	}, nil
}

// SendActivation publishes the activation message and waits for the
// server-assigned id.
func (m *PubSubMailer) SendActivation(ctx context.Context, to, token string) error {
	body, err := json.Marshal(ActivationMessage{
		To:    to,
		Token: token,
		Link:  ActivationLink(m.baseURL, token),
	})
	if err != nil {
		return err
	}

	topic, err := m.ensureTopic(ctx)
	if err != nil {
		return err
	}
	result := topic.Publish(ctx, &pubsub.Message{Data: body})
	_, err = result.Get(ctx)
	return err
}

// Close closes the underlying Pub/Sub client.
func (m *PubSubMailer) Close() error {
	return m.client.Close()
}

func (m *PubSubMailer) ensureTopic(ctx context.Context) (*pubsub.Topic, error) {
	topic := m.client.Topic(m.topic)
	exists, err := topic.Exists(ctx)
	if err != nil {
		return nil, err
	}
	if !exists {
		return m.client.CreateTopic(ctx, m.topic)
	}
	return topic, nil
}
