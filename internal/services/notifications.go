package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// Notifier publishes a single message to a recipient address. Delivery is
// advisory: callers never treat a publish failure as their own failure.
type Notifier interface {
	Publish(ctx context.Context, subject, body, recipient string) error
}

// Dispatcher wraps a Notifier and fires each publication on its own
// goroutine so the triggering request never waits on delivery. Failures are
// logged and dropped.
type Dispatcher struct {
	notifier Notifier
	log      zerolog.Logger
	timeout  time.Duration
	wg       sync.WaitGroup
}

// NewDispatcher creates a Dispatcher around the given backend.
func NewDispatcher(n Notifier, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{notifier: n, log: log, timeout: 10 * time.Second}
}

// Dispatch publishes in the background and returns immediately. A missing
// recipient address silently drops the message.
func (d *Dispatcher) Dispatch(subject, body, recipient string) {
	if recipient == "" {
		return
	}
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()
		if err := d.notifier.Publish(ctx, subject, body, recipient); err != nil {
			d.log.Error().Err(err).
				Str("subject", subject).
				Str("recipient", recipient).
				Msg("notification publish failed")
			return
		}
		d.log.Debug().Str("subject", subject).Str("recipient", recipient).Msg("notification published")
	}()
}

// Wait blocks until all in-flight publications have finished. Used on
// shutdown and in tests.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// LogNotifier writes notifications to the structured log instead of
// delivering them anywhere. Default backend when nothing else is configured.
type LogNotifier struct {
	Log zerolog.Logger
}

func (n *LogNotifier) Publish(_ context.Context, subject, body, recipient string) error {
	n.Log.Info().
		Str("recipient", recipient).
		Str("subject", subject).
		Str("body", body).
		Msg("notification")
	return nil
}

// WebhookNotifier delivers notifications by POSTing JSON to an external
// messaging endpoint.
type WebhookNotifier struct {
	URL    string
	Client *http.Client
}

// NewWebhookNotifier creates a WebhookNotifier for the given endpoint.
func NewWebhookNotifier(url string) *WebhookNotifier {
	return &WebhookNotifier{URL: url, Client: &http.Client{Timeout: 10 * time.Second}}
}

func (n *WebhookNotifier) Publish(ctx context.Context, subject, body, recipient string) error {
	payload, err := json.Marshal(map[string]string{
		"recipient": recipient,
		"subject":   subject,
		"body":      body,
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.URL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.Client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

// AMQPNotifier publishes notifications onto a topic exchange for an
// external delivery worker to consume.
type AMQPNotifier struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

// NewAMQPNotifier dials the broker and declares the topic exchange.
func NewAMQPNotifier(url, exchange string) (*AMQPNotifier, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &AMQPNotifier{conn: conn, ch: ch, exchange: exchange}, nil
}

func (n *AMQPNotifier) Publish(ctx context.Context, subject, body, recipient string) error {
	b, err := json.Marshal(map[string]string{
		"recipient": recipient,
		"subject":   subject,
		"body":      body,
	})
	if err != nil {
		return err
	}
	return n.ch.PublishWithContext(ctx, n.exchange, "notification.email", false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        b,
	})
}

// Close releases the channel and connection.
func (n *AMQPNotifier) Close() error {
	if n.ch != nil {
		_ = n.ch.Close()
	}
	if n.conn != nil {
		return n.conn.Close()
	}
	return nil
}
