// Package relay drains the audit outbox into Kafka. Kafka is the handoff
// point to the external audit subsystem; the outbox row is only marked
// published after the broker acknowledges the record.
package relay

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"
)

const defaultBatchSize = 100

// Relay polls the audit_outbox table and publishes unpublished rows.
type Relay struct {
	db       *sql.DB
	client   *kgo.Client
	topic    string
	interval time.Duration
	logger   *slog.Logger
}

// New connects to the brokers and ensures the topic exists.
func New(db *sql.DB, brokers []string, topic string, interval time.Duration, logger *slog.Logger) (*Relay, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	admin := kadm.NewClient(client)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := admin.CreateTopic(ctx, 1, 1, nil, topic); err != nil {
		// Already-exists is the normal case after first boot.
		logger.DebugContext(ctx, "create audit topic", "topic", topic, "result", err)
	}

	return &Relay{
		db:       db,
		client:   client,
		topic:    topic,
		interval: interval,
		logger:   logger,
	}, nil
}

// Run polls until the context is cancelled.
func (r *Relay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := r.drainOnce(ctx); err != nil {
				r.logger.ErrorContext(ctx, "audit relay drain failed", "error", err)
			}
		}
	}
}

// drainOnce publishes up to one batch of unpublished outbox rows.
func (r *Relay) drainOnce(ctx context.Context) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, payload
		FROM audit_outbox
		WHERE published = FALSE
		ORDER BY created_at
		LIMIT $1
	`, defaultBatchSize)
	if err != nil {
		return fmt.Errorf("query outbox: %w", err)
	}
	defer rows.Close()

	type pending struct {
		id      string
		payload []byte
	}
	var batch []pending
	for rows.Next() {
		var p pending
		if err := rows.Scan(&p.id, &p.payload); err != nil {
			return fmt.Errorf("scan outbox row: %w", err)
		}
		batch = append(batch, p)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate outbox rows: %w", err)
	}

	for _, p := range batch {
		record := &kgo.Record{Topic: r.topic, Key: []byte(p.id), Value: p.payload}
		if err := r.client.ProduceSync(ctx, record).FirstErr(); err != nil {
			return fmt.Errorf("produce audit event %s: %w", p.id, err)
		}
		if _, err := r.db.ExecContext(ctx,
			`UPDATE audit_outbox SET published = TRUE, published_at = NOW() WHERE id = $1`, p.id,
		); err != nil {
			// The event may be delivered again after a crash here; consumers
			// dedupe on the event ID key.
			return fmt.Errorf("mark outbox row published: %w", err)
		}
	}
	return nil
}

// Close flushes and closes the Kafka client.
func (r *Relay) Close() {
	r.client.Close()
}
