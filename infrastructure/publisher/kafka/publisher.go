// ABOUTME: Kafka publisher that hands aggregated issue digests to the downstream renderer
// ABOUTME: Each digest is one JSON message keyed by issue id so an issue stays on one partition

package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"paperfeed-engine/core/domain"
	"paperfeed-engine/core/interfaces"
	"paperfeed-engine/pkg/config"
)

// messageWriter is the subset of *kafka.Writer the publisher uses
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher implements interfaces.DigestPublisher on a Kafka topic
type Publisher struct {
	writer messageWriter
	topic  string
	logger interfaces.Logger
	now    func() time.Time
}

// NewPublisher creates a publisher for cfg.Topic on cfg.Brokers
func NewPublisher(cfg config.KafkaConfig, logger interfaces.Logger) (*Publisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka brokers cannot be empty")
	}
	if cfg.Topic == "" {
		return nil, errors.New("kafka topic cannot be empty")
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}

	return newPublisher(writer, cfg.Topic, logger), nil
}

func newPublisher(w messageWriter, topic string, logger interfaces.Logger) *Publisher {
	return &Publisher{writer: w, topic: topic, logger: logger, now: time.Now}
}

// Publish writes the digest as a single message
func (p *Publisher) Publish(ctx context.Context, digest *domain.IssueDigest) error {
	if digest == nil {
		return errors.New("digest cannot be nil")
	}

	msg, err := p.message(digest)
	if err != nil {
		return err
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish digest", map[string]interface{}{
			"issue_id": digest.Issue.ID,
			"topic":    p.topic,
			"error":    err.Error(),
		})
		return fmt.Errorf("publishing digest for issue %s: %w", digest.Issue.ID, err)
	}

	p.logger.Info("Published digest", map[string]interface{}{
		"issue_id":       digest.Issue.ID,
		"topic":          p.topic,
		"total_articles": digest.TotalArticles,
		"bytes":          len(msg.Value),
	})
	return nil
}

func (p *Publisher) message(digest *domain.IssueDigest) (kafka.Message, error) {
	data, err := json.Marshal(digest)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encoding digest: %w", err)
	}

	return kafka.Message{
		Key:   []byte(digest.Issue.ID),
		Value: data,
		Headers: []kafka.Header{
			{Key: "content_type", Value: []byte("application/json")},
			{Key: "total_articles", Value: []byte(strconv.Itoa(digest.TotalArticles))},
			{Key: "failures", Value: []byte(strconv.Itoa(len(digest.Failures)))},
			{Key: "timestamp", Value: []byte(p.now().UTC().Format(time.RFC3339))},
		},
	}, nil
}

// Close flushes pending writes and closes the writer
func (p *Publisher) Close() error {
	return p.writer.Close()
}
