// Package consumer feeds survey rows from a Redis Stream into the
// ingest pipeline. Each stream entry carries one already-split row as a
// JSON array of column values under the "data" field. Messages are read
// through a consumer group and acknowledged only after processing.
package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"carewatch/internal/ingest"
	"carewatch/internal/models"
	"carewatch/pkg/redis"
)

// Config controls the consumer loop.
type Config struct {
	Stream        string
	ConsumerGroup string
	ConsumerName  string
	BatchSize     int64
	// Backoff bounds for repeated read failures.
	MinBackoff time.Duration
	MaxBackoff time.Duration
}

// SurveyConsumer pulls rows off the stream and runs them through the
// batch processor.
type SurveyConsumer struct {
	client    *goredis.Client
	processor *ingest.Processor
	config    Config
	logger    *zap.Logger
}

// NewSurveyConsumer creates a consumer. Zero config fields get
// defaults: stream "survey:rows", group "carewatch-ingest", batch 10.
func NewSurveyConsumer(client *goredis.Client, processor *ingest.Processor, config Config, logger *zap.Logger) *SurveyConsumer {
	if config.Stream == "" {
		config.Stream = "survey:rows"
	}
	if config.ConsumerGroup == "" {
		config.ConsumerGroup = "carewatch-ingest"
	}
	if config.ConsumerName == "" {
		config.ConsumerName = "carewatch-1"
	}
	if config.BatchSize <= 0 {
		config.BatchSize = 10
	}
	if config.MinBackoff <= 0 {
		config.MinBackoff = time.Second
	}
	if config.MaxBackoff <= 0 {
		config.MaxBackoff = 30 * time.Second
	}
	return &SurveyConsumer{client: client, processor: processor, config: config, logger: logger}
}

// Start creates the consumer group and runs the read loop until ctx is
// cancelled. Read errors back off exponentially; processing errors skip
// the message after acknowledging it so a poison row cannot wedge the
// group.
func (c *SurveyConsumer) Start(ctx context.Context) error {
	if err := redis.CreateConsumerGroup(ctx, c.client, c.config.Stream, c.config.ConsumerGroup); err != nil {
		return fmt.Errorf("failed to prepare consumer group: %w", err)
	}

	c.logger.Info("survey stream consumer started",
		zap.String("stream", c.config.Stream),
		zap.String("group", c.config.ConsumerGroup),
		zap.String("consumer", c.config.ConsumerName))

	backoff := c.config.MinBackoff
	for {
		select {
		case <-ctx.Done():
			c.logger.Info("survey stream consumer stopped")
			return ctx.Err()
		default:
		}

		messages, err := redis.ReadFromStream(ctx, c.client,
			c.config.Stream, c.config.ConsumerGroup, c.config.ConsumerName, c.config.BatchSize)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Error("stream read failed, backing off",
				zap.Duration("backoff", backoff),
				zap.Error(err))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
			if backoff > c.config.MaxBackoff {
				backoff = c.config.MaxBackoff
			}
			continue
		}
		backoff = c.config.MinBackoff

		if len(messages) == 0 {
			continue
		}
		c.handleBatch(ctx, messages)
	}
}

// handleBatch decodes the messages into survey rows, runs one ingest
// batch over them in stream order, then acknowledges everything that
// was decoded. Undecodable messages are acknowledged too and counted.
func (c *SurveyConsumer) handleBatch(ctx context.Context, messages []redis.StreamMessage) {
	rows := make([]models.SurveyRow, 0, len(messages))
	ackIDs := make([]string, 0, len(messages))
	malformed := 0

	for _, msg := range messages {
		ackIDs = append(ackIDs, msg.ID)
		row, err := decodeRow(msg)
		if err != nil {
			malformed++
			c.logger.Warn("discarding malformed stream message",
				zap.String("message_id", msg.ID),
				zap.Error(err))
			continue
		}
		rows = append(rows, row)
	}

	if len(rows) > 0 {
		summary, err := c.processor.ProcessBatch(ctx, rows)
		if err != nil {
			c.logger.Warn("batch interrupted", zap.Error(err))
			return // leave messages pending for redelivery
		}
		c.logger.Info("stream batch processed",
			zap.Int("rows", summary.Processed),
			zap.Int("schema_skipped", summary.SchemaSkipped),
			zap.Int("sink_failures", summary.SinkFailures),
			zap.Int("candidates", len(summary.Candidates)),
			zap.Int("malformed", malformed))
	}

	if err := c.client.XAck(ctx, c.config.Stream, c.config.ConsumerGroup, ackIDs...).Err(); err != nil {
		c.logger.Error("failed to ack stream messages", zap.Error(err))
	}
}

func decodeRow(msg redis.StreamMessage) (models.SurveyRow, error) {
	raw, ok := msg.Values["data"].(string)
	if !ok {
		return models.SurveyRow{}, fmt.Errorf("message has no data field")
	}
	var columns []string
	if err := json.Unmarshal([]byte(raw), &columns); err != nil {
		return models.SurveyRow{}, fmt.Errorf("failed to decode row columns: %w", err)
	}
	return models.SurveyRow{Columns: columns}, nil
}
