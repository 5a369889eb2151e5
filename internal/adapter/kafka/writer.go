// Package kafka publishes harvested records to a Kafka topic for downstream
// consumers such as the experiment-score database loader.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/noaa-psd/score-hv/internal/config"
	"github.com/noaa-psd/score-hv/internal/domain"
	"github.com/noaa-psd/score-hv/internal/observability"
)

// Writer produces harvested records to a Kafka topic.
type Writer struct {
	writer  *kafkago.Writer
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger, metrics: metrics}
}

// PublishRecords serializes and publishes all records of a harvest in a
// single WriteMessages call.
func (w *Writer) PublishRecords(ctx context.Context, records []domain.Record) error {
	if len(records) == 0 {
		return nil
	}

	msgs := make([]kafkago.Message, len(records))
	for i := range records {
		msg, err := serializeToMessage(records[i])
		if err != nil {
			w.metrics.PublishFailures.Inc()
			return err
		}
		msgs[i] = msg
	}

	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		w.metrics.PublishFailures.Inc()
		return err
	}

	w.metrics.RecordsPublished.Add(float64(len(records)))
	w.logger.Info("records published", "count", len(records), "topic", w.writer.Topic)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a harvested record into a Kafka message. The
// key groups one metric's statistic per region so region history stays in
// partition order.
func serializeToMessage(rec domain.Record) (kafkago.Message, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize record: %w", err)
	}
	key := fmt.Sprintf("%s:%s:%s", rec.Metric, rec.Stat, rec.RegionName)
	return kafkago.Message{
		Key:   []byte(key),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "metric", Value: []byte(rec.Metric)},
			{Key: "stat", Value: []byte(rec.Stat)},
			{Key: "cycletime", Value: []byte(rec.Cycletime.Format(time.RFC3339))},
		},
	}, nil
}
