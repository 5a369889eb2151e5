//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	kafkaadapter "github.com/noaa-psd/score-hv/internal/adapter/kafka"
	"github.com/noaa-psd/score-hv/internal/config"
	"github.com/noaa-psd/score-hv/internal/domain"
	"github.com/noaa-psd/score-hv/internal/harvester"
	"github.com/noaa-psd/score-hv/internal/nctest"
	"github.com/noaa-psd/score-hv/internal/observability"
)

const testTopic = "innov-stats"

// startKafka runs a single-node Kafka container and returns its broker
// address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	ctr, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0",
		tckafka.WithClusterID("score-hv-test"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() {
		if err := ctr.Terminate(context.Background()); err != nil {
			t.Logf("terminate kafka container: %v", err)
		}
	})

	brokers, err := ctr.Brokers(ctx)
	require.NoError(t, err, "resolve broker address")
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err, "dial broker")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "find controller")

	ctrlConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err, "dial controller")
	defer ctrlConn.Close()

	require.NoError(t, ctrlConn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// TestHarvestPublish harvests a real NetCDF fixture and verifies every
// record round-trips through the Kafka sink with its headers intact.
func TestHarvestPublish(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2023, 6, 15, 12, 0, 0, 0, time.UTC)))
	t.Cleanup(func() { domain.SetClock(nil) })

	broker := startKafka(ctx, t)
	createTopic(t, broker, testTopic)

	dir := t.TempDir()
	path := filepath.Join(dir, "innov_stats_temperature_2015120206.nc")
	require.NoError(t, nctest.WriteInnovStatsFile(
		path, "plevs", nctest.Levels(3), []string{"global"}, []string{"bias"}))

	ds, err := harvester.Harvest(map[string]any{
		"harvester_name": "innov_stats_netcdf",
		"metrics":        []string{"temperature"},
		"stats":          []string{"bias"},
		"regions": map[string]any{
			"global": map[string]any{"lat_min": -90.0, "lat_max": 90.0},
		},
		"file_meta": map[string]any{
			"filepath":      dir,
			"cycletime_str": "%Y%m%d%H",
			"cycle":         "2015120206",
			"filename_str":  "innov_stats_metric_%Y%m%d%H.nc",
		},
	})
	require.NoError(t, err)
	require.Len(t, ds.Records, 3)

	cfg := &config.Config{
		KafkaBrokers: []string{broker},
		KafkaTopic:   testTopic,
	}
	writer := kafkaadapter.NewWriter(cfg, slog.Default(), observability.NewMetricsForTesting())
	t.Cleanup(func() {
		if err := writer.Close(); err != nil {
			t.Logf("close writer: %v", err)
		}
	})

	require.NoError(t, writer.PublishRecords(ctx, ds.Records))

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers: []string{broker},
		Topic:   testTopic,
		GroupID: fmt.Sprintf("test-sink-%d", time.Now().UnixNano()),
	})
	t.Cleanup(func() {
		if err := consumer.Close(); err != nil {
			t.Logf("close consumer: %v", err)
		}
	})

	for i := range ds.Records {
		readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
		msg, err := consumer.ReadMessage(readCtx)
		readCancel()
		require.NoError(t, err, "read record %d from sink topic", i)

		var got domain.Record
		require.NoError(t, json.Unmarshal(msg.Value, &got))
		assert.Equal(t, ds.Records[i], got)
		assert.Equal(t, "temperature:bias:global", string(msg.Key))

		headers := make(map[string]string, len(msg.Headers))
		for _, h := range msg.Headers {
			headers[h.Key] = string(h.Value)
		}
		assert.Equal(t, "temperature", headers["metric"])
		assert.Equal(t, "bias", headers["stat"])
		assert.Equal(t, "2015-12-02T06:00:00Z", headers["cycletime"])
	}
}
