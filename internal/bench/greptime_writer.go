package bench

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"

	"ccbench/internal/metrics"
)

const defaultGreptimePort = 4001

// greptimeClient abstracts the ingester client for testing.
type greptimeClient interface {
	Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error)
}

// GreptimeWriter pushes the metric samples of each successful run to a
// GreptimeDB table, tagged by algorithm and profile so runs stay comparable
// across batches.
type GreptimeWriter struct {
	client greptimeClient
	table  string
	log    *slog.Logger
}

// NewGreptimeWriter connects to a GreptimeDB endpoint (host or host:port).
func NewGreptimeWriter(endpoint, database, tableName string, log *slog.Logger) (*GreptimeWriter, error) {
	host, port := splitEndpoint(endpoint)
	cfg := greptime.NewConfig(host).WithPort(port).WithDatabase(database)
	client, err := greptime.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("greptime client: %w", err)
	}
	if tableName == "" {
		tableName = "cc_metrics"
	}
	return &GreptimeWriter{client: client, table: tableName, log: log}, nil
}

// WriteRun pushes the samples behind a successful run. Runs without a metrics
// CSV are skipped.
func (w *GreptimeWriter) WriteRun(r Run) error {
	if r.Status != StatusOK || r.CSVPath == "" {
		return nil
	}
	samples, err := metrics.ReadFile(r.CSVPath)
	if err != nil {
		return fmt.Errorf("read samples for run %s: %w", r.ID, err)
	}
	if len(samples) == 0 {
		return nil
	}

	tbl, err := table.New(w.table)
	if err != nil {
		return err
	}
	if err := tbl.AddTagColumn("algorithm", types.STRING); err != nil {
		return err
	}
	if err := tbl.AddTagColumn("profile", types.STRING); err != nil {
		return err
	}
	if err := tbl.AddTagColumn("run_id", types.STRING); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("throughput_mbps", types.FLOAT64); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("rtt_ms", types.FLOAT64); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("loss_rate", types.FLOAT64); err != nil {
		return err
	}
	if err := tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND); err != nil {
		return err
	}

	for _, s := range samples {
		ts := r.StartedAt.Add(time.Duration(s.Timestamp * float64(time.Second)))
		if err := tbl.AddRow(r.Algorithm, r.Profile, r.ID, s.Throughput, s.RTT, s.LossRate, ts); err != nil {
			return err
		}
	}

	if _, err := w.client.Write(context.Background(), tbl); err != nil {
		w.log.Error("greptime write failed", "run_id", r.ID, "err", err)
		return err
	}
	w.log.Debug("greptime write", "run_id", r.ID, "rows", len(samples))
	return nil
}

func splitEndpoint(endpoint string) (string, int) {
	host, portStr, err := net.SplitHostPort(endpoint)
	if err != nil {
		return endpoint, defaultGreptimePort
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return host, defaultGreptimePort
	}
	return host, port
}
