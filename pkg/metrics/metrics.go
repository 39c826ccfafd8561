// Package metrics keeps process gauges in an embedded tstorage time-series
// store under the application workdir.
package metrics

import (
	"path/filepath"
	"time"

	"github.com/nakabonne/tstorage"
	"go.uber.org/zap"
)

var storage tstorage.Storage

// InitMetrics opens the metrics store under workdir/metrics.
func InitMetrics(workdir string) error {
	var err error
	storage, err = tstorage.NewStorage(
		tstorage.WithDataPath(filepath.Join(workdir, "metrics")),
		tstorage.WithTimestampPrecision(tstorage.Seconds),
		tstorage.WithRetention(7*24*time.Hour),
	)
	return err
}

// SetGauge records the current value of a named gauge.
func SetGauge(name string, value int64) {
	if storage == nil {
		return
	}
	err := storage.InsertRows([]tstorage.Row{
		{
			Metric:    name,
			DataPoint: tstorage.DataPoint{Timestamp: time.Now().Unix(), Value: float64(value)},
		},
	})
	if err != nil {
		zap.S().Warnf("metrics insert %s failed: %s", name, err.Error())
	}
}

// GetGaugeRange returns the data points of a gauge between start and end
// (unix seconds).
func GetGaugeRange(name string, start, end int64) ([]*tstorage.DataPoint, error) {
	if storage == nil {
		return nil, nil
	}
	return storage.Select(name, nil, start, end)
}

// Close flushes and closes the metrics store.
func Close() error {
	if storage == nil {
		return nil
	}
	return storage.Close()
}
