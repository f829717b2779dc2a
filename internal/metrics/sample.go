// Metric sample model for the CSVs the external runner emits
package metrics

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
)

// Sample is one measurement row from a runner metrics CSV. Timestamp is the
// sample index in seconds; runners that omit the column get indices assigned
// on read.
type Sample struct {
	Timestamp  float64 `csv:"timestamp"`
	Throughput float64 `csv:"throughput"`
	RTT        float64 `csv:"rtt"`
	LossRate   float64 `csv:"loss_rate"`
}

// ReadFile reads all samples from a metrics CSV. Rows keep file order;
// missing timestamp columns are filled with the row index.
func ReadFile(path string) ([]Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var samples []Sample
	if err := gocsv.UnmarshalFile(f, &samples); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	fillTimestamps(samples)
	return samples, nil
}

// WriteFile writes samples to a CSV with a header row.
func WriteFile(path string, samples []Sample) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gocsv.MarshalFile(&samples, f)
}

func fillTimestamps(samples []Sample) {
	allZero := true
	for _, s := range samples {
		if s.Timestamp != 0 {
			allZero = false
			break
		}
	}
	if !allZero || len(samples) < 2 {
		return
	}
	for i := range samples {
		samples[i].Timestamp = float64(i)
	}
}
