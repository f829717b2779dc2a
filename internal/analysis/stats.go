package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// RTTSummary holds round-trip-time statistics for one pair.
type RTTSummary struct {
	Algorithm string  `csv:"algorithm"`
	Profile   string  `csv:"profile"`
	LatencyMS int     `csv:"latency_ms"`
	MeanMS    float64 `csv:"avg_rtt_ms"`
	MinMS     float64 `csv:"min_rtt_ms"`
	MaxMS     float64 `csv:"max_rtt_ms"`
	MedianMS  float64 `csv:"median_rtt_ms"`
	StdDevMS  float64 `csv:"stddev_rtt_ms"`
	P95MS     float64 `csv:"p95_rtt_ms"`
	JitterMS  float64 `csv:"jitter_ms"`
}

// Comparison holds the headline metrics for one pair.
type Comparison struct {
	Profile          string  `csv:"profile"`
	Algorithm        string  `csv:"algorithm"`
	AvgThroughput    float64 `csv:"avg_throughput_mbps"`
	ThroughputStdDev float64 `csv:"throughput_stddev"`
	AvgRTT           float64 `csv:"avg_rtt_ms"`
	AvgLossPct       float64 `csv:"avg_loss_pct"`
	P90Throughput    float64 `csv:"p90_throughput_mbps"`
}

// SummarizeRTT computes RTT statistics for every series that carries RTT
// samples.
func SummarizeRTT(series []PairSeries) []RTTSummary {
	var out []RTTSummary
	for _, s := range series {
		rtts := make([]float64, 0, len(s.Samples))
		for _, sample := range s.Samples {
			rtts = append(rtts, sample.RTT)
		}
		if len(rtts) == 0 {
			continue
		}
		sorted := append([]float64(nil), rtts...)
		sort.Float64s(sorted)

		out = append(out, RTTSummary{
			Algorithm: s.Algorithm,
			Profile:   s.Profile.Name,
			LatencyMS: s.Profile.DelayMS,
			MeanMS:    stat.Mean(rtts, nil),
			MinMS:     sorted[0],
			MaxMS:     sorted[len(sorted)-1],
			MedianMS:  stat.Quantile(0.5, stat.Empirical, sorted, nil),
			StdDevMS:  sampleStdDev(rtts),
			P95MS:     stat.Quantile(0.95, stat.Empirical, sorted, nil),
			JitterMS:  jitter(rtts),
		})
	}
	return out
}

// Compare computes the headline comparison row for every series.
func Compare(series []PairSeries) []Comparison {
	var out []Comparison
	for _, s := range series {
		tputs := make([]float64, 0, len(s.Samples))
		rtts := make([]float64, 0, len(s.Samples))
		losses := make([]float64, 0, len(s.Samples))
		for _, sample := range s.Samples {
			tputs = append(tputs, sample.Throughput)
			rtts = append(rtts, sample.RTT)
			losses = append(losses, sample.LossRate)
		}
		if len(tputs) == 0 {
			continue
		}
		sorted := append([]float64(nil), tputs...)
		sort.Float64s(sorted)

		out = append(out, Comparison{
			Profile:          s.Profile.Name,
			Algorithm:        s.Algorithm,
			AvgThroughput:    stat.Mean(tputs, nil),
			ThroughputStdDev: sampleStdDev(tputs),
			AvgRTT:           stat.Mean(rtts, nil),
			AvgLossPct:       stat.Mean(losses, nil) * 100,
			P90Throughput:    stat.Quantile(0.9, stat.Empirical, sorted, nil),
		})
	}
	return out
}

// jitter is the mean absolute difference between successive RTT samples.
func jitter(rtts []float64) float64 {
	if len(rtts) < 2 {
		return 0
	}
	sum := 0.0
	for i := 1; i < len(rtts); i++ {
		sum += math.Abs(rtts[i] - rtts[i-1])
	}
	return sum / float64(len(rtts)-1)
}

// sampleStdDev guards the single-sample case, where gonum returns NaN.
func sampleStdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	return stat.StdDev(xs, nil)
}
