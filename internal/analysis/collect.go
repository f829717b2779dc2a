// Collects per-pair metric samples from the results tree
package analysis

import (
	"context"
	"os"

	"ccbench/internal/bench"
	"ccbench/internal/config"
	"ccbench/internal/logging"
	"ccbench/internal/metrics"
)

// PairSeries holds the samples of one (algorithm, profile) experiment.
type PairSeries struct {
	Algorithm string
	Profile   config.Profile
	Samples   []metrics.Sample
}

// Collect reads every result CSV the layout knows about. Missing or
// unparseable files are logged and skipped, matching the harness behavior of
// analyzing whatever completed.
func Collect(ctx context.Context, cfg *config.BenchConfig, layout bench.Layout) []PairSeries {
	log := logging.FromContext(ctx)
	var series []PairSeries
	for _, profile := range cfg.Profiles {
		for _, algo := range cfg.Algorithms {
			path := layout.ResultCSV(algo, profile.Name)
			if _, err := os.Stat(path); err != nil {
				log.Warn("missing result CSV", "algorithm", algo, "profile", profile.Name, "path", path)
				continue
			}
			samples, err := metrics.ReadFile(path)
			if err != nil {
				log.Error("unreadable result CSV", "path", path, "err", err)
				continue
			}
			if len(samples) == 0 {
				log.Warn("empty result CSV", "path", path)
				continue
			}
			series = append(series, PairSeries{Algorithm: algo, Profile: profile, Samples: samples})
		}
	}
	return series
}

// byProfile filters series belonging to one profile, keeping order.
func byProfile(series []PairSeries, profile string) []PairSeries {
	var out []PairSeries
	for _, s := range series {
		if s.Profile.Name == profile {
			out = append(out, s)
		}
	}
	return out
}
