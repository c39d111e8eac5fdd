package pipeline

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/theirongolddev/tripcost/internal/model"
	"github.com/theirongolddev/tripcost/internal/source"
)

// LoadResult holds the output of the dataset loading pipeline.
type LoadResult struct {
	Dataset source.DatasetFile
	Trips   []model.Trip
	Rows    int
	// Rejected holds the quarantined rows of a fresh parse. Cached loads only
	// know RejectedCount.
	Rejected      []*source.RowError
	RejectedCount int
}

// ProgressFunc is called during loading with the number of rows read so far.
type ProgressFunc func(rows int)

// Load resolves and parses the dataset at path.
func Load(path string, progressFn ProgressFunc) (*LoadResult, error) {
	ds, err := source.Resolve(path)
	if err != nil {
		return nil, fmt.Errorf("resolving dataset: %w", err)
	}
	return parse(ds, progressFn)
}

func parse(ds source.DatasetFile, progressFn ProgressFunc) (*LoadResult, error) {
	var pf source.ProgressFunc
	if progressFn != nil {
		pf = source.ProgressFunc(progressFn)
	}

	pr := source.ParseFile(ds.Path, pf)
	if pr.Err != nil {
		return nil, fmt.Errorf("parsing dataset: %w", pr.Err)
	}

	logRejected(ds.Path, pr.Rejected)

	return &LoadResult{
		Dataset:       ds,
		Trips:         pr.Trips,
		Rows:          pr.Rows,
		Rejected:      pr.Rejected,
		RejectedCount: len(pr.Rejected),
	}, nil
}

func logRejected(path string, rejected []*source.RowError) {
	if len(rejected) == 0 {
		return
	}
	for _, r := range rejected {
		log.WithFields(log.Fields{
			"line":   r.Line,
			"column": r.Column,
			"value":  r.Value,
		}).Debug(r.Reason)
	}
	log.WithFields(log.Fields{
		"dataset":  path,
		"rejected": len(rejected),
	}).Warn("skipped malformed rows")
}
