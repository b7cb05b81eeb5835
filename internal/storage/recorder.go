package storage

import (
	"context"
	"sort"

	"homehub/internal/brainboost"
)

// Recorder appends every finished run to a journal.
type Recorder struct {
	Journal Journal
}

func (r *Recorder) Notify(_ context.Context, report *brainboost.Report) error {
	return r.Journal.Append(FromReport(report))
}

func FromReport(report *brainboost.Report) Run {
	run := Run{
		Token:        report.Token.String(),
		At:           report.Token.At,
		Failures:     report.Failures,
		WordFallback: report.WordFallback,
		Pruned:       report.Pruned,
	}
	for kind := range report.Texts {
		run.Kinds = append(run.Kinds, kind)
	}
	for kind := range report.Images {
		run.Images = append(run.Images, kind)
	}
	sort.Strings(run.Kinds)
	sort.Strings(run.Images)
	return run
}
