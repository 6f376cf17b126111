//
// Copyright (c) 2020-2025 Markku Rossi
//
// All rights reserved.
//

// Package timing records engine clock tick samples and renders a
// profiling report.
package timing

import (
	"fmt"
	"io"
	"time"

	"github.com/markkurossi/tabulate"
)

// FileSize specifies a transfer size in bytes.
type FileSize uint64

func (s FileSize) String() string {
	if s > 1000*1000*1000*1000 {
		return fmt.Sprintf("%dTB", s/(1000*1000*1000*1000))
	} else if s > 1000*1000*1000 {
		return fmt.Sprintf("%dGB", s/(1000*1000*1000))
	} else if s > 1000*1000 {
		return fmt.Sprintf("%dMB", s/(1000*1000))
	} else if s > 1000 {
		return fmt.Sprintf("%dkB", s/1000)
	} else {
		return fmt.Sprintf("%dB", s)
	}
}

// Timing records tick samples and renders a profiling report.
type Timing struct {
	Start   time.Time
	Samples []*Sample
}

// New creates a new Timing instance.
func New() *Timing {
	return &Timing{
		Start: time.Now(),
	}
}

// Sample adds a timing sample with label, tick count, and data
// columns.
func (t *Timing) Sample(label string, ticks uint64, cols []string) *Sample {
	start := t.Start
	if len(t.Samples) > 0 {
		start = t.Samples[len(t.Samples)-1].End
	}
	sample := &Sample{
		Label: label,
		Start: start,
		End:   time.Now(),
		Ticks: ticks,
		Cols:  cols,
	}
	t.Samples = append(t.Samples, sample)
	return sample
}

// Ticks returns the total number of ticks of all samples.
func (t *Timing) Ticks() uint64 {
	var sum uint64
	for _, sample := range t.Samples {
		sum += sample.Ticks
	}
	return sum
}

// Print prints the profiling report to out. If xfer is not zero, the
// report shows it as the amount of transferred data.
func (t *Timing) Print(out io.Writer, xfer uint64) {
	if len(t.Samples) == 0 {
		return
	}

	tab := tabulate.New(tabulate.UnicodeLight)
	tab.Header("Op").SetAlign(tabulate.ML)
	tab.Header("Ticks").SetAlign(tabulate.MR)
	tab.Header("%").SetAlign(tabulate.MR)
	tab.Header("Time").SetAlign(tabulate.MR)

	total := t.Ticks()
	for _, sample := range t.Samples {
		row := tab.Row()
		row.Column(sample.Label)
		row.Column(fmt.Sprintf("%d", sample.Ticks))
		row.Column(percent(sample.Ticks, total))
		row.Column(sample.End.Sub(sample.Start).String())

		for _, col := range sample.Cols {
			row.Column(col)
		}

		for idx, sub := range sample.Samples {
			row := tab.Row()

			var prefix string
			if idx+1 >= len(sample.Samples) {
				prefix = "\u2570\u2574"
			} else {
				prefix = "\u251C\u2574"
			}
			row.Column(prefix + sub.Label).SetFormat(tabulate.FmtItalic)
			row.Column(fmt.Sprintf("%d", sub.Ticks)).
				SetFormat(tabulate.FmtItalic)
			row.Column(percent(sub.Ticks, sample.Ticks)).
				SetFormat(tabulate.FmtItalic)
		}
	}

	row := tab.Row()
	row.Column("Total").SetFormat(tabulate.FmtBold)
	row.Column(fmt.Sprintf("%d", total)).SetFormat(tabulate.FmtBold)
	row.Column("").SetFormat(tabulate.FmtBold)
	row.Column(t.Samples[len(t.Samples)-1].End.Sub(t.Start).String()).
		SetFormat(tabulate.FmtBold)

	if xfer > 0 {
		row = tab.Row()
		row.Column("\u2570\u2574Xfer").SetFormat(tabulate.FmtItalic)
		row.Column("")
		row.Column("")
		row.Column(FileSize(xfer).String()).SetFormat(tabulate.FmtItalic)
	}

	tab.Print(out)
}

func percent(v, total uint64) string {
	if total == 0 {
		return "0.00%"
	}
	return fmt.Sprintf("%.2f%%", float64(v)/float64(total)*100)
}

// Sample contains information about one timing sample.
type Sample struct {
	Label   string
	Start   time.Time
	End     time.Time
	Ticks   uint64
	Cols    []string
	Samples []*Sample
}

// SubSample adds a sub-sample with label and tick count for the
// timing sample.
func (s *Sample) SubSample(label string, ticks uint64) {
	s.Samples = append(s.Samples, &Sample{
		Label: label,
		Ticks: ticks,
	})
}
