// Copyright 2025 Sonic Labs
// This file is part of Distat
//
// Distat is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Distat is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Distat. If not, see <http://www.gnu.org/licenses/>.

// Package report prints summary tables of distributions and rolled batches.
package report

import (
	"fmt"
	"io"

	"github.com/0xsoniclabs/distat/dice"
	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// printer formats trial counts with thousands separators.
var printer = message.NewPrinter(language.English)

// Summary holds the key figures of a distribution.
type Summary struct {
	Name   string
	Trials int
	Min    int
	Max    int
	Mean   float64
	StdDev float64
	Median int
	Low    int // 5% quantile
	High   int // 95% quantile
}

// Summarize computes the summary of a distribution. Without a name the name
// of the roll definition is used.
func Summarize(name string, d *dice.Dist) Summary {
	if name == "" && d.RollDef != nil {
		name = d.RollDef.Name
		if name == "" {
			name = d.RollDef.String()
		}
	}
	return Summary{
		Name:   name,
		Trials: d.N,
		Min:    d.Min(),
		Max:    d.Max(),
		Mean:   d.Mean,
		StdDev: d.StdDev(),
		Median: d.Median,
		Low:    d.Quantile(0.05),
		High:   d.Quantile(0.95),
	}
}

func summaryTable(summaries []Summary) table.Writer {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Name", "Trials", "Min", "Max", "Mean", "StdDev", "Median", "5%", "95%"})
	for _, s := range summaries {
		t.AppendRow(table.Row{
			s.Name,
			printer.Sprintf("%d", s.Trials),
			s.Min,
			s.Max,
			fmt.Sprintf("%.3f", s.Mean),
			fmt.Sprintf("%.3f", s.StdDev),
			s.Median,
			s.Low,
			s.High,
		})
	}
	return t
}

// WriteTable prints the summaries as a text table.
func WriteTable(w io.Writer, summaries []Summary) error {
	_, err := fmt.Fprintln(w, summaryTable(summaries).Render())
	return err
}

// TableHTML renders the summaries as an HTML table.
func TableHTML(summaries []Summary) string {
	return summaryTable(summaries).RenderHTML()
}

// WriteDist prints the probability and cumulative probability of every value
// of a distribution.
func WriteDist(w io.Writer, d *dice.Dist) error {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Value", "Probability", "Cumulative"})
	cdf := d.CDF()
	for i, p := range d.Values {
		t.AppendRow(table.Row{
			d.Bins[i],
			fmt.Sprintf("%.4f%%", 100*p),
			fmt.Sprintf("%.4f%%", 100*cdf[i]),
		})
	}
	t.AppendFooter(table.Row{"Trials", printer.Sprintf("%d", d.N), ""})
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

// BatchSummary holds the key figures of the values of a rolled batch.
type BatchSummary struct {
	Count  int
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
}

// SummarizeBatch computes the summary of raw outcomes.
func SummarizeBatch(values []int) BatchSummary {
	if len(values) == 0 {
		return BatchSummary{}
	}
	x := make([]float64, len(values))
	for i, v := range values {
		x[i] = float64(v)
	}
	s := BatchSummary{
		Count: len(x),
		Min:   floats.Min(x),
		Max:   floats.Max(x),
	}
	if len(x) > 1 {
		s.Mean, s.StdDev = stat.MeanStdDev(x, nil)
	} else {
		s.Mean = x[0]
	}
	return s
}

// String formats the batch summary on a single line.
func (s BatchSummary) String() string {
	return printer.Sprintf("%d trials, min %v, max %v, mean %.3f, stddev %.3f", s.Count, s.Min, s.Max, s.Mean, s.StdDev)
}
