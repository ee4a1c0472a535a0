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

package visualizer

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/0xsoniclabs/distat/dice"
	"github.com/0xsoniclabs/distat/report"
	"github.com/0xsoniclabs/distat/statistics/histogram"
	"github.com/cockroachdb/errors"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
)

// HTML references for the rendered pages.
const dashboardRef = "dashboard"
const tableRef = "table"
const distRef = "dist"
const pipelineRef = "pipeline"

// MainHtml is the head of the index page.
const MainHtml = `
<!DOCTYPE html>
<html lang="en">
  <head>
    <meta charset="utf-8">
    <title>Distat: Dice Distributions</title>
  </head>
  <body>
    <h1>Distat: Dice Distributions</h1>
    <ul>
    <li> <h3> <a href="/` + dashboardRef + `"> Dashboard </a> </h3> </li>
    <li> <h3> <a href="/` + tableRef + `"> Summary Table </a> </h3> </li>
    </ul>
`

const mainTail = `    </ul>
</body>
</html>
`

// renderMain renders the main menu with one entry per distribution.
func renderMain(w http.ResponseWriter, r *http.Request) {
	view, err := currentView()
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	_, _ = fmt.Fprint(w, MainHtml)
	_, _ = fmt.Fprint(w, "    <ul>\n")
	for i, s := range view.summaries {
		name := html.EscapeString(s.Name)
		_, _ = fmt.Fprintf(w, "    <li> <a href=\"/%s/%d\"> %s </a> (<a href=\"/%s/%d\">pipeline</a>) </li>\n",
			distRef, i, name, pipelineRef, i)
	}
	_, _ = fmt.Fprint(w, mainTail)
}

// chartOptions returns the global options shared by all charts.
func chartOptions(title, subtitle string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeChalk,
		}),
		charts.WithToolboxOpts(opts.Toolbox{
			Show: true,
			Feature: &opts.ToolBoxFeature{
				SaveAsImage: &opts.ToolBoxFeatureSaveAsImage{
					Show:  true,
					Title: "Save",
				},
				DataZoom: &opts.ToolBoxFeatureDataZoom{
					Show: true,
				},
			},
		}),
		charts.WithLegendOpts(opts.Legend{Show: true}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: subtitle,
		}),
	}
}

// convertPMFData converts bin probabilities to bar chart data.
func convertPMFData(values []float64) []opts.BarData {
	items := make([]opts.BarData, 0, len(values))
	for _, v := range values {
		items = append(items, opts.BarData{Value: v})
	}
	return items
}

// convertBinLabels labels every unit bin by its value.
func convertBinLabels(bins []int) []string {
	if len(bins) < 2 {
		return []string{}
	}
	labels := make([]string, 0, len(bins)-1)
	for _, b := range bins[:len(bins)-1] {
		labels = append(labels, strconv.Itoa(b))
	}
	return labels
}

// convertCDFData converts ECDF points to chart points.
func convertCDFData(data [][2]float64) []opts.LineData {
	items := make([]opts.LineData, 0, len(data))
	for _, pair := range data {
		items = append(items, opts.LineData{Value: pair})
	}
	return items
}

// newHistogramChart creates a bar chart of a probability mass function.
func newHistogramChart(title string, h histogram.Histogram) *charts.Bar {
	bar := charts.NewBar()
	subtitle := fmt.Sprintf("mean %.3f, median %d", h.Mean(), h.Median())
	bar.SetGlobalOptions(chartOptions(title, subtitle)...)
	bar.SetXAxis(convertBinLabels(h.Bins)).AddSeries("P(X=x)", convertPMFData(h.Values))
	return bar
}

// newCDFChart creates a line chart with one cumulative distribution per series.
func newCDFChart(title string, names []string, ecdfs [][][2]float64) *charts.Line {
	chart := charts.NewLine()
	chart.SetGlobalOptions(append(chartOptions(title, ""),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: "x"}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: "P(X<=x)"}),
	)...)
	for i, name := range names {
		chart.AddSeries(name, convertCDFData(ecdfs[i]))
	}
	return chart
}

// RenderHistogram renders the histogram of raw outcomes as a standalone page.
func RenderHistogram(w io.Writer, values []int) error {
	h, err := histogram.FromValues(values)
	if err != nil {
		return err
	}
	page := components.NewPage()
	page.PageTitle = "Distat: Histogram"
	page.AddCharts(
		newHistogramChart(fmt.Sprintf("Histogram of %d outcomes", len(values)), h),
		newCDFChart("Cumulative Distribution", []string{"outcomes"}, [][][2]float64{h.ECDF(histogram.DefaultECDFPoints)}),
	)
	return page.Render(w)
}

// RenderDist renders the histogram and CDF of a distribution.
func RenderDist(w io.Writer, d *dice.Dist) error {
	if d == nil {
		return errNoDist
	}
	return renderDistPage(w, distName(0, d), d)
}

func renderDistPage(w io.Writer, name string, d *dice.Dist) error {
	page := components.NewPage()
	page.PageTitle = "Distat: " + name
	page.AddCharts(
		newHistogramChart(name, d.Histogram()),
		newCDFChart(name+" CDF", []string{name}, [][][2]float64{d.ECDF(histogram.DefaultECDFPoints)}),
	)
	return page.Render(w)
}

// RenderDashboard renders all distributions on a single page: their CDFs in
// one chart followed by one histogram per distribution.
func RenderDashboard(w io.Writer, dists []*dice.Dist) error {
	view, err := buildViewState(dists)
	if err != nil {
		return err
	}
	return renderDashboardPage(w, view)
}

func renderDashboardPage(w io.Writer, view *viewState) error {
	names := make([]string, len(view.dists))
	ecdfs := make([][][2]float64, len(view.dists))
	for i, d := range view.dists {
		names[i] = view.summaries[i].Name
		ecdfs[i] = d.ECDF(histogram.DefaultECDFPoints)
	}
	page := components.NewPage()
	page.PageTitle = "Distat: Dashboard"
	page.AddCharts(newCDFChart("Cumulative Distributions", names, ecdfs))
	for i, d := range view.dists {
		page.AddCharts(newHistogramChart(names[i], d.Histogram()))
	}
	return page.Render(w)
}

// renderDashboard renders the dashboard of the current view.
func renderDashboard(w http.ResponseWriter, r *http.Request) {
	view, err := currentView()
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	_ = renderDashboardPage(w, view)
}

// renderDist renders a single distribution selected by index.
func renderDist(w http.ResponseWriter, r *http.Request) {
	view, err := currentView()
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	i, d, err := view.lookup(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	_ = renderDistPage(w, view.summaries[i].Name, d)
}

// renderTable renders the summary table of all distributions.
func renderTable(w http.ResponseWriter, r *http.Request) {
	view, err := currentView()
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	_, _ = fmt.Fprint(w, report.TableHTML(view.summaries))
}

// renderPipeline renders the operation tree of a distribution's roll definition.
func renderPipeline(w http.ResponseWriter, r *http.Request) {
	view, err := currentView()
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	i, d, err := view.lookup(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if d.RollDef == nil {
		http.Error(w, errNoRollDef.Error(), http.StatusNotFound)
		return
	}
	txt, err := RenderPipeline(view.summaries[i].Name, d.RollDef)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	_, _ = fmt.Fprint(w, txt)
}

// kindColor colors pipeline nodes by operation kind.
func kindColor(k dice.Kind) string {
	switch k {
	case dice.SelectorKind:
		return "gray"
	case dice.FilterKind:
		return "green"
	case dice.AggregatorKind:
		return "blue"
	case dice.ActionKind:
		return "indianred"
	case dice.ModifierKind:
		return "orange"
	}
	return "black"
}

// pipelineGraph accumulates the nodes of a roll definition tree.
type pipelineGraph struct {
	graph *cgraph.Graph
	count int
}

func (p *pipelineGraph) node(label, color string) (*cgraph.Node, error) {
	p.count++
	n, err := p.graph.CreateNode(fmt.Sprintf("n%d", p.count))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create node %q", label)
	}
	n.SetLabel(label)
	n.SetColor(color)
	return n, nil
}

func (p *pipelineGraph) edge(from, to *cgraph.Node, color string) (*cgraph.Edge, error) {
	e, err := p.graph.CreateEdge("", from, to)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create edge")
	}
	e.SetColor(color)
	return e, nil
}

// addSource adds a source and returns the node producing its batch.
func (p *pipelineGraph) addSource(src dice.Source) (*cgraph.Node, error) {
	switch s := src.(type) {
	case *dice.RollDef:
		return p.addRollDef(s)
	case dice.Pool:
		pool, err := p.node("Pool", "black")
		if err != nil {
			return nil, err
		}
		pool.SetShape(cgraph.BoxShape)
		for _, member := range s {
			out, err := p.addSource(member)
			if err != nil {
				return nil, err
			}
			if _, err := p.edge(out, pool, "black"); err != nil {
				return nil, err
			}
		}
		return pool, nil
	default:
		n, err := p.node(fmt.Sprint(src), "black")
		if err != nil {
			return nil, err
		}
		n.SetShape(cgraph.BoxShape)
		return n, nil
	}
}

// addRollDef chains the source and the operations of a roll definition.
// Actions get an additional edge back to the source they redraw from.
func (p *pipelineGraph) addRollDef(rd *dice.RollDef) (*cgraph.Node, error) {
	src, err := p.addSource(rd.Source())
	if err != nil {
		return nil, err
	}
	prev := src
	for _, op := range rd.Operations() {
		n, err := p.node(fmt.Sprint(op), kindColor(op.Kind()))
		if err != nil {
			return nil, err
		}
		if _, err := p.edge(prev, n, "black"); err != nil {
			return nil, err
		}
		if op.Kind() == dice.ActionKind {
			e, err := p.edge(n, src, kindColor(dice.ActionKind))
			if err != nil {
				return nil, err
			}
			e.SetStyle(cgraph.DashedEdgeStyle)
			e.SetLabel("redraw")
		}
		prev = n
	}
	if rd.Name == "" {
		return prev, nil
	}
	out, err := p.node(rd.Name, "black")
	if err != nil {
		return nil, err
	}
	out.SetShape(cgraph.DoubleCircleShape)
	if _, err := p.edge(prev, out, "black"); err != nil {
		return nil, err
	}
	return out, nil
}

// RenderPipeline renders the operation tree of a roll definition as an HTML
// page drawing the graph in the browser.
func RenderPipeline(title string, rd *dice.RollDef) (out string, err error) {
	if rd == nil {
		return "", errNoRollDef
	}
	g := graphviz.New()
	graph, err := g.Graph()
	if err != nil {
		return "", errors.Wrap(err, "renderPipeline: failed to create graph")
	}
	defer func() {
		err = errors.Join(err, graph.Close(), g.Close())
	}()
	p := &pipelineGraph{graph: graph}
	if _, err := p.addRollDef(rd); err != nil {
		return "", errors.Wrap(err, "renderPipeline")
	}
	txt, err := renderDotGraph(title, g, graph)
	if err != nil {
		return "", errors.Wrap(err, "renderPipeline: failed to render")
	}
	return txt, nil
}

const dotGraphHead = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>%s</title>

    <script>
        const dot = ` + "`%s`" + `;
    </script>
</head>

<body>
    <h1>%s</h1>
    <div id="graph"></div>
    <script type="module">
        import { Graphviz } from "https://cdn.jsdelivr.net/npm/@hpcc-js/wasm/dist/index.js";
        if (Graphviz) {
            const graphviz = await Graphviz.load();
            const svg = graphviz.layout(dot, "svg", "dot");
`

const dotGraphTail = "\t    document.getElementById(\"graph\").innerHTML = svg;\n" +
	"        } \n" + `    </script>
</body>
</html>
`

// renderDotGraph lays out a graph in xdot format and embeds it into a page.
func renderDotGraph(title string, g *graphviz.Graphviz, graph *cgraph.Graph) (string, error) {
	var buf bytes.Buffer
	if err := g.Render(graph, graphviz.XDOT, &buf); err != nil {
		return "", err
	}
	title = html.EscapeString(title)
	dot := dotLiteral.Replace(buf.String())
	return fmt.Sprintf(dotGraphHead, title, dot, title) + dotGraphTail, nil
}

// dotLiteral keeps labels from closing the javascript template literal.
var dotLiteral = strings.NewReplacer("`", "\\`", "${", "\\${")

// NewHandler serves the pages of the current view.
func NewHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/{$}", renderMain)
	mux.HandleFunc("/"+dashboardRef, renderDashboard)
	mux.HandleFunc("/"+tableRef, renderTable)
	mux.HandleFunc("/"+distRef+"/{index}", renderDist)
	mux.HandleFunc("/"+pipelineRef+"/{index}", renderPipeline)
	return mux
}

// FireUpWeb publishes the distributions and visualizes them with a local
// web-server.
func FireUpWeb(dists []*dice.Dist, addr string) error {
	if err := setViewState(dists); err != nil {
		return err
	}
	return http.ListenAndServe(":"+addr, NewHandler())
}
