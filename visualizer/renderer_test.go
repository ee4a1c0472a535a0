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
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/0xsoniclabs/distat/dice"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRollDef(t *testing.T) *dice.RollDef {
	t.Helper()
	rd, err := dice.NewRollDef(dice.PoolOf(4, dice.D(6)),
		dice.Must(dice.NewReRoll(1, dice.Equal(1))),
		dice.Must(dice.Sum(dice.Highest{N: 3})),
	)
	require.NoError(t, err)
	return rd.WithName("4d6 reroll ones")
}

func sampleDists(t *testing.T) []*dice.Dist {
	t.Helper()
	rg := rand.New(rand.NewSource(999))
	first, err := sampleRollDef(t).Dist(rg, 10_000)
	require.NoError(t, err)
	coin, err := dice.NewRollDef(dice.Must(dice.NewFaceDie(-1, 1)), dice.Must(dice.Sum()))
	require.NoError(t, err)
	second, err := coin.Dist(rg, 10_000)
	require.NoError(t, err)
	return []*dice.Dist{first, second}
}

func mustSetView(t *testing.T, dists []*dice.Dist) {
	t.Helper()
	require.NoError(t, setViewState(dists))
}

func clearView(t *testing.T) {
	t.Helper()
	currentMu.Lock()
	currentState = nil
	currentMu.Unlock()
}

func serve(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequest("GET", target, nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	NewHandler().ServeHTTP(rr, req)
	return rr
}

func TestVisualizer_renderMain(t *testing.T) {
	mustSetView(t, sampleDists(t))

	rr := serve(t, "/")

	assert.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, MainHtml)
	assert.Contains(t, body, `<a href="/dist/0"> 4d6 reroll ones </a>`)
	assert.Contains(t, body, `<a href="/dist/1"> dist-1 </a>`)
	assert.Contains(t, body, `<a href="/pipeline/1">pipeline</a>`)
}

func TestVisualizer_convertPMFData(t *testing.T) {
	result := convertPMFData([]float64{0.25, 0.5, 0.25})

	assert.Len(t, result, 3)
	assert.Equal(t, opts.BarData{Value: 0.25}, result[0])
	assert.Equal(t, opts.BarData{Value: 0.5}, result[1])
	assert.Equal(t, opts.BarData{Value: 0.25}, result[2])
}

func TestVisualizer_convertBinLabels(t *testing.T) {
	assert.Equal(t, []string{"-1", "0", "1"}, convertBinLabels([]int{-1, 0, 1, 2}))
	assert.Empty(t, convertBinLabels([]int{3}))
	assert.Empty(t, convertBinLabels(nil))
}

func TestVisualizer_convertCDFData(t *testing.T) {
	testData := [][2]float64{{1.0, 0.2}, {2.0, 0.7}, {3.0, 1.0}}

	result := convertCDFData(testData)

	assert.Len(t, result, 3)
	assert.Equal(t, opts.LineData{Value: [2]float64{1.0, 0.2}}, result[0])
	assert.Equal(t, opts.LineData{Value: [2]float64{2.0, 0.7}}, result[1])
	assert.Equal(t, opts.LineData{Value: [2]float64{3.0, 1.0}}, result[2])
}

func TestVisualizer_newCharts(t *testing.T) {
	dists := sampleDists(t)

	bar := newHistogramChart("Test Title", dists[0].Histogram())
	line := newCDFChart("Test Title", []string{"a", "b"}, [][][2]float64{dists[0].ECDF(16), dists[1].ECDF(16)})

	assert.NotNil(t, bar)
	assert.NotNil(t, line)
}

func TestVisualizer_RenderHistogram(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderHistogram(&buf, []int{2, 3, 3, 4, 4, 4, 5}))
	assert.Contains(t, buf.String(), "Histogram of 7 outcomes")

	buf.Reset()
	assert.Error(t, RenderHistogram(&buf, nil))
}

func TestVisualizer_RenderDist(t *testing.T) {
	dists := sampleDists(t)

	var buf bytes.Buffer
	require.NoError(t, RenderDist(&buf, dists[0]))
	assert.Contains(t, buf.String(), "4d6 reroll ones")

	assert.Error(t, RenderDist(&buf, nil))
}

func TestVisualizer_RenderDashboard(t *testing.T) {
	dists := sampleDists(t)

	var buf bytes.Buffer
	require.NoError(t, RenderDashboard(&buf, dists))
	assert.Contains(t, buf.String(), "Cumulative Distributions")
	assert.Contains(t, buf.String(), "dist-1")

	assert.Error(t, RenderDashboard(&buf, nil))
	assert.Error(t, RenderDashboard(&buf, []*dice.Dist{dists[0], nil}))
}

func TestVisualizer_RenderPipeline(t *testing.T) {
	output, err := RenderPipeline("Test Pipeline", sampleRollDef(t))

	require.NoError(t, err)
	assert.Contains(t, output, "<title>Test Pipeline</title>")
	assert.Contains(t, output, "Highest(3)")
	assert.Contains(t, output, "redraw")
	assert.Contains(t, output, "D6")

	_, err = RenderPipeline("nil", nil)
	assert.Error(t, err)
}

func TestVisualizer_RenderPipelineNested(t *testing.T) {
	inner := sampleRollDef(t)
	outer, err := dice.NewRollDef(inner, dice.Must(dice.NewReRoll(100, dice.LessThan{Threshold: 8})))
	require.NoError(t, err)

	output, err := RenderPipeline("Nested", outer)

	require.NoError(t, err)
	assert.Contains(t, output, "4d6 reroll ones")
	assert.Contains(t, output, "allowed=100")
}

func TestVisualizer_handlers(t *testing.T) {
	mustSetView(t, sampleDists(t))

	tests := []struct {
		target string
		code   int
		want   string
	}{
		{"/dashboard", http.StatusOK, "Cumulative Distributions"},
		{"/table", http.StatusOK, "4d6 reroll ones"},
		{"/dist/0", http.StatusOK, "4d6 reroll ones CDF"},
		{"/dist/1", http.StatusOK, "dist-1"},
		{"/dist/2", http.StatusNotFound, "no such distribution"},
		{"/dist/x", http.StatusNotFound, "no such distribution"},
		{"/pipeline/0", http.StatusOK, "Sum(Highest(3))"},
		{"/pipeline/-1", http.StatusNotFound, "no such distribution"},
		{"/unknown", http.StatusNotFound, ""},
	}
	for _, tc := range tests {
		t.Run(tc.target, func(t *testing.T) {
			rr := serve(t, tc.target)
			assert.Equal(t, tc.code, rr.Code)
			assert.Contains(t, rr.Body.String(), tc.want)
		})
	}
}

func TestVisualizer_pipelineWithoutRollDef(t *testing.T) {
	d, err := dice.RestoreDist(nil, 10, []int{1, 2, 3}, []float64{0.5, 0.5})
	require.NoError(t, err)
	mustSetView(t, []*dice.Dist{d})

	rr := serve(t, "/pipeline/0")

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestVisualizer_handlersWithoutState(t *testing.T) {
	for _, target := range []string{"/", "/dashboard", "/table", "/dist/0", "/pipeline/0"} {
		t.Run(target, func(t *testing.T) {
			clearView(t)
			rr := serve(t, target)
			assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
		})
	}
}

func TestVisualizer_FireUpWebRejectsEmpty(t *testing.T) {
	assert.Error(t, FireUpWeb(nil, "0"))
}
