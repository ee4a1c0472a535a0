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
	"testing"

	"github.com/0xsoniclabs/distat/dice"
	"github.com/goccy/go-graphviz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisualizer_renderDotGraph(t *testing.T) {
	expectedHtml := `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Test Graph</title>

    <script>
        const dot = ` + "`" + `digraph "" {
	graph [bb="0,0,0,0"];
	node [label="\N"];
}
` + "`" + `;
    </script>
</head>

<body>
    <h1>Test Graph</h1>
    <div id="graph"></div>
    <script type="module">
        import { Graphviz } from "https://cdn.jsdelivr.net/npm/@hpcc-js/wasm/dist/index.js";
        if (Graphviz) {
            const graphviz = await Graphviz.load();
            const svg = graphviz.layout(dot, "svg", "dot");
	    document.getElementById("graph").innerHTML = svg;
        } 
    </script>
</body>
</html>
`
	g := graphviz.New()
	graph, err := g.Graph()
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, graph.Close())
		assert.NoError(t, g.Close())
	}()
	output, err := renderDotGraph("Test Graph", g, graph)
	assert.Nil(t, err)
	assert.Equal(t, expectedHtml, output)
}

func TestVisualizer_pipelineGraphNodes(t *testing.T) {
	g := graphviz.New()
	graph, err := g.Graph()
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, graph.Close())
		assert.NoError(t, g.Close())
	}()

	p := &pipelineGraph{graph: graph}
	out, err := p.addSource(dice.Pool{dice.D(4), dice.D(8)})
	require.NoError(t, err)
	assert.NotNil(t, out)
	// two dice and the pool
	assert.Equal(t, 3, p.count)

	output, err := renderDotGraph("Pool", g, graph)
	require.NoError(t, err)
	assert.Contains(t, output, "D4")
	assert.Contains(t, output, "D8")
	assert.Contains(t, output, "n2 -> n1")
	assert.Contains(t, output, "n3 -> n1")
}

func TestVisualizer_kindColor(t *testing.T) {
	assert.Equal(t, "gray", kindColor(dice.SelectorKind))
	assert.Equal(t, "green", kindColor(dice.FilterKind))
	assert.Equal(t, "blue", kindColor(dice.AggregatorKind))
	assert.Equal(t, "indianred", kindColor(dice.ActionKind))
	assert.Equal(t, "orange", kindColor(dice.ModifierKind))
	assert.Equal(t, "black", kindColor(dice.Kind(99)))
}

func TestVisualizer_renderDotGraphEscapesTitleAndLabels(t *testing.T) {
	rd, err := dice.NewRollDef(dice.D(6), dice.Must(dice.Sum()))
	require.NoError(t, err)
	rd.WithName("`${x}`")

	output, err := RenderPipeline("<script>alert(1)</script>", rd)

	require.NoError(t, err)
	assert.NotContains(t, output, "<script>alert(1)</script>")
	assert.Contains(t, output, "<title>&lt;script&gt;alert(1)&lt;/script&gt;</title>")
	assert.Contains(t, output, "\\`\\${x}\\`")
}
