package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/skovmand/advent-of-code-2017/internal/tower"
)

func sampleCorrection() *tower.Correction {
	return &tower.Correction{
		Root:            "tknk",
		Target:          "ugml",
		Weight:          68,
		CorrectedWeight: 60,
		TotalWeight:     251,
		SiblingWeight:   243,
		Path:            []tower.Step{{Parent: "tknk", Child: "ugml", OddWeight: 251, NormalWeight: 243}},
		Nodes:           13,
		Depth:           3,
	}
}

func TestRegistry(t *testing.T) {
	r := Default()
	assert.Equal(t, []string{"json", "text", "yaml"}, r.Names())

	f, err := r.Get("yaml")
	require.NoError(t, err)
	assert.Equal(t, "yaml", f.Name())

	_, err = r.Get("xml")
	assert.ErrorContains(t, err, `unknown output format "xml"`)

	assert.Panics(t, func() { r.Register(Text{}) })
}

func TestText_Correction(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Text{}.Correction(&buf, sampleCorrection()))
	out := buf.String()
	assert.Contains(t, out, "root: tknk\n")
	assert.Contains(t, out, "target: ugml (weight 68, total 251 vs 243)\n")
	assert.Contains(t, out, "corrected weight: 60\n")
	assert.Contains(t, out, "path: tknk -> ugml\n")
}

func TestText_Failure(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Text{}.Failure(&buf, Failure{Kind: "no_root", Error: "no root found"}))
	assert.Equal(t, "error [no_root]: no root found\n", buf.String())
}

func TestText_Weights(t *testing.T) {
	var buf bytes.Buffer
	err := Text{}.Weights(&buf, Weights{Root: "r", Nodes: []tower.NodeWeight{
		{Name: "a", Weight: 2, TotalWeight: 2},
		{Name: "r", Weight: 1, TotalWeight: 3},
	}})
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "NAME"))
	assert.Contains(t, lines[2], "r (root)")
}

func TestJSON_Correction(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON{}.Correction(&buf, sampleCorrection()))

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "tknk", got["root"])
	assert.Equal(t, "ugml", got["target"])
	assert.Equal(t, float64(60), got["corrected_weight"])
}

func TestYAML_Failure(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, YAML{}.Failure(&buf, Failure{Source: "in.txt", Kind: "cycle", Error: "boom"}))

	var got Failure
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, Failure{Source: "in.txt", Kind: "cycle", Error: "boom"}, got)
}
