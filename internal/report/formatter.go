// Package report renders diagnostic results for people and programs.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/skovmand/advent-of-code-2017/internal/tower"
)

// Failure describes a diagnostic that did not produce a correction.
type Failure struct {
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
	Kind   string `json:"kind" yaml:"kind"`
	Error  string `json:"error" yaml:"error"`
}

// Weights lists per-node weights of a tree.
type Weights struct {
	Root  string             `json:"root" yaml:"root"`
	Nodes []tower.NodeWeight `json:"nodes" yaml:"nodes"`
}

// Formatter is the interface every output format implements.
type Formatter interface {
	// Name returns the key this formatter is registered under.
	Name() string
	// ContentType is the MIME type used when serving over HTTP.
	ContentType() string
	Correction(w io.Writer, c *tower.Correction) error
	Failure(w io.Writer, f Failure) error
	Weights(w io.Writer, ws Weights) error
}

// -----------------------------------------------------------------------
// Text
// -----------------------------------------------------------------------

// Text writes a short human-readable summary.
type Text struct{}

func (Text) Name() string        { return "text" }
func (Text) ContentType() string { return "text/plain; charset=utf-8" }

func (Text) Correction(w io.Writer, c *tower.Correction) error {
	hops := make([]string, 0, len(c.Path)+1)
	hops = append(hops, c.Root)
	for _, s := range c.Path {
		hops = append(hops, s.Child)
	}
	_, err := fmt.Fprintf(w,
		"root: %s\ntarget: %s (weight %d, total %d vs %d)\ncorrected weight: %d\npath: %s\n",
		c.Root, c.Target, c.Weight, c.TotalWeight, c.SiblingWeight, c.CorrectedWeight,
		strings.Join(hops, " -> "))
	return err
}

func (Text) Failure(w io.Writer, f Failure) error {
	_, err := fmt.Fprintf(w, "error [%s]: %s\n", f.Kind, f.Error)
	return err
}

func (Text) Weights(w io.Writer, ws Weights) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "NAME\tWEIGHT\tTOTAL\n")
	for _, n := range ws.Nodes {
		marker := ""
		if n.Name == ws.Root {
			marker = " (root)"
		}
		fmt.Fprintf(tw, "%s%s\t%d\t%d\n", n.Name, marker, n.Weight, n.TotalWeight)
	}
	return tw.Flush()
}

// -----------------------------------------------------------------------
// JSON
// -----------------------------------------------------------------------

// JSON writes one JSON document per call.
type JSON struct {
	Indent bool
}

func (JSON) Name() string        { return "json" }
func (JSON) ContentType() string { return "application/json" }

func (j JSON) encode(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	if j.Indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

func (j JSON) Correction(w io.Writer, c *tower.Correction) error { return j.encode(w, c) }
func (j JSON) Failure(w io.Writer, f Failure) error              { return j.encode(w, f) }
func (j JSON) Weights(w io.Writer, ws Weights) error             { return j.encode(w, ws) }

// -----------------------------------------------------------------------
// YAML
// -----------------------------------------------------------------------

// YAML writes one YAML document per call.
type YAML struct{}

func (YAML) Name() string        { return "yaml" }
func (YAML) ContentType() string { return "application/yaml" }

func (YAML) encode(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func (y YAML) Correction(w io.Writer, c *tower.Correction) error { return y.encode(w, c) }
func (y YAML) Failure(w io.Writer, f Failure) error              { return y.encode(w, f) }
func (y YAML) Weights(w io.Writer, ws Weights) error             { return y.encode(w, ws) }
