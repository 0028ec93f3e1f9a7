// Package puzzle models a tower description submitted for diagnosis and
// reads it from storage.
package puzzle

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
)

// Input is the canonical model for every diagnostic request.
type Input struct {
	ID         string    `json:"id"`
	Source     string    `json:"source"` // file path, "stdin", "http", …
	Text       string    `json:"input"`
	ReceivedAt time.Time `json:"-"`
}

// New wraps text in an Input with a fresh ID.
func New(source, text string) *Input {
	return &Input{
		ID:         uuid.New().String(),
		Source:     source,
		Text:       text,
		ReceivedAt: time.Now(),
	}
}

// EnsureID assigns an ID and receive time where missing.
func (in *Input) EnsureID() {
	if in.ID == "" {
		in.ID = uuid.New().String()
	}
	if in.ReceivedAt.IsZero() {
		in.ReceivedAt = time.Now()
	}
}

// Load reads the puzzle text from path, or from stdin when path is "-" or empty.
func Load(path string) (*Input, error) {
	if path == "" || path == "-" {
		return FromReader("stdin", os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open puzzle %s: %w", path, err)
	}
	defer f.Close()
	return FromReader(path, f)
}

// FromReader reads all of r as puzzle text.
func FromReader(source string, r io.Reader) (*Input, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read puzzle %s: %w", source, err)
	}
	return New(source, string(data)), nil
}
