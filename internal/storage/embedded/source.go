// Package embedded serves the glossary dataset compiled into the binary.
package embedded

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/bobmcallan/glossa/internal/interfaces"
	"github.com/bobmcallan/glossa/internal/models"
)

//go:embed glossary.json
var dataset []byte

// Source is the default TermSource.
type Source struct{}

// NewSource returns the embedded source.
func NewSource() *Source {
	return &Source{}
}

func (s *Source) Name() string {
	return "embedded"
}

// Fetch decodes the embedded dataset. It honours ctx cancellation only
// before decoding starts.
func (s *Source) Fetch(ctx context.Context) ([]models.GlossaryTerm, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Decode(dataset)
}

// Raw returns a copy of the embedded JSON document.
func Raw() []byte {
	return bytes.Clone(dataset)
}

// Decode parses a JSON array of glossary records.
func Decode(data []byte) ([]models.GlossaryTerm, error) {
	var terms []models.GlossaryTerm
	if err := json.Unmarshal(data, &terms); err != nil {
		return nil, fmt.Errorf("failed to decode glossary JSON: %w", err)
	}
	if terms == nil {
		return nil, fmt.Errorf("glossary JSON is not an array")
	}
	return terms, nil
}

var _ interfaces.TermSource = (*Source)(nil)
