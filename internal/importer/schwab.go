package importer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/cleared-dev/schwabstmt/internal/model"
)

// SchwabParser decodes Schwab JSON transaction exports. Both the brokerage
// and the posted (checking) arrays are optional.
type SchwabParser struct{}

// Format returns the parser name.
func (p *SchwabParser) Format() string { return "schwab-json" }

// Decode reads one export document.
func (p *SchwabParser) Decode(r io.Reader) (*model.Export, error) {
	var export model.Export
	dec := json.NewDecoder(r)
	if err := dec.Decode(&export); err != nil {
		return nil, fmt.Errorf("reading schwab JSON: %w", err)
	}
	if dec.More() {
		return nil, errors.New("reading schwab JSON: trailing data after export object")
	}
	return &export, nil
}
