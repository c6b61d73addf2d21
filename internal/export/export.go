// Package export renders statements to files.
package export

import (
	"io"
	"sort"
	"strings"

	"github.com/cleared-dev/schwabstmt/internal/model"
)

// Writer renders a statement in one file format.
type Writer interface {
	Format() string
	Extension() string
	Write(w io.Writer, s *model.Statement) error
}

// Registry holds named writers.
type Registry struct {
	writers map[string]Writer
}

// NewRegistry creates an empty writer registry.
func NewRegistry() *Registry {
	return &Registry{writers: make(map[string]Writer)}
}

// Register adds a writer. Panics on duplicate format.
func (r *Registry) Register(w Writer) {
	key := strings.ToLower(w.Format())
	if _, ok := r.writers[key]; ok {
		panic("duplicate writer format: " + key)
	}
	r.writers[key] = w
}

// Get returns the writer for format, or nil.
func (r *Registry) Get(format string) Writer {
	return r.writers[strings.ToLower(format)]
}

// Formats returns the registered format names, sorted.
func (r *Registry) Formats() []string {
	out := make([]string, 0, len(r.writers))
	for k := range r.writers {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// DefaultRegistry returns a registry with all built-in writers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&OFXWriter{})
	r.Register(&CSVWriter{})
	r.Register(&XLSXWriter{})
	return r
}
