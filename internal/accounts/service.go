package accounts

import (
	"path/filepath"
	"regexp"
)

// Schwab names exports "<account>_Transactions_<timestamp>.json".
var filenamePattern = regexp.MustCompile(`^(.*)_Transactions_.*\.json$`)

// FromFilename extracts the account id from an export's file name. The
// directory part of path is ignored.
func FromFilename(path string) (string, bool) {
	m := filenamePattern.FindStringSubmatch(filepath.Base(path))
	if m == nil || m[1] == "" {
		return "", false
	}
	return m[1], true
}

// Service resolves export file names to account ids, applying configured
// aliases.
type Service struct {
	aliases map[string]string
}

// NewService creates a Service. aliases maps the id found in a file name to
// the id written to statements; it may be nil.
func NewService(aliases map[string]string) *Service {
	m := make(map[string]string, len(aliases))
	for k, v := range aliases {
		m[k] = v
	}
	return &Service{aliases: m}
}

// Resolve returns the statement account id for an export file. ok is false
// when the file name carries no account id.
func (s *Service) Resolve(path string) (string, bool) {
	raw, ok := FromFilename(path)
	if !ok {
		return "", false
	}
	return s.Alias(raw), true
}

// Alias returns the configured alias for raw, or raw itself.
func (s *Service) Alias(raw string) string {
	if a, ok := s.aliases[raw]; ok && a != "" {
		return a
	}
	return raw
}
