package importer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/cleared-dev/schwabstmt/internal/accounts"
	"github.com/cleared-dev/schwabstmt/internal/classify"
	"github.com/cleared-dev/schwabstmt/internal/id"
	"github.com/cleared-dev/schwabstmt/internal/logger"
	"github.com/cleared-dev/schwabstmt/internal/model"
	"github.com/cleared-dev/schwabstmt/internal/statement"
)

// ErrUnknownFormat is returned by Lookup for an unregistered input format.
var ErrUnknownFormat = errors.New("unknown input format")

// Parser decodes a brokerage export file.
type Parser interface {
	Decode(r io.Reader) (*model.Export, error)
	Format() string
}

// Registry resolves the input format named in the config to a Parser.
type Registry struct {
	parsers map[string]Parser
}

// FileInfo describes an export file found on disk.
type FileInfo struct {
	Name      string
	Path      string
	Size      int64
	AccountID string // raw id from the file name
}

// NewRegistry creates a registry over parsers. Format names are matched
// case-insensitively; registering one twice panics.
func NewRegistry(parsers ...Parser) *Registry {
	r := &Registry{parsers: make(map[string]Parser, len(parsers))}
	for _, p := range parsers {
		key := strings.ToLower(p.Format())
		if _, ok := r.parsers[key]; ok {
			panic("duplicate parser format: " + key)
		}
		r.parsers[key] = p
	}
	return r
}

// DefaultRegistry knows every built-in export format.
func DefaultRegistry() *Registry {
	return NewRegistry(&SchwabParser{})
}

// Lookup returns the parser for format. An unknown format yields an error
// wrapping ErrUnknownFormat that lists the supported ones.
func (r *Registry) Lookup(format string) (Parser, error) {
	if p, ok := r.parsers[strings.ToLower(format)]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("%w %q (supported: %s)", ErrUnknownFormat, format, strings.Join(r.Formats(), ", "))
}

// Formats returns the registered format names, sorted.
func (r *Registry) Formats() []string {
	out := make([]string, 0, len(r.parsers))
	for k := range r.parsers {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Options configures an Importer. Zero values fall back to defaults.
type Options struct {
	BrokerID  string
	Currency  string
	TypeCodes map[string]model.SubKind // extends the built-in bank code table
	Accounts  *accounts.Service
	Rules     []classify.Rule
	Logger    zerolog.Logger
}

// Importer turns export files into statements. It holds no per-import state;
// each call gets its own identifier allocator.
type Importer struct {
	parser     Parser
	classifier *classify.Classifier
	posted     *classify.PostedClassifier
	accounts   *accounts.Service
	brokerID   string
	currency   string
	log        zerolog.Logger
}

// New creates an Importer that decodes with p.
func New(p Parser, opts Options) *Importer {
	im := &Importer{
		parser:     p,
		classifier: classify.NewClassifier(opts.Rules...),
		posted:     classify.NewPostedClassifier(opts.TypeCodes),
		accounts:   opts.Accounts,
		brokerID:   opts.BrokerID,
		currency:   opts.Currency,
		log:        opts.Logger,
	}
	if im.accounts == nil {
		im.accounts = accounts.NewService(nil)
	}
	if im.brokerID == "" {
		im.brokerID = model.DefaultBrokerID
	}
	if im.currency == "" {
		im.currency = "USD"
	}
	return im
}

// Import decodes and assembles one export. source is the export's file name;
// the account id is taken from it when it follows the export naming
// convention.
func (im *Importer) Import(r io.Reader, source string) (*model.Statement, error) {
	log := logger.ForImport(im.log, filepath.Base(source))

	export, err := im.parser.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", source, err)
	}
	log.Debug().
		Int("brokerage", len(export.BrokerageTransactions)).
		Int("posted", len(export.PostedTransactions)).
		Str("from", export.FromDate).
		Str("to", export.ToDate).
		Msg("export decoded")

	a := statement.NewAssembler(id.NewAllocator(), im.classifier, im.posted, log)
	stmt, err := a.Assemble(export.BrokerageTransactions, export.PostedTransactions)
	if err != nil {
		return nil, fmt.Errorf("importing %s: %w", source, err)
	}

	stmt.BrokerID = im.brokerID
	stmt.Currency = im.currency
	if acct, ok := im.accounts.Resolve(source); ok {
		stmt.AccountID = acct
	} else {
		log.Warn().Msg("no account id in file name")
	}
	return stmt, nil
}

// ImportFile opens path and imports it.
func (im *Importer) ImportFile(path string) (*model.Statement, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening export: %w", err)
	}
	defer f.Close()
	return im.Import(f, path)
}

// Scan returns the export files directly inside dir, by name. A missing
// directory yields no files.
func Scan(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		acct, ok := accounts.FromFilename(e.Name())
		if !ok {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name:      e.Name(),
			Path:      filepath.Join(dir, e.Name()),
			Size:      info.Size(),
			AccountID: acct,
		})
	}
	return files, nil
}

// Expand resolves command-line arguments to files: directories are scanned,
// anything else is taken as a file and must exist.
func Expand(paths []string) ([]FileInfo, error) {
	var files []FileInfo
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}
		if info.IsDir() {
			found, err := Scan(p)
			if err != nil {
				return nil, err
			}
			files = append(files, found...)
			continue
		}
		acct, _ := accounts.FromFilename(p)
		files = append(files, FileInfo{
			Name:      filepath.Base(p),
			Path:      p,
			Size:      info.Size(),
			AccountID: acct,
		})
	}
	return files, nil
}
