package statement

import (
	"fmt"
	"sort"
	"time"

	"github.com/cleared-dev/schwabstmt/internal/id"
	"github.com/cleared-dev/schwabstmt/internal/model"
)

// Check names.
const (
	CheckLine     = "line"
	CheckUniqueID = "unique-id"
	CheckIDFormat = "id-format"
	CheckIDDate   = "id-date"
	CheckDense    = "dense-ids"
	CheckOrder    = "order"
)

// ValidationError describes a single statement-level violation.
type ValidationError struct {
	Check       string
	LineID      string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s [%s]: %s", e.Check, e.LineID, e.Description)
}

// Validate checks a finished statement: every line is well formed, IDs are
// unique across both ledgers, each ID carries its line's date, ordinals for
// a date run 1..k with no gaps, and investment lines are in date order.
func Validate(s *model.Statement) []ValidationError {
	var errs []ValidationError

	seen := make(map[string]bool)
	ordinals := make(map[string][]int)
	for _, l := range s.Lines() {
		if err := l.Validate(); err != nil {
			errs = append(errs, ValidationError{Check: CheckLine, LineID: l.ID, Description: err.Error()})
		}

		if seen[l.ID] {
			errs = append(errs, ValidationError{Check: CheckUniqueID, LineID: l.ID, Description: "duplicate id"})
			continue
		}
		seen[l.ID] = true

		date, seq, err := id.ParseLineID(l.ID)
		if err != nil {
			errs = append(errs, ValidationError{Check: CheckIDFormat, LineID: l.ID, Description: err.Error()})
			continue
		}
		if !sameDay(date, l) {
			errs = append(errs, ValidationError{
				Check:       CheckIDDate,
				LineID:      l.ID,
				Description: fmt.Sprintf("id date %s does not match line date %s", date.Format("2006-01-02"), l.Date.Format("2006-01-02")),
			})
		}
		day := date.Format("20060102")
		ordinals[day] = append(ordinals[day], seq)
	}

	days := make([]string, 0, len(ordinals))
	for d := range ordinals {
		days = append(days, d)
	}
	sort.Strings(days)
	for _, d := range days {
		seqs := ordinals[d]
		sort.Ints(seqs)
		for i, seq := range seqs {
			if seq != i+1 {
				errs = append(errs, ValidationError{
					Check:       CheckDense,
					LineID:      fmt.Sprintf("%s-%d", d, seq),
					Description: fmt.Sprintf("expected ordinal %d for %s, found %d", i+1, d, seq),
				})
				break
			}
		}
	}

	for i := 1; i < len(s.InvestLines); i++ {
		prev, cur := s.InvestLines[i-1], s.InvestLines[i]
		if cur.Date.Before(prev.Date) {
			errs = append(errs, ValidationError{
				Check:       CheckOrder,
				LineID:      cur.ID,
				Description: fmt.Sprintf("dated before preceding line %s", prev.ID),
			})
		}
	}

	return errs
}

func sameDay(d time.Time, l model.Line) bool {
	y1, m1, d1 := d.Date()
	y2, m2, d2 := l.Date.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
