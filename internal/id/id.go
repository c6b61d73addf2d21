package id

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "20060102"

// FormatLineID returns a line ID like "20240209-1".
func FormatLineID(date time.Time, seq int) string {
	return fmt.Sprintf("%s-%d", date.Format(dateLayout), seq)
}

// ParseLineID parses "20240209-1" into its date and ordinal.
func ParseLineID(id string) (date time.Time, seq int, err error) {
	day, ord, ok := strings.Cut(id, "-")
	if !ok {
		return time.Time{}, 0, fmt.Errorf("invalid line ID format: %q", id)
	}

	date, err = time.Parse(dateLayout, day)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("invalid date in line ID %q: %w", id, err)
	}

	seq, err = strconv.Atoi(ord)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("invalid ordinal in line ID %q: %w", id, err)
	}
	if seq < 1 {
		return time.Time{}, 0, fmt.Errorf("invalid ordinal in line ID %q: must be at least 1", id)
	}

	return date, seq, nil
}

// Allocator hands out line IDs whose ordinal restarts at 1 for every calendar
// date and increases in call order. It is not safe for concurrent use; create
// one per import.
type Allocator struct {
	counts map[string]int
}

// NewAllocator creates an Allocator with no dates seen.
func NewAllocator() *Allocator {
	return &Allocator{counts: make(map[string]int)}
}

// Allocate returns the next ID for date. The time of day is ignored.
func (a *Allocator) Allocate(date time.Time) string {
	key := date.Format(dateLayout)
	a.counts[key]++
	return FormatLineID(date, a.counts[key])
}

// Count returns how many IDs have been allocated for date.
func (a *Allocator) Count(date time.Time) int {
	return a.counts[date.Format(dateLayout)]
}
