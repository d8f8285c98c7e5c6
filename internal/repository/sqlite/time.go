package sqlite

import (
	"fmt"
	"time"
)

// timeLayout is fixed width with a literal Z so that stored values sort
// lexically in time order. Values are always converted to UTC first.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("sqlite: parsing stored time %q: %w", s, err)
	}
	return t, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// now is the clock used for created_at/updated_at; tests may replace it.
var now = time.Now
