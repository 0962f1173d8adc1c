package normalize

import (
	"strings"
	"time"

	"github.com/gosimple/slug"
)

// ShortDate renders an ISO date (YYYY-MM-DD) as DD/MM/YY. Anything else is
// returned unchanged.
func ShortDate(iso string) string {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(iso))
	if err != nil {
		return iso
	}
	return t.Format("02/01/06")
}

// EventColumn is the two-line column header used for an event in standings.
func EventColumn(name string, date time.Time) string {
	return name + "\n" + date.Format("02/01/06")
}

// FileStem builds a lowercase, dash separated file name stem.
func FileStem(parts ...string) string {
	return slug.Make(strings.Join(parts, " "))
}
