package convo

import (
	"regexp"
	"strconv"
	"strings"

	"fuelbot/internal/nlp"
	"fuelbot/internal/ogra"
)

var (
	titleYearRe = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	titleDayRe  = regexp.MustCompile(`\b\d{1,2}\b`)
)

// titleDate is the date information derivable from a notification title.
// Titles are natural-language strings, so any field may be missing and the
// day is not validated against the month.
type titleDate struct {
	year  int
	month string
	day   int
}

func extractTitleDate(title string) titleDate {
	t := strings.ToLower(title)
	var d titleDate

	if m := titleYearRe.FindString(t); m != "" {
		d.year, _ = strconv.Atoi(m)
	}
	for _, month := range nlp.Months {
		if strings.Contains(t, month) {
			d.month = month
			break
		}
	}
	if m := titleDayRe.FindString(t); m != "" {
		d.day, _ = strconv.Atoi(m)
	}
	return d
}

// filterNotifications keeps the notifications whose titles match the year
// and month constraints in entities. A notification whose title yields no
// year (or month) is excluded when that constraint is present. The match is
// heuristic and may both under- and over-match; that is accepted.
func filterNotifications(notifications []ogra.Notification, entities nlp.Entities) []ogra.Notification {
	wantYear := 0
	if y, ok := entities[nlp.FieldYear]; ok {
		wantYear, _ = strconv.Atoi(y)
	}
	wantMonth := strings.ToLower(entities[nlp.FieldMonth])

	var filtered []ogra.Notification
	for _, n := range notifications {
		d := extractTitleDate(n.Title)
		if wantYear != 0 && d.year != wantYear {
			continue
		}
		if wantMonth != "" && (d.month == "" || d.month != wantMonth) {
			continue
		}
		filtered = append(filtered, n)
	}
	return filtered
}
