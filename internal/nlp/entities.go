package nlp

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Entities maps extracted field names to their values. Absent fields are
// simply missing from the map, never empty placeholders.
type Entities map[string]string

// Entity field names.
const (
	FieldDate  = "date"
	FieldMonth = "month"
	FieldYear  = "year"
	FieldCity  = "city"
)

// Category identifies a fuel-price topic a user can select.
type Category string

const (
	CategoryPetroleum    Category = "petroleum"
	CategoryE10          Category = "e10"
	CategoryIFEM         Category = "ifem"
	CategoryExDepot      Category = "ex_depot"
	CategoryPriceBuildup Category = "price_buildup"
)

// Months in calendar order; index+1 is the month number.
var Months = []string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

var cities = []string{
	"islamabad", "lahore", "karachi", "peshawar",
	"rawalpindi", "quetta", "multan", "faisalabad",
}

// Extract pulls structured fields out of free text. It is pure apart from
// reading the current date for relative references.
func Extract(text string) Entities {
	return extractAt(text, time.Now())
}

func extractAt(text string, now time.Time) Entities {
	t := strings.ToLower(strings.TrimSpace(text))
	entities := Entities{}

	for _, city := range cities {
		if strings.Contains(t, city) {
			entities[FieldCity] = city
			break
		}
	}

	if date, ok := extractDate(t, now); ok {
		entities[FieldDate] = date
	}

	if year := yearRe.FindString(t); year != "" {
		entities[FieldYear] = year
	}

	for _, m := range Months {
		if strings.Contains(t, m) {
			entities[FieldMonth] = strings.ToUpper(m[:1]) + m[1:]
			break
		}
	}

	return entities
}

// extractDate resolves a date reference to YYYY-MM-DD. A "yesterday" token
// short-circuits the literal patterns. Slash dates that do not form a real
// calendar date are discarded silently.
func extractDate(t string, now time.Time) (string, bool) {
	if strings.Contains(t, "yesterday") {
		return now.AddDate(0, 0, -1).Format("2006-01-02"), true
	}

	if iso := isoDateRe.FindString(t); iso != "" {
		return iso, true
	}

	if m := slashDateRe.FindStringSubmatch(t); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if !validDate(year, month, day) {
			return "", false
		}
		return fmt.Sprintf("%04d-%02d-%02d", year, month, day), true
	}

	return "", false
}

func validDate(year, month, day int) bool {
	if month < 1 || month > 12 || day < 1 {
		return false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return d.Year() == year && int(d.Month()) == month && d.Day() == day
}

// DetectCategory finds an explicitly named topic category in the text, or
// "" when none is named. Longer phrases are checked before the shorter
// ones they contain ("max ex-depot" before "ex-depot").
func DetectCategory(text string) Category {
	t := strings.ToLower(text)

	switch {
	case strings.Contains(t, "price buildup") || strings.Contains(t, "max ex-depot"):
		return CategoryPriceBuildup
	case strings.Contains(t, "ex-depot") || strings.Contains(t, "detail computation"):
		return CategoryExDepot
	case strings.Contains(t, "ifem"):
		return CategoryIFEM
	case strings.Contains(t, "e-10") || strings.Contains(t, "e10") || strings.Contains(t, "gasoline"):
		return CategoryE10
	case strings.Contains(t, "petroleum") || strings.Contains(t, "oil"):
		return CategoryPetroleum
	default:
		return ""
	}
}
