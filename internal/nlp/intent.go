package nlp

import (
	"regexp"
	"strings"
)

// Intent classifies the purpose of an inbound message.
type Intent string

const (
	IntentGreeting         Intent = "greeting"
	IntentRestart          Intent = "restart"
	IntentMenuPetroleum    Intent = "menu_petroleum"
	IntentMenuE10          Intent = "menu_e10"
	IntentMenuIFEM         Intent = "menu_ifem"
	IntentMenuExDepot      Intent = "menu_ex_depot"
	IntentMenuPriceBuildup Intent = "menu_price_buildup"
	IntentTodayPrice       Intent = "today_price"
	IntentYesterdayPrice   Intent = "yesterday_price"
	IntentDatePrice        Intent = "date_price"
	IntentDateQuery        Intent = "date_query"
	IntentLatest           Intent = "latest"
	IntentHistory          Intent = "history"
	IntentPricing          Intent = "pricing"
	IntentUnknown          Intent = "unknown"
)

var (
	restartWords = map[string]struct{}{
		"exit": {}, "menu": {}, "start": {}, "back": {}, "restart": {},
	}

	greetingWords = map[string]struct{}{
		"hi": {}, "hello": {}, "hey": {}, "salam": {}, "salaam": {}, "aoa": {}, "adab": {},
	}

	menuDigits = map[string]Intent{
		"1": IntentMenuPetroleum,
		"2": IntentMenuE10,
		"3": IntentMenuIFEM,
		"4": IntentMenuExDepot,
		"5": IntentMenuPriceBuildup,
	}

	historyPhrases = []string{"history", "last week", "past week"}

	pricingWords = []string{
		"petrol", "diesel", "kerosene", "fuel", "price", "rate", "cost",
		"petroleum", "oil", "gasoline",
		"islamabad", "lahore", "karachi", "peshawar",
	}

	isoDateRe   = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`)
	slashDateRe = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`)
	yearRe      = regexp.MustCompile(`\b(19|20)\d{2}\b`)
)

// Classify maps free text to exactly one intent. It is total: empty or
// unrecognized input yields IntentUnknown. Rules are evaluated in a fixed
// order and the first match wins.
func Classify(text string) Intent {
	t := strings.ToLower(strings.TrimSpace(text))
	if t == "" {
		return IntentUnknown
	}

	if _, ok := restartWords[t]; ok {
		return IntentRestart
	}

	if containsGreeting(t) {
		return IntentGreeting
	}

	if intent, ok := menuDigits[t]; ok {
		return intent
	}

	if strings.Contains(t, "yesterday") {
		return IntentYesterdayPrice
	}
	for _, phrase := range historyPhrases {
		if strings.Contains(t, phrase) {
			return IntentHistory
		}
	}
	if strings.Contains(t, "latest") {
		return IntentLatest
	}
	if strings.Contains(t, "today") || strings.Contains(t, "current") {
		return IntentTodayPrice
	}

	if isoDateRe.MatchString(t) || slashDateRe.MatchString(t) {
		return IntentDatePrice
	}

	if yearRe.MatchString(t) {
		return IntentDateQuery
	}

	for _, word := range pricingWords {
		if strings.Contains(t, word) {
			return IntentPricing
		}
	}

	return IntentUnknown
}

// containsGreeting matches greeting tokens on word boundaries so that words
// like "this" do not trip the "hi" rule. The assalam forms are matched as
// substrings to cover the longer transliterations.
func containsGreeting(t string) bool {
	if strings.Contains(t, "assalam") || strings.Contains(t, "asalam") {
		return true
	}
	for _, field := range strings.FieldsFunc(t, func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	}) {
		if _, ok := greetingWords[field]; ok {
			return true
		}
	}
	return false
}

// IsMenuSelection reports whether the intent is one of the menu picks and
// returns the category it selects.
func IsMenuSelection(intent Intent) (Category, bool) {
	switch intent {
	case IntentMenuPetroleum:
		return CategoryPetroleum, true
	case IntentMenuE10:
		return CategoryE10, true
	case IntentMenuIFEM:
		return CategoryIFEM, true
	case IntentMenuExDepot:
		return CategoryExDepot, true
	case IntentMenuPriceBuildup:
		return CategoryPriceBuildup, true
	default:
		return "", false
	}
}
