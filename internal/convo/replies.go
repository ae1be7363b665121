package convo

import (
	"fmt"
	"strings"

	"fuelbot/internal/nlp"
	"fuelbot/internal/ogra"
)

var categoryLabels = map[nlp.Category]string{
	nlp.CategoryPetroleum:    "Petroleum Products Prices",
	nlp.CategoryE10:          "E-10 Gasoline Prices",
	nlp.CategoryIFEM:         "IFEM Notifications",
	nlp.CategoryExDepot:      "Ex-Depot Sale Price",
	nlp.CategoryPriceBuildup: "Price Buildup (Max Ex-Depot)",
}

func menuText() string {
	return "Reply with a number to pick a topic:\n" +
		"1. Petroleum Products Prices\n" +
		"2. E-10 Gasoline Prices\n" +
		"3. IFEM Notifications\n" +
		"4. Ex-Depot Sale Price\n" +
		"5. Price Buildup (Max Ex-Depot)"
}

func greetingMessage() string {
	return "Hello 👋\n" +
		"I can help you with:\n" +
		"• Today's petrol & diesel prices\n" +
		"• Historical price for any date\n" +
		"• OGRA price notifications\n\n" +
		menuText() + "\n\n" +
		"Example: 'What's today's price?' or 'Price on 2024-11-01'"
}

func restartMessage() string {
	return "Okay, starting over.\n\n" + menuText()
}

func categorySelectedMessage(category nlp.Category) string {
	return fmt.Sprintf("You picked *%s*.\n"+
		"Send 'latest' for the most recent notifications, or a month and year "+
		"(e.g. 'May 2021') to search older ones.", categoryLabels[category])
}

func helpMessage() string {
	return "❓ I couldn't understand that.\n" +
		"Try asking:\n" +
		"• 'Today petrol price?'\n" +
		"• 'Fuel prices today'\n" +
		"• 'Price on 2025-05-01'\n" +
		"Or type 'menu' to see the topics."
}

func missingDateMessage() string {
	return "📅 Please provide a date in *YYYY-MM-DD* format.\nExample: 2025-11-01"
}

func todayUnavailableMessage() string {
	return "⚠️ Unable to fetch today's fuel prices. Please try again later."
}

func dateUnavailableMessage(date string) string {
	return fmt.Sprintf("⚠️ Sorry, I couldn't find data for %s. Try another date.", date)
}

func notificationsUnavailableMessage() string {
	return "⚠️ Unable to fetch OGRA notifications right now. Please try again later."
}

func formatPrices(heading string, record *ogra.PriceRecord) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s (%s)\n\n", heading, record.Date))
	for _, fuel := range record.FuelNames() {
		sb.WriteString(fmt.Sprintf("🔹 %s: %.2f\n", capitalize(fuel), record.Fuels[fuel]))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatHistory(records []ogra.PriceRecord) string {
	var sb strings.Builder
	sb.WriteString("📊 Fuel prices, most recent first:\n\n")
	for _, record := range records {
		parts := make([]string, 0, len(record.Fuels))
		for _, fuel := range record.FuelNames() {
			parts = append(parts, fmt.Sprintf("%s %.2f", capitalize(fuel), record.Fuels[fuel]))
		}
		sb.WriteString(fmt.Sprintf("%s — %s\n", record.Date, strings.Join(parts, " | ")))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatNotifications(heading string, notifications []ogra.Notification) string {
	var sb strings.Builder
	sb.WriteString(heading + "\n")
	for _, n := range notifications {
		sb.WriteString(fmt.Sprintf("\n• %s\n  %s\n", n.Title, n.Link))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
