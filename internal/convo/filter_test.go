package convo

import (
	"testing"

	"fuelbot/internal/nlp"
	"fuelbot/internal/ogra"

	"github.com/stretchr/testify/require"
)

func TestExtractTitleDate(t *testing.T) {
	tests := []struct {
		title string
		want  titleDate
	}{
		{"Notification Petroleum Products Prices May 2021", titleDate{year: 2021, month: "may"}},
		{"IFEM Review January 2017", titleDate{year: 2017, month: "january"}},
		{"Press Release w.e.f 16 June 2023", titleDate{year: 2023, month: "june", day: 16}},
		{"Price Buildup Notification", titleDate{}},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			require.Equal(t, tt.want, extractTitleDate(tt.title))
		})
	}
}

func TestFilterNotificationsByMonthAndYear(t *testing.T) {
	notifications := []ogra.Notification{
		{Title: "Notification Petroleum Products Prices May 2021", Link: "https://ogra.org.pk/a"},
		{Title: "Notification Petroleum Products Prices January 2017", Link: "https://ogra.org.pk/b"},
		{Title: "Notification Petroleum Products Prices May 2019", Link: "https://ogra.org.pk/c"},
	}

	matches := filterNotifications(notifications, nlp.Entities{
		nlp.FieldMonth: "May",
		nlp.FieldYear:  "2021",
	})
	require.Len(t, matches, 1)
	require.Equal(t, notifications[0], matches[0])
}

func TestFilterNotificationsYearOnly(t *testing.T) {
	notifications := []ogra.Notification{
		{Title: "Prices May 2019"},
		{Title: "Prices June 2019"},
		{Title: "Prices May 2021"},
	}

	matches := filterNotifications(notifications, nlp.Entities{nlp.FieldYear: "2019"})
	require.Len(t, matches, 2)
}

func TestFilterNotificationsMonthConstraintExcludesUndated(t *testing.T) {
	notifications := []ogra.Notification{
		{Title: "General Circular 2021"},
		{Title: "Prices May 2021"},
	}

	matches := filterNotifications(notifications, nlp.Entities{
		nlp.FieldMonth: "May",
		nlp.FieldYear:  "2021",
	})
	require.Len(t, matches, 1)
	require.Equal(t, "Prices May 2021", matches[0].Title)
}

func TestFilterNotificationsNoConstraintsKeepsAll(t *testing.T) {
	notifications := []ogra.Notification{{Title: "A 2020"}, {Title: "B 2021"}}
	require.Len(t, filterNotifications(notifications, nlp.Entities{}), 2)
}
