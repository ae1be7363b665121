package nlp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestExtractDateForms(t *testing.T) {
	now := time.Date(2024, time.March, 16, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		text string
		want string // empty means no date field
	}{
		{"iso date", "price on 2024-11-01", "2024-11-01"},
		{"slash date", "price on 15/03/2024", "2024-03-15"},
		{"single digit slash date", "price on 5/3/2024", "2024-03-05"},
		{"invalid calendar date", "price on 31/02/2024", ""},
		{"yesterday", "petrol price yesterday", "2024-03-15"},
		{"yesterday beats literal date", "yesterday not 2020-01-01", "2024-03-15"},
		{"no date", "petrol price", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entities := extractAt(tt.text, now)
			date, ok := entities[FieldDate]
			if tt.want == "" {
				require.False(t, ok, "expected no date field, got %q", date)
				return
			}
			require.Equal(t, tt.want, date)
		})
	}
}

func TestExtractYearMonthCity(t *testing.T) {
	entities := Extract("petroleum notification for may 2021 in Lahore")

	require.Equal(t, "2021", entities[FieldYear])
	require.Equal(t, "May", entities[FieldMonth])
	require.Equal(t, "lahore", entities[FieldCity])
}

func TestExtractAbsentFieldsAreMissing(t *testing.T) {
	entities := Extract("hello")

	_, hasYear := entities[FieldYear]
	_, hasMonth := entities[FieldMonth]
	_, hasCity := entities[FieldCity]
	_, hasDate := entities[FieldDate]
	require.False(t, hasYear)
	require.False(t, hasMonth)
	require.False(t, hasCity)
	require.False(t, hasDate)
}

func TestDetectCategory(t *testing.T) {
	tests := []struct {
		text string
		want Category
	}{
		{"petroleum prices please", CategoryPetroleum},
		{"crude oil", CategoryPetroleum},
		{"e-10 gasoline", CategoryE10},
		{"e10", CategoryE10},
		{"ifem notification", CategoryIFEM},
		{"ex-depot sale price", CategoryExDepot},
		{"detail computation", CategoryExDepot},
		{"price buildup", CategoryPriceBuildup},
		{"max ex-depot sale price", CategoryPriceBuildup},
		{"nothing relevant", ""},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			require.Equal(t, tt.want, DetectCategory(tt.text))
		})
	}
}
