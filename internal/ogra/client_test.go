package ogra

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fuelbot/internal/cache"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPriceRecordUnmarshalFlatShape(t *testing.T) {
	var record PriceRecord
	err := json.Unmarshal([]byte(`{"date":"2025-05-01","petrol":275.12,"diesel":283.63,"kerosene":192.5}`), &record)
	require.NoError(t, err)
	require.Equal(t, "2025-05-01", record.Date)
	require.Empty(t, record.City)
	require.Equal(t, map[string]float64{"petrol": 275.12, "diesel": 283.63, "kerosene": 192.5}, record.Fuels)
}

func TestPriceRecordUnmarshalRoundTrip(t *testing.T) {
	original := PriceRecord{
		Date:  "2025-05-01",
		City:  "lahore",
		Fuels: map[string]float64{"petrol": 276.4},
	}
	raw, err := json.Marshal(&original)
	require.NoError(t, err)

	var decoded PriceRecord
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Equal(t, original, decoded)
}

func TestPriceRecordUnmarshalSkipsNonNumeric(t *testing.T) {
	var record PriceRecord
	err := json.Unmarshal([]byte(`{"date":"2025-05-01","petrol":275.12,"source":"ogra"}`), &record)
	require.NoError(t, err)
	require.Equal(t, map[string]float64{"petrol": 275.12}, record.Fuels)
}

func TestFuelNamesOrder(t *testing.T) {
	record := PriceRecord{Fuels: map[string]float64{
		"hobc": 1, "diesel": 1, "kerosene": 1, "petrol": 1, "cng": 1,
	}}
	require.Equal(t, []string{"petrol", "diesel", "kerosene", "cng", "hobc"}, record.FuelNames())
}

func TestClientToday(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/today", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Accept"))
		_, _ = w.Write([]byte(`{"date":"2025-05-01","petrol":275.12,"diesel":283.63}`))
	}))
	defer ts.Close()

	client := NewClient(Config{BaseURL: ts.URL}, discardLogger(), nil, nil)
	record, err := client.Today(context.Background())
	require.NoError(t, err)
	require.Equal(t, "2025-05-01", record.Date)
	require.Equal(t, 275.12, record.Fuels["petrol"])
}

func TestClientByDateAndCityParams(t *testing.T) {
	var gotPath, gotQuery string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"date":"2024-11-01","petrol":270}`))
	}))
	defer ts.Close()

	client := NewClient(Config{BaseURL: ts.URL}, discardLogger(), nil, nil)
	ctx := context.Background()

	_, err := client.ByDate(ctx, "2024-11-01")
	require.NoError(t, err)
	require.Equal(t, "/by-date", gotPath)
	require.Equal(t, "date=2024-11-01", gotQuery)

	_, err = client.City(ctx, "Lahore")
	require.NoError(t, err)
	require.Equal(t, "/city", gotPath)
	require.Equal(t, "city=Lahore", gotQuery)
}

func TestClientHistory(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/history", r.URL.Path)
		require.Equal(t, "3", r.URL.Query().Get("days"))
		_, _ = w.Write([]byte(`[
			{"date":"2025-05-03","petrol":276},
			{"date":"2025-05-02","petrol":275},
			{"date":"2025-05-01","petrol":274}
		]`))
	}))
	defer ts.Close()

	client := NewClient(Config{BaseURL: ts.URL}, discardLogger(), nil, nil)
	records, err := client.History(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, records, 3)
	require.Equal(t, "2025-05-03", records[0].Date)
}

func TestClientTrend(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/trend", r.URL.Path)
		_, _ = w.Write([]byte(`{"petrol":"up","diesel":"stable","kerosene":"down"}`))
	}))
	defer ts.Close()

	client := NewClient(Config{BaseURL: ts.URL}, discardLogger(), nil, nil)
	trend, err := client.Trend(context.Background())
	require.NoError(t, err)
	require.Equal(t, map[string]string{"petrol": "up", "diesel": "stable", "kerosene": "down"}, trend)
}

func TestClientErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "no data", http.StatusNotFound)
	}))
	defer ts.Close()

	client := NewClient(Config{BaseURL: ts.URL}, discardLogger(), nil, nil)
	_, err := client.ByDate(context.Background(), "1990-01-01")
	require.Error(t, err)
	require.Contains(t, err.Error(), "status=404")
}

func TestClientNotConfigured(t *testing.T) {
	client := NewClient(Config{}, discardLogger(), nil, nil)
	_, err := client.Today(context.Background())
	require.ErrorIs(t, err, ErrNotConfigured)
}

func TestClientCachesToday(t *testing.T) {
	hits := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		_, _ = w.Write([]byte(`{"date":"2025-05-01","petrol":275.12}`))
	}))
	defer ts.Close()

	mr := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rc.Close() })

	client := NewClient(
		Config{BaseURL: ts.URL, PriceTTL: time.Minute},
		discardLogger(), nil, cache.NewFromClient(rc),
	)
	ctx := context.Background()

	first, err := client.Today(ctx)
	require.NoError(t, err)
	second, err := client.Today(ctx)
	require.NoError(t, err)

	require.Equal(t, 1, hits)
	require.Equal(t, first, second)
	require.Equal(t, 275.12, second.Fuels["petrol"])
}
