// Package convo routes classified messages to a data source and formats
// the reply that goes back over WhatsApp.
package convo

import (
	"context"
	"log/slog"

	"fuelbot/internal/metrics"
	"fuelbot/internal/nlp"
	"fuelbot/internal/ogra"
	"fuelbot/internal/session"
	"fuelbot/internal/store"
)

const (
	latestLimit = 5
	queryLimit  = 10
	scrapeLimit = 50
	historyDays = 7
)

// Gateway delivers outbound replies.
type Gateway interface {
	SendText(ctx context.Context, to, text string) error
}

// PriceAPI is the REST fuel-price data source.
type PriceAPI interface {
	Today(ctx context.Context) (*ogra.PriceRecord, error)
	ByDate(ctx context.Context, date string) (*ogra.PriceRecord, error)
	City(ctx context.Context, city string) (*ogra.PriceRecord, error)
	History(ctx context.Context, days int) ([]ogra.PriceRecord, error)
}

// NotificationSource is the scraped bulletin data source.
type NotificationSource interface {
	Notifications(ctx context.Context, category nlp.Category, limit int) ([]ogra.Notification, error)
}

// Engine coordinates classification, category memory, the data sources and
// reply formatting.
type Engine struct {
	sessions session.Store
	prices   PriceAPI
	notes    NotificationSource
	gateway  Gateway
	messages store.MessageStore
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// New creates a conversation engine. The message store is optional.
func New(sessions session.Store, prices PriceAPI, notes NotificationSource, gateway Gateway, messages store.MessageStore, metrics *metrics.Metrics, logger *slog.Logger) *Engine {
	return &Engine{
		sessions: sessions,
		prices:   prices,
		notes:    notes,
		gateway:  gateway,
		messages: messages,
		metrics:  metrics,
		logger:   logger.With("component", "convo"),
	}
}

// HandleMessage processes one inbound text end to end: log it, build the
// reply and send it back. Every path produces a reply; only the outbound
// send can fail.
func (e *Engine) HandleMessage(ctx context.Context, sender, text string) error {
	e.saveMessage(ctx, sender, store.DirectionIncoming, text)

	reply, kind := e.Reply(ctx, sender, text)

	if err := e.gateway.SendText(ctx, sender, reply); err != nil {
		if e.metrics != nil {
			e.metrics.Errors.WithLabelValues("send").Inc()
		}
		return err
	}
	if e.metrics != nil {
		e.metrics.RepliesSent.WithLabelValues(kind).Inc()
	}
	e.saveMessage(ctx, sender, store.DirectionOutgoing, reply)
	return nil
}

// Reply classifies the text, resolves the sender's category and produces
// the reply plus a short kind label for metrics and the message log.
func (e *Engine) Reply(ctx context.Context, sender, text string) (string, string) {
	intent := nlp.Classify(text)
	entities := nlp.Extract(text)
	category := nlp.DetectCategory(text)

	if e.metrics != nil {
		e.metrics.IncomingMessages.WithLabelValues(string(intent)).Inc()
	}
	e.logger.Info("message classified", "sender", sender, "intent", intent, "entities", entities, "category", category)

	return e.generate(ctx, intent, entities, category, sender)
}

func (e *Engine) generate(ctx context.Context, intent nlp.Intent, entities nlp.Entities, category nlp.Category, sender string) (string, string) {
	switch intent {
	case nlp.IntentGreeting:
		return greetingMessage(), "greeting"

	case nlp.IntentRestart:
		if err := e.sessions.Forget(ctx, sender); err != nil {
			e.logger.Warn("forget session failed", "sender", sender, "error", err)
		}
		return restartMessage(), "restart"

	case nlp.IntentTodayPrice, nlp.IntentPricing:
		return e.todayPrices(ctx, entities)

	case nlp.IntentYesterdayPrice, nlp.IntentDatePrice:
		return e.pricesByDate(ctx, entities)

	case nlp.IntentHistory:
		return e.priceHistory(ctx)

	case nlp.IntentLatest:
		return e.latestNotifications(ctx, sender, category)

	case nlp.IntentDateQuery:
		return e.searchNotifications(ctx, sender, category, entities)

	default:
		if selected, ok := nlp.IsMenuSelection(intent); ok {
			if err := e.sessions.Remember(ctx, sender, selected); err != nil {
				e.logger.Warn("remember session failed", "sender", sender, "error", err)
			}
			return categorySelectedMessage(selected), "menu_selection"
		}
		return helpMessage(), "fallback"
	}
}

func (e *Engine) todayPrices(ctx context.Context, entities nlp.Entities) (string, string) {
	var (
		record *ogra.PriceRecord
		err    error
	)
	if city, ok := entities[nlp.FieldCity]; ok {
		record, err = e.prices.City(ctx, city)
	} else {
		record, err = e.prices.Today(ctx)
	}
	if err != nil {
		e.adapterFailure("price_today", err)
		return todayUnavailableMessage(), "today_unavailable"
	}

	heading := "⛽ Fuel Prices"
	if record.City != "" {
		heading = "⛽ Fuel Prices — " + capitalize(record.City)
	}
	return formatPrices(heading, record), "today_prices"
}

func (e *Engine) pricesByDate(ctx context.Context, entities nlp.Entities) (string, string) {
	date, ok := entities[nlp.FieldDate]
	if !ok {
		return missingDateMessage(), "missing_date"
	}

	record, err := e.prices.ByDate(ctx, date)
	if err != nil {
		e.adapterFailure("price_by_date", err)
		return dateUnavailableMessage(date), "date_unavailable"
	}
	return formatPrices("📅 Prices", record), "date_prices"
}

func (e *Engine) priceHistory(ctx context.Context) (string, string) {
	records, err := e.prices.History(ctx, historyDays)
	if err != nil || len(records) == 0 {
		if err != nil {
			e.adapterFailure("price_history", err)
		}
		return todayUnavailableMessage(), "history_unavailable"
	}
	if len(records) > historyDays {
		records = records[:historyDays]
	}
	return formatHistory(records), "history"
}

func (e *Engine) latestNotifications(ctx context.Context, sender string, category nlp.Category) (string, string) {
	resolved := e.resolveCategory(ctx, sender, category)

	notifications, err := e.notes.Notifications(ctx, resolved, latestLimit)
	if err != nil || len(notifications) == 0 {
		if err != nil {
			e.adapterFailure("scrape_latest", err)
		}
		return notificationsUnavailableMessage(), "latest_unavailable"
	}
	heading := "🗞️ Latest " + categoryLabels[resolved] + ":"
	return formatNotifications(heading, notifications), "latest"
}

func (e *Engine) searchNotifications(ctx context.Context, sender string, category nlp.Category, entities nlp.Entities) (string, string) {
	resolved := e.resolveCategory(ctx, sender, category)

	notifications, err := e.notes.Notifications(ctx, resolved, scrapeLimit)
	if err != nil {
		e.adapterFailure("scrape_query", err)
		return notificationsUnavailableMessage(), "query_unavailable"
	}

	matches := filterNotifications(notifications, entities)
	if len(matches) == 0 {
		return "🔍 No notifications matched your query. Try another month or year.", "query_empty"
	}
	if len(matches) > queryLimit {
		matches = matches[:queryLimit]
	}
	heading := "🔍 Matching " + categoryLabels[resolved] + ":"
	return formatNotifications(heading, matches), "query"
}

// resolveCategory applies category memory and defaults to petroleum when
// neither the message nor the session names a topic.
func (e *Engine) resolveCategory(ctx context.Context, sender string, extracted nlp.Category) nlp.Category {
	resolved, ok, err := session.Resolve(ctx, e.sessions, sender, extracted)
	if err != nil {
		e.logger.Warn("resolve category failed", "sender", sender, "error", err)
		resolved, ok = extracted, extracted != ""
	}
	if !ok || resolved == "" {
		return nlp.CategoryPetroleum
	}
	return resolved
}

func (e *Engine) adapterFailure(stage string, err error) {
	e.logger.Error("data source failed", "stage", stage, "error", err)
	if e.metrics != nil {
		e.metrics.Errors.WithLabelValues(stage).Inc()
	}
}

func (e *Engine) saveMessage(ctx context.Context, sender, direction, body string) {
	if e.messages == nil {
		return
	}
	if err := e.messages.SaveMessage(ctx, store.MessageRecord{
		Sender:    sender,
		Direction: direction,
		Body:      body,
	}); err != nil {
		e.logger.Warn("failed logging message", "direction", direction, "error", err)
		if e.metrics != nil {
			e.metrics.Errors.WithLabelValues("store").Inc()
		}
	}
}
