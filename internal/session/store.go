// Package session keeps the per-sender category selection that menu picks
// establish and later price queries fall back to.
package session

import (
	"context"

	"fuelbot/internal/nlp"
)

// Store is the key-value abstraction behind category memory. Implementations
// must make per-sender updates atomic; writes for different senders must not
// block each other.
type Store interface {
	Remember(ctx context.Context, sender string, category nlp.Category) error
	Lookup(ctx context.Context, sender string) (nlp.Category, bool, error)
	Forget(ctx context.Context, sender string) error
}

// Resolve applies the category policy: a category named in the current
// message is stored and wins; otherwise the sender's remembered category is
// returned, if any.
func Resolve(ctx context.Context, store Store, sender string, extracted nlp.Category) (nlp.Category, bool, error) {
	if extracted != "" {
		if err := store.Remember(ctx, sender, extracted); err != nil {
			return "", false, err
		}
		return extracted, true, nil
	}
	return store.Lookup(ctx, sender)
}
