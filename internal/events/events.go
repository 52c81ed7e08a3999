// Package events publishes state transitions of the storefront containers.
package events

import (
	"context"
	"time"

	"github.com/Skotchmaster/storefront/pkg/logging"
)

const (
	TopicUser    = "user_events"
	TopicProduct = "product_events"
	TopicCart    = "cart_events"

	publishTimeout = 5 * time.Second
)

// Event types.
const (
	UserLoggedIn    = "user_logged_in"
	UserRegistered  = "user_registered"
	UserLoggedOut   = "user_logged_out"
	ProductsFetched = "products_fetched"
	CartFetched     = "cart_fetched"
	CartItemsAdded  = "add_cart_items"
	CartItemUpdated = "cart_item_updated"
	CartItemDeleted = "cart_item_deleted"
	CartCleared     = "cart_cleared"
)

type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, event map[string]any) error
}

type NopPublisher struct{}

func (NopPublisher) PublishEvent(context.Context, string, string, map[string]any) error {
	return nil
}

// Publish sends an event with its own timeout and only logs failures, so a
// broken broker never changes container state.
func Publish(ctx context.Context, p Publisher, topic, key string, event map[string]any) {
	if p == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := p.PublishEvent(ctx, topic, key, event); err != nil {
		logging.FromContext(ctx).Error("publish_failed",
			"topic", topic, "type", event["type"], "error", err)
	}
}
