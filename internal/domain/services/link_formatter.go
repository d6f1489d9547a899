package services

import (
	"net/url"
	"strings"

	"github.com/storechecker/storechecker/internal/domain/entities"
)

// Placeholders recognised in notification bodies
const (
	PlaceholderRecipient          = "{recipient}"
	PlaceholderUnsubscribeAll     = "{all_games_unsubscribe_link}"
	PlaceholderUnsubscribeProduct = "{single_game_unsubscribe_link}"
	PlaceholderSubscribeProduct   = "{single_game_subscribe_link}"
)

// LinkFormatter builds per-recipient subscribe/unsubscribe links that point
// back at the subscription endpoint
type LinkFormatter struct {
	baseURL string
}

// NewLinkFormatter creates a formatter for the given parameter-less callback URL
func NewLinkFormatter(baseURL string) *LinkFormatter {
	return &LinkFormatter{baseURL: strings.TrimRight(baseURL, "?")}
}

// ForProduct returns a personalizer that fills {recipient}, the
// unsubscribe-all link and the single-product links for id
func (f *LinkFormatter) ForProduct(id string) entities.Personalizer {
	return func(body, recipient string) string {
		return f.replacer(recipient, id).Replace(body)
	}
}

// UnsubscribeAllLink returns the link that removes recipient from every product
func (f *LinkFormatter) UnsubscribeAllLink(recipient string) string {
	return f.withSubscriber(recipient) + "&type=REMOVE"
}

// UnsubscribeProductLink returns the link that removes recipient from product id
func (f *LinkFormatter) UnsubscribeProductLink(recipient, id string) string {
	return f.UnsubscribeAllLink(recipient) + "&id=" + url.QueryEscape(id)
}

// SubscribeProductLink returns the link that subscribes recipient to product id
func (f *LinkFormatter) SubscribeProductLink(recipient, id string) string {
	return f.withSubscriber(recipient) + "&type=ADD&id=" + url.QueryEscape(id)
}

func (f *LinkFormatter) withSubscriber(recipient string) string {
	return f.baseURL + "?subscriber=" + url.QueryEscape(recipient)
}

func (f *LinkFormatter) replacer(recipient, id string) *strings.Replacer {
	pairs := []string{
		PlaceholderRecipient, recipient,
		PlaceholderUnsubscribeAll, f.UnsubscribeAllLink(recipient),
	}
	if id != "" {
		pairs = append(pairs,
			PlaceholderUnsubscribeProduct, f.UnsubscribeProductLink(recipient, id),
			PlaceholderSubscribeProduct, f.SubscribeProductLink(recipient, id),
		)
	}
	return strings.NewReplacer(pairs...)
}
