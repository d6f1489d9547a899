package services

import (
	"fmt"
	"math"

	"github.com/storechecker/storechecker/internal/domain/entities"
)

// NewWelcomeMessage builds the batched "thanks for subscribing" notification
func NewWelcomeMessage(to []string, title string, lowestPrice float64, links entities.Personalizer) *entities.Message {
	return &entities.Message{
		To:      to,
		Subject: fmt.Sprintf("Thanks for subscribing to price updates for %s!", title),
		Body: "<div>" +
			"<p>" +
			fmt.Sprintf("You have been added as a subscriber to %s price updates.\n\n", title) +
			fmt.Sprintf("The current price of %s is $%.2f.", title, lowestPrice) +
			"</p>" +
			"<p>To unsubscribe from price updates on this game, click " +
			`<a href="` + PlaceholderUnsubscribeProduct + `">here</a>.</p>` +
			"<p>To unsubscribe from price updates on all games, click " +
			`<a href="` + PlaceholderUnsubscribeAll + `">here</a>.</p>` +
			"</div>",
		HTML:        true,
		Personalize: links,
	}
}

// NewUnsubscribedMessage builds the batched notification sent after leaving one product
func NewUnsubscribedMessage(to []string, title string, links entities.Personalizer) *entities.Message {
	return &entities.Message{
		To:      to,
		Subject: fmt.Sprintf("You have been unsubscribed from %s price updates", title),
		Body: "<div>" +
			"<p>We're sorry to see you go!</p>" +
			"<p>If this is a mistake, you can resubscribe to price updates on this game, click " +
			`<a href="` + PlaceholderSubscribeProduct + `">here</a>.</p>` +
			"<p>To unsubscribe from price updates on all other games, click " +
			`<a href="` + PlaceholderUnsubscribeAll + `">here</a>.</p>` +
			"</div>",
		HTML:        true,
		Personalize: links,
	}
}

// NewUnsubscribedEverywhereMessage builds the plain-text confirmation of a global unsubscribe
func NewUnsubscribedEverywhereMessage(address string) *entities.Message {
	return &entities.Message{
		To:      []string{address},
		Subject: "Unsubscribed from all price updates",
		Body:    "You have been unsubscribed from all price updates.",
	}
}

// NewPriceChangeMessage builds the batched price change notification
func NewPriceChangeMessage(to []string, title string, oldPrice, newPrice float64, links entities.Personalizer) *entities.Message {
	delta := newPrice - oldPrice
	direction, adjective := "decrease", "down"
	if delta > 0 {
		direction, adjective = "increase", "up"
	}
	return &entities.Message{
		To:      to,
		Subject: fmt.Sprintf("Price %s on %s by $%.2f", direction, title, math.Abs(delta)),
		Body: "<div>" +
			"<p>" +
			fmt.Sprintf("The current price of %s is $%.2f, %s from old price of $%.2f.\n\n",
				title, newPrice, adjective, oldPrice) +
			"</p>" +
			"<p>To unsubscribe from price updates on this game, click " +
			`<a href="` + PlaceholderUnsubscribeProduct + `">here</a>.</p>` +
			"<p>To unsubscribe from price updates on all games, click " +
			`<a href="` + PlaceholderUnsubscribeAll + `">here</a>.</p>` +
			"</div>",
		HTML:        true,
		Personalize: links,
	}
}
