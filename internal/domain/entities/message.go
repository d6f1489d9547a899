package entities

// Personalizer rewrites a message body for a single recipient
type Personalizer func(body, recipient string) string

// Message is an outbound notification sent to one or more recipients.
// When Personalize is set every recipient receives Personalize(Body, recipient).
type Message struct {
	To          []string
	Subject     string
	Body        string
	HTML        bool
	Personalize Personalizer
}

// BodyFor returns the body for the given recipient
func (m *Message) BodyFor(recipient string) string {
	if m.Personalize == nil {
		return m.Body
	}
	return m.Personalize(m.Body, recipient)
}

// PriceQuote is the current title and lowest price of a product
type PriceQuote struct {
	ID          string
	Title       string
	LowestPrice float64
}

// GameRef identifies a product in job responses
type GameRef struct {
	Title string `json:"title"`
	ID    string `json:"id"`
}
