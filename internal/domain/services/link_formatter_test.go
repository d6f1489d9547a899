package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLinkFormatter_ForProduct(t *testing.T) {
	f := NewLinkFormatter("https://example.com/subscribe")
	body := "{recipient}|{all_games_unsubscribe_link}|{single_game_unsubscribe_link}|{single_game_subscribe_link}"

	got := f.ForProduct("game-x-switch")(body, "u@example.com")
	parts := strings.Split(got, "|")

	assert.Equal(t, "u@example.com", parts[0])
	assert.Equal(t, "https://example.com/subscribe?subscriber=u%40example.com&type=REMOVE", parts[1])
	assert.Equal(t, "https://example.com/subscribe?subscriber=u%40example.com&type=REMOVE&id=game-x-switch", parts[2])
	assert.Equal(t, "https://example.com/subscribe?subscriber=u%40example.com&type=ADD&id=game-x-switch", parts[3])
}

func TestLinkFormatter_TrimsTrailingQuestionMark(t *testing.T) {
	f := NewLinkFormatter("https://example.com/subscribe?")
	assert.Equal(t, "https://example.com/subscribe?subscriber=a%40x.com&type=REMOVE", f.UnsubscribeAllLink("a@x.com"))
}

func TestLinkFormatter_EscapesProductID(t *testing.T) {
	f := NewLinkFormatter("https://example.com/s")
	assert.Equal(t,
		"https://example.com/s?subscriber=a%40x.com&type=ADD&id=a+b%26c",
		f.SubscribeProductLink("a@x.com", "a b&c"))
}
