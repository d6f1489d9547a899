package utils

import (
	"math"
	"testing"
)

type priceRow struct {
	ID    string  `json:"id"`
	Price float64 `json:"price"`
}

func TestMarshalJSONIndentString(t *testing.T) {
	got, err := MarshalJSONIndentString(priceRow{ID: "game-x-switch", Price: 19.99}, "  ")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	want := "{\n  \"id\": \"game-x-switch\",\n  \"price\": 19.99\n}"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestMarshalJSONIndentString_Error(t *testing.T) {
	if _, err := MarshalJSONIndentString(priceRow{Price: math.NaN()}, "  "); err == nil {
		t.Error("Expected error for NaN value")
	}
}
