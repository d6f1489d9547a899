package schedule

import (
	"testing"
	"time"
)

func TestCronParser_Validate(t *testing.T) {
	parser := NewCronParser()

	valid := []string{"0 * * * *", "*/15 6-23 * * *", "30 8 * * 1-5", "@daily", "@every 90m"}
	for _, expr := range valid {
		if err := parser.Validate(expr); err != nil {
			t.Errorf("Validate(%q) returned error: %v", expr, err)
		}
	}

	invalid := []string{"", "hourly", "0 * * *", "0 0 * * * *", "61 * * * *", "@fortnightly"}
	for _, expr := range invalid {
		if err := parser.Validate(expr); err == nil {
			t.Errorf("Validate(%q) expected error", expr)
		}
	}
}

func TestLoadLocation(t *testing.T) {
	loc, err := LoadLocation("")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if loc != time.UTC {
		t.Errorf("Expected UTC for empty timezone, got %v", loc)
	}

	loc, err = LoadLocation("Europe/Berlin")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if loc.String() != "Europe/Berlin" {
		t.Errorf("Expected Europe/Berlin, got %v", loc)
	}

	if _, err := LoadLocation("Mars/Olympus_Mons"); err == nil {
		t.Error("Expected error for unknown timezone")
	}
}
