package providers

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in      string
		want    TimeOfDay
		wantErr bool
	}{
		{"09:00", 540, false},
		{"00:00", 0, false},
		{"23:59", 23*60 + 59, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"noon", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseTimeOfDay(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseTimeOfDay(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseTimeOfDay(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseTimeOfDay(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestTimeOfDayRoundTrip(t *testing.T) {
	start, _ := ParseTimeOfDay("11:30")
	if start.String() != "11:30" {
		t.Fatalf("String() = %q", start.String())
	}
	if start.AddMinutes(60).String() != "12:30" {
		t.Fatalf("AddMinutes(60) = %q", start.AddMinutes(60).String())
	}

	pg := start.PG()
	if TimeOfDayFromPG(pg) != start {
		t.Fatalf("pgtype round trip lost value: %v", pg)
	}

	data, err := json.Marshal(start)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"11:30"` {
		t.Fatalf("marshal = %s", data)
	}
	var back TimeOfDay
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back != start {
		t.Fatalf("json round trip lost value: %d", back)
	}
}

func TestBusinessWeekday(t *testing.T) {
	if BusinessWeekday(time.Monday) != 0 {
		t.Fatalf("Monday should map to 0")
	}
	if BusinessWeekday(time.Sunday) != 6 {
		t.Fatalf("Sunday should map to 6")
	}
	if BusinessWeekday(time.Saturday) != 5 {
		t.Fatalf("Saturday should map to 5")
	}
}
