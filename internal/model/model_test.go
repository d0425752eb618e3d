package model

import (
	"testing"
	"time"
)

func TestCombineSplitDateTime(t *testing.T) {
	ts, err := CombineDateTime("2025-03-14", "09:30")
	if err != nil {
		t.Fatalf("CombineDateTime failed: %v", err)
	}
	if ts.Hour() != 9 || ts.Minute() != 30 {
		t.Errorf("wrong clock: got %02d:%02d", ts.Hour(), ts.Minute())
	}

	date, clock := SplitDateTime(ts)
	if date != "2025-03-14" || clock != "09:30" {
		t.Errorf("round trip mismatch: got %s %s", date, clock)
	}
}

func TestCombineDateTimeRejectsGarbage(t *testing.T) {
	if _, err := CombineDateTime("not-a-date", "09:30"); err == nil {
		t.Error("expected error for bad date")
	}
	if _, err := CombineDateTime("2025-03-14", "25:99"); err == nil {
		t.Error("expected error for bad clock")
	}
}

func TestTaskStartEnd(t *testing.T) {
	task := Task{
		StartDate: "2025-03-14", StartTime: "10:00",
		EndDate: "2025-03-14", EndTime: "11:30",
	}
	start, err := task.Start()
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	end, err := task.End()
	if err != nil {
		t.Fatalf("End failed: %v", err)
	}
	if got := end.Sub(start); got != 90*time.Minute {
		t.Errorf("expected 90m span, got %v", got)
	}
}

func TestTaskCloneIsolatesSecondaries(t *testing.T) {
	orig := Task{Title: "a", SecondaryCategories: []string{"x", "y"}}
	c := orig.Clone()
	c.SecondaryCategories[0] = "changed"
	if orig.SecondaryCategories[0] != "x" {
		t.Error("clone shares secondary slice with original")
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		seconds int
		want    string
	}{
		{0, "00:00:00"},
		{5, "00:00:05"},
		{65, "00:01:05"},
		{3661, "01:01:01"},
		{-10, "00:00:00"},
	}
	for _, c := range cases {
		if got := FormatDuration(c.seconds); got != c.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", c.seconds, got, c.want)
		}
	}
}

func TestIsHexColor(t *testing.T) {
	for _, ok := range []string{"#3b82f6", "#fff", "#FFFFFF"} {
		if !IsHexColor(ok) {
			t.Errorf("expected %q to be valid", ok)
		}
	}
	for _, bad := range []string{"", "3b82f6", "#gggggg", "#12345", "blue"} {
		if IsHexColor(bad) {
			t.Errorf("expected %q to be invalid", bad)
		}
	}
}
