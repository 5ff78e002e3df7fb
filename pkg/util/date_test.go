package util

import (
	"strconv"
	"testing"
	"time"
)

func TestParseTimeDateOnly(t *testing.T) {
	got, ok := ParseTime("2024-10-10")
	if !ok {
		t.Fatalf("expected ok")
	}
	want := time.Date(2024, 10, 10, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("unexpected time %v", got)
	}
}

func TestParseTimeRFC3339(t *testing.T) {
	s := "2024-10-10T10:10:10Z"
	got, ok := ParseTime(s)
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.UTC().Format(time.RFC3339) != s {
		t.Fatalf("unexpected time %v", got)
	}
}

func TestParseTimeUnix(t *testing.T) {
	ts := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC).Unix()
	got, ok := ParseTime(strconv.FormatInt(ts, 10))
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.Unix() != ts {
		t.Fatalf("unexpected unix %v", got.Unix())
	}
}

func TestParseTimeDefault(t *testing.T) {
	def := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC)
	got := ParseTimeDefault("", def)
	if !got.Equal(def) {
		t.Fatalf("expected default")
	}
}

func TestAlignFromToWeekly(t *testing.T) {
	from := time.Date(2024, 10, 10, 15, 30, 0, 0, time.UTC) // Thursday
	to := time.Date(2024, 10, 20, 8, 0, 0, 0, time.UTC)
	gotFrom, gotTo := AlignFromTo(from, to, "weekly")
	if gotFrom != time.Date(2024, 10, 7, 0, 0, 0, 0, time.UTC) {
		t.Fatalf("unexpected from %v", gotFrom)
	}
	if gotTo != time.Date(2024, 10, 20, 0, 0, 0, 0, time.UTC) {
		t.Fatalf("unexpected to %v", gotTo)
	}
}

func TestAlignFromToMonthly(t *testing.T) {
	from := time.Date(2024, 10, 10, 0, 0, 0, 0, time.UTC)
	gotFrom, _ := AlignFromTo(from, from, "monthly")
	if gotFrom != time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC) {
		t.Fatalf("unexpected from %v", gotFrom)
	}
}
