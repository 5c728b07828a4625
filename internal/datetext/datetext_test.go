package datetext

import (
	"errors"
	"testing"
	"time"
)

var ref = time.Date(2025, time.January, 15, 12, 0, 0, 0, time.UTC)

func normalize(t *testing.T, raw string) int64 {
	t.Helper()

	ts, err := New().Normalize(raw, ref)
	if err != nil {
		t.Fatalf("Normalize(%q) returned error: %v", raw, err)
	}
	return ts
}

func TestNormalizeRelative(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw  string
		want time.Time
	}{
		{"3 days ago", ref.Add(-3 * 24 * time.Hour)},
		{"1 hour ago", ref.Add(-time.Hour)},
		{"45 minutes ago", ref.Add(-45 * time.Minute)},
		{"2 weeks ago", ref.Add(-14 * 24 * time.Hour)},
		{"1 month ago", ref.Add(-30 * 24 * time.Hour)},
		{"2 years ago", ref.Add(-2 * 365 * 24 * time.Hour)},
	}

	for _, tc := range cases {
		got := normalize(t, tc.raw)
		if diff := got - tc.want.Unix(); diff > 1 || diff < -1 {
			t.Errorf("Normalize(%q) = %d, want %d", tc.raw, got, tc.want.Unix())
		}
	}
}

func TestNormalizeAbsolute(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw  string
		want time.Time
	}{
		{"2024-12-04", time.Date(2024, time.December, 4, 0, 0, 0, 0, time.UTC)},
		{"4 Dec 2024", time.Date(2024, time.December, 4, 0, 0, 0, 0, time.UTC)},
		{"Dec 4, 2024", time.Date(2024, time.December, 4, 0, 0, 0, 0, time.UTC)},
		{"2024-12-04 10:30:00", time.Date(2024, time.December, 4, 10, 30, 0, 0, time.UTC)},
	}

	for _, tc := range cases {
		if got := normalize(t, tc.raw); got != tc.want.Unix() {
			t.Errorf("Normalize(%q) = %d, want %d", tc.raw, got, tc.want.Unix())
		}
	}
}

func TestNormalizeFallsBackToReference(t *testing.T) {
	t.Parallel()

	if got := normalize(t, "garbage unparseable text"); got != ref.Unix() {
		t.Fatalf("expected reference-time fallback, got %d", got)
	}
	if got := normalize(t, ""); got != ref.Unix() {
		t.Fatalf("expected reference-time fallback for empty input, got %d", got)
	}
}

func TestNormalizeRejectPolicy(t *testing.T) {
	t.Parallel()

	n := &Normalizer{FallbackToNow: false}
	if _, err := n.Normalize("garbage unparseable text", ref); !errors.Is(err, ErrUnparseable) {
		t.Fatalf("expected ErrUnparseable, got %v", err)
	}
}

func TestNormalizeArabicRelative(t *testing.T) {
	t.Parallel()

	got := normalize(t, "قبل ٣ ساعات")
	want := ref.Add(-3 * time.Hour).Unix()
	if got != want {
		t.Fatalf("Normalize arabic relative = %d, want %d", got, want)
	}
}

func TestNormalizeArabicAbsolute(t *testing.T) {
	t.Parallel()

	got := normalize(t, "٤ ديسمبر ٢٠٢٤")
	want := time.Date(2024, time.December, 4, 0, 0, 0, 0, time.UTC).Unix()
	if got != want {
		t.Fatalf("Normalize arabic absolute = %d, want %d", got, want)
	}
}
