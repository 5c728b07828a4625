// Package datetext normalizes raw provider date expressions (absolute,
// relative "N units ago", multi-language) into UTC epoch timestamps.
package datetext

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// ErrUnparseable is returned when no parse strategy matched and the
// fallback policy is disabled.
var ErrUnparseable = errors.New("unparseable date expression")

var relativeExpr = regexp.MustCompile(`(\d+)\s*(second|minute|hour|day|week|month|year)s?`)

// Approximations, not calendar-accurate.
var unitDurations = map[string]time.Duration{
	"second": time.Second,
	"minute": time.Minute,
	"hour":   time.Hour,
	"day":    24 * time.Hour,
	"week":   7 * 24 * time.Hour,
	"month":  30 * 24 * time.Hour,
	"year":   365 * 24 * time.Hour,
}

var absoluteLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
	time.RFC3339,
	time.RFC1123,
	time.RFC1123Z,
}

// Normalizer converts raw date text to epoch seconds relative to a
// reference time. With FallbackToNow set (the default), text that defeats
// every parse strategy degrades silently to the reference time; callers
// must tolerate the resulting timestamp collisions.
type Normalizer struct {
	FallbackToNow bool
}

// New returns a normalizer with the fallback policy enabled.
func New() *Normalizer {
	return &Normalizer{FallbackToNow: true}
}

// Normalize converts raw date text into UTC epoch seconds.
func (n *Normalizer) Normalize(raw string, ref time.Time) (int64, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return n.fallback(ref)
	}

	text = TranslateDate(text)

	if ts, ok := parseRelative(text, ref); ok {
		return ts, nil
	}
	if ts, ok := parseAbsolute(text); ok {
		return ts, nil
	}

	return n.fallback(ref)
}

func (n *Normalizer) fallback(ref time.Time) (int64, error) {
	if n.FallbackToNow {
		return ref.UTC().Unix(), nil
	}
	return 0, ErrUnparseable
}

func parseRelative(text string, ref time.Time) (int64, bool) {
	lowered := strings.ToLower(text)
	if !strings.Contains(lowered, "ago") {
		return 0, false
	}

	magnitude := 1
	unit := ""
	if match := relativeExpr.FindStringSubmatch(lowered); match != nil {
		magnitude, _ = strconv.Atoi(match[1])
		unit = match[2]
	} else {
		// Some translations drop the number ("ago hours"); keep the unit.
		for name := range unitDurations {
			if strings.Contains(lowered, name) {
				unit = name
				break
			}
		}
	}

	duration, ok := unitDurations[unit]
	if !ok {
		return 0, false
	}

	return ref.UTC().Add(-time.Duration(magnitude) * duration).Unix(), true
}

func parseAbsolute(text string) (int64, bool) {
	for _, layout := range absoluteLayouts {
		if parsed, err := time.Parse(layout, text); err == nil {
			return parsed.UTC().Unix(), true
		}
	}

	if parsed, err := dateparse.ParseIn(text, time.UTC); err == nil {
		return parsed.UTC().Unix(), true
	}

	return 0, false
}
