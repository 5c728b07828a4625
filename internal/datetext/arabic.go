package datetext

import (
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/abadojack/whatlanggo"
)

// Translation tables are exact 1:1 token substitutions. They run in a fixed
// order: numerals, then month names, then time units. Absolute-date parsing
// happens before the relative-phrase substitution so that a date like
// "٤ ديسمبر ٢٠٢٤" is never corrupted by the time-unit table.

var arabicNumerals = []struct{ arabic, english string }{
	{"٠", "0"},
	{"١", "1"},
	{"٢", "2"},
	{"٣", "3"},
	{"٤", "4"},
	{"٥", "5"},
	{"٦", "6"},
	{"٧", "7"},
	{"٨", "8"},
	{"٩", "9"},
}

var arabicMonths = []struct{ arabic, english string }{
	{"يناير", "January"},
	{"فبراير", "February"},
	{"مارس", "March"},
	{"أبريل", "April"},
	{"مايو", "May"},
	{"يونيو", "June"},
	{"يوليو", "July"},
	{"أغسطس", "August"},
	{"سبتمبر", "September"},
	{"أكتوبر", "October"},
	{"نوفمبر", "November"},
	{"ديسمبر", "December"},
}

var arabicTimeUnits = []struct{ arabic, english string }{
	{"ثانيتين", "seconds"},
	{"ثواني", "seconds"},
	{"ثانية", "second"},
	{"دقيقتين", "minutes"},
	{"دقائق", "minutes"},
	{"دقيقة", "minute"},
	{"ساعتين", "hours"},
	{"ساعات", "hours"},
	{"ساعة", "hour"},
	{"يومين", "days"},
	{"أيام", "days"},
	{"يوم", "day"},
	{"أسبوعين", "weeks"},
	{"أسابيع", "weeks"},
	{"أسبوع", "week"},
	{"شهرين", "months"},
	{"أشهر", "months"},
	{"شهر", "month"},
	{"سنتين", "years"},
	{"سنوات", "years"},
	{"سنة", "year"},
	{"قبل", "ago"},
}

var arabicAbsoluteExpr = regexp.MustCompile(`(\d{1,2})\s+([A-Za-z]+)\s+(\d{4})`)

// IsArabic reports whether the text is written in Arabic script. Trigram
// language identification is unreliable on short date snippets, so the
// check keys on the script alone. Detection failures degrade to false,
// never an error.
func IsArabic(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	return whatlanggo.DetectScript(text) == unicode.Arabic
}

// TranslateNumerals maps Arabic-Indic digits to ASCII digits.
func TranslateNumerals(text string) string {
	for _, pair := range arabicNumerals {
		text = strings.ReplaceAll(text, pair.arabic, pair.english)
	}
	return text
}

// TranslateMonths maps Arabic month names to English.
func TranslateMonths(text string) string {
	for _, pair := range arabicMonths {
		text = strings.ReplaceAll(text, pair.arabic, pair.english)
	}
	return text
}

// TranslateTimeUnits maps Arabic time-unit words (and "ago") to English.
func TranslateTimeUnits(text string) string {
	for _, pair := range arabicTimeUnits {
		text = strings.ReplaceAll(text, pair.arabic, pair.english)
	}
	return text
}

// parseArabicAbsolute translates numerals and month names, then tries to
// read an absolute day-month-year expression. It returns the input
// unchanged when no absolute date is found.
func parseArabicAbsolute(text string) string {
	translated := TranslateMonths(TranslateNumerals(text))

	match := arabicAbsoluteExpr.FindStringSubmatch(translated)
	if match == nil {
		return text
	}

	candidate := match[1] + " " + match[2] + " " + match[3]
	for _, layout := range []string{"2 January 2006", "2 Jan 2006"} {
		if parsed, err := time.Parse(layout, candidate); err == nil {
			return parsed.Format("2006-01-02")
		}
	}
	return text
}

// TranslateDate converts an Arabic date expression to its English
// equivalent. Non-Arabic text passes through untouched.
func TranslateDate(text string) string {
	if !IsArabic(text) {
		return text
	}

	if translated := parseArabicAbsolute(text); translated != text {
		return translated
	}

	return TranslateTimeUnits(TranslateNumerals(text))
}
