package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	appErrors "github.com/derece-app/derece-api/pkg/errors"
)

// WeekDays are the Turkish weekday names indexed 0=Pazartesi..6=Pazar.
var WeekDays = [7]string{"Pazartesi", "Salı", "Çarşamba", "Perşembe", "Cuma", "Cumartesi", "Pazar"}

var weekdayTokens = [7]string{"pazartesi", "salı", "çarşamba", "perşembe", "cuma", "cumartesi", "pazar"}

// ResolvedDay is a concrete calendar date with its Monday-based index.
type ResolvedDay struct {
	Date     time.Time
	DayIndex int
}

// lowerTR lowercases with Turkish casing so SALI matches salı and
// İNGİLİZCE matches ingilizce.
func lowerTR(s string) string {
	return strings.ToLowerSpecial(unicode.TurkishCase, s)
}

// CivilDate truncates a moment to its civil date, normalised to UTC
// midnight so date-only comparisons are exact.
func CivilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DayIndexOf maps a date onto the Monday-based weekday index.
func DayIndexOf(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// ResolveDay maps a free-text Turkish day reference onto a concrete
// date relative to today. Priority: "bugün", then "yarın", then a
// weekday name. A bare weekday name always resolves to today or later;
// a "haftaya"/"gelecek" qualifier pushes it one week further, while
// "geçen" points into the previous week.
func ResolveDay(reference string, today time.Time) (ResolvedDay, error) {
	today = CivilDate(today)
	normalized := lowerTR(strings.TrimSpace(reference))

	if strings.Contains(normalized, "bugün") {
		return ResolvedDay{Date: today, DayIndex: DayIndexOf(today)}, nil
	}
	if strings.Contains(normalized, "yarın") {
		date := today.AddDate(0, 0, 1)
		return ResolvedDay{Date: date, DayIndex: DayIndexOf(date)}, nil
	}

	for i, token := range weekdayTokens {
		if !strings.Contains(normalized, token) {
			continue
		}
		diff := i - DayIndexOf(today)
		if diff < 0 && !strings.Contains(normalized, "geçen") {
			diff += 7
		}
		if strings.Contains(normalized, "haftaya") || strings.Contains(normalized, "gelecek") {
			diff += 7
		}
		date := today.AddDate(0, 0, diff)
		return ResolvedDay{Date: date, DayIndex: DayIndexOf(date)}, nil
	}

	return ResolvedDay{}, appErrors.Clone(appErrors.ErrAmbiguousDay, fmt.Sprintf("gün ifadesi anlaşılamadı: %q", reference))
}

// ParseClock parses "HH:MM" or a bare hour numeral into minutes since
// local midnight.
func ParseClock(raw string) (int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, appErrors.ErrInvalidTime
	}

	if h, m, ok := strings.Cut(trimmed, ":"); ok {
		hours, err := strconv.Atoi(strings.TrimSpace(h))
		if err != nil {
			return 0, appErrors.Clone(appErrors.ErrInvalidTime, fmt.Sprintf("saat anlaşılamadı: %q", raw))
		}
		minutes, err := strconv.Atoi(strings.TrimSpace(m))
		if err != nil || hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
			return 0, appErrors.Clone(appErrors.ErrInvalidTime, fmt.Sprintf("saat anlaşılamadı: %q", raw))
		}
		return hours*60 + minutes, nil
	}

	hours, err := strconv.Atoi(trimmed)
	if err != nil || hours < 0 || hours > 23 {
		return 0, appErrors.Clone(appErrors.ErrInvalidTime, fmt.Sprintf("saat anlaşılamadı: %q", raw))
	}
	return hours * 60, nil
}

// FormatClock renders a minute offset as HH:MM.
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
