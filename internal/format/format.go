package format

import (
	"fmt"
	"strings"
	"time"
)

var ruMonthsGenitive = [...]string{
	"января", "февраля", "марта", "апреля", "мая", "июня",
	"июля", "августа", "сентября", "октября", "ноября", "декабря",
}

// FmtDate formats a calendar date the way a reader of lang expects it in long form.
// Example: FmtDate(2024-01-15, "en") => "January 15, 2024"
func FmtDate(t time.Time, lang string) string {
	if t.IsZero() {
		return ""
	}
	switch strings.ToLower(lang) {
	case "ru":
		return fmt.Sprintf("%d %s %d г.", t.Day(), ruMonthsGenitive[t.Month()-1], t.Year())
	default:
		return t.Format("January 2, 2006")
	}
}

// ISODate formats t as YYYY-MM-DD for machine-readable attributes.
func ISODate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
