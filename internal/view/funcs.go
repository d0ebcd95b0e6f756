package view

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Funcs returns the template helpers.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"formatDate":  formatDate,
		"formatDay":   FormatDay,
		"statusLabel": StatusLabel,
		"money":       Money,
		"add":         func(a, b int) int { return a + b },
		"sub":         func(a, b int) int { return a - b },
		"truncate":    truncate,
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02 Jan 2006 15:04")
}

// FormatDay renders a calendar date the way list pages show it.
func FormatDay(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02 Jan 2006")
}

// StatusLabel turns a stored status such as "in_progress" into "In Progress".
func StatusLabel(v any) string {
	raw := strings.ReplaceAll(fmt.Sprint(v), "_", " ")
	return cases.Title(language.English).String(raw)
}

// Money formats an amount in dollars. A nil *float64 renders as "-".
func Money(v any) string {
	switch a := v.(type) {
	case float64:
		return fmt.Sprintf("$%.2f", a)
	case *float64:
		if a == nil {
			return "-"
		}
		return fmt.Sprintf("$%.2f", *a)
	default:
		return "-"
	}
}

func truncate(n int, s string) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
