// Package cli holds the output adapters between cobra commands and the
// primary ports. Each adapter calls one service and renders the result to
// an io.Writer.
package cli

import (
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed)
	blue   = color.New(color.FgBlue)
	cyan   = color.New(color.FgCyan)
	faint  = color.New(color.Faint)
)

// badge colours a status, priority or notification type.
func badge(value string) string {
	switch value {
	case "active", "approved", "done", "success", "low":
		return green.Sprint(value)
	case "prospect", "sent", "viewed", "in_progress", "review", "warning", "medium":
		return yellow.Sprint(value)
	case "inactive", "rejected", "expired", "error", "urgent", "high":
		return red.Sprint(value)
	case "draft", "todo", "info":
		return blue.Sprint(value)
	}
	return value
}

// currency formats v as Brazilian reais, e.g. R$ 1.234,56.
func currency(v float64) string {
	if v < 0 {
		return "-R$ " + humanize.FormatFloat("#.###,##", -v)
	}
	return "R$ " + humanize.FormatFloat("#.###,##", v)
}

// quantity drops a zero fraction.
func quantity(v float64) string {
	if v == float64(int64(v)) {
		return humanize.Comma(int64(v))
	}
	return humanize.FormatFloat("#,###.##", v)
}

// orDash renders empty optional values.
func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// ago renders a stored timestamp relative to now, or the raw text when it
// does not parse.
func ago(ts string, now time.Time) string {
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return ts
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// day renders the date part of a stored timestamp.
func day(ts string) string {
	if len(ts) >= 10 {
		return ts[:10]
	}
	return orDash(ts)
}
