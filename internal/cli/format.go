// Package cli provides the command-line interface for the dashboard.
package cli

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Japanese numbering units.
const (
	man = 10_000      // 万
	oku = 100_000_000 // 億
)

// FormatYen formats an amount in yen with thousands separators.
func FormatYen(amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	str := fmt.Sprintf("%.0f", amount)
	result := "¥" + groupThousands(str)
	if negative {
		result = "-" + result
	}
	return result
}

// groupThousands inserts comma separators every three digits.
func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	var b strings.Builder
	lead := n % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// FormatYenCompact formats an amount using Japanese units (万, 億, 兆).
func FormatYenCompact(amount float64) string {
	abs := math.Abs(amount)
	switch {
	case abs >= 1e12:
		return fmt.Sprintf("%.2f兆円", amount/1e12)
	case abs >= float64(oku):
		return fmt.Sprintf("%.2f億円", amount/float64(oku))
	case abs >= float64(man):
		return fmt.Sprintf("%.2f万円", amount/float64(man))
	}
	return FormatYen(amount)
}

// FormatMarketCap formats a market cap given in billions of yen.
func FormatMarketCap(billions float64) string {
	if billions >= 10000 {
		return fmt.Sprintf("%.2f兆円", billions/10000)
	}
	return fmt.Sprintf("%.0f億円", billions*10)
}

// FormatPercent formats a percentage with sign.
func FormatPercent(value float64) string {
	sign := ""
	if value > 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.2f%%", sign, value)
}

// FormatPrice formats a share price.
func FormatPrice(price float64) string {
	if price >= 10 {
		return fmt.Sprintf("%.1f", price)
	}
	return fmt.Sprintf("%.2f", price)
}

// FormatVolume formats volume using Japanese units.
func FormatVolume(volume int64) string {
	switch {
	case volume >= oku:
		return fmt.Sprintf("%.2f億", float64(volume)/float64(oku))
	case volume >= man:
		return fmt.Sprintf("%.2f万", float64(volume)/float64(man))
	}
	return fmt.Sprintf("%d", volume)
}

// FormatEmployees formats a headcount with separators, with a dash for
// unknown values.
func FormatEmployees(n int64) string {
	if n <= 0 {
		return "-"
	}
	return groupThousands(fmt.Sprintf("%d", n))
}

// FormatDate formats a date.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}

// FormatDuration formats a duration in human-readable form.
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	} else if d < time.Hour {
		return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
	} else if d < 24*time.Hour {
		return fmt.Sprintf("%dh %dm", int(d.Hours()), int(d.Minutes())%60)
	}
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	return fmt.Sprintf("%dd %dh", days, hours)
}

// TruncateString truncates a string to max length with ellipsis.
func TruncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// PadRight pads a string to the right.
func PadRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

// PadLeft pads a string to the left.
func PadLeft(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return strings.Repeat(" ", length-len(s)) + s
}
