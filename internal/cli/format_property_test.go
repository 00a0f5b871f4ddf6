package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Property: grouped digit strings keep every digit, in order, and use
// commas only as separators between groups of three.
func TestProperty_GroupThousands(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	digitsGen := gen.RegexMatch(`[1-9][0-9]{0,14}`)

	properties.Property("digits survive grouping unchanged", prop.ForAll(
		func(s string) bool {
			grouped := groupThousands(s)
			return strings.ReplaceAll(grouped, ",", "") == s
		},
		digitsGen,
	))

	properties.Property("groups between commas have exactly three digits", prop.ForAll(
		func(s string) bool {
			parts := strings.Split(groupThousands(s), ",")
			for i, p := range parts {
				if i == 0 {
					if len(p) < 1 || len(p) > 3 {
						return false
					}
					continue
				}
				if len(p) != 3 {
					return false
				}
			}
			return true
		},
		digitsGen,
	))

	properties.TestingRun(t)
}

// Property: FormatPercent carries an explicit sign exactly for positive
// values and always ends with a percent sign.
func TestProperty_FormatPercent(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("sign and suffix", prop.ForAll(
		func(v float64) bool {
			s := FormatPercent(v)
			if !strings.HasSuffix(s, "%") {
				return false
			}
			if v > 0 {
				return strings.HasPrefix(s, "+")
			}
			if v < 0 {
				return strings.HasPrefix(s, "-")
			}
			return !strings.HasPrefix(s, "+") && !strings.HasPrefix(s, "-")
		},
		gen.Float64Range(-1e6, 1e6),
	))

	properties.TestingRun(t)
}

// Property: FormatYen of a negative amount is the positive rendering with
// a leading minus, and the yen sign is always present.
func TestProperty_FormatYen(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("negation mirrors the positive form", prop.ForAll(
		func(v float64) bool {
			return FormatYen(-v) == "-"+FormatYen(v)
		},
		gen.Float64Range(1, 1e12),
	))

	properties.Property("always carries the yen sign", prop.ForAll(
		func(v float64) bool {
			return strings.Contains(FormatYen(v), "¥")
		},
		gen.Float64Range(-1e12, 1e12),
	))

	properties.TestingRun(t)
}

// Property: TruncateString never exceeds the limit in runes and is the
// identity for strings already within it.
func TestProperty_TruncateString(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("never exceeds the limit", prop.ForAll(
		func(s string, max int) bool {
			return len([]rune(TruncateString(s, max))) <= max
		},
		gen.AnyString(),
		gen.IntRange(1, 80),
	))

	properties.Property("short strings pass through", prop.ForAll(
		func(s string) bool {
			return TruncateString(s, len([]rune(s))+1) == s
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}

// Property: padding yields at least the requested width and preserves
// the original content at the expected end.
func TestProperty_Padding(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("PadRight keeps the prefix", prop.ForAll(
		func(s string, width int) bool {
			padded := PadRight(s, width)
			return len(padded) >= width && strings.HasPrefix(padded, s)
		},
		gen.AlphaString(),
		gen.IntRange(0, 40),
	))

	properties.Property("PadLeft keeps the suffix", prop.ForAll(
		func(s string, width int) bool {
			padded := PadLeft(s, width)
			return len(padded) >= width && strings.HasSuffix(padded, s)
		},
		gen.AlphaString(),
		gen.IntRange(0, 40),
	))

	properties.TestingRun(t)
}
