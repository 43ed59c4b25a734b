package award

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var ErrPointsNotParsable = errors.New("points not parsable")

var cashFeePattern = regexp.MustCompile(`([A-Za-z]+)\s*\$\s*(\d[\d,]*(?:\.\d+)?)`)

// NormalizeText collapses runs of whitespace into single spaces and trims the ends,
// the way rendered text content is compared everywhere in the crawler.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ParsePoints turns rendered point prices into a number.
// Example: "85k" -> 85000, "85,000" -> 85000, "1.5K" -> 1500
func ParsePoints(s string) (float64, error) {
	raw := strings.ToLower(NormalizeText(s))
	raw = strings.ReplaceAll(raw, ",", "")
	raw = strings.ReplaceAll(raw, " ", "")

	multiplier := 1.0
	if strings.HasSuffix(raw, "k") {
		multiplier = 1000
		raw = strings.TrimSuffix(raw, "k")
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("%w: %q", ErrPointsNotParsable, s)
	}

	if value < 0 {
		return 0, fmt.Errorf("%w: negative value %q", ErrPointsNotParsable, s)
	}

	// keep decimal shorthand exact, 1.1k must be 1100 and not 1100.0000000000002
	return math.Round(value*multiplier*1e6) / 1e6, nil
}

// ParseCashFee finds a "<CUR> $<amount>" fragment, e.g. "CAD $1,234.56".
// It returns nil when the text carries no fee.
func ParseCashFee(s string) *CashFee {
	match := cashFeePattern.FindStringSubmatch(s)
	if match == nil {
		return nil
	}

	amount, err := strconv.ParseFloat(strings.ReplaceAll(match[2], ",", ""), 64)
	if err != nil {
		return nil
	}

	return &CashFee{
		Currency: strings.ToUpper(match[1]),
		Amount:   amount,
	}
}

// ExtractDigits keeps only the decimal digits of s.
func ExtractDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ParseDayOffset reads a day-offset marker such as "+1 day" or "+2". An empty marker
// is a same-day offset.
func ParseDayOffset(s string) (int, error) {
	text := NormalizeText(s)
	if text == "" {
		return 0, nil
	}

	digits := ExtractDigits(text)
	if digits == "" {
		return 0, fmt.Errorf("day offset %q has no digits", s)
	}

	days, err := strconv.Atoi(digits)
	if err != nil {
		return 0, fmt.Errorf("day offset %q: %w", s, err)
	}

	if strings.HasPrefix(text, "-") {
		days = -days
	}

	return days, nil
}

// StripCity derives the airport code from a combined "City CODE" text by removing
// the city name. When the remainder is not a code, the last code-like token wins.
func StripCity(text, city string) string {
	text = NormalizeText(text)
	city = NormalizeText(city)

	if city != "" {
		remainder := strings.TrimSpace(strings.Replace(text, city, "", 1))
		if IsAirportCode(remainder) {
			return strings.ToUpper(remainder)
		}
		text = remainder
	}

	fields := strings.Fields(text)
	for i := len(fields) - 1; i >= 0; i-- {
		token := strings.Trim(fields[i], "()[],")
		if IsAirportCode(token) {
			return strings.ToUpper(token)
		}
	}

	return text
}

// NormalizeCarrier turns "| Operated by Air Canada Rouge" into "Air Canada Rouge".
func NormalizeCarrier(s string) string {
	text := strings.TrimSpace(strings.TrimLeft(NormalizeText(s), "|"))

	const operatedBy = "operated by"
	if idx := strings.Index(strings.ToLower(text), operatedBy); idx >= 0 {
		text = text[idx+len(operatedBy):]
	}

	return strings.TrimSpace(text)
}
