package normalize

import (
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// FoldKey canonicalizes a column name for synonym matching: NFC, trimmed,
// lowercased with Swedish casing rules.
func FoldKey(s string) string {
	return Lower(strings.TrimSpace(s))
}

// Lower returns s composed to NFC and lowercased with Swedish casing rules.
// Spreadsheets exported from macOS often carry decomposed å/ä/ö.
func Lower(s string) string {
	return cases.Lower(language.Swedish).String(norm.NFC.String(s))
}

// toString renders a scalar as trimmed text. ok is false for nil and for
// values that trim to "".
func toString(v any) (string, bool) {
	var s string
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		s = t
	case []byte:
		s = string(t)
	case int64:
		s = strconv.FormatInt(t, 10)
	case int:
		s = strconv.Itoa(t)
	case float64:
		s = strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		s = strconv.FormatBool(t)
	case time.Time:
		if t.IsZero() {
			return "", false
		}
		s = t.Format("2006-01-02")
	default:
		return "", false
	}
	s = norm.NFC.String(strings.TrimSpace(s))
	return s, s != ""
}

// optString is the nullable string coercion.
func optString(v any) *string {
	s, ok := toString(v)
	if !ok {
		return nil
	}
	return &s
}

// keyString is the coercion for natural-key fields, which are never nil.
func keyString(v any) string {
	s, _ := toString(v)
	return s
}

// ParseNumber parses integers and locale-formatted decimals ("1 234,50",
// "1,234.50", "0,85", "12 kr"). ok is false when nothing numeric remains
// and for NaN or infinite values.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)
	for _, suffix := range []string{"sek", "kr", "%"} {
		if strings.HasSuffix(lower, suffix) {
			s = strings.TrimSpace(s[:len(s)-len(suffix)])
			lower = strings.ToLower(s)
		}
	}
	s = strings.NewReplacer(" ", "", "\u00a0", "", "\u202f", "", "'", "").Replace(s)
	if s == "" {
		return 0, false
	}

	comma := strings.LastIndex(s, ",")
	dot := strings.LastIndex(s, ".")
	switch {
	case comma >= 0 && dot >= 0:
		// Whichever separator comes last is the decimal point.
		if comma > dot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case comma >= 0:
		if strings.Count(s, ",") > 1 {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.Replace(s, ",", ".", 1)
		}
	case strings.Count(s, ".") > 1:
		s = strings.ReplaceAll(s, ".", "")
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// optNumber is the nullable numeric coercion. Unparsable input yields nil.
func optNumber(v any) *float64 {
	var f float64
	switch t := v.(type) {
	case nil:
		return nil
	case float64:
		f = t
	case int64:
		f = float64(t)
	case int:
		f = float64(t)
	default:
		s, ok := toString(v)
		if !ok {
			return nil
		}
		parsed, ok := ParseNumber(s)
		if !ok {
			return nil
		}
		f = parsed
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// optScore coerces an audit score, discarding values outside [0,10].
func optScore(v any) *float64 {
	f := optNumber(v)
	if f == nil || *f < 0 || *f > 10 {
		return nil
	}
	return f
}

// optConfidence coerces a confidence to [0,1]. Percentages in (1,100] are
// scaled down; anything else outside the range is discarded.
func optConfidence(v any) *float64 {
	f := optNumber(v)
	if f == nil {
		return nil
	}
	c := *f
	if c > 1 && c <= 100 {
		c /= 100
	}
	if c < 0 || c > 1 {
		return nil
	}
	return &c
}

var yesTokens = map[string]bool{"y": true, "yes": true, "ja": true, "j": true, "1": true, "true": true, "x": true}

var noTokens = map[string]bool{"n": true, "no": true, "nej": true, "0": true, "false": true}

// IsYes reports whether a confirmation token reads as affirmative. Callers
// interpret tokens at the point of use; normalization keeps them verbatim.
func IsYes(token string) bool {
	return yesTokens[Lower(strings.TrimSpace(token))]
}

// ParseBool interprets a yes/no token. ok is false for anything that is not a
// recognized token, which callers treat as "no value".
func ParseBool(token string) (value, ok bool) {
	t := Lower(strings.TrimSpace(token))
	switch {
	case yesTokens[t]:
		return true, true
	case noTokens[t]:
		return false, true
	}
	return false, false
}
