package rules

import (
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// Built-in rule names.
const (
	RuleRequired        = "required"
	RuleMinLength       = "minLength"
	RuleMaxLength       = "maxLength"
	RuleEmail           = "email"
	RulePhone           = "phone"
	RuleNumber          = "number"
	RuleMin             = "min"
	RuleMax             = "max"
	RulePattern         = "pattern"
	RulePassword        = "password"
	RuleConfirmPassword = "confirmPassword"
	RuleAge             = "age"
	RuleDate            = "date"
	RuleURL             = "url"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[+]?[1-9][0-9]{0,15}$`)
	phoneStrip   = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")
)

// passwordSymbols is the punctuation set the password rule accepts as the
// required symbol character.
const passwordSymbols = "!@#$%^&*()_+-=[]{}|;:'\",.<>/?~" + "`" + `\`

// dateLayouts are the calendar formats the date rule accepts.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"01/02/2006",
}

// RegisterBuiltin installs the built-in rule vocabulary into r. Every rule
// except required treats an absent or blank value as passing; requiring a
// value is delegated entirely to the required rule so optional fields stay
// optional.
func RegisterBuiltin(r *Registry) {
	r.MustRegister(RuleRequired, requiredRule, "This field is required")
	r.MustRegister(RuleMinLength, minLengthRule, "Must be at least {length} characters long")
	r.MustRegister(RuleMaxLength, maxLengthRule, "Must be no more than {length} characters long")
	r.MustRegister(RuleEmail, emailRule, "Please enter a valid email address")
	r.MustRegister(RulePhone, phoneRule, "Please enter a valid phone number")
	r.MustRegister(RuleNumber, numberRule, "Please enter a valid number")
	r.MustRegister(RuleMin, minRule, "Value must be at least {value}")
	r.MustRegister(RuleMax, maxRule, "Value must be no more than {value}")
	r.MustRegister(RulePattern, patternRule, "Please match the requested format")
	r.MustRegister(RulePassword, passwordRule, "Password must be at least {minLength} characters and include uppercase, lowercase, number and symbol")
	r.MustRegister(RuleConfirmPassword, confirmPasswordRule, "Passwords do not match")
	r.MustRegister(RuleAge, ageRule, "Age must be between {min} and {max}")
	r.MustRegister(RuleDate, dateRule, "Please enter a valid date")
	r.MustRegister(RuleURL, urlRule, "Please enter a valid URL")
}

func requiredRule(value any, _ Params, _ Form) bool {
	return !IsBlank(value)
}

func minLengthRule(value any, params Params, _ Form) bool {
	if IsBlank(value) {
		return true
	}
	bound, ok := paramInt(params, "length")
	if !ok {
		return true
	}
	return utf8.RuneCountInString(Text(value)) >= bound
}

func maxLengthRule(value any, params Params, _ Form) bool {
	if IsBlank(value) {
		return true
	}
	bound, ok := paramInt(params, "length")
	if !ok {
		return true
	}
	return utf8.RuneCountInString(Text(value)) <= bound
}

func emailRule(value any, _ Params, _ Form) bool {
	if IsBlank(value) {
		return true
	}
	return emailPattern.MatchString(strings.TrimSpace(Text(value)))
}

func phoneRule(value any, _ Params, _ Form) bool {
	if IsBlank(value) {
		return true
	}
	stripped := phoneStrip.Replace(strings.TrimSpace(Text(value)))
	return phonePattern.MatchString(stripped)
}

func numberRule(value any, _ Params, _ Form) bool {
	if IsBlank(value) {
		return true
	}
	_, ok := toFloat(value)
	return ok
}

func minRule(value any, params Params, _ Form) bool {
	if IsBlank(value) {
		return true
	}
	bound, ok := paramFloat(params, "value")
	if !ok {
		return true
	}
	parsed, ok := toFloat(value)
	if !ok {
		return false
	}
	return parsed >= bound
}

func maxRule(value any, params Params, _ Form) bool {
	if IsBlank(value) {
		return true
	}
	bound, ok := paramFloat(params, "value")
	if !ok {
		return true
	}
	parsed, ok := toFloat(value)
	if !ok {
		return false
	}
	return parsed <= bound
}

// patternRule matches anywhere in the value, mirroring a regex "test"; anchor
// the expression with ^ and $ for full-string matching. A pattern that does
// not compile fails the rule rather than passing a value it never checked.
func patternRule(value any, params Params, _ Form) bool {
	if IsBlank(value) {
		return true
	}
	expr, ok := paramString(params, "pattern")
	if !ok || expr == "" {
		return true
	}
	matched, err := regexp.MatchString(expr, Text(value))
	if err != nil {
		return false
	}
	return matched
}

func passwordRule(value any, params Params, _ Form) bool {
	if IsBlank(value) {
		return true
	}
	minLen := 8
	if bound, ok := paramInt(params, "minLength"); ok {
		minLen = bound
	}

	text := Text(value)
	if utf8.RuneCountInString(text) < minLen {
		return false
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range text {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(passwordSymbols, r):
			hasSymbol = true
		}
	}
	return hasUpper && hasLower && hasDigit && hasSymbol
}

func confirmPasswordRule(value any, params Params, form Form) bool {
	if IsBlank(value) {
		return true
	}
	matchField, ok := paramString(params, "matchField")
	if !ok || matchField == "" {
		return false
	}
	if form == nil {
		return false
	}
	other, ok := form[matchField]
	if !ok {
		return false
	}
	return Text(value) == Text(other)
}

func ageRule(value any, params Params, _ Form) bool {
	if IsBlank(value) {
		return true
	}
	age, err := strconv.Atoi(strings.TrimSpace(Text(value)))
	if err != nil {
		return false
	}
	minAge := 0
	if bound, ok := paramInt(params, "min"); ok {
		minAge = bound
	}
	maxAge := 120
	if bound, ok := paramInt(params, "max"); ok {
		maxAge = bound
	}
	return age >= minAge && age <= maxAge
}

func dateRule(value any, _ Params, _ Form) bool {
	if IsBlank(value) {
		return true
	}
	return parseDate(strings.TrimSpace(Text(value)))
}

func urlRule(value any, _ Params, _ Form) bool {
	if IsBlank(value) {
		return true
	}
	parsed, err := url.Parse(strings.TrimSpace(Text(value)))
	if err != nil {
		return false
	}
	return parsed.Scheme != "" && parsed.Host != ""
}

func parseDate(raw string) bool {
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, raw); err == nil {
			return true
		}
	}
	return false
}

// Text renders a field value the way message formatting and comparisons see
// it. nil becomes the empty string.
func Text(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return fmt.Sprint(v)
	}
}

// IsBlank reports whether value is absent for validation purposes: nil, or a
// value whose trimmed text form is empty.
func IsBlank(value any) bool {
	if value == nil {
		return true
	}
	return strings.TrimSpace(Text(value)) == ""
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return finite(v)
	case float32:
		return finite(float64(v))
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return finite(parsed)
	default:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(Text(v)), 64)
		if err != nil {
			return 0, false
		}
		return finite(parsed)
	}
}

func finite(v float64) (float64, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func paramString(params Params, key string) (string, bool) {
	if params == nil {
		return "", false
	}
	raw, ok := params[key]
	if !ok || raw == nil {
		return "", false
	}
	return Text(raw), true
}

func paramInt(params Params, key string) (int, bool) {
	raw, ok := paramString(params, key)
	if !ok {
		return 0, false
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false
	}
	return parsed, true
}

func paramFloat(params Params, key string) (float64, bool) {
	raw, ok := paramString(params, key)
	if !ok {
		return 0, false
	}
	parsed, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, false
	}
	return parsed, true
}
