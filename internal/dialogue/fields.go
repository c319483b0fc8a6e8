package dialogue

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	nonDigit    = regexp.MustCompile(`\D`)
	introPrefix = regexp.MustCompile(`(?i)^\s*(?:my name is|i am|i'm|this is|name is|it's|its)\b`)
	nameSplit   = regexp.MustCompile(`[,\s.]`)
	timePattern = regexp.MustCompile(`(?i)\d{1,2}(?::\d{2})?\s?(?:am|pm)?`)
)

// ExtractPhone normalizes a spoken or typed phone number to 10 bare digits.
// Nine digits are left-padded with a zero.
func ExtractPhone(text string) (string, bool) {
	digits := nonDigit.ReplaceAllString(text, "")
	switch {
	case len(digits) == 10:
		return digits, true
	case len(digits) == 11 && (digits[0] == '0' || digits[0] == '1'):
		return digits[1:], true
	case len(digits) == 9:
		return "0" + digits, true
	}
	return "", false
}

// FormatPhone renders 10 digits as XXX-XXX-XXXX and leaves anything else alone.
func FormatPhone(phone string) string {
	if len(phone) != 10 || nonDigit.MatchString(phone) {
		return phone
	}
	return phone[:3] + "-" + phone[3:6] + "-" + phone[6:]
}

// ExtractName pulls a first name out of a self-introduction.
func ExtractName(text string) (string, bool) {
	rest := strings.TrimSpace(introPrefix.ReplaceAllString(text, ""))
	if rest == "" {
		return "", false
	}

	first := nameSplit.Split(rest, 2)[0]
	first = strings.TrimFunc(first, func(r rune) bool { return !unicode.IsLetter(r) })
	runes := []rune(strings.ToLower(first))
	if len(runes) < 2 {
		return "", false
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes), true
}

// ExtractTime captures a clock time such as "6pm" or "6:30 PM" verbatim,
// falling back to the whole utterance.
func ExtractTime(text string) string {
	if m := strings.TrimSpace(timePattern.FindString(text)); m != "" {
		return m
	}
	return strings.TrimSpace(text)
}
