package util

import (
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strictHTMLPolicy = bluemonday.StrictPolicy()

func ValidateEmail(email string) bool {
	re := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	return re.MatchString(email)
}

func ValidateUsername(username string) bool {
	return len(username) >= 3 && len(username) <= 30
}

func ValidatePassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	hasLower := regexp.MustCompile("[a-z]").MatchString(password)
	hasUpper := regexp.MustCompile("[A-Z]").MatchString(password)
	hasDigit := regexp.MustCompile("[0-9]").MatchString(password)
	hasSpecial := regexp.MustCompile(`[^A-Za-z0-9]`).MatchString(password)

	return hasLower && hasUpper && hasDigit && hasSpecial
}

// SanitizeText strips all HTML from user-authored text (rule titles, notes,
// tags) before it is stored or echoed back.
func SanitizeText(s string) string {
	return strings.TrimSpace(strictHTMLPolicy.Sanitize(s))
}

// SanitizeTags sanitizes each tag and drops the ones that end up empty.
func SanitizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if clean := SanitizeText(tag); clean != "" {
			out = append(out, clean)
		}
	}
	return out
}
