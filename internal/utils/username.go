package utils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var usernameStripRegex = regexp.MustCompile(`[^a-zA-Z0-9_]`)

// DeriveUsername builds a candidate username from an email's local part,
// stripped to [A-Za-z0-9_]. If nothing usable remains (or the email is
// empty) a time-based placeholder is returned. Collision resolution is the
// caller's job.
func DeriveUsername(email string) string {
	if email == "" {
		return placeholderUsername()
	}

	local := email
	if at := strings.Index(email, "@"); at >= 0 {
		local = email[:at]
	}

	candidate := usernameStripRegex.ReplaceAllString(local, "")
	if candidate == "" {
		return placeholderUsername()
	}

	return candidate
}

func placeholderUsername() string {
	return fmt.Sprintf("user%d", time.Now().UnixMilli())
}
