package validate

import (
	"fmt"
	"regexp"
	"strings"
)

var reEmail = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

const maxEmailLen = 254

// Field is one named value taken from a parsed request body.
type Field struct {
	Name  string
	Value string
}

// Required returns, in order, the names of fields that are absent or empty.
func Required(fields ...Field) []string {
	var missing []string
	for _, f := range fields {
		if f.Value == "" {
			missing = append(missing, f.Name)
		}
	}
	return missing
}

func MissingMessage(missing []string) string {
	return fmt.Sprintf("Required Parameters %s are missing", strings.Join(missing, ", "))
}

// Patterns holds the email and password format rules. A nil password
// pattern means the built-in strength policy applies.
type Patterns struct {
	email    *regexp.Regexp
	password *regexp.Regexp
}

func Default() Patterns { return Patterns{email: reEmail} }

// Compile builds Patterns from configured expressions; an empty expression
// keeps the default for that field.
func Compile(emailPattern, passwordPattern string) (Patterns, error) {
	p := Default()
	if emailPattern != "" {
		re, err := regexp.Compile(emailPattern)
		if err != nil {
			return Patterns{}, fmt.Errorf("email pattern: %w", err)
		}
		p.email = re
	}
	if passwordPattern != "" {
		re, err := regexp.Compile(passwordPattern)
		if err != nil {
			return Patterns{}, fmt.Errorf("password pattern: %w", err)
		}
		p.password = re
	}
	return p, nil
}

// Email trims s and reports whether it is a plausible address.
func (p Patterns) Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > maxEmailLen {
		return "", false
	}
	re := p.email
	if re == nil {
		re = reEmail
	}
	return s, re.MatchString(s)
}

func (p Patterns) Password(s string) bool {
	if p.password != nil {
		return p.password.MatchString(s)
	}
	return strong(s)
}

// strong requires 8-64 characters with a lower, an upper, a digit and a symbol.
func strong(s string) bool {
	l := len(s)
	if l < 8 || l > 64 {
		return false
	}
	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range s {
		switch {
		case 'a' <= r && r <= 'z':
			hasLower = true
		case 'A' <= r && r <= 'Z':
			hasUpper = true
		case '0' <= r && r <= '9':
			hasDigit = true
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			return false
		default:
			hasSymbol = true
		}
	}
	return hasLower && hasUpper && hasDigit && hasSymbol
}
