package tenants

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Tenant is one merchant organisation, reachable under /{ID}.
type Tenant struct {
	ID   string `json:"id"`   // URL path segment, case-sensitive
	Name string `json:"name"` // Display name shown on the tenant's login page
}

var idPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,62}$`)

// reserved first path segments that belong to the portal itself
var reserved = map[string]struct{}{
	"dashboard":   {},
	"login":       {},
	"logout":      {},
	"api":         {},
	"static":      {},
	"css":         {},
	"js":          {},
	"healthz":     {},
	"favicon.ico": {},
}

// ValidID reports whether id can name a tenant.
func ValidID(id string) bool {
	if _, isReserved := reserved[id]; isReserved {
		return false
	}
	return idPattern.MatchString(id)
}

// DisplayName derives a title from a tenant id: "kudu-restaurant" becomes "Kudu Restaurant".
func DisplayName(id string) string {
	words := strings.FieldsFunc(id, func(r rune) bool {
		return r == '-' || r == '_'
	})
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
