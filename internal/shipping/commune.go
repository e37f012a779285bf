package shipping

import (
	"strings"
	"unicode/utf8"

	"github.com/Skotchmaster/storefront/internal/models"
)

// DeriveCommune guesses the commune from the first segment of a free-text
// address, e.g. "Kouba, Rue 5, Alger" gives "Kouba".
func DeriveCommune(address string) string {
	i := strings.IndexAny(address, `,-\`)
	first := address
	if i >= 0 {
		first = address[:i]
	}
	first = strings.TrimSpace(first)
	if n := utf8.RuneCountInString(first); n < 2 || n > 50 {
		return ""
	}
	return first
}

// ResolveCommune prefers the commune stored on the order, then one derived
// from the address, then the configured default. Empty means none found.
func ResolveCommune(o models.Order, defaultCommune string) string {
	if o.Commune != nil {
		if c := strings.TrimSpace(*o.Commune); c != "" {
			return c
		}
	}
	if c := DeriveCommune(o.Address); c != "" {
		return c
	}
	return strings.TrimSpace(defaultCommune)
}
