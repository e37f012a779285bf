package shipping

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Wilayas is the carrier's reference spelling of the 58 Algerian wilayas,
// in official code order.
var Wilayas = []string{
	"Adrar", "Chlef", "Laghouat", "Oum El Bouaghi", "Batna", "Bejaia", "Biskra", "Bechar",
	"Blida", "Bouira", "Tamanrasset", "Tebessa", "Tlemcen", "Tiaret", "Tizi Ouzou", "Alger",
	"Djelfa", "Jijel", "Setif", "Saida", "Skikda", "Sidi Bel Abbes", "Annaba", "Guelma",
	"Constantine", "Medea", "Mostaganem", "M'Sila", "Mascara", "Ouargla", "Oran", "El Bayadh",
	"Illizi", "Bordj Bou Arreridj", "Boumerdes", "El Tarf", "Tindouf", "Tissemsilt", "El Oued",
	"Khenchela", "Souk Ahras", "Tipaza", "Mila", "Ain Defla", "Naama", "Ain Temouchent",
	"Ghardaia", "Relizane", "Timimoun", "Bordj Badji Mokhtar", "Ouled Djellal", "Beni Abbes",
	"In Salah", "In Guezzam", "Touggourt", "Djanet", "El M'Ghair", "El Meniaa",
}

var wilayaByLower = func() map[string]string {
	m := make(map[string]string, len(Wilayas))
	for _, w := range Wilayas {
		m[strings.ToLower(w)] = w
	}
	return m
}()

var (
	indexPrefix = regexp.MustCompile(`^\s*\d+\s*[-–—]\s*`)
	spaces      = regexp.MustCompile(`\s+`)
	apostrophes = strings.NewReplacer("’", "'", "`", "'")
)

func stripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// NormalizeWilaya cleans a free-text wilaya the way customers type it:
// "16 - Algér" becomes "Alger". It does not check the reference list.
func NormalizeWilaya(raw string) string {
	v := strings.TrimSpace(raw)
	if v == "" {
		return ""
	}
	v = indexPrefix.ReplaceAllString(v, "")
	v = strings.TrimSpace(spaces.ReplaceAllString(v, " "))
	v = stripDiacritics(v)
	v = strings.TrimSpace(apostrophes.Replace(v))
	if strings.EqualFold(v, "algiers") {
		return "Alger"
	}
	return v
}

// ResolveWilaya maps raw input to its reference spelling.
func ResolveWilaya(raw string) (string, bool) {
	n := NormalizeWilaya(raw)
	if n == "" {
		return "", false
	}
	w, ok := wilayaByLower[strings.ToLower(n)]
	return w, ok
}
