// Package lang decides which response language a message calls for.
// Only English and Russian are supported; the heuristic is a straight
// Cyrillic-vs-Latin letter count, which is all the traffic needs.
package lang

const (
	EN = "en"
	RU = "ru"
)

// Detect returns the dominant language of text, or fallback when the text
// carries no alphabetic signal at all.
func Detect(text, fallback string) string {
	if text == "" {
		return fallback
	}
	var cyrillic, latin int
	for _, r := range text {
		switch {
		case r >= 0x0400 && r <= 0x04FF:
			cyrillic++
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			latin++
		}
	}
	if cyrillic > latin && cyrillic > 0 {
		return RU
	}
	if latin > 0 {
		return EN
	}
	return fallback
}
