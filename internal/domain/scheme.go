package domain

// IndexScheme controls how Japanese readings are written to the index.
type IndexScheme string

const (
	// SchemeNativeJapanese writes readings only when they differ from the
	// name, with punctuation removed.
	SchemeNativeJapanese IndexScheme = "NATIVE_JAPANESE"
	// SchemeRomanizedJapanese additionally writes Hepburn-romanized readings
	// for Japanese names.
	SchemeRomanizedJapanese IndexScheme = "ROMANIZED_JAPANESE"
	// SchemeWithoutJapanese applies no Japanese-specific reading processing.
	SchemeWithoutJapanese IndexScheme = "WITHOUT_JP_LANG_PROCESSING"
)

// ParseIndexScheme resolves a scheme name. The empty string selects
// SchemeNativeJapanese.
func ParseIndexScheme(name string) (IndexScheme, bool) {
	switch IndexScheme(name) {
	case "", SchemeNativeJapanese:
		return SchemeNativeJapanese, true
	case SchemeRomanizedJapanese:
		return SchemeRomanizedJapanese, true
	case SchemeWithoutJapanese:
		return SchemeWithoutJapanese, true
	default:
		return "", false
	}
}
