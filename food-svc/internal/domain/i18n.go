package domain

import "strings"

const DefaultLanguage = "en"

var SupportedLanguages = []string{"en", "es", "ca", "ar"}

// LocalizedText maps a language code to a translation. The DefaultLanguage
// entry is mandatory and is what every lookup falls back to.
type LocalizedText map[string]string

func IsSupportedLanguage(lang string) bool {
	for _, l := range SupportedLanguages {
		if l == lang {
			return true
		}
	}
	return false
}

// NormalizeLanguage accepts values like "es-ES" or "CA" and returns a
// supported code, or DefaultLanguage.
func NormalizeLanguage(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		lang = lang[:i]
	}
	if IsSupportedLanguage(lang) {
		return lang
	}
	return DefaultLanguage
}

func (t LocalizedText) Resolve(lang string) string {
	if s, ok := t[NormalizeLanguage(lang)]; ok && s != "" {
		return s
	}
	return t[DefaultLanguage]
}

func (t LocalizedText) validate(field string, required bool, v *ValidationError) {
	if required && strings.TrimSpace(t[DefaultLanguage]) == "" {
		v.Add(field+"."+DefaultLanguage, "is required")
	}
	for lang := range t {
		if !IsSupportedLanguage(lang) {
			v.Add(field+"."+lang, ErrUnsupportedLanguage.Error())
		}
	}
}
