package answer

import (
	"strings"

	"github.com/abadojack/whatlanggo"
)

// Languages the service localizes for. Anything else falls back to English.
const (
	LangVietnamese = "vi"
	LangEnglish    = "en"
	LangUnknown    = "unknown"
	FallbackLang   = LangEnglish
)

// DetectLanguage identifies the query's language. Unresolvable input yields
// the fallback language; detection never fails a request.
func DetectLanguage(text string) string {
	if strings.TrimSpace(text) == "" {
		return FallbackLang
	}
	info := whatlanggo.Detect(text)
	switch info.Lang {
	case whatlanggo.Vie:
		return LangVietnamese
	case whatlanggo.Eng:
		return LangEnglish
	default:
		return FallbackLang
	}
}

// localized picks the message for lang, falling back to English.
func localized(messages map[string]string, lang string) string {
	if m, ok := messages[lang]; ok {
		return m
	}
	return messages[FallbackLang]
}
