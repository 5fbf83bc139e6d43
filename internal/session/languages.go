package session

import "strings"

var supportedLanguages = map[string]struct{}{
	"ar": {}, "bg": {}, "cs": {}, "da": {}, "de": {}, "el": {}, "en": {},
	"es": {}, "et": {}, "fi": {}, "fr": {}, "he": {}, "hi": {}, "hu": {},
	"id": {}, "it": {}, "ja": {}, "ko": {}, "lt": {}, "lv": {}, "nb": {},
	"nl": {}, "pl": {}, "pt": {}, "ro": {}, "ru": {}, "sk": {}, "sl": {},
	"sv": {}, "th": {}, "tr": {}, "uk": {}, "vi": {}, "zh": {},
}

// isSupportedLanguage accepts bare codes ("ja") and regional variants
// ("pt-BR"), matching case-insensitively on the base code.
func isSupportedLanguage(code string) bool {
	base := strings.ToLower(strings.TrimSpace(code))
	if i := strings.IndexByte(base, '-'); i > 0 {
		base = base[:i]
	}
	_, ok := supportedLanguages[base]
	return ok
}
