package i18n

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"
)

// matcher maps arbitrary BCP 47 tags onto the supported languages.
// The first entry is the default returned when nothing matches.
var matcher = language.NewMatcher([]language.Tag{
	language.Spanish,
	language.English,
	language.French,
})

// Resolve returns the supported language id closest to lang.
// Exact ids are returned as is. Regional or differently-cased tags
// ("en-GB", "FR_ca") resolve to their base language, and anything
// unsupported or unparsable resolves to DefaultLanguage.
func Resolve(lang string) string {
	if _, ok := tables[lang]; ok {
		return lang
	}

	normalized := strings.ReplaceAll(strings.TrimSpace(lang), "_", "-")
	if normalized == "" {
		return DefaultLanguage
	}

	_, index, confidence := matcher.Match(language.Make(normalized))
	if confidence == language.No || index < 0 || index >= len(supported) {
		return DefaultLanguage
	}
	return supported[index]
}

// IsSupported reports whether lang is one of the supported ids exactly.
func IsSupported(lang string) bool {
	_, ok := tables[lang]
	return ok
}

// Languages returns the supported language ids in menu order.
func Languages() []string {
	out := make([]string, len(supported))
	copy(out, supported)
	return out
}

// Flag returns the menu flag for lang.
func Flag(lang string) string {
	if f, ok := flags[lang]; ok {
		return f
	}
	return unknownFlag
}

// Translate returns the text for key in lang.
// Unsupported languages use the DefaultLanguage table. A key missing from
// the table is returned as is. Every {N} placeholder is replaced by
// fmt.Sprint of the N-th argument.
func Translate(lang, key string, args ...any) string {
	table, ok := tables[lang]
	if !ok {
		table = tables[DefaultLanguage]
	}

	text, ok := table[key]
	if !ok {
		text = key
	}

	for i, arg := range args {
		text = strings.ReplaceAll(text, "{"+strconv.Itoa(i)+"}", fmt.Sprint(arg))
	}
	return text
}

// Translator is bound to a single language.
// It is a value type and safe to copy.
type Translator struct {
	lang string
}

// New returns a Translator for the supported language closest to lang.
func New(lang string) Translator {
	return Translator{lang: Resolve(lang)}
}

// Language returns the resolved language id.
func (t Translator) Language() string {
	return t.lang
}

// T translates key with positional arguments.
func (t Translator) T(key string, args ...any) string {
	return Translate(t.lang, key, args...)
}
