// Package domain defines core data structures used throughout the chart bot.
package domain

import (
	"fmt"
	"strings"
)

// Language user interface language.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguagePersian Language = "fa"
	LanguageArabic  Language = "ar"
)

// DefaultLanguage is used for sessions that never picked a language.
const DefaultLanguage = LanguageEnglish

// SupportedLanguages lists languages in menu order.
var SupportedLanguages = []Language{LanguageEnglish, LanguagePersian, LanguageArabic}

// ParseLanguage converts a language code into a Language.
func ParseLanguage(code string) (Language, error) {
	lang := Language(strings.ToLower(strings.TrimSpace(code)))
	if !lang.Valid() {
		return "", fmt.Errorf("unsupported language code: %q", code)
	}
	return lang, nil
}

// Valid reports whether the language is supported.
func (l Language) Valid() bool {
	switch l {
	case LanguageEnglish, LanguagePersian, LanguageArabic:
		return true
	}
	return false
}

// FullName returns the English name of the language, used in model prompts.
func (l Language) FullName() string {
	switch l {
	case LanguagePersian:
		return "Persian"
	case LanguageArabic:
		return "Arabic"
	default:
		return "English"
	}
}

// NativeName returns the language name written in that language.
func (l Language) NativeName() string {
	switch l {
	case LanguagePersian:
		return "فارسی"
	case LanguageArabic:
		return "العربية"
	default:
		return "English"
	}
}
