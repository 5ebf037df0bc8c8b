package triage

import "strings"

// Language is a Sarvam-style BCP-47 code such as "hi-IN". English is the
// pivot language for model inference; everything else is translated at the
// boundary.
type Language string

const (
	English   Language = "en-IN"
	Hindi     Language = "hi-IN"
	Bengali   Language = "bn-IN"
	Tamil     Language = "ta-IN"
	Telugu    Language = "te-IN"
	Marathi   Language = "mr-IN"
	Kannada   Language = "kn-IN"
	Gujarati  Language = "gu-IN"
	Malayalam Language = "ml-IN"
	Punjabi   Language = "pa-IN"
	Odia      Language = "od-IN"
)

// languageNames maps the codes to the display names the chat widget shows.
var languageNames = map[Language]string{
	English:   "English",
	Hindi:     "हिंदी",
	Bengali:   "বাংলা",
	Tamil:     "தமிழ்",
	Telugu:    "తెలుగు",
	Marathi:   "मराठी",
	Kannada:   "ಕನ್ನಡ",
	Gujarati:  "ગુજરાતી",
	Malayalam: "മലയാളം",
	Punjabi:   "ਪੰਜਾਬੀ",
	Odia:      "ଓଡ଼ିଆ",
}

// SupportedLanguages lists every language the service accepts, English first.
func SupportedLanguages() []Language {
	return []Language{
		English, Hindi, Bengali, Tamil, Telugu, Marathi,
		Kannada, Gujarati, Malayalam, Punjabi, Odia,
	}
}

// ParseLanguage resolves a form value into a supported language. It accepts
// the full code ("hi-IN"), the short code ("hi") and the display name the
// widget sends ("हिंदी").
func ParseLanguage(raw string) (Language, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return English, true
	}

	for lang, name := range languageNames {
		if name == value {
			return lang, true
		}
	}

	normalized := strings.ToLower(value)
	if normalized == "english" {
		return English, true
	}
	for _, lang := range SupportedLanguages() {
		code := strings.ToLower(string(lang))
		if normalized == code || normalized == strings.TrimSuffix(code, "-in") {
			return lang, true
		}
	}

	return "", false
}

// Name returns the display name for the language, defaulting to English.
func (l Language) Name() string {
	if name, ok := languageNames[l]; ok {
		return name
	}
	return "English"
}

// IsEnglish reports whether translation can be skipped for this language.
func (l Language) IsEnglish() bool {
	return l == English
}
