package emergency

import "strings"

// urgentPhrases is the fixed set of critical-symptom phrases. Matching is a
// case-insensitive substring scan against the raw, untranslated input so a
// slow or failing translation call can never delay an escalation.
//
// The list is English-biased; whether users in other languages are expected
// to type these terms in transliterated form is an open product question.
var urgentPhrases = []string{
	"chest pain",
	"breathless",
	"unconscious",
	"bleeding heavily",
	"severe headache",
	"can't breathe",
	"cannot breathe",
	"heart attack",
	"stroke",
	"poisoning",
	"severe burn",
	"seizure",
	"suicide",
	"overdose",
}

// Emergency contact numbers surfaced alongside the escalation payload.
var Contacts = map[string]string{
	"ambulance": "108",
	"police":    "100",
	"fire":      "101",
}

// Scan returns every urgent phrase contained in text.
func Scan(text string) []string {
	normalized := strings.ToLower(text)
	if strings.TrimSpace(normalized) == "" {
		return nil
	}

	var found []string
	for _, phrase := range urgentPhrases {
		if strings.Contains(normalized, phrase) {
			found = append(found, phrase)
		}
	}
	return found
}

// Matches reports whether text mentions any critical symptom.
func Matches(text string) bool {
	return len(Scan(text)) > 0
}
