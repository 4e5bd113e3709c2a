package speech

import "strings"

// Voice is an installed speech voice. Lang is a BCP 47 tag such as "en-US".
type Voice struct {
	Name string
	Lang string
}

type voicePredicate func(Voice) bool

func nameHas(parts ...string) voicePredicate {
	return func(v Voice) bool {
		for _, p := range parts {
			if !strings.Contains(v.Name, p) {
				return false
			}
		}
		return true
	}
}

func nameIs(name string) voicePredicate {
	return func(v Voice) bool { return v.Name == name }
}

// voicePreference is tried in order; the first predicate that matches any
// en-US voice wins.
var voicePreference = []voicePredicate{
	nameHas("Samantha", "Enhanced"),
	nameIs("Samantha"),
	nameHas("Ava", "Premium"),
	nameIs("Alex"),
	nameHas("Enhanced"),
	nameIs("Google US English"),
	func(Voice) bool { return true },
}

// PickVoice chooses the preferred US English voice. It reports false when no
// en-US voice is installed, in which case the engine default is used.
func PickVoice(voices []Voice) (Voice, bool) {
	var us []Voice
	for _, v := range voices {
		if v.Lang == "en-US" {
			us = append(us, v)
		}
	}
	for _, pred := range voicePreference {
		for _, v := range us {
			if pred(v) {
				return v, true
			}
		}
	}
	return Voice{}, false
}

// normalizeLang maps engine locale spellings ("en_US", "en-us") to "en-US".
func normalizeLang(lang string) string {
	lang = strings.ReplaceAll(lang, "_", "-")
	head, tail, ok := strings.Cut(lang, "-")
	if !ok {
		return strings.ToLower(head)
	}
	return strings.ToLower(head) + "-" + strings.ToUpper(tail)
}
