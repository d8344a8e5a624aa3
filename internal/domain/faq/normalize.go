package faq

import (
	"strings"
	"unicode"
)

// NormalizationProfile selects how question text is cleaned before
// embedding. The profile used at corpus-build time must match the one used
// at query time: mismatched normalization degrades match quality silently.
type NormalizationProfile string

const (
	// ProfileBasic lowercases, trims and collapses internal whitespace.
	ProfileBasic NormalizationProfile = "basic"
	// ProfileStrict additionally drops punctuation outside .,!?;:
	ProfileStrict NormalizationProfile = "strict"
)

// SanitizeProfile maps unknown values onto the default profile.
func SanitizeProfile(p NormalizationProfile) NormalizationProfile {
	switch p {
	case ProfileBasic, ProfileStrict:
		return p
	default:
		return ProfileBasic
	}
}

// NormalizeQuestion applies the given profile to raw question text.
func NormalizeQuestion(text string, profile NormalizationProfile) string {
	lowered := strings.ToLower(strings.TrimSpace(text))
	if SanitizeProfile(profile) == ProfileStrict {
		lowered = stripPunctuation(lowered)
	}
	return strings.Join(strings.Fields(lowered), " ")
}

func stripPunctuation(s string) string {
	var builder strings.Builder
	builder.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			builder.WriteRune(r)
			continue
		}
		switch r {
		case '.', ',', '!', '?', ';', ':':
			builder.WriteRune(r)
		}
	}
	return builder.String()
}
