package faq

import "testing"

func TestNormalizeQuestionBasic(t *testing.T) {
	cases := []struct {
		name string
		in   string
		out  string
	}{
		{name: "trims and lowercases", in: "  How Do I Donate?  ", out: "how do i donate?"},
		{name: "collapses internal whitespace", in: "who\t can   get\n help", out: "who can get help"},
		{name: "keeps punctuation", in: "Is it (really) free?", out: "is it (really) free?"},
	}

	for _, tc := range cases {
		if got := NormalizeQuestion(tc.in, ProfileBasic); got != tc.out {
			t.Fatalf("%s: expected %q got %q", tc.name, tc.out, got)
		}
	}
}

func TestNormalizeQuestionStrict(t *testing.T) {
	cases := []struct {
		name string
		in   string
		out  string
	}{
		{name: "keeps sentence punctuation", in: "Hello, is it free?!", out: "hello, is it free?!"},
		{name: "drops other punctuation", in: "free (really) #now", out: "free really now"},
	}

	for _, tc := range cases {
		if got := NormalizeQuestion(tc.in, ProfileStrict); got != tc.out {
			t.Fatalf("%s: expected %q got %q", tc.name, tc.out, got)
		}
	}
}

func TestSanitizeProfileDefaultsToBasic(t *testing.T) {
	if got := SanitizeProfile("aggressive"); got != ProfileBasic {
		t.Fatalf("expected basic, got %s", got)
	}
	if got := SanitizeProfile(ProfileStrict); got != ProfileStrict {
		t.Fatalf("expected strict, got %s", got)
	}
}
