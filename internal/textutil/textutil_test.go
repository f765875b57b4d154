package textutil

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello world"},
		{"  Hello\n\tWorld  ", "hello world"},
		{"MIXED Case\r\nText", "mixed case text"},
		{"", ""},
		{"   \n  ", ""},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSimilarityIdentical(t *testing.T) {
	if got := Similarity("The quick brown fox", "the  quick\nbrown fox"); got != 1 {
		t.Fatalf("whitespace/case variants should be identical, got %v", got)
	}
	if got := Similarity("", ""); got != 1 {
		t.Fatalf("two empty strings should be identical, got %v", got)
	}
}

func TestSimilarityDisjoint(t *testing.T) {
	if got := Similarity("abc", ""); got != 0 {
		t.Fatalf("empty vs non-empty should be 0, got %v", got)
	}
	if got := Similarity("aaaa", "zzzz"); got != 0 {
		t.Fatalf("fully different strings should be 0, got %v", got)
	}
}

func TestSimilarityPartial(t *testing.T) {
	got := Similarity("hello world", "hello word")
	if got <= 0.8 || got >= 1 {
		t.Fatalf("one-edit similarity = %v, want in (0.8, 1)", got)
	}

	near := Similarity("the meeting starts at noon", "the meeting starts at noon.")
	far := Similarity("the meeting starts at noon", "budget review for next quarter")
	if near <= far {
		t.Fatalf("expected near (%v) > far (%v)", near, far)
	}
}
