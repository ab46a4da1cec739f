package catalog

import "testing"

func TestDeriveKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "simple", in: "Grammar", want: "grammar"},
		{name: "spaces collapse", in: "Business   English", want: "business_english"},
		{name: "surrounding space trimmed", in: "  Verbs  ", want: "verbs"},
		{name: "punctuation dropped", in: "N5: Vocab (basic)", want: "n5_vocab_basic"},
		{name: "hyphen and underscore kept", in: "jlpt-n5_kanji", want: "jlpt-n5_kanji"},
		{name: "japanese letters kept", in: "英語", want: "英語"},
		{name: "mixed scripts", in: "英語 Vocab", want: "英語_vocab"},
		{name: "digits kept", in: "Level 2", want: "level_2"},
		{name: "only punctuation", in: "!!!", want: ""},
		{name: "empty", in: "", want: ""},
		{name: "trailing separator trimmed", in: "cats & ", want: "cats"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := DeriveKey(tt.in); got != tt.want {
				t.Errorf("DeriveKey(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
