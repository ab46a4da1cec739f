package validation

import (
	"testing"
)

func TestValidateActivityType(t *testing.T) {
	t.Parallel()

	valid := []string{"add_term", "study", "review"}
	for _, v := range valid {
		if err := ValidateActivityType(v); err != nil {
			t.Errorf("ValidateActivityType(%q) = %v, want nil", v, err)
		}
	}

	invalid := []string{"", "Study", "reviews", "nap"}
	for _, v := range invalid {
		if err := ValidateActivityType(v); err == nil {
			t.Errorf("ValidateActivityType(%q) = nil, want error", v)
		}
	}
}

func TestActivityTypeTag(t *testing.T) {
	t.Parallel()

	type payload struct {
		Type string `validate:"required,activity_type"`
	}

	if err := Validate.Struct(payload{Type: "study"}); err != nil {
		t.Errorf("valid type rejected: %v", err)
	}
	if err := Validate.Struct(payload{Type: "nap"}); err == nil {
		t.Error("invalid type accepted")
	}
}

func TestHexColorTag(t *testing.T) {
	t.Parallel()

	type payload struct {
		Color string `validate:"hex_color"`
	}

	valid := []string{"", "#fff", "#AABBCC", "#123abc"}
	for _, v := range valid {
		if err := Validate.Struct(payload{Color: v}); err != nil {
			t.Errorf("hex_color rejected %q: %v", v, err)
		}
	}

	invalid := []string{"red", "#ffff", "#12345g", "fff", "#1234567"}
	for _, v := range invalid {
		if err := Validate.Struct(payload{Color: v}); err == nil {
			t.Errorf("hex_color accepted %q", v)
		}
	}
}

func TestSanitizeText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"trims", "  hello  ", "hello"},
		{"keeps newline and tab", "a\nb\tc", "a\nb\tc"},
		{"drops control characters", "a\x00b\x1bc", "abc"},
		{"unicode untouched", "環境を守る", "環境を守る"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := SanitizeText(tt.in); got != tt.want {
				t.Errorf("SanitizeText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
