package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/kotoba-study/kotoba-api/internal/apperrors"
)

func TestCreateTermValidation(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()
	key := mustCreate(t, svc, "vocab", nil)

	tests := []struct {
		name    string
		input   CreateTermInput
		wantErr func(error) bool
	}{
		{
			name:    "blank text",
			input:   CreateTermInput{Text: " ", Meaning: "m", CategoryKey: key},
			wantErr: apperrors.IsValidation,
		},
		{
			name:    "blank meaning",
			input:   CreateTermInput{Text: "word", Meaning: "", CategoryKey: key},
			wantErr: apperrors.IsValidation,
		},
		{
			name:    "unknown category",
			input:   CreateTermInput{Text: "word", Meaning: "m", CategoryKey: "missing"},
			wantErr: apperrors.IsNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateTerm(ctx, tt.input)
			if !tt.wantErr(err) {
				t.Fatalf("CreateTerm = %v, want rejection", err)
			}
		})
	}
}

func TestTermLifecycle(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()
	key := mustCreate(t, svc, "vocab", nil)

	term, err := svc.CreateTerm(ctx, CreateTermInput{
		Text:        "  環境  ",
		Meaning:     "environment",
		Example:     "環境を守る",
		CategoryKey: key,
	})
	if err != nil {
		t.Fatalf("CreateTerm failed: %v", err)
	}
	if term.Text != "環境" {
		t.Errorf("text not trimmed: %q", term.Text)
	}

	fav := true
	updated, err := svc.UpdateTerm(ctx, term.ID, UpdateTermInput{IsFavorite: &fav})
	if err != nil {
		t.Fatalf("UpdateTerm failed: %v", err)
	}
	if !updated.IsFavorite {
		t.Error("favorite flag not applied")
	}

	if err := svc.DeleteTerm(ctx, term.ID); err != nil {
		t.Fatalf("DeleteTerm failed: %v", err)
	}
	if _, err := svc.GetTerm(ctx, term.ID); !apperrors.IsNotFound(err) {
		t.Fatalf("GetTerm after delete = %v, want a not-found error", err)
	}
}

func TestUpdateTermUnknownID(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	text := "word"
	_, err := svc.UpdateTerm(context.Background(), uuid.New(), UpdateTermInput{Text: &text})
	if !apperrors.IsNotFound(err) {
		t.Fatalf("UpdateTerm on unknown id = %v, want a not-found error", err)
	}
}

func TestUpdateTermMoveToUnknownCategory(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()
	key := mustCreate(t, svc, "vocab", nil)
	term, err := svc.CreateTerm(ctx, CreateTermInput{Text: "w", Meaning: "m", CategoryKey: key})
	if err != nil {
		t.Fatalf("CreateTerm failed: %v", err)
	}

	_, err = svc.UpdateTerm(ctx, term.ID, UpdateTermInput{CategoryKey: strPtr("missing")})
	if !apperrors.IsNotFound(err) {
		t.Fatalf("move to unknown category = %v, want a not-found error", err)
	}
}

func TestListTerms(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()
	root := mustCreate(t, svc, "root", nil)
	child := mustCreate(t, svc, "child", strPtr(root))

	seed := []struct {
		text     string
		key      string
		favorite bool
	}{
		{text: "r1", key: root, favorite: true},
		{text: "r2", key: root, favorite: false},
		{text: "c1", key: child, favorite: true},
	}
	for _, s := range seed {
		if _, err := svc.CreateTerm(ctx, CreateTermInput{
			Text:        s.text,
			Meaning:     "m",
			CategoryKey: s.key,
			IsFavorite:  s.favorite,
		}); err != nil {
			t.Fatalf("CreateTerm(%q) failed: %v", s.text, err)
		}
	}

	tests := []struct {
		name  string
		input ListTermsInput
		want  int
	}{
		{name: "direct only", input: ListTermsInput{CategoryKey: root}, want: 2},
		{name: "with descendants", input: ListTermsInput{CategoryKey: root, IncludeDescendants: true}, want: 3},
		{name: "favorites in subtree", input: ListTermsInput{CategoryKey: root, IncludeDescendants: true, FavoritesOnly: true}, want: 2},
		{name: "child direct", input: ListTermsInput{CategoryKey: child}, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			terms, err := svc.ListTerms(ctx, tt.input)
			if err != nil {
				t.Fatalf("ListTerms failed: %v", err)
			}
			if len(terms) != tt.want {
				t.Errorf("ListTerms returned %d terms, want %d", len(terms), tt.want)
			}
		})
	}
}

func TestListTermsUnknownCategory(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	_, err := svc.ListTerms(context.Background(), ListTermsInput{CategoryKey: "missing"})
	if !apperrors.IsNotFound(err) {
		t.Fatalf("ListTerms on unknown category = %v, want a not-found error", err)
	}
}
