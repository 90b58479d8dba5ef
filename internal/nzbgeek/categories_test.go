package nzbgeek

import (
	"errors"
	"testing"
)

func TestLookupCategory(t *testing.T) {
	c, ok := LookupCategory(" 2 ")
	if !ok || c.Code != "2000" || c.Name != "Movies" {
		t.Fatalf("LookupCategory(2) = %#v, %v; want Movies/2000", c, ok)
	}
	for _, key := range []string{"0", "9", "", "x"} {
		if _, ok := LookupCategory(key); ok {
			t.Fatalf("LookupCategory(%q) found a category, want miss", key)
		}
	}
}

func TestCategories_ReturnsCopy(t *testing.T) {
	cats := Categories()
	if len(cats) != 8 {
		t.Fatalf("Categories() returned %d entries, want 8", len(cats))
	}
	cats[0].Code = "changed"
	if Categories()[0].Code != "1000" {
		t.Fatalf("Categories() exposed internal slice")
	}
}

func TestCategory_WithSubcategory(t *testing.T) {
	pc, _ := LookupCategory("4")

	tests := []struct {
		sub     string
		want    string
		wantErr bool
	}{
		{"", "4000", false},
		{"   ", "4000", false},
		{"4050", "4050", false},
		{" 4010 ", "4010", false},
		{"40a0", "", true},
		{"-1", "", true},
		{"0000", "", true},
		{"1234567", "", true},
	}
	for _, tt := range tests {
		got, err := pc.WithSubcategory(tt.sub)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidCategory) {
				t.Fatalf("WithSubcategory(%q) error = %v, want ErrInvalidCategory", tt.sub, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("WithSubcategory(%q) = %q, %v; want %q", tt.sub, got, err, tt.want)
		}
	}
}
