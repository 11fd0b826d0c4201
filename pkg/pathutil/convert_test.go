package pathutil

import "testing"

func TestToRelative(t *testing.T) {
	cases := []struct {
		name, abs, root, want string
	}{
		{"descendant", "/vault/notes/a.md", "/vault", "notes/a.md"},
		{"outside root", "/other/a.md", "/vault", "/other/a.md"},
		{"already relative", "notes/a.md", "/vault", "notes/a.md"},
		{"empty abs", "", "/vault", ""},
		{"empty root", "/vault/a.md", "", "/vault/a.md"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ToRelative(tc.abs, tc.root); got != tc.want {
				t.Errorf("ToRelative(%q, %q) = %q, want %q", tc.abs, tc.root, got, tc.want)
			}
		})
	}
}

func TestIsWithin(t *testing.T) {
	cases := []struct {
		name, candidate, root string
		want                  bool
	}{
		{"same dir", "/vault", "/vault", true},
		{"descendant", "/vault/build", "/vault", true},
		{"sibling with shared prefix", "/vault-2", "/vault", false},
		{"unrelated", "/other", "/vault", false},
		{"parent", "/", "/vault", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsWithin(tc.candidate, tc.root); got != tc.want {
				t.Errorf("IsWithin(%q, %q) = %v, want %v", tc.candidate, tc.root, got, tc.want)
			}
		})
	}
}
