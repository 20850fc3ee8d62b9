package repository

import "testing"

func TestLikePattern(t *testing.T) {
	cases := []struct {
		name  string
		query string
		want  string
	}{
		{"empty matches everything", "", "%%"},
		{"plain text", "mug", "%mug%"},
		{"lowercased", "MUG", "%mug%"},
		{"percent escaped", "100%", `%100\%%`},
		{"underscore escaped", "a_b", `%a\_b%`},
		{"backslash escaped first", `a\b`, `%a\\b%`},
		{"combined metacharacters", `50%_off\`, `%50\%\_off\\%`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := likePattern(tc.query); got != tc.want {
				t.Fatalf("likePattern(%q): got %q want %q", tc.query, got, tc.want)
			}
		})
	}
}
