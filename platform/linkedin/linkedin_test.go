package linkedin

import "testing"

func TestExtractIdentifier(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"full profile url", "https://www.linkedin.com/in/jane-doe-123/", "jane-doe-123"},
		{"url with query", "https://linkedin.com/in/jane-doe?trk=feed", "jane-doe"},
		{"bare slug", "jane-doe", "jane-doe"},
		{"in path", "in/jane-doe", "jane-doe"},
		{"company path", "company/acme-corp", "acme-corp"},
		{"mailto wrapped", "mailto:jane@example.com", ""},
		{"email rejected", "jane@example.com", ""},
		{"empty", "   ", ""},
		{"trailing slashes", "/jane-doe/", "jane-doe"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractIdentifier(tc.input); got != tc.want {
				t.Fatalf("ExtractIdentifier(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestCanonicalProfileURL(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"full url", "https://www.linkedin.com/in/jane-doe-123/", "https://www.linkedin.com/in/jane-doe-123"},
		{"already canonical", "https://www.linkedin.com/in/jane-doe", "https://www.linkedin.com/in/jane-doe"},
		{"bare slug", "jane-doe", "https://www.linkedin.com/in/jane-doe"},
		{"in path", "in/jane-doe", "https://www.linkedin.com/in/jane-doe"},
		{"free text rejected", "Jane Doe, VP Sales", ""},
		{"email rejected", "jane@example.com", ""},
		{"empty", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanonicalProfileURL(tc.input); got != tc.want {
				t.Fatalf("CanonicalProfileURL(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestCanonicalProfileURLIdempotent(t *testing.T) {
	inputs := []string{
		"https://www.linkedin.com/in/jane-doe-123/",
		"jane-doe",
		"in/jane-doe",
	}
	for _, input := range inputs {
		once := CanonicalProfileURL(input)
		if once == "" {
			t.Fatalf("CanonicalProfileURL(%q) unexpectedly empty", input)
		}
		if twice := CanonicalProfileURL(once); twice != once {
			t.Fatalf("not idempotent: %q -> %q -> %q", input, once, twice)
		}
	}
}

func TestSlugifyName(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"Jane Doe", "jane-doe"},
		{"  Jane   Doe  ", "jane-doe"},
		{"Jane O'Brien-Smith", "jane-o-brien-smith"},
		{"ACME, Inc.", "acme-inc"},
		{"---", ""},
		{"", ""},
	}

	for _, tc := range cases {
		if got := SlugifyName(tc.input); got != tc.want {
			t.Fatalf("SlugifyName(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}
