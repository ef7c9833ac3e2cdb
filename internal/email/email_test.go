package email

import "testing"

func TestNormalizeSubject(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"Re: Intro call", "Intro call"},
		{"RE: re: Fwd: Intro call", "Intro call"},
		{"AW: Intro call", "Intro call"},
		{"WG: Betreff: Intro call", "Intro call"},
		{"Intro call", "Intro call"},
		{"  Re: Intro call  ", "Intro call"},
		{"Respond by Friday", "Respond by Friday"},
		{"", ""},
	}

	for _, tc := range cases {
		if got := NormalizeSubject(tc.input); got != tc.want {
			t.Fatalf("NormalizeSubject(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestNormalizeSubjectIdempotent(t *testing.T) {
	inputs := []string{"Re: Fwd: Intro call", "Intro call", "Tr: Suivi"}
	for _, input := range inputs {
		once := NormalizeSubject(input)
		if twice := NormalizeSubject(once); twice != once {
			t.Fatalf("not idempotent: %q -> %q -> %q", input, once, twice)
		}
	}
}

func TestApplyTemplate(t *testing.T) {
	text := "Hi {{firstName}}, {{calendly}}. Regards to {{partnerName}}."

	got := ApplyTemplate(text, map[string]string{
		TokenFirstName: "Jane",
		TokenCalendly:  "book here",
	})
	want := "Hi Jane, book here. Regards to {{partnerName}}."
	if got != want {
		t.Fatalf("ApplyTemplate = %q, want %q", got, want)
	}
}

func TestApplyTemplateNoTokens(t *testing.T) {
	text := "No tokens here."
	if got := ApplyTemplate(text, map[string]string{TokenFirstName: "Jane"}); got != text {
		t.Fatalf("ApplyTemplate modified text without tokens: %q", got)
	}
	if got := ApplyTemplate(text, nil); got != text {
		t.Fatalf("ApplyTemplate with nil replacements modified text: %q", got)
	}
}

func TestApplyTemplateIdempotentWhenValuesContainNoTokens(t *testing.T) {
	text := "Hi {{firstName}}"
	repl := map[string]string{TokenFirstName: "Jane"}
	once := ApplyTemplate(text, repl)
	if twice := ApplyTemplate(once, repl); twice != once {
		t.Fatalf("not idempotent: %q -> %q", once, twice)
	}
}

func TestBuildHTMLBody(t *testing.T) {
	got := BuildHTMLBody("Hi Jane,\nHow are you?", "<b>Sig</b>", true)
	want := "Hi Jane,<br/>How are you?<br/><br/><b>Sig</b>"
	if got != want {
		t.Fatalf("BuildHTMLBody = %q, want %q", got, want)
	}
}

func TestBuildHTMLBodyNoDoubleSeparator(t *testing.T) {
	got := BuildHTMLBody("Hi Jane,\n", "<b>Sig</b>", true)
	want := "Hi Jane,<br/><b>Sig</b>"
	if got != want {
		t.Fatalf("BuildHTMLBody = %q, want %q", got, want)
	}
}

func TestBuildHTMLBodySkipsSignature(t *testing.T) {
	if got := BuildHTMLBody("Hi", "<b>Sig</b>", false); got != "Hi" {
		t.Fatalf("BuildHTMLBody = %q, want %q", got, "Hi")
	}
	if got := BuildHTMLBody("Hi", "   ", true); got != "Hi" {
		t.Fatalf("BuildHTMLBody with blank signature = %q, want %q", got, "Hi")
	}
}

func TestExtractFirstName(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"Jane Doe", "Jane"},
		{"  Jane  ", "Jane"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := ExtractFirstName(tc.input); got != tc.want {
			t.Fatalf("ExtractFirstName(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestParseAddressList(t *testing.T) {
	got := ParseAddressList("a@x.com; b@x.com,c@x.com ;; ")
	want := []string{"a@x.com", "b@x.com", "c@x.com"}
	if len(got) != len(want) {
		t.Fatalf("ParseAddressList = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ParseAddressList[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDedupeAddresses(t *testing.T) {
	got := DedupeAddresses([]string{"A@x.com", "a@x.com", "b@x.com", "", "B@X.COM"})
	want := []string{"A@x.com", "b@x.com"}
	if len(got) != len(want) {
		t.Fatalf("DedupeAddresses = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("DedupeAddresses[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestPartnerForwardSubject(t *testing.T) {
	if got := PartnerForwardSubject("Acme"); got != "Forward to partner: Acme" {
		t.Fatalf("PartnerForwardSubject = %q", got)
	}
}
