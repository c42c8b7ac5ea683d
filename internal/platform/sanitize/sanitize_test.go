package sanitize

import (
	"html"
	"testing"
)

func TestText_StripsMarkup(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Acme Corp", "Acme Corp"},
		{"<b>Acme</b> Corp", "Acme Corp"},
		{"<script>alert(1)</script>Acme", "Acme"},
		{`<a href="http://evil">click</a>`, "click"},
		{"  padded  ", "padded"},
		{"", ""},
		{"Tom &amp; Jerry", "Tom & Jerry"},
		{"<img src=x onerror=alert(1)>INV-42", "INV-42"},
	}
	for _, tc := range cases {
		if got := Text(tc.in); got != tc.want {
			t.Errorf("Text(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestText_Fixpoint(t *testing.T) {
	inputs := []string{
		"plain",
		"<b>bold</b>",
		"&lt;b&gt;escaped&lt;/b&gt;",
		"&amp;lt;b&amp;gt;double&amp;lt;/b&amp;gt;",
		"<div><span>nested</span></div>",
	}
	for _, in := range inputs {
		once := Text(in)
		twice := Text(once)
		if once != twice {
			t.Errorf("Text not a fixpoint for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestText_DeeplyLayeredEncoding(t *testing.T) {
	// markup escaped many times over must unwrap completely in one call
	in := "<b>x</b>"
	for i := 0; i < 20; i++ {
		in = html.EscapeString(in)
	}

	once := Text(in)
	if once != "x" {
		t.Fatalf("Text did not fully unwrap layered encoding: got %q", once)
	}
	if twice := Text(once); twice != once {
		t.Fatalf("Text not a fixpoint: first %q, second %q", once, twice)
	}
}
