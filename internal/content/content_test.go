package content

import (
	"strings"
	"testing"
)

func TestIsGIFURL(t *testing.T) {
	cases := []struct {
		body string
		want bool
	}{
		{"https://media.example.com/celebrate.gif", true},
		{"https://media.example.com/celebrate.GIF?cid=abc", true},
		{"https://media0.giphy.com/media/abc/giphy.mp4", true},
		{"http://example.com/photo.png", false},
		{"what a goal!", false},
		{"check this https://example.com/a.gif out", false},
		{"", false},
		{"example.com/no-scheme.gif", false},
	}

	for _, tc := range cases {
		if got := IsGIFURL(tc.body); got != tc.want {
			t.Errorf("IsGIFURL(%q) = %v, want %v", tc.body, got, tc.want)
		}
	}
}

func TestSanitize(t *testing.T) {
	out := Sanitize(`<script>alert("x")</script>What a goal!`)
	if strings.Contains(out, "script") {
		t.Errorf("script tag survived sanitization: %q", out)
	}
	if !strings.Contains(out, "What a goal!") {
		t.Errorf("text content lost: %q", out)
	}
}

func TestRender_Markdown(t *testing.T) {
	out, err := Render("**late winner** at the Emirates")
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(string(out), "<strong>late winner</strong>") {
		t.Errorf("markdown emphasis not rendered: %q", out)
	}
}

func TestRender_StripsUnsafeHTML(t *testing.T) {
	out, err := Render(`<img src=x onerror=alert(1)> hello`)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if strings.Contains(string(out), "onerror") {
		t.Errorf("unsafe attribute survived: %q", out)
	}
}

func TestRender_GIF(t *testing.T) {
	out, err := Render("https://media.example.com/goal.gif")
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(string(out), `<img src="https://media.example.com/goal.gif"`) {
		t.Errorf("expected inline image tag, got %q", out)
	}
}
