package ingest

import (
	"strings"
	"testing"
)

func TestPlainTextStripsMarkup(t *testing.T) {
	got := PlainText(`<p>壓力 <b>睡眠</b></p><script>var x = 1;</script><style>p{}</style><div>飲食</div>`)

	if strings.Contains(got, "<") || strings.Contains(got, "var x") || strings.Contains(got, "p{}") {
		t.Errorf("Markup, scripts and styles should be removed, got %q", got)
	}

	tokens := NewTokenizer(nil).Tokenize(got)
	want := []string{"壓力", "睡眠", "飲食"}
	if strings.Join(tokens, ",") != strings.Join(want, ",") {
		t.Errorf("Expected tokens %v, got %v", want, tokens)
	}
}

func TestPlainTextSeparatesBlocks(t *testing.T) {
	got := PlainText("<p>first</p><p>second</p>")

	tokens := NewTokenizer(nil).Tokenize(got)
	if len(tokens) != 2 {
		t.Errorf("Adjacent paragraphs should not fuse, got %v", tokens)
	}
}

func TestPlainTextPlainInput(t *testing.T) {
	if got := PlainText("just text"); got != "just text" {
		t.Errorf("Plain input should pass through, got %q", got)
	}
}
