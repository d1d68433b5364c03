package ingest

import (
	"reflect"
	"strings"
	"testing"
)

func TestTokenizerBasic(t *testing.T) {
	tokenizer := NewTokenizer(nil)

	tokens := tokenizer.Tokenize("壓力 壓力 睡眠 飲食")

	expected := []string{"壓力", "壓力", "睡眠", "飲食"}
	if !reflect.DeepEqual(tokens, expected) {
		t.Errorf("Expected %v, got %v", expected, tokens)
	}
}

func TestTokenizerPreservesOrderAndCase(t *testing.T) {
	tokenizer := NewTokenizer(nil)

	tokens := tokenizer.Tokenize("Quick brown FOX quick")

	expected := []string{"Quick", "brown", "FOX", "quick"}
	if !reflect.DeepEqual(tokens, expected) {
		t.Errorf("Tokens should keep case and order: expected %v, got %v", expected, tokens)
	}
}

func TestTokenizerStripsPunctuationBeforeSplitting(t *testing.T) {
	tokenizer := NewTokenizer(nil)

	tests := []struct {
		name string
		text string
		want []string
	}{
		{"ascii punctuation", "hello, world!", []string{"hello", "world"}},
		{"cjk punctuation", "壓力，睡眠。飲食！", []string{"壓力睡眠飲食"}},
		{"symbols inside word", "hello@world.com", []string{"helloworldcom"}},
		{"underscore kept", "snake_case", []string{"snake_case"}},
		{"digits kept", "covid19 2024", []string{"covid19", "2024"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tokenizer.Tokenize(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestTokenizerEmptyInput(t *testing.T) {
	tokenizer := NewTokenizer(nil)

	if tokens := tokenizer.Tokenize(""); len(tokens) != 0 {
		t.Error("Empty input should produce empty output")
	}
}

func TestTokenizerNoAlphanumericContent(t *testing.T) {
	tokenizer := NewTokenizer(nil)

	tokens := tokenizer.Tokenize("!!! ... ，。？ @#$%")
	if len(tokens) != 0 {
		t.Errorf("Punctuation-only input should produce 0 tokens, got %v", tokens)
	}
}

func TestTokenizerWhitespaceOnly(t *testing.T) {
	tokenizer := NewTokenizer(nil)

	tokens := tokenizer.Tokenize("   \t\n\r　  ")
	if len(tokens) != 0 {
		t.Errorf("Whitespace-only input should produce 0 tokens, got %d", len(tokens))
	}
}

func TestTokenizerDictionarySegmentation(t *testing.T) {
	tokenizer := NewTokenizer(nil)
	tokenizer.SetDictionary(NewDictionaryWith(nil, []string{"壓力", "睡眠", "飲食"}))

	tokens := tokenizer.Tokenize("今天壓力很大，影響睡眠與飲食。")

	// Without a segmenter unknown runs between known terms stay together
	expected := []string{"今天", "壓力", "很大影響", "睡眠", "與", "飲食"}
	if !reflect.DeepEqual(tokens, expected) {
		t.Errorf("Expected %v, got %v", expected, tokens)
	}
}

func TestTokenizerSegmentsUnknownWords(t *testing.T) {
	tokenizer := NewTokenizer(nil)
	tokenizer.SetDictionary(NewDictionary([]string{"壓力", "睡眠", "飲食"}))

	tokens := tokenizer.Tokenize("今天壓力很大，影響睡眠與飲食。")

	has := map[string]bool{}
	for _, tok := range tokens {
		has[tok] = true
	}
	for _, w := range []string{"壓力", "影響", "睡眠", "飲食"} {
		if !has[w] {
			t.Errorf("Expected %q among %v", w, tokens)
		}
	}
	if has["很大影響"] {
		t.Errorf("Unknown run should be cut into words, got %v", tokens)
	}
}

func TestTokenizerStopwords(t *testing.T) {
	tokenizer := NewTokenizer([]string{"的"})
	tokenizer.SetDictionary(NewDictionary([]string{"睡眠", "品質"}))

	tokens := tokenizer.Tokenize("睡眠的品質")
	expected := []string{"睡眠", "品質"}
	if !reflect.DeepEqual(tokens, expected) {
		t.Errorf("Expected %v, got %v", expected, tokens)
	}
}

func TestAddRemoveStopword(t *testing.T) {
	tokenizer := NewTokenizer([]string{"the"})

	tokens := tokenizer.Tokenize("the cat")
	if len(tokens) != 1 || tokens[0] != "cat" {
		t.Error("Should filter 'the'")
	}

	tokenizer.RemoveStopword("the")
	tokens = tokenizer.Tokenize("the cat")
	if len(tokens) != 2 {
		t.Error("'the' should not be filtered after removal")
	}

	tokenizer.AddStopword("the")
	tokens = tokenizer.Tokenize("the cat")
	if len(tokens) != 1 || tokens[0] != "cat" {
		t.Error("Should filter 'the' after re-adding")
	}
}

func TestTokenizerStopwordsAreCaseSensitive(t *testing.T) {
	tokenizer := NewTokenizer([]string{"the"})

	tokens := tokenizer.Tokenize("The the")
	if len(tokens) != 1 || tokens[0] != "The" {
		t.Errorf("Only exact stopword matches should be removed, got %v", tokens)
	}
}

func TestTokenizerWidthFolding(t *testing.T) {
	tokenizer := NewTokenizer(nil)

	if tokens := tokenizer.Tokenize("ＡＩ"); len(tokens) != 1 || tokens[0] != "ＡＩ" {
		t.Errorf("Without folding full-width text should be kept, got %v", tokens)
	}

	tokenizer.SetWidthFolding(true)
	if tokens := tokenizer.Tokenize("ＡＩ　健康"); !reflect.DeepEqual(tokens, []string{"AI", "健康"}) {
		t.Errorf("Full-width letters should fold to ASCII, got %v", tokens)
	}
}

func TestTokenizerMixedScripts(t *testing.T) {
	tokenizer := NewTokenizer(nil)

	tokens := tokenizer.Tokenize("AI健康管理")
	expected := []string{"AI", "健康管理"}
	if !reflect.DeepEqual(tokens, expected) {
		t.Errorf("Expected %v, got %v", expected, tokens)
	}
}

func TestTokenizerVeryLongWord(t *testing.T) {
	tokenizer := NewTokenizer(nil)

	longWord := strings.Repeat("verylongword", 20)
	tokens := tokenizer.Tokenize("normal " + longWord + " text")

	if len(tokens) != 3 {
		t.Errorf("Expected 3 tokens, got %d", len(tokens))
	}
}

func TestTokenizerUnicodeCharacters(t *testing.T) {
	tokenizer := NewTokenizer(nil)

	tokens := tokenizer.Tokenize("café résumé naïve")
	expected := []string{"café", "résumé", "naïve"}
	if !reflect.DeepEqual(tokens, expected) {
		t.Errorf("Expected %v, got %v", expected, tokens)
	}
}

func TestClean(t *testing.T) {
	if got := Clean("a-b, c!"); got != "ab c" {
		t.Errorf("Clean = %q, want %q", got, "ab c")
	}
}
