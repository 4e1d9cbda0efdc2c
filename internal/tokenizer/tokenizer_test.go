package tokenizer

import "testing"

type testCounter struct{}

func (testCounter) Name() string { return "stub" }

func (testCounter) CountString(input string) (int, error) { return len([]rune(input)), nil }

func TestCountText(t *testing.T) {
	tokens, err := CountText(testCounter{}, "hello")
	if err != nil {
		t.Fatalf("CountText error: %v", err)
	}
	if tokens != len([]rune("hello")) {
		t.Fatalf("expected %d tokens, got %d", len([]rune("hello")), tokens)
	}
}

func TestCountTextInvalidUTF8(t *testing.T) {
	tokens, err := CountText(testCounter{}, "caf\xe9 au lait")
	if err != nil {
		t.Fatalf("CountText error: %v", err)
	}
	if tokens != len([]rune("caf\uFFFD au lait")) {
		t.Fatalf("expected invalid byte to be counted as a replacement character, got %d tokens", tokens)
	}
}

func TestCountTextNilCounter(t *testing.T) {
	if _, err := CountText(nil, "hello"); err == nil {
		t.Fatalf("expected error for nil counter")
	}
}
