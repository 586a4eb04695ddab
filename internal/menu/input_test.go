package menu

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestParseInt(t *testing.T) {
	if v, err := ParseInt("12"); err != nil || v != 12 {
		t.Fatalf("12: %v %v", v, err)
	}
	if v, err := ParseInt("  -7 extra"); err != nil || v != -7 {
		t.Fatalf("-7: %v %v", v, err)
	}
	for _, bad := range []string{"", "   ", "abc", "1.5", "12abc"} {
		if _, err := ParseInt(bad); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%q: expected invalid input, got %v", bad, err)
		}
	}
}

func TestParseFloat(t *testing.T) {
	if v, err := ParseFloat("2.5"); err != nil || v != 2.5 {
		t.Fatalf("2.5: %v %v", v, err)
	}
	if v, err := ParseFloat("3"); err != nil || v != 3 {
		t.Fatalf("3: %v %v", v, err)
	}
	for _, bad := range []string{"", "two", "NaN", "inf", "-Inf"} {
		if _, err := ParseFloat(bad); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%q: expected invalid input, got %v", bad, err)
		}
	}
}

func TestPrompter_RetriesUntilNumber(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("abc\n\n  \nx1\n42\n"), &out)
	v, err := p.Int("ID: ")
	if err != nil || v != 42 {
		t.Fatalf("got %v %v", v, err)
	}
	if n := strings.Count(out.String(), "Invalid input"); n != 2 {
		t.Fatalf("expected 2 invalid-input messages, got %d: %q", n, out.String())
	}
	if n := strings.Count(out.String(), "ID: "); n != 3 {
		t.Fatalf("expected prompt 3 times, got %d", n)
	}
}

func TestPrompter_EOF(t *testing.T) {
	p := NewPrompter(strings.NewReader("nope\n"), io.Discard)
	if _, err := p.Float("price: "); !errors.Is(err, io.EOF) {
		t.Fatalf("expected EOF, got %v", err)
	}
}

func TestPrompter_LineKeepsSpaces(t *testing.T) {
	p := NewPrompter(strings.NewReader("Whole Milk\r\n"), io.Discard)
	line, err := p.Line("name: ")
	if err != nil || line != "Whole Milk" {
		t.Fatalf("got %q %v", line, err)
	}
}

func TestPrompter_LastLineWithoutNewline(t *testing.T) {
	p := NewPrompter(strings.NewReader("5"), io.Discard)
	if v, err := p.Int(""); err != nil || v != 5 {
		t.Fatalf("got %v %v", v, err)
	}
}
