package engine

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func TestReader_PushbackAndOffset(t *testing.T) {
	r := NewReader(strings.NewReader("  ab"), Limits{})
	c, err := r.NextNonSpace()
	if err != nil || c != 'a' {
		t.Fatalf("got %q %v", c, err)
	}
	if r.Offset() != 3 {
		t.Fatalf("offset=%d", r.Offset())
	}
	r.Unread(c)
	if r.Offset() != 2 {
		t.Fatalf("offset after unread=%d", r.Offset())
	}
	c, _ = r.Next()
	if c != 'a' {
		t.Fatalf("pushback lost, got %q", c)
	}
	c, _ = r.Next()
	if c != 'b' {
		t.Fatalf("got %q", c)
	}
	if _, err := r.Next(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected EOF, got %v", err)
	}
}

func TestReader_ReadQuoted(t *testing.T) {
	r := NewReader(strings.NewReader(`a\"b\\"rest`), Limits{})
	s, err := r.ReadQuoted(0)
	if err != nil {
		t.Fatal(err)
	}
	if s != `a\"b\\` {
		t.Fatalf("got %q", s)
	}
	rest, _ := r.ReadWord(4)
	if rest != "rest" {
		t.Fatalf("got %q", rest)
	}

	r = NewReader(strings.NewReader(`never closed`), Limits{})
	if _, err := r.ReadQuoted(0); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expected unexpected EOF, got %v", err)
	}

	r = NewReader(strings.NewReader(`0123456789"`), Limits{})
	var ie IssueError
	if _, err := r.ReadQuoted(4); !errors.As(err, &ie) || ie.Code != CodeParseError {
		t.Fatalf("expected bounded scan failure, got %v", err)
	}
}

func TestReader_ReadBareName(t *testing.T) {
	r := NewReader(strings.NewReader("access_token  : x"), Limits{})
	s, err := r.ReadBareName()
	if err != nil || s != "access_token" {
		t.Fatalf("got %q %v", s, err)
	}
	r = NewReader(strings.NewReader(strings.Repeat("x", 20)+":"), Limits{LookAhead: 8})
	if _, err := r.ReadBareName(); err == nil {
		t.Fatalf("expected look-ahead failure")
	}
}

func TestReader_ReadNumber(t *testing.T) {
	r := NewReader(strings.NewReader("23.5e+2,"), Limits{})
	s, err := r.ReadNumber('1')
	if err != nil || s != "123.5e+2" {
		t.Fatalf("got %q %v", s, err)
	}
	c, _ := r.Next()
	if c != ',' {
		t.Fatalf("terminator not pushed back, got %q", c)
	}
	r = NewReader(strings.NewReader("42"), Limits{})
	if s, err := r.ReadNumber('-'); err != nil || s != "-42" {
		t.Fatalf("got %q %v", s, err)
	}
}

func TestReader_ReadBraced(t *testing.T) {
	r := NewReader(strings.NewReader(`"a": {"b": "}{"}}, "next"`), Limits{})
	s, err := r.ReadBraced()
	if err != nil {
		t.Fatal(err)
	}
	if s != `{"a": {"b": "}{"}}` {
		t.Fatalf("got %q", s)
	}
}

func TestReader_DepthLimit(t *testing.T) {
	r := NewReader(strings.NewReader(""), Limits{MaxDepth: 2})
	if err := r.Enter(); err != nil {
		t.Fatal(err)
	}
	if err := r.Enter(); err != nil {
		t.Fatal(err)
	}
	var ie IssueError
	if err := r.Enter(); !errors.As(err, &ie) || ie.Code != CodeTooDeep {
		t.Fatalf("expected too deep, got %v", err)
	}
	r.Leave()
	if r.Depth() != 2 {
		t.Fatalf("depth=%d", r.Depth())
	}
}

func TestReader_MaxBytes(t *testing.T) {
	r := NewReader(strings.NewReader("abcdef"), Limits{MaxBytes: 3})
	for i := 0; i < 3; i++ {
		if _, err := r.Next(); err != nil {
			t.Fatal(err)
		}
	}
	var ie IssueError
	if _, err := r.Next(); !errors.As(err, &ie) || ie.Code != CodeTruncated {
		t.Fatalf("expected truncation, got %v", err)
	}
}
