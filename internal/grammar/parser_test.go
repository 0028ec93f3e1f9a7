package grammar

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type lineCase struct {
	name    string
	line    string
	want    Descriptor
	wantErr error
}

func TestParseLine(t *testing.T) {
	cases := []lineCase{
		// Valid lines
		{
			name: "leaf",
			line: "pbga (66)",
			want: Descriptor{Name: "pbga", Weight: 66},
		},
		{
			name: "leaf zero weight",
			line: "a (0)",
			want: Descriptor{Name: "a", Weight: 0},
		},
		{
			name: "with children",
			line: "fwft (72) -> ktlj, cntj, xhth",
			want: Descriptor{Name: "fwft", Weight: 72, Children: []string{"ktlj", "cntj", "xhth"}},
		},
		{
			name: "single child",
			line: "abc (1) -> def",
			want: Descriptor{Name: "abc", Weight: 1, Children: []string{"def"}},
		},
		{
			name: "surrounding whitespace trimmed",
			line: "  \tpadx (45) -> pbga, havc  ",
			want: Descriptor{Name: "padx", Weight: 45, Children: []string{"pbga", "havc"}},
		},
		// Malformed lines
		{name: "missing parentheses", line: "foo 12", wantErr: ErrSyntax},
		{name: "empty", line: "", wantErr: ErrSyntax},
		{name: "uppercase name", line: "Foo (12)", wantErr: ErrSyntax},
		{name: "digits in name", line: "f00 (12)", wantErr: ErrSyntax},
		{name: "negative weight", line: "foo (-12)", wantErr: ErrSyntax},
		{name: "non numeric weight", line: "foo (twelve)", wantErr: ErrSyntax},
		{name: "unclosed paren", line: "foo (12", wantErr: ErrSyntax},
		{name: "arrow without children", line: "foo (12) ->", wantErr: ErrSyntax},
		{name: "missing space after comma", line: "foo (12) -> a,b", wantErr: ErrSyntax},
		{name: "trailing comma", line: "foo (12) -> a, b,", wantErr: ErrSyntax},
		{name: "bare dash", line: "foo (12) - a", wantErr: ErrSyntax},
		{name: "trailing garbage", line: "foo (12) bar", wantErr: ErrSyntax},
		{name: "double space", line: "foo  (12)", wantErr: ErrSyntax},
		{name: "weight overflow", line: "foo (99999999999999999999)", wantErr: ErrInvalidWeight},
		{name: "duplicate child", line: "foo (1) -> a, b, a", wantErr: ErrDuplicateChild},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseLine(tc.line)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				var pe *ParseError
				if !errors.As(err, &pe) {
					t.Fatalf("expected *ParseError, got %T", err)
				}
				if pe.Text != tc.line {
					t.Errorf("ParseError.Text = %q, want %q", pe.Text, tc.line)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("descriptor mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_SkipsBlankLines(t *testing.T) {
	descs, err := Parse("a (1) -> b\n\n   \nb (2)\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Descriptor{
		{Name: "a", Weight: 1, Children: []string{"b"}},
		{Name: "b", Weight: 2},
	}
	if diff := cmp.Diff(want, descs); diff != "" {
		t.Errorf("descriptors mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_ErrorNamesLine(t *testing.T) {
	_, err := Parse("a (1) -> b\nb (2)\n\nfoo 12\nc (3)")
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if pe.Line != 4 {
		t.Errorf("Line = %d, want 4", pe.Line)
	}
	if pe.Text != "foo 12" {
		t.Errorf("Text = %q, want %q", pe.Text, "foo 12")
	}
	if !strings.Contains(err.Error(), `line 4 "foo 12"`) {
		t.Errorf("error message %q does not name the line", err.Error())
	}
}

func TestParse_LineTooLong(t *testing.T) {
	input := "a (1) -> b\nb (2)\n" + strings.Repeat("c", MaxLineBytes+1) + " (3)\n"
	_, err := Parse(input)
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if pe.Line != 3 {
		t.Errorf("Line = %d, want 3", pe.Line)
	}
	if !errors.Is(err, ErrSyntax) {
		t.Errorf("error %v does not wrap ErrSyntax", err)
	}
}

func TestParseReader_CRLF(t *testing.T) {
	descs, err := ParseReader(strings.NewReader("a (1) -> b\r\nb (2)\r\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(descs) != 2 || descs[1].Name != "b" {
		t.Errorf("unexpected descriptors %+v", descs)
	}
}

func TestDescriptor_IsLeaf(t *testing.T) {
	if !(Descriptor{Name: "a"}).IsLeaf() {
		t.Error("descriptor without children should be a leaf")
	}
	if (Descriptor{Name: "a", Children: []string{"b"}}).IsLeaf() {
		t.Error("descriptor with children should not be a leaf")
	}
}
