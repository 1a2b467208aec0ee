package otp

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestRandom_Generate_Shape(t *testing.T) {
	tests := []struct {
		name      string
		shape     Shape
		wantLen   int
		wantParts int
	}{
		{name: "single numeric", shape: Shape{Format: FormatNumeric, Lengths: []int{6}}, wantLen: 6, wantParts: 1},
		{name: "length equal to charset", shape: Shape{Format: FormatNumeric, Lengths: []int{10}}, wantLen: 10, wantParts: 1},
		{name: "length larger than charset", shape: Shape{Format: FormatNumericNoZero, Lengths: []int{25}}, wantLen: 25, wantParts: 1},
		{name: "multi segment default separator", shape: Shape{Format: FormatString, Lengths: []int{4, 4}}, wantLen: 9, wantParts: 2},
		{name: "multi segment custom separator", shape: Shape{Format: FormatString, Lengths: []int{3, 2, 5}, Separator: "::"}, wantLen: 14, wantParts: 3},
		{name: "single char charset", shape: Shape{Format: FormatCustomize, Charset: "x", Lengths: []int{3}}, wantLen: 3, wantParts: 1},
	}

	g := NewRandom()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			got, err := g.Generate(tt.shape)

			// Assert
			if err != nil {
				t.Fatalf("Generate() error = %v", err)
			}
			if utf8.RuneCountInString(got) != tt.wantLen {
				t.Fatalf("Generate() = %q, len %d, want %d", got, len(got), tt.wantLen)
			}

			sep := tt.shape.Separator
			if sep == "" {
				sep = DefaultSeparator
			}
			parts := strings.Split(got, sep)
			if len(parts) != tt.wantParts {
				t.Fatalf("Generate() = %q, parts %d, want %d", got, len(parts), tt.wantParts)
			}
			for i, part := range parts {
				if len(part) != tt.shape.Lengths[i] {
					t.Fatalf("segment %d = %q, want length %d", i, part, tt.shape.Lengths[i])
				}
			}
		})
	}
}

func TestRandom_Generate_Charset(t *testing.T) {
	tests := []struct {
		name    string
		shape   Shape
		allowed string
	}{
		{name: "numeric", shape: Shape{Format: FormatNumeric, Lengths: []int{32}}, allowed: charsetNumeric},
		{name: "numeric no zero", shape: Shape{Format: FormatNumericNoZero, Lengths: []int{32}}, allowed: charsetNumericNoZero},
		{name: "string insensitive", shape: Shape{Format: FormatString, Lengths: []int{32}}, allowed: charsetStringUpper},
		{name: "string sensitive", shape: Shape{Format: FormatString, Lengths: []int{32}, Sensitive: true}, allowed: charsetStringSensitive},
		{name: "customize", shape: Shape{Format: FormatCustomize, Charset: "ab", Lengths: []int{32}}, allowed: "ab"},
		{name: "customize multibyte", shape: Shape{Format: FormatCustomize, Charset: "αβγ", Lengths: []int{8}}, allowed: "αβγ"},
	}

	g := NewRandom()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for range 20 {
				got, err := g.Generate(tt.shape)
				if err != nil {
					t.Fatalf("Generate() error = %v", err)
				}
				for _, r := range got {
					if !strings.ContainsRune(tt.allowed, r) {
						t.Fatalf("Generate() = %q contains %q outside %q", got, r, tt.allowed)
					}
				}
			}
		})
	}
}

func TestRandom_Generate_NoZero(t *testing.T) {
	g := NewRandom()
	for range 100 {
		got, err := g.Generate(Shape{Format: FormatNumericNoZero, Lengths: []int{9}})
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		if strings.Contains(got, "0") {
			t.Fatalf("Generate() = %q contains zero", got)
		}
	}
}

func TestRandom_Generate_Error(t *testing.T) {
	tests := []struct {
		name  string
		shape Shape
	}{
		{name: "customize without charset", shape: Shape{Format: FormatCustomize, Lengths: []int{6}}},
		{name: "unknown format", shape: Shape{Format: "hex", Lengths: []int{6}}},
		{name: "empty format", shape: Shape{Lengths: []int{6}}},
		{name: "no lengths", shape: Shape{Format: FormatNumeric}},
		{name: "zero length", shape: Shape{Format: FormatNumeric, Lengths: []int{4, 0}}},
	}

	g := NewRandom()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			got, err := g.Generate(tt.shape)

			// Assert
			if !errors.Is(err, ErrGeneration) {
				t.Fatalf("Generate() error = %v, want ErrGeneration", err)
			}
			if got != "" {
				t.Fatalf("Generate() = %q, want empty", got)
			}
		})
	}
}

func TestIsFormat(t *testing.T) {
	for _, f := range []string{"numeric", "numeric-no-zero", "string", "customize"} {
		if !IsFormat(f) {
			t.Fatalf("IsFormat(%q) = false", f)
		}
	}
	if IsFormat("alpha") {
		t.Fatal("IsFormat(alpha) = true")
	}
}
