package validate

import "testing"

func TestZipCode(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"12345", true},
		{"00501", true},
		{"00000", true},
		{"1234", false},
		{"123456", false},
		{"12a45", false},
		{" 12345", false},
		{"12345 ", false},
		{"12 45", false},
		{"", false},
		{"１２３４５", false}, // full-width digits are not ASCII
	}
	for _, c := range cases {
		if got := ZipCode(c.in); got != c.want {
			t.Errorf("ZipCode(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestEmailShape(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"mary@example.com", true},
		{"a@b", true},
		{"not-an-email", false},
		{"", false},
	}
	for _, c := range cases {
		if got := EmailShape(c.in); got != c.want {
			t.Errorf("EmailShape(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestFormatPhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"5551234567", "(555) 123-4567"},
		{"555-123-4567", "(555) 123-4567"},
		{"(555) 123 4567", "(555) 123-4567"},
		{"555.123.4567x", "(555) 123-4567"},
		{"123456789", "123456789"},     // 9 digits: unchanged
		{"12345678901", "12345678901"}, // 11 digits: unchanged
		{"ext. 12", "ext. 12"},
		{"", ""},
	}
	for _, c := range cases {
		if got := FormatPhone(c.in); got != c.want {
			t.Errorf("FormatPhone(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
