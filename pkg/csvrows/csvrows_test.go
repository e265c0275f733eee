package csvrows

import (
	"strings"
	"testing"
)

func TestRead(t *testing.T) {
	t.Run("maps cells to header names in order", func(t *testing.T) {
		input := "zip,rep_email\n12345,mary@example.com\n67890,bob@example.com\n"
		rows, err := Read(strings.NewReader(input))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(rows) != 2 {
			t.Fatalf("expected 2 rows, got %d", len(rows))
		}
		if rows[0]["zip"] != "12345" || rows[0]["rep_email"] != "mary@example.com" {
			t.Fatalf("unexpected first row: %v", rows[0])
		}
		if rows[1]["zip"] != "67890" {
			t.Fatalf("rows out of order: %v", rows[1])
		}
	})

	t.Run("short records omit trailing columns", func(t *testing.T) {
		input := "first_name,last_name,email\nMary\n"
		rows, err := Read(strings.NewReader(input))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rows[0]["first_name"] != "Mary" {
			t.Fatalf("unexpected row: %v", rows[0])
		}
		if _, ok := rows[0]["email"]; ok {
			t.Fatalf("expected email column to be absent, got %v", rows[0])
		}
	})

	t.Run("trims header names but not values", func(t *testing.T) {
		input := " zip , rep_email \n 12345 ,x@y\n"
		rows, err := Read(strings.NewReader(input))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rows[0]["zip"] != " 12345 " {
			t.Fatalf("expected raw value preserved, got %q", rows[0]["zip"])
		}
	})

	t.Run("empty input returns ErrNoHeader", func(t *testing.T) {
		_, err := Read(strings.NewReader(""))
		if err != ErrNoHeader {
			t.Fatalf("expected ErrNoHeader, got %v", err)
		}
	})
}
