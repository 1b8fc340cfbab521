package core

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in  string
		iso string
		ok  bool
	}{
		{"01/02/2025", "2025-02-01", true}, // day first
		{"1/2/2025", "2025-02-01", true},
		{"15-03-2024", "2024-03-15", true},
		{"15.03.2024", "2024-03-15", true},
		{"2025-02-01", "2025-02-01", true}, // already canonical
		{" 01/02/2025 ", "2025-02-01", true},
		{"31/02/2025", "", false},
		{"2025/02/01", "", false},
		{"not a date", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseDate(tc.in)
		if tc.ok {
			if err != nil {
				t.Fatalf("%q: unexpected error %v", tc.in, err)
			}
			if got.ISO() != tc.iso {
				t.Fatalf("%q: expected %s, got %s", tc.in, tc.iso, got.ISO())
			}
		} else {
			if err == nil {
				t.Fatalf("%q: expected error, got %s", tc.in, got.ISO())
			}
			if !got.IsNull() {
				t.Fatalf("%q: expected null date on failure", tc.in)
			}
		}
	}
}

func TestDateBucket(t *testing.T) {
	d := NewDate(2025, time.February, 28)
	b := d.Bucket()
	if b.Year != 2025 || b.Month != time.February {
		t.Fatalf("unexpected bucket %+v", b)
	}
	if d.ISO() != "2025-02-28" {
		t.Fatalf("unexpected ISO form %s", d.ISO())
	}
	if (Date{}).ISO() != "" {
		t.Fatal("null date must render empty")
	}
}
