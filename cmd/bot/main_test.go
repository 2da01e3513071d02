package main

import "testing"

func TestParseRetention(t *testing.T) {
	cases := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{"30", 30, true},
		{"0", 0, true},
		{"", 0, false},
		{"abc", 0, false},
		{"30x", 0, false}, // partial parses are rejected, not truncated
		{"-5", 0, false},
	}
	for _, tc := range cases {
		n, ok := parseRetention(tc.in)
		if ok != tc.wantOK || n != tc.want {
			t.Errorf("parseRetention(%q) = (%d, %v), want (%d, %v)", tc.in, n, ok, tc.want, tc.wantOK)
		}
	}
}
