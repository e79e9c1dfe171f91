package parser

import "testing"

func TestNormalizeColumnName(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"  VisitNo  ", "VisitNo"},
		{"Visit   No", "Visit No"},
		{"\tItem \n Group ", "Item Group"},
		{"DocName", "DocName"},
		{"", ""},
	}
	for _, c := range cases {
		if got := NormalizeColumnName(c.in); got != c.want {
			t.Fatalf("NormalizeColumnName(%q) want=%q got=%q", c.in, c.want, got)
		}
	}
}

func TestStripSpaces(t *testing.T) {
	t.Parallel()

	if got := StripSpaces("Doc  Name"); got != "docname" {
		t.Fatalf("StripSpaces want=docname got=%q", got)
	}
}

func TestParseAmount(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want float64
	}{
		{"100", 100},
		{"1,250.50", 1250.50},
		{" 42 ", 42},
		{"$99", 99},
		{"", 0},
		{"abc", 0},
		{"-15", -15},
	}
	for _, c := range cases {
		if got := ParseAmount(c.in); got != c.want {
			t.Fatalf("ParseAmount(%q) want=%v got=%v", c.in, c.want, got)
		}
	}
}
