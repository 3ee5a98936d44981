package parser

import "testing"

func TestExtractWindowDays(t *testing.T) {
	t.Parallel()

	cases := map[string]int{
		"click_14days": 14,
		"click_7days":  7,
		"14天點擊":       14,
		"近 7 日":        7,
		"7 Days":       7,
	}
	for in, want := range cases {
		got, found := ExtractWindowDays(in)
		if !found || got != want {
			t.Fatalf("%q: want=%d got=%d found=%v", in, want, got, found)
		}
	}

	if _, found := ExtractWindowDays("clicks"); found {
		t.Fatalf("clicks should not yield a window")
	}
}

func TestParseCount(t *testing.T) {
	t.Parallel()

	ok := map[string]float64{
		"":        0,
		"  ":      0,
		"12":      12,
		"1,234":   1234,
		" 3.5 ":   3.5,
		"1.2E+03": 1200,
	}
	for in, want := range ok {
		got, err := ParseCount(in)
		if err != nil {
			t.Fatalf("%q: unexpected error %v", in, err)
		}
		if got != want {
			t.Fatalf("%q: want=%v got=%v", in, want, got)
		}
	}

	for _, in := range []string{"abc", "-1", "NaN", "Inf"} {
		if _, err := ParseCount(in); err == nil {
			t.Fatalf("%q: expected error", in)
		}
	}
}

func TestParseComparableCount_BlankIsInvalid(t *testing.T) {
	t.Parallel()

	if _, err := ParseComparableCount(""); err == nil {
		t.Fatalf("blank cell should not be comparable")
	}
	if v, err := ParseComparableCount("7"); err != nil || v != 7 {
		t.Fatalf("unexpected: %v %v", v, err)
	}
}

func TestNormalizeColumnName(t *testing.T) {
	t.Parallel()

	if got := NormalizeColumnName("  Click \n 7 Days "); got != "click7days" {
		t.Fatalf("got %q", got)
	}
}
