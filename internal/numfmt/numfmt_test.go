package numfmt

import "testing"

func TestFormat_Tiers(t *testing.T) {
	cases := []struct {
		in     float64
		prefix string
		want   string
	}{
		{0, "", "0.00 "},
		{950, "", "950.00 "},
		{999.994, "", "999.99 "},
		{1000, "", "1.00 mil"},
		{1500, "", "1.50 mil"},
		{999_000, "", "999.00 mil"},
		{2_500_000, "", "2.50 milhões"},
		{7_250_000_000, "", "7250.00 milhões"},
		{950, "R$", "R$ 950.00 "},
		{1_234_567.89, "R$", "R$ 1.23 milhões"},
	}
	for _, tc := range cases {
		if got := Format(tc.in, tc.prefix); got != tc.want {
			t.Errorf("Format(%v, %q)=%q want %q", tc.in, tc.prefix, got, tc.want)
		}
	}
}
