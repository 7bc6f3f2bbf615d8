package utils

import "testing"

func TestCollapseSpace(t *testing.T) {
	got := CollapseSpace("  Widget \n\t  Pro   2000 ")
	if got != "Widget Pro 2000" {
		t.Errorf("CollapseSpace = %q; want %q", got, "Widget Pro 2000")
	}
}

func TestASINFromURL(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"Short DP", "https://www.amazon.com/dp/B0ABCDEF12", "B0ABCDEF12"},
		{"Slug DP With Query", "https://www.amazon.com.tr/Some-Widget/dp/B0ABCDEF12/ref=sr_1_1?th=1", "B0ABCDEF12"},
		{"GP Product", "https://www.amazon.de/gp/product/B0XYZ98765", "B0XYZ98765"},
		{"No Product", "https://www.amazon.com/deals", ""},
		{"Trailing DP", "https://www.amazon.com/dp", ""},
		{"Bad URL", "://", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ASINFromURL(tc.input); got != tc.expected {
				t.Errorf("ASINFromURL(%q) = %q; want %q", tc.input, got, tc.expected)
			}
		})
	}
}
