package table

import "testing"

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
	}{
		{0, "€0.00"},
		{999, "€999.00"},
		{1000, "€1,000.00"},
		{1234.56, "€1,234.56"},
		{1234567.891, "€1,234,567.89"},
		{-250, "-€250.00"},
		{0.5, "€0.50"},
	}

	for _, test := range tests {
		result := FormatMoney(test.input)
		if result != test.expected {
			t.Errorf("FormatMoney(%v) = %q, want %q", test.input, result, test.expected)
		}
	}
}

func TestFormatCount(t *testing.T) {
	tests := []struct {
		input    int
		expected string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
	}

	for _, test := range tests {
		result := FormatCount(test.input)
		if result != test.expected {
			t.Errorf("FormatCount(%d) = %q, want %q", test.input, result, test.expected)
		}
	}
}

func TestFormatRate(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
	}{
		{0, "-"},
		{0.073, "7.3%"},
		{0.01, "1.0%"},
		{0.105, "10.5%"},
		{1, "100.0%"},
	}

	for _, test := range tests {
		result := FormatRate(test.input)
		if result != test.expected {
			t.Errorf("FormatRate(%v) = %q, want %q", test.input, result, test.expected)
		}
	}
}

func TestFormatScore(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
	}{
		{100, "100.0"},
		{92.5, "92.5"},
		{0, "0.0"},
	}

	for _, test := range tests {
		result := FormatScore(test.input)
		if result != test.expected {
			t.Errorf("FormatScore(%v) = %q, want %q", test.input, result, test.expected)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input    string
		max      int
		expected string
	}{
		{"short", 10, "short"},
		{"abcdefghij", 10, "abcdefghij"},
		{"abcdefghijk", 10, "abcdefg..."},
		{"", 10, ""},
	}

	for _, test := range tests {
		result := Truncate(test.input, test.max)
		if result != test.expected {
			t.Errorf("Truncate(%q, %d) = %q, want %q", test.input, test.max, result, test.expected)
		}
	}
}

func TestTitle(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"missing_deal", "Missing Deal"},
		{"calculation_error", "Calculation Error"},
		{"regular", "Regular"},
		{"cpi increase", "Cpi Increase"},
	}

	for _, test := range tests {
		result := Title(test.input)
		if result != test.expected {
			t.Errorf("Title(%q) = %q, want %q", test.input, result, test.expected)
		}
	}
}
