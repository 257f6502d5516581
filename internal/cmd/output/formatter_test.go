package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/revenueops/crosscheck/internal/cmd/table"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
		wantErr  bool
	}{
		{"table", FormatTable, false},
		{"wide", FormatWide, false},
		{"json", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"JSON", FormatJSON, false},
		{"", Format(""), false},
		{"xml", Format(""), true},
	}

	for _, test := range tests {
		result, err := ParseFormat(test.input)
		if (err != nil) != test.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", test.input, err, test.wantErr)
			continue
		}
		if result != test.expected {
			t.Errorf("ParseFormat(%q) = %q, want %q", test.input, result, test.expected)
		}
	}
}

func TestDetectFormatExplicit(t *testing.T) {
	if format := DetectFormat("YAML"); format != FormatYAML {
		t.Errorf("DetectFormat(YAML) = %q, want yaml", format)
	}
	if format := DetectFormat("table"); format != FormatTable {
		t.Errorf("DetectFormat(table) = %q, want table", format)
	}
}

func TestNewFormatter(t *testing.T) {
	if _, ok := NewFormatter(FormatJSON).(*JSONFormatter); !ok {
		t.Error("NewFormatter(json) is not a JSONFormatter")
	}
	if _, ok := NewFormatter(FormatYAML).(*YAMLFormatter); !ok {
		t.Error("NewFormatter(yaml) is not a YAMLFormatter")
	}
	if _, ok := NewFormatter(FormatTable).(*TableFormatter); !ok {
		t.Error("NewFormatter(table) is not a TableFormatter")
	}
	if _, ok := NewFormatter(Format("")).(*TableFormatter); !ok {
		t.Error("NewFormatter(empty) is not a TableFormatter")
	}
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	data := struct {
		Name string `json:"name"`
	}{Name: "crosscheck"}

	if err := (&JSONFormatter{Indent: "  "}).Format(&buf, data); err != nil {
		t.Fatalf("Format() failed: %v", err)
	}
	if !strings.Contains(buf.String(), "\"name\": \"crosscheck\"") {
		t.Errorf("output = %q, want indented JSON", buf.String())
	}
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	data := struct {
		Name string `yaml:"name"`
	}{Name: "crosscheck"}

	if err := (&YAMLFormatter{}).Format(&buf, data); err != nil {
		t.Fatalf("Format() failed: %v", err)
	}
	if !strings.Contains(buf.String(), "name: crosscheck") {
		t.Errorf("output = %q, want YAML", buf.String())
	}
}

func TestTableFormatterTableData(t *testing.T) {
	var buf bytes.Buffer
	data := table.Data{
		Headers:         []string{"Metric", "Value"},
		Rows:            [][]string{{"Deals", "4"}, {"Total Impact", "€1,234.50"}},
		ColumnAlignment: []table.Align{table.AlignLeft, table.AlignRight},
	}

	if err := (&TableFormatter{}).Format(&buf, data); err != nil {
		t.Fatalf("Format() failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(strings.ToUpper(out), "METRIC") {
		t.Errorf("output missing the header row:\n%s", out)
	}
	for _, want := range []string{"Deals", "€1,234.50"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTableFormatterFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := (&TableFormatter{}).Format(&buf, map[string]int{"deals": 4}); err != nil {
		t.Fatalf("Format() failed: %v", err)
	}
	if !strings.Contains(buf.String(), "\"deals\": 4") {
		t.Errorf("output = %q, want JSON fallback", buf.String())
	}
}
