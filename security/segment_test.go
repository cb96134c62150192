package security

import "testing"

func TestSanitizeSegment(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "valid filename", input: "report.pdf", expected: "report.pdf"},
		{name: "valid with hyphen and underscore", input: "my-file_v2.txt", expected: "my-file_v2.txt"},
		{name: "empty string", input: "", expected: ""},
		{name: "traversal sequence", input: "../etc/passwd", expected: ""},
		{name: "embedded traversal", input: "a..b", expected: ""},
		{name: "forward slash rejected", input: "a/b", expected: ""},
		{name: "backslash rejected", input: "a\\b", expected: ""},
		{name: "special characters rejected", input: "report@v1!.pdf", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SanitizeSegment(tt.input)
			if result != tt.expected {
				t.Errorf("SanitizeSegment(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}
