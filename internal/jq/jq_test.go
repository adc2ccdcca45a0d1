package jq

import (
	"bytes"
	"os"
	"testing"
)

func TestPerformJqQuery(t *testing.T) {
	jsonContent := `{"module": "apple-tokens", "summary": {"pass": 4, "fail": 1}}`
	tempFile, err := os.CreateTemp("", "result.json")
	if err != nil {
		t.Fatalf("Error creating temporary file: %v", err)
	}
	defer os.Remove(tempFile.Name())
	defer tempFile.Close()
	tempFile.Write([]byte(jsonContent))

	testCases := []struct {
		name      string
		filePath  string
		jqQuery   string
		expected  []byte
		expectErr bool
	}{
		{
			name:     "top level key",
			filePath: tempFile.Name(),
			jqQuery:  ".module",
			expected: []byte(`"apple-tokens"`),
		},
		{
			name:     "nested key",
			filePath: tempFile.Name(),
			jqQuery:  ".summary.fail",
			expected: []byte("1"),
		},
		{
			name:      "missing key",
			filePath:  tempFile.Name(),
			jqQuery:   ".nonexistent",
			expectErr: true,
		},
		{
			name:      "nonexistent file",
			filePath:  "nonexistent.json",
			jqQuery:   ".module",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := PerformJqQueryOnFile(tc.filePath, tc.jqQuery)

			if tc.expectErr {
				if err == nil {
					t.Errorf("Expected an error, but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if !bytes.Equal(result, tc.expected) {
				t.Errorf("Expected '%s', but got '%s'", tc.expected, result)
			}
		})
	}
}
