package pipeline

import "testing"

func TestDefaultOutputPath(t *testing.T) {
	tests := []struct {
		input       string
		transparent bool
		compare     bool
		expected    string
	}{
		{"input.mp4", false, false, "input_ascii.mp4"},
		{"input.mp4", true, false, "input_ascii.webp"},
		{"input.mp4", false, true, "input_compare.mp4"},
		{"clips/movie.mkv", false, false, "clips/movie_ascii.mp4"},
		{"clips/movie.mkv", true, true, "clips/movie_compare.webp"},
	}
	for _, tt := range tests {
		got := DefaultOutputPath(tt.input, tt.transparent, tt.compare)
		if got != tt.expected {
			t.Errorf("DefaultOutputPath(%q, %v, %v) = %q, expected %q",
				tt.input, tt.transparent, tt.compare, got, tt.expected)
		}
	}
}
