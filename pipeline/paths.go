package pipeline

import (
	"path/filepath"
	"strings"
)

// DefaultOutputPath derives the output video path from the input:
// "<stem>_ascii" (or "<stem>_compare" for comparison runs) next to
// the input, with .webp for transparent output and .mp4 otherwise.
func DefaultOutputPath(input string, transparent, compare bool) string {
	stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	if stem == "" {
		stem = "output"
	}

	ext := ".mp4"
	if transparent {
		ext = ".webp"
	}

	suffix := "_ascii"
	if compare {
		suffix = "_compare"
	}

	return filepath.Join(filepath.Dir(input), stem+suffix+ext)
}
