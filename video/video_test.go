package video

import (
	"errors"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

func TestParseRational(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
		ok       bool
	}{
		{"30000/1001", 29.97002997002997, true},
		{"24", 24.0, true},
		{"25/1", 25.0, true},
		{"1/0", 0, false},
		{"abc", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseRational(tt.input)
		if ok != tt.ok {
			t.Errorf("parseRational(%q): ok = %v, expected %v", tt.input, ok, tt.ok)
			continue
		}
		if ok && got != tt.expected {
			t.Errorf("parseRational(%q) = %v, expected %v", tt.input, got, tt.expected)
		}
	}
}

func TestParseProbe(t *testing.T) {
	out := `{
		"streams": [
			{"codec_type": "audio"},
			{"codec_type": "video", "width": 1920, "height": 1080, "r_frame_rate": "30000/1001"}
		]
	}`
	meta, err := parseProbe(out)
	if err != nil {
		t.Fatalf("parseProbe failed: %v", err)
	}
	if meta.Width != 1920 || meta.Height != 1080 {
		t.Errorf("Expected 1920x1080, got %dx%d", meta.Width, meta.Height)
	}
	if meta.FPS < 29.96 || meta.FPS > 29.98 {
		t.Errorf("Expected ~29.97 fps, got %v", meta.FPS)
	}
}

func TestParseProbeFallsBackToAvgFrameRate(t *testing.T) {
	out := `{
		"streams": [
			{"codec_type": "video", "width": 640, "height": 480,
			 "r_frame_rate": "0/0", "avg_frame_rate": "24/1"}
		]
	}`
	meta, err := parseProbe(out)
	if err != nil {
		t.Fatalf("parseProbe failed: %v", err)
	}
	if meta.FPS != 24.0 {
		t.Errorf("Expected 24 fps from avg_frame_rate, got %v", meta.FPS)
	}
}

func TestParseProbeErrors(t *testing.T) {
	tests := []struct {
		name string
		out  string
	}{
		{"no video stream", `{"streams": [{"codec_type": "audio"}]}`},
		{"invalid json", `not json`},
		{"bad dimensions", `{"streams": [{"codec_type": "video", "width": 0, "height": 480, "r_frame_rate": "24"}]}`},
		{"bad frame rate", `{"streams": [{"codec_type": "video", "width": 640, "height": 480, "r_frame_rate": "0/0"}]}`},
	}
	for _, tt := range tests {
		if _, err := parseProbe(tt.out); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}

func TestCommandErrorMessage(t *testing.T) {
	inner := errors.New("exit status 1")
	err := &CommandError{Program: "ffmpeg", Stderr: "boom\n", Err: inner}

	if !strings.Contains(err.Error(), "ffmpeg") || !strings.Contains(err.Error(), "boom") {
		t.Errorf("Unexpected error message: %q", err.Error())
	}
	if !errors.Is(err, inner) {
		t.Error("Expected CommandError to unwrap to the inner error")
	}
}

func TestComparisonPath(t *testing.T) {
	got := comparisonPath("clips/input.mp4", "clips/input_ascii.webp")
	if got != "clips/input_compare.webp" {
		t.Errorf("Unexpected comparison path %q", got)
	}
}

func TestEncodeStreamMapsFramesVideoAndSourceAudio(t *testing.T) {
	stream := encodeStream("frames/frame_%08d.png", "in.mp4", "24.000000", "out.mp4", false)
	args := stream.GetArgs()

	var maps []string
	for i, arg := range args {
		if arg == "-map" && i+1 < len(args) {
			maps = append(maps, args[i+1])
		}
	}
	if len(maps) != 2 {
		t.Fatalf("Expected exactly 2 -map arguments, got %d: %v", len(maps), maps)
	}
	if maps[0] != "0:v" {
		t.Errorf("Expected first map to be the frame video stream, got %q", maps[0])
	}
	if maps[1] != "1:a?" {
		t.Errorf("Expected second map to be the optional source audio, got %q", maps[1])
	}

	joined := strings.Join(args, " ")
	if !strings.Contains(joined, "libx264") {
		t.Errorf("Expected libx264 encode, args: %v", args)
	}
	if !strings.Contains(joined, "-shortest") {
		t.Errorf("Expected -shortest flag, args: %v", args)
	}
}

func TestEncodeStreamTransparentHasNoExplicitMaps(t *testing.T) {
	stream := encodeStream("frames/frame_%08d.png", "in.mp4", "24.000000", "out.webp", true)
	args := stream.GetArgs()

	for _, arg := range args {
		if arg == "-map" {
			t.Fatalf("Expected no -map arguments for single-input encode, got %v", args)
		}
	}
	if !strings.Contains(strings.Join(args, " "), "libwebp") {
		t.Errorf("Expected libwebp encode, args: %v", args)
	}
}

func TestExtractFramesMissingInput(t *testing.T) {
	if !ToolsAvailable() {
		t.Skip("ffmpeg not available")
	}
	if _, err := ExtractFrames("does-not-exist.mp4", t.TempDir()); err == nil {
		t.Error("Expected error for missing input")
	}
}

func TestExtractFramesFromTestVideo(t *testing.T) {
	if !ToolsAvailable() {
		t.Skip("ffmpeg not available")
	}

	dir := t.TempDir()
	input := filepath.Join(dir, "test.mp4")
	if err := CreateTestVideo(input, 64, 48, 10, 0.5); err != nil {
		t.Fatalf("CreateTestVideo failed: %v", err)
	}

	frames, err := ExtractFrames(input, filepath.Join(dir, "frames"))
	if err != nil {
		t.Fatalf("ExtractFrames failed: %v", err)
	}
	if len(frames) == 0 {
		t.Fatal("Expected at least one extracted frame")
	}
	if !sort.StringsAreSorted(frames) {
		t.Error("Expected frame paths to be sorted")
	}
	for _, frame := range frames {
		if filepath.Ext(frame) != ".png" {
			t.Errorf("Unexpected frame file %q", frame)
		}
	}

	meta, err := Probe(input)
	if err != nil {
		t.Fatalf("Probe failed: %v", err)
	}
	if meta.Width != 64 || meta.Height != 48 {
		t.Errorf("Expected 64x48, got %dx%d", meta.Width, meta.Height)
	}
	if meta.FPS != 10 {
		t.Errorf("Expected 10 fps, got %v", meta.FPS)
	}
}
