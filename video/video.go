// Package video wraps the external ffmpeg/ffprobe tools. Frame
// decoding and re-encoding happen entirely out of process; this
// package only shuttles frame files and stream metadata between the
// tools and the conversion pipeline.
package video

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// FramePattern is the printf-style name used for extracted and
// converted frame files.
const FramePattern = "frame_%08d.png"

// ErrNoFrames is returned when extraction produced no frame files.
var ErrNoFrames = errors.New("no frames were extracted from the input video")

// CommandError reports a failed external tool invocation along with
// whatever the tool wrote to stderr.
type CommandError struct {
	Program string
	Stderr  string
	Err     error
}

func (e *CommandError) Error() string {
	stderr := strings.TrimSpace(e.Stderr)
	if stderr == "" {
		return fmt.Sprintf("command %s failed: %v", e.Program, e.Err)
	}
	return fmt.Sprintf("command %s failed: %v: %s", e.Program, e.Err, stderr)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// Metadata describes the primary video stream of an input file.
type Metadata struct {
	Width  int
	Height int
	FPS    float64
}

// ToolsAvailable reports whether both ffmpeg and ffprobe can be found
// on the PATH.
func ToolsAvailable() bool {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return false
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		return false
	}
	return true
}

// probeData mirrors the subset of ffprobe's JSON output we care
// about. Frame rates arrive as rational strings like "30000/1001".
type probeData struct {
	Streams []struct {
		CodecType    string `json:"codec_type"`
		Width        int    `json:"width"`
		Height       int    `json:"height"`
		RFrameRate   string `json:"r_frame_rate"`
		AvgFrameRate string `json:"avg_frame_rate"`
	} `json:"streams"`
}

// Probe returns the dimensions and frame rate of the first video
// stream in the input file.
func Probe(input string) (Metadata, error) {
	out, err := ffmpeg.Probe(input)
	if err != nil {
		return Metadata{}, &CommandError{Program: "ffprobe", Err: err}
	}
	return parseProbe(out)
}

func parseProbe(out string) (Metadata, error) {
	var data probeData
	if err := json.Unmarshal([]byte(out), &data); err != nil {
		return Metadata{}, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	for _, stream := range data.Streams {
		if stream.CodecType != "video" {
			continue
		}
		if stream.Width <= 0 || stream.Height <= 0 {
			return Metadata{}, fmt.Errorf(
				"failed to parse ffprobe output: invalid dimensions %dx%d",
				stream.Width, stream.Height)
		}

		fps, ok := parseRational(stream.RFrameRate)
		if !ok {
			fps, ok = parseRational(stream.AvgFrameRate)
		}
		if !ok {
			return Metadata{}, fmt.Errorf(
				"failed to parse ffprobe output: invalid frame rate %q",
				stream.RFrameRate)
		}

		return Metadata{
			Width:  stream.Width,
			Height: stream.Height,
			FPS:    fps,
		}, nil
	}

	return Metadata{}, fmt.Errorf("failed to parse ffprobe output: no video stream")
}

// ExtractFrames decodes the input video into a PNG sequence under
// outputDir and returns the sorted frame paths.
func ExtractFrames(input, outputDir string) ([]string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, err
	}

	pattern := filepath.Join(outputDir, FramePattern)

	var stderr bytes.Buffer
	err := ffmpeg.Input(input).
		Output(pattern, ffmpeg.KwArgs{"vsync": "0"}).
		GlobalArgs("-v", "error").
		OverWriteOutput().
		WithErrorOutput(&stderr).
		Run()
	if err != nil {
		return nil, &CommandError{Program: "ffmpeg", Stderr: stderr.String(), Err: err}
	}

	entries, err := os.ReadDir(outputDir)
	if err != nil {
		return nil, err
	}

	var frames []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".png" {
			continue
		}
		frames = append(frames, filepath.Join(outputDir, entry.Name()))
	}
	sort.Strings(frames)

	if len(frames) == 0 {
		return nil, ErrNoFrames
	}
	return frames, nil
}

// Encode re-encodes a directory of converted PNG frames into the
// output container. Transparent mode produces an alpha-capable WebP;
// otherwise the frames become an H.264 MP4 with the source's audio
// track copied over.
func Encode(framesDir, sourceVideo string, fps float64, output string, transparent bool) error {
	if parent := filepath.Dir(output); parent != "." {
		if err := os.MkdirAll(parent, 0o755); err != nil {
			return err
		}
	}

	pattern := filepath.Join(framesDir, FramePattern)
	fpsString := strconv.FormatFloat(fps, 'f', 6, 64)

	var stderr bytes.Buffer
	err := encodeStream(pattern, sourceVideo, fpsString, output, transparent).
		GlobalArgs("-v", "error").
		OverWriteOutput().
		WithErrorOutput(&stderr).
		Run()
	if err != nil {
		return &CommandError{Program: "ffmpeg", Stderr: stderr.String(), Err: err}
	}
	return nil
}

// encodeStream builds the ffmpeg graph for Encode. Stream selectors
// drive the mapping: ffmpeg-go emits one -map per input edge, so the
// selectors must carry the whole mapping and no explicit "map" kwarg
// may be added on top of them.
func encodeStream(pattern, sourceVideo, fps, output string, transparent bool) *ffmpeg.Stream {
	if transparent {
		return ffmpeg.Input(pattern, ffmpeg.KwArgs{"framerate": fps}).
			Output(output, ffmpeg.KwArgs{
				"c:v":     "libwebp",
				"pix_fmt": "yuva420p",
				"quality": "95",
				"loop":    "0",
			})
	}

	frames := ffmpeg.Input(pattern, ffmpeg.KwArgs{"framerate": fps})
	source := ffmpeg.Input(sourceVideo)
	return ffmpeg.Output([]*ffmpeg.Stream{frames.Video(), source.Get("a?")}, output, ffmpeg.KwArgs{
		"c:v":      "libx264",
		"preset":   "veryfast",
		"crf":      "18",
		"pix_fmt":  "yuv420p",
		"tune":     "stillimage",
		"c:a":      "copy",
		"shortest": "",
	})
}

// CreateComparison stacks the original video on top of the converted
// one and replaces the converted output with the stacked video.
func CreateComparison(original, asciiVideo string) error {
	stackedPath := comparisonPath(original, asciiVideo)
	if parent := filepath.Dir(stackedPath); parent != "." {
		if err := os.MkdirAll(parent, 0o755); err != nil {
			return err
		}
	}

	top := ffmpeg.Input(original)
	bottom := ffmpeg.Input(asciiVideo)

	var stderr bytes.Buffer
	err := ffmpeg.Filter([]*ffmpeg.Stream{top, bottom}, "vstack", ffmpeg.Args{}).
		Output(stackedPath, ffmpeg.KwArgs{
			"c:v":     "libx264",
			"preset":  "veryfast",
			"crf":     "18",
			"pix_fmt": "yuv420p",
			"tune":    "stillimage",
		}).
		GlobalArgs("-v", "error").
		OverWriteOutput().
		WithErrorOutput(&stderr).
		Run()
	if err != nil {
		return &CommandError{Program: "ffmpeg", Stderr: stderr.String(), Err: err}
	}

	return os.Rename(stackedPath, asciiVideo)
}

// comparisonPath derives the temporary name for the stacked video:
// the original's stem plus "_compare" and the ascii video's extension.
func comparisonPath(original, asciiVideo string) string {
	stem := strings.TrimSuffix(filepath.Base(original), filepath.Ext(original))
	ext := filepath.Ext(asciiVideo)
	return filepath.Join(filepath.Dir(original), stem+"_compare"+ext)
}

// CreateTestVideo generates a synthetic test-pattern video. Handy for
// manual checks and pipeline smoke tests without shipping fixtures.
func CreateTestVideo(output string, width, height, fps int, durationSeconds float64) error {
	source := fmt.Sprintf("testsrc=size=%dx%d:rate=%d:duration=%g",
		width, height, fps, durationSeconds)

	var stderr bytes.Buffer
	err := ffmpeg.Input(source, ffmpeg.KwArgs{"f": "lavfi"}).
		Output(output).
		GlobalArgs("-v", "error").
		OverWriteOutput().
		WithErrorOutput(&stderr).
		Run()
	if err != nil {
		return &CommandError{Program: "ffmpeg", Stderr: stderr.String(), Err: err}
	}
	return nil
}

// parseRational parses ffprobe frame-rate values, either "num/den" or
// a plain decimal.
func parseRational(value string) (float64, bool) {
	if value == "" {
		return 0, false
	}
	if num, den, found := strings.Cut(value, "/"); found {
		numerator, err := strconv.ParseFloat(num, 64)
		if err != nil {
			return 0, false
		}
		denominator, err := strconv.ParseFloat(den, 64)
		if err != nil || denominator == 0 {
			return 0, false
		}
		return numerator / denominator, true
	}
	fps, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false
	}
	return fps, true
}
