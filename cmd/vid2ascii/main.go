package main

import (
	"fmt"
	"os"

	"github.com/codegangsta/cli"

	"github.com/wbrown/vid2ascii/pipeline"
)

func main() {
	app := cli.NewApp()
	app.Name = "vid2ascii"
	app.Version = "0.1.0"
	app.Usage = "Convert video frames into black-and-white ASCII art"
	app.UsageText = "vid2ascii [options] <input-video>"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "output,o",
			Usage: "Output video `PATH` (defaults to <input-stem>_ascii.mp4)",
		},
		cli.IntFlag{
			Name:  "columns",
			Usage: "Number of ASCII columns per frame",
			Value: 120,
		},
		cli.Float64Flag{
			Name:  "fps",
			Usage: "Override output framerate (0 keeps the source rate)",
		},
		cli.StringFlag{
			Name:  "charset",
			Usage: "Characters from dark to light",
			Value: "@%#*+=-:. ",
		},
		cli.IntFlag{
			Name:  "shades",
			Usage: "Number of grayscale shades (1 = pure B/W, 2-256 = grayscale depth)",
			Value: 1,
		},
		cli.IntFlag{
			Name:  "fit",
			Usage: "Downscale frames wider than `WIDTH` pixels before conversion (0 = off)",
		},
		cli.StringFlag{
			Name:  "font",
			Usage: "TTF font `PATH` to rasterize glyphs from (default: builtin 8x8 font)",
		},
		cli.BoolFlag{
			Name:  "transparent",
			Usage: "Make background transparent (outputs WebP instead of MP4)",
		},
		cli.IntFlag{
			Name:  "bg-color",
			Usage: "Background color to remove (0-255, default: auto-detect)",
			Value: -1,
		},
		cli.IntFlag{
			Name:  "threshold",
			Usage: "Tolerance for background matching (0 = exact match); pixels within +/- threshold of the background color become transparent",
		},
		cli.BoolFlag{
			Name:  "compare",
			Usage: "Create a comparison video with original and ASCII versions stacked vertically",
		},
		cli.IntFlag{
			Name:  "workers",
			Usage: "Number of concurrent frame workers (0 = one per CPU)",
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	input := c.Args().First()
	if input == "" {
		return fmt.Errorf("missing input video path")
	}

	threshold := c.Int("threshold")
	if threshold < 0 {
		threshold = 0
	} else if threshold > 255 {
		threshold = 255
	}

	cfg := &pipeline.Config{
		Input:       input,
		Output:      c.String("output"),
		Columns:     c.Int("columns"),
		Charset:     c.String("charset"),
		Shades:      c.Int("shades"),
		FPS:         c.Float64("fps"),
		FitWidth:    c.Int("fit"),
		FontPath:    c.String("font"),
		Transparent: c.Bool("transparent"),
		BGColor:     c.Int("bg-color"),
		Threshold:   uint8(threshold),
		Compare:     c.Bool("compare"),
		Workers:     c.Int("workers"),
	}
	if cfg.Output == "" {
		cfg.Output = pipeline.DefaultOutputPath(input, cfg.Transparent, cfg.Compare)
	}

	stats, err := pipeline.Run(cfg)
	if err != nil {
		return err
	}

	fmt.Printf("Processed %d frames at %.3f fps\n", stats.FramesProcessed, stats.OutputFPS)
	fmt.Printf("Output written to %s\n", cfg.Output)
	return nil
}
