package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/danmuck/zplctl/internal/bitpack"
	"github.com/danmuck/zplctl/internal/codec"
	"github.com/danmuck/zplctl/internal/gf"
	"github.com/danmuck/zplctl/internal/logging"
	"github.com/danmuck/zplctl/internal/raster"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	logger := logging.New("zplctl")

	var err error
	switch os.Args[1] {
	case "encode":
		err = runEncode(logger, os.Args[2:])
	case "decode":
		err = runDecode(logger, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "zplctl: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage:
  zplctl encode [flags] image.png [image2.png ...]
  zplctl decode [flags] label.zpl`)
}

func runEncode(logger zerolog.Logger, args []string) error {
	fs := flag.NewFlagSet("encode", flag.ExitOnError)
	profile := fs.String("profile", "", "TOML profile with encode defaults")
	format := fs.String("format", "ASCII", "payload encoding: ASCII, B64 or Z64")
	invert := fs.Bool("invert", false, "swap black and white")
	dither := fs.Bool("dither", true, "Floyd-Steinberg dithering instead of hard threshold")
	threshold := fs.Int("threshold", 128, "black threshold 0-255 when dithering is off")
	width := fs.Int("width", 0, "target width in dots, 0 keeps source")
	height := fs.Int("height", 0, "target height in dots, 0 keeps source")
	posX := fs.Int("x", 0, "field X position in dots")
	posY := fs.Int("y", 0, "field Y position in dots")
	rotation := fs.Int("rotate", 0, "rotation: 0, 90, 180 or 270 degrees")
	lineBreak := fs.Int("linebreak", 0, "wrap payload text every N characters")
	fieldOnly := fs.Bool("field-only", false, "emit the bare field without ^XA/^XZ")
	split := fs.Bool("split", false, "one ^XA...^XZ document per input image")
	out := fs.String("o", "", "output file (default stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("encode: no input image")
	}

	cfg := defaultEncodeConfig()
	if *profile != "" {
		if err := loadProfile(*profile, &cfg); err != nil {
			return err
		}
	}

	// Flags the user set explicitly win over the profile.
	var visitErr error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "format":
			enc, err := gf.ParseEncoding(*format)
			if err != nil {
				visitErr = err
				return
			}
			cfg.Format = enc
		case "invert":
			cfg.Invert = *invert
		case "dither":
			cfg.Dither = *dither
		case "threshold":
			cfg.Threshold = *threshold
		case "width":
			cfg.Width = *width
		case "height":
			cfg.Height = *height
		case "x":
			cfg.PosX = *posX
		case "y":
			cfg.PosY = *posY
		case "rotate":
			cfg.Rotation = *rotation
		case "linebreak":
			cfg.LineBreak = *lineBreak
		case "field-only":
			cfg.Complete = !*fieldOnly
		case "split":
			cfg.Split = *split
		}
	})
	if visitErr != nil {
		return visitErr
	}
	if cfg.Threshold < 0 || cfg.Threshold > 255 {
		return fmt.Errorf("encode: threshold must be within 0 to 255, got %d", cfg.Threshold)
	}

	pages := make([]bitpack.Bitmap, 0, fs.NArg())
	for _, path := range fs.Args() {
		mono, err := loadMonochrome(path, cfg)
		if err != nil {
			return err
		}
		pages = append(pages, mono)
	}

	opts := codec.Options{
		Encoding:  cfg.Format,
		Invert:    cfg.Invert,
		PosX:      cfg.PosX,
		PosY:      cfg.PosY,
		LineBreak: cfg.LineBreak,
		Wrap:      cfg.Complete,
	}

	var zpl string
	var err error
	if len(pages) == 1 {
		zpl, err = codec.Encode(pages[0], opts)
	} else {
		zpl, err = codec.EncodePages(pages, opts, cfg.Split)
	}
	if err != nil {
		return err
	}

	if *out != "" {
		if err := os.WriteFile(*out, []byte(zpl), 0o644); err != nil {
			return err
		}
	} else if _, err := os.Stdout.WriteString(zpl); err != nil {
		return err
	}

	logger.Info().
		Int("pages", len(pages)).
		Str("format", cfg.Format.String()).
		Int("bytes", len(zpl)).
		Msg("encoded")
	return nil
}

func loadMonochrome(path string, cfg encodeConfig) (*bitpack.Monochrome, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	img, err := raster.Rasterize(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	img, err = raster.Rotate(img, cfg.Rotation)
	if err != nil {
		return nil, err
	}
	img = raster.Resize(img, cfg.Width, cfg.Height)

	return raster.ReduceToMonochrome(img, raster.ReduceOptions{
		Dither:    cfg.Dither,
		Threshold: uint8(cfg.Threshold),
	})
}

func runDecode(logger zerolog.Logger, args []string) error {
	fs := flag.NewFlagSet("decode", flag.ExitOnError)
	lenient := fs.Bool("lenient", false, "keep fields whose checksum does not verify")
	dir := fs.String("dir", ".", "output directory for decoded images")
	prefix := fs.String("prefix", "field", "output file name prefix")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("decode: expected one input file")
	}

	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return err
	}

	decoded, warnings := codec.Decode(string(data), codec.DecodeOptions{
		LenientChecksum: *lenient,
	})
	for _, w := range warnings {
		logger.Warn().Int("field", w.Index).Err(w.Err).Msg("graphic field skipped")
	}

	for i, d := range decoded {
		path := filepath.Join(*dir, *prefix+"-"+strconv.Itoa(i)+".png")
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := raster.EncodePNG(f, d.Bitmap); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		logger.Info().
			Str("file", path).
			Int("width", d.Bitmap.Width()).
			Int("height", d.Bitmap.Height()).
			Int("x", d.Field.PosX).
			Int("y", d.Field.PosY).
			Msg("field decoded")
	}

	logger.Info().Int("fields", len(decoded)).Int("warnings", len(warnings)).Msg("decoded")
	return nil
}
