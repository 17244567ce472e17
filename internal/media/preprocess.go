package media

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/disintegration/imaging"

	"stockmeta/internal/config"
	"stockmeta/internal/fileutil"
	"stockmeta/internal/logging"
	"stockmeta/internal/media/ffprobe"
)

// ErrNoUsableFrame reports that a file could not be turned into an upload image.
var ErrNoUsableFrame = errors.New("no usable frame")

// Preprocessor turns source media into bounded JPEG temp files.
type Preprocessor struct {
	MaxDimension int
	Quality      int
	FFmpeg       string
	FFprobe      string
	// TempDir is passed to os.CreateTemp; empty uses the system default.
	TempDir string
	logger  *slog.Logger
}

// New builds a Preprocessor from config.
func New(cfg config.Preprocess, logger *slog.Logger) *Preprocessor {
	return &Preprocessor{
		MaxDimension: cfg.MaxDimension,
		Quality:      cfg.JPEGQuality,
		FFmpeg:       cfg.FFmpegBinary,
		FFprobe:      cfg.FFprobeBinary,
		logger:       logging.NewComponentLogger(logger, "preprocess"),
	}
}

// Prepare returns the path of a temporary JPEG for path. Every failure wraps
// ErrNoUsableFrame and leaves no temporary file behind.
func (p *Preprocessor) Prepare(ctx context.Context, path string) (string, error) {
	logger := logging.WithContext(ctx, p.logger)
	var (
		out string
		err error
	)
	switch KindOf(path) {
	case KindImage:
		out, err = p.prepareImage(path)
	case KindVideo:
		out, err = p.prepareVideo(ctx, path)
	default:
		err = fmt.Errorf("unsupported media type %q", path)
	}
	if err != nil {
		logger.Warn("preprocess failed", logging.Error(err))
		if errors.Is(err, ErrNoUsableFrame) {
			return "", err
		}
		return "", fmt.Errorf("%w: %w", ErrNoUsableFrame, err)
	}
	logger.Debug("preprocessed", logging.String("output", out))
	return out, nil
}

func (p *Preprocessor) prepareImage(path string) (string, error) {
	src, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}
	img := Normalize(src, p.bound())

	file, err := os.CreateTemp(p.TempDir, "stockmeta-*.jpg")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	if err := jpeg.Encode(file, img, &jpeg.Options{Quality: p.quality()}); err != nil {
		_ = file.Close()
		_ = fileutil.RemoveQuiet(file.Name())
		return "", fmt.Errorf("encode jpeg: %w", err)
	}
	if err := file.Close(); err != nil {
		_ = fileutil.RemoveQuiet(file.Name())
		return "", fmt.Errorf("close temp file: %w", err)
	}
	return file.Name(), nil
}

func (p *Preprocessor) prepareVideo(ctx context.Context, path string) (string, error) {
	probe, err := ffprobe.Inspect(ctx, p.FFprobe, path)
	if err != nil {
		return "", err
	}
	stream, ok := probe.VideoStream()
	if !ok {
		return "", fmt.Errorf("%w: %s has no video stream", ErrNoUsableFrame, path)
	}
	p.logger.Debug("video probed",
		logging.String("format", probe.Format.FormatName),
		logging.String("codec", stream.CodecName),
		logging.Int("width", stream.Width),
		logging.Int("height", stream.Height),
	)

	frame, err := os.CreateTemp(p.TempDir, "stockmeta-frame-*.png")
	if err != nil {
		return "", fmt.Errorf("create frame file: %w", err)
	}
	framePath := frame.Name()
	_ = frame.Close()
	defer func() {
		if rmErr := fileutil.RemoveQuiet(framePath); rmErr != nil {
			p.logger.Warn("frame cleanup failed", logging.String("path", framePath), logging.Error(rmErr))
		}
	}()

	binary := strings.TrimSpace(p.FFmpeg)
	if binary == "" {
		binary = "ffmpeg"
	}
	cmd := exec.CommandContext(ctx, binary, "-v", "error", "-hide_banner", "-i", path, "-frames:v", "1", "-f", "image2", "-y", framePath)
	if output, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("ffmpeg extract frame: %w: %s", err, strings.TrimSpace(string(output)))
	}
	if info, err := os.Stat(framePath); err != nil || info.Size() == 0 {
		return "", fmt.Errorf("%w: ffmpeg produced no frame for %s", ErrNoUsableFrame, path)
	}
	return p.prepareImage(framePath)
}

func (p *Preprocessor) bound() int {
	if p.MaxDimension > 0 {
		return p.MaxDimension
	}
	return 600
}

func (p *Preprocessor) quality() int {
	if p.Quality >= 1 && p.Quality <= 100 {
		return p.Quality
	}
	return 85
}

// Normalize flattens any transparency onto white and downscales img so that
// neither side exceeds bound. Smaller images keep their size.
func Normalize(img image.Image, bound int) *image.NRGBA {
	bounds := img.Bounds()
	flat := imaging.New(bounds.Dx(), bounds.Dy(), color.White)
	flat = imaging.Overlay(flat, img, image.Pt(0, 0), 1.0)
	if bounds.Dx() <= bound && bounds.Dy() <= bound {
		return flat
	}
	return imaging.Fit(flat, bound, bound, imaging.Lanczos)
}
