package media_test

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"stockmeta/internal/config"
	"stockmeta/internal/logging"
	"stockmeta/internal/media"
	"stockmeta/internal/testsupport"
)

func decodeJPEG(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	img, err := jpeg.Decode(f)
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return img
}

func newPreprocessor(t *testing.T, cfg config.Preprocess) *media.Preprocessor {
	t.Helper()
	p := media.New(cfg, logging.NewNop())
	p.TempDir = t.TempDir()
	return p
}

func TestKindOf(t *testing.T) {
	cases := map[string]media.Kind{
		"a.JPG":  media.KindImage,
		"b.jpeg": media.KindImage,
		"c.png":  media.KindImage,
		"d.mp4":  media.KindVideo,
		"e.svg":  media.KindVector,
		"f.EPS":  media.KindVector,
		"g.webp": media.KindOther,
		"noext":  media.KindOther,
	}
	for name, want := range cases {
		if got := media.KindOf(name); got != want {
			t.Errorf("KindOf(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestPrepareImageFlattensAndBounds(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "wide.png")
	testsupport.WritePNG(t, src, 1200, 300, color.NRGBA{R: 200, A: 255})

	p := newPreprocessor(t, config.Default().Preprocess)
	out, err := p.Prepare(context.Background(), src)
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	defer os.Remove(out)

	if filepath.Dir(out) != p.TempDir {
		t.Fatalf("expected output in temp dir, got %s", out)
	}
	img := decodeJPEG(t, out)
	bounds := img.Bounds()
	if bounds.Dx() != 600 || bounds.Dy() != 150 {
		t.Fatalf("expected 600x150, got %dx%d", bounds.Dx(), bounds.Dy())
	}
	r, g, b, _ := img.At(10, 75).RGBA()
	if r>>8 < 240 || g>>8 < 240 || b>>8 < 240 {
		t.Fatalf("expected transparent area flattened to white, got %d,%d,%d", r>>8, g>>8, b>>8)
	}
	r, g, _, _ = img.At(590, 75).RGBA()
	if r>>8 < 150 || g>>8 > 60 {
		t.Fatalf("expected opaque area to keep its colour, got r=%d g=%d", r>>8, g>>8)
	}
}

func TestPrepareImageKeepsSmallSize(t *testing.T) {
	src := filepath.Join(t.TempDir(), "small.png")
	testsupport.WritePNG(t, src, 40, 20, color.NRGBA{B: 255, A: 255})

	cfg := config.Default().Preprocess
	cfg.MaxDimension = 64
	p := newPreprocessor(t, cfg)
	out, err := p.Prepare(context.Background(), src)
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	defer os.Remove(out)
	if b := decodeJPEG(t, out).Bounds(); b.Dx() != 40 || b.Dy() != 20 {
		t.Fatalf("expected original size, got %v", b)
	}
}

func TestPrepareUndecodableImage(t *testing.T) {
	src := filepath.Join(t.TempDir(), "broken.jpg")
	testsupport.WriteFile(t, src, "not an image")

	p := newPreprocessor(t, config.Default().Preprocess)
	out, err := p.Prepare(context.Background(), src)
	if !errors.Is(err, media.ErrNoUsableFrame) || out != "" {
		t.Fatalf("expected ErrNoUsableFrame, got %q %v", out, err)
	}
	entries, _ := os.ReadDir(p.TempDir)
	if len(entries) != 0 {
		t.Fatalf("expected no temp files left, got %d", len(entries))
	}
}

const probeVideo = `echo '{"streams":[{"codec_type":"video","codec_name":"h264","width":1280,"height":720}],"format":{}}'`

func TestPrepareVideoUsesFirstFrame(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs require a POSIX shell")
	}
	frame := filepath.Join(t.TempDir(), "frame.png")
	testsupport.WritePNG(t, frame, 1280, 720, color.NRGBA{G: 255, A: 255})
	t.Setenv("STUB_FRAME", frame)

	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries(
		`for last; do :; done; cp "$STUB_FRAME" "$last"`,
		probeVideo,
	))
	p := newPreprocessor(t, cfg.Preprocess)

	clip := filepath.Join(t.TempDir(), "clip.mp4")
	testsupport.WriteFile(t, clip, "fake video")
	out, err := p.Prepare(context.Background(), clip)
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	defer os.Remove(out)
	if b := decodeJPEG(t, out).Bounds(); b.Dx() != 600 || b.Dy() != 338 {
		t.Fatalf("expected 600x338 frame, got %v", b)
	}
	entries, _ := os.ReadDir(p.TempDir)
	if len(entries) != 1 {
		t.Fatalf("expected only the output jpeg to remain, got %d files", len(entries))
	}
}

func TestPrepareVideoWithoutFrame(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs require a POSIX shell")
	}
	clip := filepath.Join(t.TempDir(), "clip.mp4")
	testsupport.WriteFile(t, clip, "fake video")

	tests := []struct {
		name   string
		ffmpeg string
		probe  string
	}{
		{"no video stream", "exit 0", `echo '{"streams":[{"codec_type":"audio"}],"format":{}}'`},
		{"ffmpeg fails", "echo boom >&2; exit 1", probeVideo},
		{"empty frame", "exit 0", probeVideo},
		{"probe fails", "exit 0", "exit 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries(tt.ffmpeg, tt.probe))
			p := newPreprocessor(t, cfg.Preprocess)
			out, err := p.Prepare(context.Background(), clip)
			if !errors.Is(err, media.ErrNoUsableFrame) || out != "" {
				t.Fatalf("expected ErrNoUsableFrame, got %q %v", out, err)
			}
			entries, _ := os.ReadDir(p.TempDir)
			if len(entries) != 0 {
				t.Fatalf("expected temp dir to be empty, got %d entries", len(entries))
			}
		})
	}
}

func TestNormalizeBounds(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 300, 900))
	out := media.Normalize(img, 600)
	if out.Bounds().Dx() != 200 || out.Bounds().Dy() != 600 {
		t.Fatalf("unexpected bounds %v", out.Bounds())
	}
	if c := out.NRGBAAt(100, 300); c.A != 255 || c.R != 255 {
		t.Fatalf("expected opaque white, got %+v", c)
	}
}
