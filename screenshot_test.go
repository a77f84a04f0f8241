package arbor

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"grid", "grid"},
		{"after-rotate", "after-rotate"},
		{"frame.01", "frame.01"},
		{"two words", "two_words"},
		{"a/b\\c", "a_b_c"},
		{"100%", "100_"},
		{"", "unlabeled"},
		{"  \t", "unlabeled"},
	}
	for _, tt := range tests {
		if got := sanitizeLabel(tt.in); got != tt.want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestScreenshotPaths(t *testing.T) {
	s := NewScene()
	s.ScreenshotDir = "out"
	s.frame = 7
	s.Screenshot("before")
	s.Screenshot("after move")

	now := time.Date(2024, 3, 9, 14, 5, 6, 0, time.UTC)
	want := []string{
		filepath.Join("out", "20240309_140506_000007_before.png"),
		filepath.Join("out", "20240309_140506_000007_after_move.png"),
	}
	if diff := cmp.Diff(want, s.screenshotPaths(now)); diff != "" {
		t.Errorf("paths (-want +got):\n%s", diff)
	}
}

func TestUnpremultiply(t *testing.T) {
	pix := []byte{
		128, 64, 0, 128, // half alpha
		10, 20, 30, 255, // opaque passes through
		0, 0, 0, 0, // transparent
	}
	img := unpremultiply(pix, 3, 1)
	want := []byte{255, 127, 0, 128, 10, 20, 30, 255, 0, 0, 0, 0}
	if diff := cmp.Diff(want, img.Pix); diff != "" {
		t.Errorf("pixels (-want +got):\n%s", diff)
	}
	if pix[0] != 128 {
		t.Error("unpremultiply should not modify its input")
	}
}

func TestWritePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shot.png")
	src := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	if err := writePNG(path, src); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds() != src.Bounds() {
		t.Errorf("bounds = %v, want %v", img.Bounds(), src.Bounds())
	}
}

func TestWritePNGBadDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "shot.png")
	if err := writePNG(path, image.NewNRGBA(image.Rect(0, 0, 1, 1))); err == nil {
		t.Error("expected error for missing directory")
	}
}
