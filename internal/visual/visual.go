// Package visual compares screenshots against PNG baselines.
package visual

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"

	"github.com/orisano/pixelmatch"
	"go.uber.org/zap"
)

// Comparison errors
var (
	ErrBaselineMissing  = errors.New("baseline missing")
	ErrSizeMismatch     = errors.New("screenshot size differs from baseline")
	ErrTooManyPixels    = errors.New("too many differing pixels")
	ErrInvalidThreshold = errors.New("threshold must be within [0,1]")
)

// DefaultThreshold is the YIQ colour distance tolerance used when
// Options.Threshold is zero and Exact is not set
const DefaultThreshold = 0.1

// Options tune a comparison
type Options struct {
	// MaxDiffPixels is the number of differing pixels still considered a match
	MaxDiffPixels int
	// Threshold is the perceptual colour distance tolerance in [0,1]
	Threshold float64
	// Exact counts every pixel whose colour changed at all
	Exact bool
	// IgnoreAntiAliased skips pixels that look like anti-aliasing of an edge
	IgnoreAntiAliased bool
}

func (o Options) threshold() (float64, error) {
	switch {
	case o.Exact:
		return 0, nil
	case o.Threshold < 0 || o.Threshold > 1:
		return 0, fmt.Errorf("%w: %v", ErrInvalidThreshold, o.Threshold)
	case o.Threshold == 0:
		return DefaultThreshold, nil
	}
	return o.Threshold, nil
}

// Result describes one comparison
type Result struct {
	DiffPixels   int
	TotalPixels  int
	BaselinePath string
	ActualPath   string
	DiffPath     string
}

// Compare counts the pixels of got that differ from want beyond the
// configured tolerance and returns an image marking them in red.
func Compare(want, got image.Image, opts Options) (int, image.Image, error) {
	if want.Bounds().Size() != got.Bounds().Size() {
		return 0, nil, fmt.Errorf("%w: baseline %v, actual %v", ErrSizeMismatch, want.Bounds().Size(), got.Bounds().Size())
	}
	threshold, err := opts.threshold()
	if err != nil {
		return 0, nil, err
	}

	var diff image.Image
	matchOpts := []pixelmatch.MatchOption{
		pixelmatch.Threshold(threshold),
		pixelmatch.WriteTo(&diff),
	}
	if !opts.IgnoreAntiAliased {
		matchOpts = append(matchOpts, pixelmatch.IncludeAntiAlias)
	}
	count, err := pixelmatch.MatchPixel(atOrigin(want), atOrigin(got), matchOpts...)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to compare screenshots: %w", err)
	}
	return count, diff, nil
}

// atOrigin returns img with its bounds starting at 0,0.
func atOrigin(img image.Image) image.Image {
	if img.Bounds().Min == (image.Point{}) {
		return img
	}
	out := image.NewNRGBA(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Src)
	return out
}

// Store keeps baselines in Dir and writes failing actual/diff images to ResultsDir
type Store struct {
	Dir        string
	ResultsDir string
	Update     bool
	Logger     *zap.Logger
}

// Match compares a PNG screenshot against the named baseline. A missing
// baseline is written from actual and reported as ErrBaselineMissing; with
// Update set the baseline is rewritten and the comparison passes.
func (s *Store) Match(name string, actual []byte, opts Options) (Result, error) {
	logger := s.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	res := Result{BaselinePath: filepath.Join(s.Dir, name+".png")}

	got, err := png.Decode(bytes.NewReader(actual))
	if err != nil {
		return res, fmt.Errorf("failed to decode screenshot %s: %w", name, err)
	}
	res.TotalPixels = got.Bounds().Dx() * got.Bounds().Dy()

	raw, err := os.ReadFile(res.BaselinePath)
	switch {
	case errors.Is(err, os.ErrNotExist) || s.Update:
		if err := writePNG(res.BaselinePath, actual); err != nil {
			return res, err
		}
		if s.Update {
			logger.Info("baseline updated", zap.String("path", res.BaselinePath))
			return res, nil
		}
		logger.Warn("baseline written", zap.String("path", res.BaselinePath))
		return res, fmt.Errorf("%w: wrote %s", ErrBaselineMissing, res.BaselinePath)
	case err != nil:
		return res, fmt.Errorf("failed to read baseline: %w", err)
	}

	want, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		return res, fmt.Errorf("failed to decode baseline %s: %w", res.BaselinePath, err)
	}

	count, diff, err := Compare(want, got, opts)
	if err != nil {
		res.ActualPath = s.resultPath(name, "actual")
		_ = writePNG(res.ActualPath, actual)
		return res, err
	}
	res.DiffPixels = count
	if count <= opts.MaxDiffPixels {
		return res, nil
	}

	res.ActualPath = s.resultPath(name, "actual")
	res.DiffPath = s.resultPath(name, "diff")
	if err := writePNG(res.ActualPath, actual); err != nil {
		return res, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, diff); err != nil {
		return res, fmt.Errorf("failed to encode diff: %w", err)
	}
	if err := writePNG(res.DiffPath, buf.Bytes()); err != nil {
		return res, err
	}
	return res, fmt.Errorf("%w: %d of %d pixels differ (max %d), see %s",
		ErrTooManyPixels, count, res.TotalPixels, opts.MaxDiffPixels, res.DiffPath)
}

func (s *Store) resultPath(name, kind string) string {
	return filepath.Join(s.ResultsDir, "visual", name+"-"+kind+".png")
}

func writePNG(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
