package imaging

import (
	"bytes"
	stderrors "errors"
	"image"
	"image/draw"
	"image/jpeg"

	_ "image/gif"
	_ "image/png"

	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/sukraa/prescription-ai-backend/pkg/config"
	"github.com/sukraa/prescription-ai-backend/pkg/errors"
)

// Options are the compression-loop tunables. Zero values are not usable;
// build them from configuration via OptionsFromConfig.
type Options struct {
	TargetBytes        int
	StartQuality       int
	QualityStep        int
	QualityFloor       int
	DownscaleRatio     float64
	MaxDownscaleRounds int
	MinDimension       int
}

// OptionsFromConfig builds compression options from the image configuration
func OptionsFromConfig(cfg *config.ImageConfig) Options {
	return Options{
		TargetBytes:        cfg.MaxSizeBytes(),
		StartQuality:       cfg.StartQuality,
		QualityStep:        cfg.QualityStep,
		QualityFloor:       cfg.QualityFloor,
		DownscaleRatio:     cfg.DownscaleRatio,
		MaxDownscaleRounds: cfg.MaxDownscaleRounds,
		MinDimension:       cfg.MinDimension,
	}
}

// Result is the outcome of one compression run
type Result struct {
	Data   []byte
	Format string
	// Quality is the final JPEG quality used; 0 when the input passed
	// through untouched.
	Quality int
	Width   int
	Height  int
	// Passthrough is set when the input was already at or below the target
	// and is returned byte-identical.
	Passthrough bool
	// BestEffort is set when the bounded loop could not reach the target;
	// Data then holds the smallest encoding achieved.
	BestEffort bool
}

// Compress re-encodes image bytes so the result is at or below
// opts.TargetBytes, reducing JPEG quality first and pixel dimensions only
// when the quality floor is not enough. Inputs already below the target are
// returned unchanged. The loop is bounded: when it exhausts, the smallest
// achieved encoding is returned with BestEffort set instead of an error.
func Compress(data []byte, opts Options) (*Result, error) {
	if len(data) == 0 {
		return nil, errors.Decode(stderrors.New("empty image data"))
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Decode(err)
	}

	bounds := img.Bounds()
	if len(data) <= opts.TargetBytes {
		return &Result{
			Data:        data,
			Format:      format,
			Width:       bounds.Dx(),
			Height:      bounds.Dy(),
			Passthrough: true,
		}, nil
	}

	// JPEG cannot carry alpha, so every source is flattened onto white
	// before the quality loop.
	frame := flatten(img)

	var best []byte
	bestQuality := 0
	buf := &bytes.Buffer{}

	for round := 0; ; round++ {
		for quality := opts.StartQuality; quality >= opts.QualityFloor; quality -= opts.QualityStep {
			buf.Reset()
			if err := jpeg.Encode(buf, frame, &jpeg.Options{Quality: quality}); err != nil {
				return nil, errors.Decode(err)
			}
			if best == nil || buf.Len() < len(best) {
				best = append(best[:0], buf.Bytes()...)
				bestQuality = quality
			}
			if buf.Len() <= opts.TargetBytes {
				b := frame.Bounds()
				return &Result{
					Data:    append([]byte(nil), buf.Bytes()...),
					Format:  "jpeg",
					Quality: quality,
					Width:   b.Dx(),
					Height:  b.Dy(),
				}, nil
			}
		}

		if round >= opts.MaxDownscaleRounds {
			break
		}
		next := downscale(frame, opts.DownscaleRatio)
		nb := next.Bounds()
		if nb.Dx() < opts.MinDimension || nb.Dy() < opts.MinDimension {
			break
		}
		frame = next
	}

	b := frame.Bounds()
	return &Result{
		Data:       best,
		Format:     "jpeg",
		Quality:    bestQuality,
		Width:      b.Dx(),
		Height:     b.Dy(),
		BestEffort: true,
	}, nil
}

// flatten draws the image onto an opaque white background
func flatten(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Over)
	return dst
}

// downscale shrinks both dimensions by the given ratio, keeping aspect ratio
func downscale(img *image.RGBA, ratio float64) *image.RGBA {
	bounds := img.Bounds()
	w := int(float64(bounds.Dx()) * ratio)
	h := int(float64(bounds.Dy()) * ratio)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, xdraw.Src, nil)
	return dst
}
