package processing

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/menta2k/poster-cropper/pkg/types"
)

// Processor handles image decoding and encoding
type Processor struct {
	opts types.EncodeOptions
}

// NewProcessor creates a new image processor with default encoder settings
func NewProcessor() *Processor {
	return &Processor{opts: types.DefaultEncodeOptions()}
}

// NewProcessorWithOptions creates a new image processor with custom encoder settings
func NewProcessorWithOptions(opts types.EncodeOptions) *Processor {
	return &Processor{opts: opts}
}

// LoadImage loads an image from a file path with WebP support
func (p *Processor) LoadImage(path string) (image.Image, error) {
	// Try imaging.Open (registered decoders)
	img, openErr := imaging.Open(path)
	if openErr == nil {
		return img, nil
	}

	// Fall back to the WebP-aware reader path
	file, err := os.Open(path)
	if err != nil {
		return nil, types.NewCropError(types.ErrSourceUnreadable, 0, path, err)
	}
	defer file.Close()

	img, err = p.LoadImageFromReader(file)
	if err != nil {
		return nil, types.Tag(err, types.ErrSourceUnreadable, 0, path)
	}
	return img, nil
}

// LoadImageFromReader loads an image from an io.Reader
func (p *Processor) LoadImageFromReader(reader io.Reader) (image.Image, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, types.NewCropError(types.ErrSourceUnreadable, 0, "", err)
	}
	img, err := p.decodeImageFromBytes(data)
	if err != nil {
		return nil, types.NewCropError(types.ErrSourceUnreadable, 0, "", err)
	}
	return img, nil
}

// decodeImageFromBytes decodes an image from byte data with WebP support
func (p *Processor) decodeImageFromBytes(data []byte) (image.Image, error) {
	// Try standard image.Decode first
	if img, _, err := image.Decode(bytes.NewReader(data)); err == nil {
		return img, nil
	}

	// Try WebP decode
	if img, err := webp.Decode(bytes.NewReader(data)); err == nil {
		return img, nil
	}

	return nil, fmt.Errorf("image: unknown or unsupported format")
}

// SaveImage encodes img in the format implied by the extension of path.
// The data is written to a temporary file in the same directory and renamed
// over path, so a failed save never leaves a partial file behind.
func (p *Processor) SaveImage(img image.Image, path string) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return types.NewCropError(types.ErrOutputUnwritable, 0, path, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	if err = p.Encode(tmp, img, path); err != nil {
		return types.NewCropError(types.ErrOutputUnwritable, 0, path, err)
	}
	if err = tmp.Close(); err != nil {
		return types.NewCropError(types.ErrOutputUnwritable, 0, path, err)
	}
	if err = os.Chmod(tmpName, 0o644); err != nil {
		return types.NewCropError(types.ErrOutputUnwritable, 0, path, err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return types.NewCropError(types.ErrOutputUnwritable, 0, path, err)
	}
	return nil
}

// Encode writes img to w in the format implied by the extension of name
func (p *Processor) Encode(w io.Writer, img image.Image, name string) error {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == ".webp" {
		opts := &webp.Options{Lossless: p.opts.WebPLossless, Quality: float32(p.opts.WebPQuality)}
		return webp.Encode(w, img, opts)
	}

	format, err := imaging.FormatFromExtension(ext)
	if err != nil {
		return fmt.Errorf("unsupported output format %q: %w", ext, err)
	}

	return imaging.Encode(w, img, format,
		imaging.JPEGQuality(p.opts.JPEGQuality),
		imaging.PNGCompressionLevel(pngCompression(p.opts.PNGCompression)),
	)
}

func pngCompression(level string) png.CompressionLevel {
	switch strings.ToLower(level) {
	case "none":
		return png.NoCompression
	case "fast":
		return png.BestSpeed
	case "best":
		return png.BestCompression
	default:
		return png.DefaultCompression
	}
}
