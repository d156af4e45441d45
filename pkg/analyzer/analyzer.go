package analyzer

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/menta2k/poster-cropper/pkg/types"
)

// Dimensions every poster sheet must have
const (
	SourceWidth  = 1024
	SourceHeight = 1024
)

// ImageAnalyzer inspects source images before any crop runs
type ImageAnalyzer struct {
	config Config
}

// Config holds configuration for the image analyzer
type Config struct {
	SupportedFormats []string
	Width            int
	Height           int
}

// New creates a new ImageAnalyzer that accepts 1024x1024 sources
func New() *ImageAnalyzer {
	return &ImageAnalyzer{
		config: Config{
			SupportedFormats: []string{"png", "jpeg", "gif", "bmp", "tiff", "webp"},
			Width:            SourceWidth,
			Height:           SourceHeight,
		},
	}
}

// NewWithConfig creates a new ImageAnalyzer with custom configuration
func NewWithConfig(config Config) *ImageAnalyzer {
	return &ImageAnalyzer{config: config}
}

// ImageInfo contains basic image metadata
type ImageInfo struct {
	Format string
	Width  int
	Height int
}

func (i ImageInfo) String() string {
	return fmt.Sprintf("%dx%d %s", i.Width, i.Height, i.Format)
}

// Inspect reads only the image header of path and validates it
func (a *ImageAnalyzer) Inspect(path string) (ImageInfo, error) {
	file, err := os.Open(path)
	if err != nil {
		return ImageInfo{}, types.NewCropError(types.ErrSourceUnreadable, 0, path, err)
	}
	defer file.Close()

	info, err := a.InspectReader(file)
	if err != nil {
		var ce *types.CropError
		if errors.As(err, &ce) {
			ce.Path = path
			return info, ce
		}
		return info, err
	}
	return info, nil
}

// InspectReader reads an image header from reader and validates it
func (a *ImageAnalyzer) InspectReader(reader io.Reader) (ImageInfo, error) {
	cfg, format, err := image.DecodeConfig(reader)
	if err != nil {
		return ImageInfo{}, types.NewCropError(types.ErrSourceUnreadable, 0, "",
			fmt.Errorf("failed to decode image header: %w", err))
	}

	info := ImageInfo{Format: format, Width: cfg.Width, Height: cfg.Height}
	if !a.isFormatSupported(format) {
		return info, types.NewCropError(types.ErrSourceUnreadable, 0, "",
			fmt.Errorf("unsupported image format: %s", format))
	}
	return info, a.validateSize(info.Width, info.Height)
}

// GetImageInfo returns basic information about a decoded image
func (a *ImageAnalyzer) GetImageInfo(img image.Image) ImageInfo {
	bounds := img.Bounds()
	return ImageInfo{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}
}

// ValidateImage checks that a decoded image has the exact required size
func (a *ImageAnalyzer) ValidateImage(img image.Image) error {
	bounds := img.Bounds()
	return a.validateSize(bounds.Dx(), bounds.Dy())
}

func (a *ImageAnalyzer) validateSize(width, height int) error {
	if width != a.config.Width || height != a.config.Height {
		return types.NewCropError(types.ErrInvalidSourceDimensions, 0, "",
			fmt.Errorf("the input image must be %dx%d pixels, got %dx%d",
				a.config.Width, a.config.Height, width, height))
	}
	return nil
}

func (a *ImageAnalyzer) isFormatSupported(format string) bool {
	for _, supported := range a.config.SupportedFormats {
		if strings.EqualFold(format, supported) {
			return true
		}
	}
	return false
}
