package cropper

import (
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/menta2k/poster-cropper/pkg/types"
)

// BoundsPolicy decides what happens when a crop rectangle leaves the source image
type BoundsPolicy string

const (
	// Reject fails the crop with types.ErrCropOutOfBounds
	Reject BoundsPolicy = "reject"
	// Clamp crops the part of the rectangle that overlaps the source. The
	// output is smaller than requested on the clamped sides.
	Clamp BoundsPolicy = "clamp"
)

// ParseBoundsPolicy converts a config or flag value into a BoundsPolicy
func ParseBoundsPolicy(s string) (BoundsPolicy, error) {
	switch BoundsPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case Reject, "":
		return Reject, nil
	case Clamp:
		return Clamp, nil
	default:
		return "", fmt.Errorf("unknown bounds policy %q (use reject or clamp)", s)
	}
}

// Cropper cuts rectangles out of decoded images
type Cropper struct {
	config CropConfig
}

// CropConfig holds configuration for the cropper
type CropConfig struct {
	Policy BoundsPolicy
}

// CropResult contains the result of a cropping operation
type CropResult struct {
	Image     image.Image
	Requested image.Rectangle
	Applied   image.Rectangle
	Clamped   bool
}

// New creates a new Cropper that rejects out-of-bounds rectangles
func New() *Cropper {
	return &Cropper{
		config: CropConfig{Policy: Reject},
	}
}

// NewWithConfig creates a new Cropper with custom configuration
func NewWithConfig(config CropConfig) *Cropper {
	if config.Policy == "" {
		config.Policy = Reject
	}
	return &Cropper{config: config}
}

// Policy returns the bounds policy in effect
func (c *Cropper) Policy() BoundsPolicy {
	return c.config.Policy
}

// CropSpec crops the rectangle described by spec
func (c *Cropper) CropSpec(img image.Image, spec CropSpec) (CropResult, error) {
	return c.CropRect(img, spec.Rect())
}

// CropRect crops rect out of img. The result always starts at (0,0).
func (c *Cropper) CropRect(img image.Image, rect image.Rectangle) (CropResult, error) {
	if rect.Empty() {
		return CropResult{}, types.NewCropError(types.ErrCropOutOfBounds, 0, "",
			fmt.Errorf("empty crop rectangle %v", rect))
	}

	bounds := img.Bounds()
	applied := rect
	if !rect.In(bounds) {
		if c.config.Policy != Clamp {
			return CropResult{}, types.NewCropError(types.ErrCropOutOfBounds, 0, "",
				fmt.Errorf("rectangle %v exceeds image bounds %v", rect, bounds))
		}
		applied = rect.Intersect(bounds)
		if applied.Empty() {
			return CropResult{}, types.NewCropError(types.ErrCropOutOfBounds, 0, "",
				fmt.Errorf("rectangle %v does not overlap image bounds %v", rect, bounds))
		}
	}

	return CropResult{
		Image:     imaging.Crop(img, applied),
		Requested: rect,
		Applied:   applied,
		Clamped:   applied != rect,
	}, nil
}
