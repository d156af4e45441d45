// Package postercrop cuts the five fixed poster regions out of a 1024x1024
// LethalPosters sheet and writes each one as its own image file.
//
// Basic usage:
//
//	pc := postercrop.New()
//	n, err := pc.RunCrops(ctx, "sheet.png", "out", []int{1, 3, 5})
//	if err != nil {
//		var ce *types.CropError
//		if errors.As(err, &ce) {
//			log.Printf("poster %d failed after %d crops: %v", ce.ID, n, err)
//		}
//	}
//
// The package combines three components:
//
// 1. Analyzer (pkg/analyzer): checks that the source is a decodable 1024x1024 image
// 2. Cropper (pkg/cropper): the fixed poster rectangles and the crop primitive
// 3. Processor (pkg/processing): decoding and atomic encoding to disk
//
// A batch is sequential and fail-fast. Posters already written when a later
// crop fails stay on disk.
package postercrop

import (
	"context"
	"errors"
	"fmt"
	"image"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/menta2k/poster-cropper/internal/utils"
	"github.com/menta2k/poster-cropper/pkg/analyzer"
	"github.com/menta2k/poster-cropper/pkg/cropper"
	"github.com/menta2k/poster-cropper/pkg/processing"
	"github.com/menta2k/poster-cropper/pkg/types"
)

// Version of the poster cropper library
const Version = "1.0.0"

// ProgressFunc is called after each successful crop of a batch
type ProgressFunc func(done, total int, spec cropper.CropSpec)

// Option configures a PosterCropper
type Option func(*PosterCropper)

// WithLogger sets the logger receiving one record per crop
func WithLogger(logger *zap.Logger) Option {
	return func(pc *PosterCropper) {
		if logger != nil {
			pc.logger = logger
		}
	}
}

// WithProgress sets a batch progress observer
func WithProgress(fn ProgressFunc) Option {
	return func(pc *PosterCropper) {
		pc.progress = fn
	}
}

// PosterCropper provides a high-level interface for poster cropping
type PosterCropper struct {
	analyzer  *analyzer.ImageAnalyzer
	cropper   *cropper.Cropper
	processor *processing.Processor
	logger    *zap.Logger
	progress  ProgressFunc
}

// New creates a new PosterCropper with default configuration
func New(opts ...Option) *PosterCropper {
	return NewWithConfig(cropper.CropConfig{Policy: cropper.Reject}, types.DefaultEncodeOptions(), opts...)
}

// NewWithConfig creates a new PosterCropper with custom configuration
func NewWithConfig(cropperConfig cropper.CropConfig, encode types.EncodeOptions, opts ...Option) *PosterCropper {
	pc := &PosterCropper{
		analyzer:  analyzer.New(),
		cropper:   cropper.NewWithConfig(cropperConfig),
		processor: processing.NewProcessorWithOptions(encode),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(pc)
	}
	return pc
}

// ValidateSource checks that path is a readable 1024x1024 image without
// decoding the pixel data.
func (pc *PosterCropper) ValidateSource(path string) (analyzer.ImageInfo, error) {
	return pc.analyzer.Inspect(path)
}

// Crop cuts the width x height rectangle centered on (centerX, centerY) out of
// the image at sourcePath and writes it to outputPath, replacing any existing
// file. On failure nothing is written.
func (pc *PosterCropper) Crop(sourcePath, outputPath string, centerX, centerY, width, height int) error {
	spec := cropper.CropSpec{
		OutputName: filepath.Base(outputPath),
		CenterX:    centerX,
		CenterY:    centerY,
		Width:      width,
		Height:     height,
	}
	return pc.crop(pc.logger, sourcePath, outputPath, spec)
}

// CropSpec is Crop for one of the fixed poster specs
func (pc *PosterCropper) CropSpec(sourcePath, outputPath string, spec cropper.CropSpec) error {
	return pc.crop(pc.logger, sourcePath, outputPath, spec)
}

func (pc *PosterCropper) crop(log *zap.Logger, sourcePath, outputPath string, spec cropper.CropSpec) error {
	if utils.SamePath(sourcePath, outputPath) {
		err := types.NewCropError(types.ErrOutputUnwritable, spec.ID, outputPath,
			errors.New("output would overwrite the source image"))
		log.Error("Error: crop failed", zap.Int("crop_id", spec.ID), zap.Error(err))
		return err
	}

	img, err := pc.processor.LoadImage(sourcePath)
	if err != nil {
		err = types.Tag(err, types.ErrSourceUnreadable, spec.ID, sourcePath)
		log.Error("Error: crop failed", zap.Int("crop_id", spec.ID), zap.Error(err))
		return err
	}

	return pc.cropAndSave(log, img, spec, outputPath)
}

func (pc *PosterCropper) cropAndSave(log *zap.Logger, img image.Image, spec cropper.CropSpec, outputPath string) error {
	log = log.With(zap.Int("crop_id", spec.ID), zap.String("output", outputPath))

	result, err := pc.cropper.CropSpec(img, spec)
	if err != nil {
		err = types.Tag(err, types.ErrCropOutOfBounds, spec.ID, outputPath)
		log.Error("Error: crop failed", zap.Error(err))
		return err
	}
	if result.Clamped {
		log.Warn("Crop rectangle clamped to image bounds",
			zap.Stringer("requested", result.Requested),
			zap.Stringer("applied", result.Applied))
	}

	if err := pc.processor.SaveImage(result.Image, outputPath); err != nil {
		err = types.Tag(err, types.ErrOutputUnwritable, spec.ID, outputPath)
		log.Error("Error: crop failed", zap.Error(err))
		return err
	}

	bounds := result.Image.Bounds()
	log.Info("Success: cropped image saved",
		zap.Int("width", bounds.Dx()),
		zap.Int("height", bounds.Dy()))
	return nil
}

// RunCrops crops every selected poster out of sourcePath into outputFolder,
// in ascending id order. The source must be a 1024x1024 image and ids must be
// a non-empty subset of the known poster ids; both are checked before any
// file is written. The batch stops at the first failing crop and reports it
// as a *types.CropError carrying that crop's id. The returned count is the
// number of posters written.
func (pc *PosterCropper) RunCrops(ctx context.Context, sourcePath, outputFolder string, ids []int) (int, error) {
	log := pc.logger.With(zap.String("batch_id", uuid.NewString()))

	selected, err := cropper.NormalizeSelection(ids)
	if err != nil {
		log.Error("Error: batch rejected", zap.Error(err))
		return 0, err
	}

	if !utils.DirExists(outputFolder) {
		err := types.NewCropError(types.ErrOutputUnwritable, 0, outputFolder,
			errors.New("output folder does not exist"))
		log.Error("Error: batch rejected", zap.Error(err))
		return 0, err
	}

	header, err := pc.analyzer.Inspect(sourcePath)
	if err != nil {
		log.Error("Error: batch rejected", zap.Error(err))
		return 0, err
	}

	img, err := pc.processor.LoadImage(sourcePath)
	if err != nil {
		log.Error("Error: batch rejected", zap.Error(err))
		return 0, err
	}
	if err := pc.analyzer.ValidateImage(img); err != nil {
		err = types.Tag(err, types.ErrInvalidSourceDimensions, 0, sourcePath)
		log.Error("Error: batch rejected", zap.Error(err))
		return 0, err
	}

	info := pc.analyzer.GetImageInfo(img)
	info.Format = header.Format

	log.Info("Batch started",
		zap.String("source", sourcePath),
		zap.Stringer("source_info", info),
		zap.String("output_folder", outputFolder),
		zap.Ints("crop_ids", selected))

	done := 0
	for _, id := range selected {
		if err := ctx.Err(); err != nil {
			log.Warn("Batch canceled", zap.Int("completed", done), zap.Error(err))
			return done, fmt.Errorf("batch canceled before poster %d: %w", id, err)
		}

		spec, _ := cropper.Lookup(id)
		outputPath := filepath.Join(outputFolder, spec.OutputName)
		if utils.SamePath(sourcePath, outputPath) {
			err := types.NewCropError(types.ErrOutputUnwritable, id, outputPath,
				errors.New("output would overwrite the source image"))
			log.Error("Error: crop failed", zap.Int("crop_id", id), zap.Error(err))
			return done, err
		}

		if err := pc.cropAndSave(log, img, spec, outputPath); err != nil {
			return done, err
		}

		done++
		if pc.progress != nil {
			pc.progress(done, len(selected), spec)
		}
	}

	log.Info("Batch completed", zap.Int("count", done))
	return done, nil
}

// GetVersion returns the library version
func GetVersion() string {
	return Version
}
