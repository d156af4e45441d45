package types

import (
	"errors"
	"fmt"
)

// Error kinds reported by the crop engine. Match them with errors.Is.
var (
	ErrInvalidSourceDimensions = errors.New("invalid source dimensions")
	ErrSourceUnreadable        = errors.New("source unreadable")
	ErrOutputUnwritable        = errors.New("output unwritable")
	ErrCropOutOfBounds         = errors.New("crop out of bounds")
	ErrNoSelection             = errors.New("no posters selected")
	ErrUnknownCrop             = errors.New("unknown crop id")
)

// CropError ties a failure to the crop that caused it.
// ID is 0 when the failure happened before any crop was attempted.
type CropError struct {
	ID   int
	Path string
	Kind error
	Err  error
}

func (e *CropError) Error() string {
	msg := e.Kind.Error()
	if e.ID > 0 {
		msg = fmt.Sprintf("poster %d: %s", e.ID, msg)
	}
	if e.Path != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Path)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap exposes both the kind and the underlying cause.
func (e *CropError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NewCropError builds a CropError for the given kind.
func NewCropError(kind error, id int, path string, err error) *CropError {
	return &CropError{ID: id, Path: path, Kind: kind, Err: err}
}

// Tag returns a copy of err carrying the crop id and output path. Errors that
// are not a CropError are wrapped under kind.
func Tag(err error, kind error, id int, path string) error {
	var ce *CropError
	if errors.As(err, &ce) {
		tagged := *ce
		tagged.ID = id
		if tagged.Path == "" {
			tagged.Path = path
		}
		return &tagged
	}
	return &CropError{ID: id, Path: path, Kind: kind, Err: err}
}

// EncodeOptions controls how crops are written to disk
type EncodeOptions struct {
	PNGCompression string
	JPEGQuality    int
	WebPQuality    int
	WebPLossless   bool
}

// DefaultEncodeOptions returns the encoder settings used when none are configured.
func DefaultEncodeOptions() EncodeOptions {
	return EncodeOptions{
		PNGCompression: "default",
		JPEGQuality:    95,
		WebPQuality:    90,
		WebPLossless:   false,
	}
}
