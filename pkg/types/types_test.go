package types

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
)

func TestCropErrorIs(t *testing.T) {
	err := NewCropError(ErrOutputUnwritable, 3, "out/Poster3.png", os.ErrPermission)

	if !errors.Is(err, ErrOutputUnwritable) {
		t.Error("Expected error to match its kind")
	}
	if !errors.Is(err, os.ErrPermission) {
		t.Error("Expected error to match its cause")
	}
	if errors.Is(err, ErrSourceUnreadable) {
		t.Error("Error should not match an unrelated kind")
	}
}

func TestCropErrorMessage(t *testing.T) {
	tests := []struct {
		err  *CropError
		want string
	}{
		{NewCropError(ErrNoSelection, 0, "", nil), "no posters selected"},
		{NewCropError(ErrUnknownCrop, 9, "", nil), "poster 9: unknown crop id"},
		{
			NewCropError(ErrOutputUnwritable, 2, "out/Poster2.png", fmt.Errorf("disk full")),
			"poster 2: output unwritable (out/Poster2.png): disk full",
		},
	}

	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestTag(t *testing.T) {
	base := NewCropError(ErrCropOutOfBounds, 0, "", fmt.Errorf("rectangle outside"))
	tagged := Tag(base, ErrOutputUnwritable, 4, "out/Poster4.png")

	var ce *CropError
	if !errors.As(tagged, &ce) {
		t.Fatalf("Expected CropError, got %T", tagged)
	}
	if ce.ID != 4 || ce.Path != "out/Poster4.png" {
		t.Errorf("Unexpected tag id=%d path=%s", ce.ID, ce.Path)
	}
	if !errors.Is(tagged, ErrCropOutOfBounds) {
		t.Error("Tag should keep the original kind")
	}
	if base.ID != 0 {
		t.Error("Tag must not modify the original error")
	}

	plain := Tag(fmt.Errorf("boom"), ErrOutputUnwritable, 1, "x.png")
	if !errors.Is(plain, ErrOutputUnwritable) || !strings.Contains(plain.Error(), "boom") {
		t.Errorf("Unexpected wrapping of plain error: %v", plain)
	}
}
