package cropper

import (
	"fmt"
	"image"
	"sort"
	"strconv"
	"strings"

	"github.com/menta2k/poster-cropper/pkg/types"
)

// CropSpec is a named, fixed crop rectangle given by its center and size
type CropSpec struct {
	ID         int
	OutputName string
	CenterX    int
	CenterY    int
	Width      int
	Height     int
}

// The five poster regions of a 1024x1024 LethalPosters sheet
var (
	Poster1 = CropSpec{1, "Poster1.png", 778, 180, 274, 243}
	Poster2 = CropSpec{2, "Poster2.png", 390, 802, 411, 364}
	Poster3 = CropSpec{3, "Poster3.png", 489, 280, 285, 559}
	Poster4 = CropSpec{4, "Poster4.png", 171, 280, 341, 559}
	Poster5 = CropSpec{5, "Poster5.png", 818, 656, 372, 672}
)

// Specs returns every poster spec in ascending id order
func Specs() []CropSpec {
	return []CropSpec{Poster1, Poster2, Poster3, Poster4, Poster5}
}

// IDs returns every known poster id in ascending order
func IDs() []int {
	specs := Specs()
	ids := make([]int, len(specs))
	for i, s := range specs {
		ids[i] = s.ID
	}
	return ids
}

// Lookup finds the spec with the given id
func Lookup(id int) (CropSpec, bool) {
	for _, s := range Specs() {
		if s.ID == id {
			return s, true
		}
	}
	return CropSpec{}, false
}

// Rect computes the crop rectangle. Left and top use truncating division by
// two; right and bottom are offset by the full size so the rectangle is
// exactly Width x Height for odd sizes too.
func (s CropSpec) Rect() image.Rectangle {
	left := s.CenterX - s.Width/2
	top := s.CenterY - s.Height/2
	return image.Rect(left, top, left+s.Width, top+s.Height)
}

func (s CropSpec) String() string {
	r := s.Rect()
	return fmt.Sprintf("#%d %s center=(%d,%d) size=%dx%d rect=(%d,%d)-(%d,%d)",
		s.ID, s.OutputName, s.CenterX, s.CenterY, s.Width, s.Height, r.Min.X, r.Min.Y, r.Max.X, r.Max.Y)
}

// NormalizeSelection sorts and deduplicates ids and checks each against the
// known specs.
func NormalizeSelection(ids []int) ([]int, error) {
	if len(ids) == 0 {
		return nil, types.NewCropError(types.ErrNoSelection, 0, "", nil)
	}
	seen := make(map[int]struct{}, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, ok := Lookup(id); !ok {
			return nil, unknownCrop(id)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Ints(out)
	return out, nil
}

// unknownCrop names the offending id in the message, including 0 and
// negative ids that CropError does not print.
func unknownCrop(id int) error {
	return types.NewCropError(types.ErrUnknownCrop, id, "", fmt.Errorf("id %d is not one of %v", id, IDs()))
}

// ParseSelection parses a poster selection such as "1,3,5", "2-4" or "all"
func ParseSelection(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "all") {
		return IDs(), nil
	}

	var ids []int
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if lo, hi, ok := strings.Cut(tok, "-"); ok {
			from, err := strconv.Atoi(strings.TrimSpace(lo))
			if err != nil {
				return nil, fmt.Errorf("invalid range %q: %w", tok, err)
			}
			to, err := strconv.Atoi(strings.TrimSpace(hi))
			if err != nil {
				return nil, fmt.Errorf("invalid range %q: %w", tok, err)
			}
			if from > to {
				return nil, fmt.Errorf("invalid range %q: start after end", tok)
			}
			for _, end := range []int{from, to} {
				if _, ok := Lookup(end); !ok {
					return nil, unknownCrop(end)
				}
			}
			for id := from; id <= to; id++ {
				ids = append(ids, id)
			}
			continue
		}
		id, err := strconv.Atoi(tok)
		if err != nil {
			return nil, fmt.Errorf("invalid poster id %q: %w", tok, err)
		}
		ids = append(ids, id)
	}

	return NormalizeSelection(ids)
}
