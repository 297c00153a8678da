package services

import (
	"fmt"
	"strings"

	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/shared"
)

// videoImageSizes lists the 3:2 thumbnail sizes TIDAL serves for videos, keyed by width.
var videoImageSizes = map[int]int{
	160:  107,
	480:  320,
	750:  500,
	1080: 720,
}

// VideoImageURL resolves the thumbnail of v at width.
//
// Returns [shared.ErrNoImage] when the video has no image id and [shared.ErrInvalidImageSize]
// when width is not one of the sizes TIDAL serves.
func (s *TidalService) VideoImageURL(v models.Video, width int) (string, error) {
	return videoImageURL(s.imageURL, v.ImageID, width)
}

func videoImageURL(base, imageID string, width int) (string, error) {
	if imageID == "" {
		return "", shared.ErrNoImage
	}

	height, ok := videoImageSizes[width]
	if !ok {
		return "", fmt.Errorf("%w: %d", shared.ErrInvalidImageSize, width)
	}

	path := strings.ReplaceAll(imageID, "-", "/")
	return fmt.Sprintf("%s/%s/%dx%d.jpg", base, path, width, height), nil
}
