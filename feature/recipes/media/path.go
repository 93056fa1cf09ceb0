package media

import (
	"path/filepath"
	"strconv"
	"strings"
)

const (
	filePrefix  = "media-"
	thumbPrefix = "thumb-"
)

// GenerateSingleMediaPath returns root/<recipeID>/<mediaID>/media-<mediaID>.
// The result depends on its arguments only.
func GenerateSingleMediaPath(root string, recipeID, mediaID int) string {
	return filepath.Join(mediaDir(root, recipeID, mediaID), filePrefix+strconv.Itoa(mediaID))
}

// GenerateThumbnailPath returns the thumbnail key stored next to the media file.
func GenerateThumbnailPath(root string, recipeID, mediaID int) string {
	return filepath.Join(mediaDir(root, recipeID, mediaID), thumbPrefix+strconv.Itoa(mediaID)+".jpg")
}

func mediaDir(root string, recipeID, mediaID int) string {
	return filepath.Join(root, strconv.Itoa(recipeID), strconv.Itoa(mediaID))
}

// ParseMediaPath extracts the recipe and media ids from a key produced by
// GenerateSingleMediaPath. Thumbnails and foreign keys are rejected.
func ParseMediaPath(root, key string) (recipeID, mediaID int, ok bool) {
	rel, err := filepath.Rel(root, key)
	if err != nil || strings.HasPrefix(rel, "..") {
		return 0, 0, false
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) != 3 || !strings.HasPrefix(parts[2], filePrefix) {
		return 0, 0, false
	}

	recipeID, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, false
	}
	mediaID, err = strconv.Atoi(parts[1])
	if err != nil || parts[2] != filePrefix+parts[1] {
		return 0, 0, false
	}
	return recipeID, mediaID, true
}

// IsThumbnail reports whether key names a generated thumbnail.
func IsThumbnail(key string) bool {
	return strings.HasPrefix(filepath.Base(key), thumbPrefix)
}
