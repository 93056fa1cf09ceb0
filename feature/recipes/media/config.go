package media

// Config holds configuration for recipe media storage.
type Config struct {
	// BasePath is the root directory (or key prefix) of all media.
	BasePath string `mapstructure:"base_path" default:"./data/media"`
	// ImagesSubdirectory is the folder under BasePath holding recipe images.
	ImagesSubdirectory string `mapstructure:"images_subdirectory" default:"images"`
	// MaxImageSizeBytes is the largest accepted media payload.
	MaxImageSizeBytes int64 `mapstructure:"max_image_size_bytes" default:"5242880"`
	// ThumbnailWidth is the width of generated thumbnails; 0 disables them.
	ThumbnailWidth int `mapstructure:"thumbnail_width" default:"320"`
	// Backend selects where bytes are stored: "local" or "s3".
	Backend string `mapstructure:"backend" default:"local"`
}

const (
	// BackendLocal stores media on the local filesystem.
	BackendLocal = "local"
	// BackendS3 stores media in an S3-compatible bucket.
	BackendS3 = "s3"
)
