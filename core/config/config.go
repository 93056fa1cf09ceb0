package config

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"recipe-manager/core/cache"
	"recipe-manager/core/database"
	"recipe-manager/core/logger"
	"recipe-manager/core/server"
	"recipe-manager/core/storage"
	"recipe-manager/feature/recipes/media"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Database holds configuration for the database connection.
	Database database.Config `mapstructure:"database"`
	// Media holds configuration for media file storage.
	Media media.Config `mapstructure:"media"`
	// Storage holds configuration for the S3-compatible media backend.
	Storage storage.Config `mapstructure:"storage"`
	// Cache holds configuration for the recipe summary cache.
	Cache cache.Config `mapstructure:"cache"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
}

// LoadConfig loads configuration from environment variables and the .env file in path.
// Values already present in .env override the process environment.
func LoadConfig(path string) (*Config, error) {
	// A missing .env is normal in production.
	_ = godotenv.Overload(envFile(path))

	v := viper.New()
	bindValues(v, Config{}, "")

	// MEDIA_BASE_PATH -> media.base_path
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case database.DriverMySQL, database.DriverSQLite:
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}

	switch c.Media.Backend {
	case media.BackendLocal, media.BackendS3:
	default:
		return fmt.Errorf("unsupported media backend %q", c.Media.Backend)
	}
	if c.Media.MaxImageSizeBytes < 0 {
		return fmt.Errorf("media.max_image_size_bytes must not be negative")
	}

	// Media travel base64-encoded inside the JSON body.
	if encoded := c.Media.MaxImageSizeBytes / 3 * 4; c.Server.BodyLimitBytes > 0 && encoded > int64(c.Server.BodyLimitBytes) {
		return fmt.Errorf("server.body_limit_bytes (%d) cannot carry a %d byte image", c.Server.BodyLimitBytes, c.Media.MaxImageSizeBytes)
	}
	return nil
}

func envFile(path string) string {
	if path == "" || path == "." {
		return ".env"
	}
	return filepath.Join(path, ".env")
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
