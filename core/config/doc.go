// Package config provides configuration management for the Recipe Manager.
//
// It utilizes Viper for loading configuration from environment variables
// and an optional .env file (via godotenv). Defaults come from `default`
// struct tags on each partial configuration.
//
// # Configuration Structure
//
//   - Server: HTTP port, body limit, rate limiting
//   - Database: MySQL or SQLite connection details
//   - Media: media root, images subdirectory, maximum image size, backend
//   - Storage: S3/MinIO credentials and bucket for the s3 media backend
//   - Cache: Redis address and TTL for the recipe summary cache
//   - Log: Logging level and format
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Media.BasePath)
package config
