package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"recipe-manager/feature/integrity"
	"recipe-manager/feature/integrity/checks"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Perform integrity checks on media and schema",
	Long:  `Compares media rows with stored files and checks the database schema against the models.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			return cmd.Help()
		}
		rt, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		svc := integrity.NewService(rt.db, rt.media, rt.logger)

		report, err := svc.CheckMedia(cmd.Context())
		if err != nil {
			return fmt.Errorf("media check failed: %w", err)
		}
		logMediaReport(rt.logger, report)

		schema, err := svc.CheckSchema()
		if err != nil {
			return fmt.Errorf("schema check failed: %w", err)
		}
		logSchemaReport(rt.logger, schema)
		return nil
	},
}

// mediaCmd represents the integrity media command
var mediaCmd = &cobra.Command{
	Use:   "media",
	Short: "Compare media rows with stored files",
	Long:  `Reports rows without files, rows with a non-derived path and orphan files. With --purge the orphan files are deleted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		startTime := time.Now()

		purge, _ := cmd.Flags().GetBool("purge")
		jsonOutput, _ := cmd.Flags().GetBool("json")

		rt, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		svc := integrity.NewService(rt.db, rt.media, rt.logger)

		report, err := svc.CheckMedia(ctx)
		if err != nil {
			return fmt.Errorf("media check failed: %w", err)
		}

		if purge && len(report.Orphans) > 0 {
			rt.logger.Info("Purging orphan media files...", zap.Int("count", len(report.Orphans)))
			if err := svc.PurgeOrphans(ctx, report); err != nil {
				return fmt.Errorf("purge failed: %w", err)
			}
		} else if len(report.Orphans) > 0 {
			rt.logger.Info("Run with --purge to delete orphan files.")
		}

		if jsonOutput {
			filename := fmt.Sprintf("integrity_media_%d.json", time.Now().Unix())
			data, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal JSON: %w", err)
			}
			if err := os.WriteFile(filename, data, 0644); err != nil {
				return fmt.Errorf("failed to save JSON file: %w", err)
			}
			rt.logger.Info("Detailed JSON report saved", zap.String("file", filename))
		}

		fmt.Println("\n=== Media Integrity Metrics ===")
		fmt.Printf("Rows: %d\n", report.Rows)
		fmt.Printf("Files: %d\n", report.Files)
		fmt.Printf("Missing Files: %d\n", len(report.MissingFiles))
		fmt.Printf("Mismatched Paths: %d\n", len(report.Mismatched))
		fmt.Printf("Orphans: %d\n", len(report.Orphans))
		fmt.Printf("Stray: %d\n", len(report.Stray))
		fmt.Printf("Purged: %d\n", len(report.Purged))
		fmt.Printf("Execution Time: %s\n", time.Since(startTime).String())

		logMediaReport(rt.logger, report)
		return nil
	},
}

// schemaCheckCmd represents the integrity schema command
var schemaCheckCmd = &cobra.Command{
	Use:   "schema",
	Short: "Check the database schema against the models",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		report, err := integrity.NewService(rt.db, rt.media, rt.logger).CheckSchema()
		if err != nil {
			return fmt.Errorf("schema check failed: %w", err)
		}
		logSchemaReport(rt.logger, report)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(integrityCmd)
	integrityCmd.AddCommand(mediaCmd, schemaCheckCmd)

	mediaCmd.Flags().Bool("purge", false, "Delete orphan files")
	mediaCmd.Flags().Bool("json", false, "Save the detailed report as JSON")
}

func logMediaReport(logg *zap.Logger, report *checks.MediaReport) {
	if len(report.Stray) > 0 {
		logg.Warn("Stray files under the media root", zap.Strings("paths", report.Stray))
	}
	if report.Clean() {
		logg.Info("Media rows and files agree.", zap.Int("rows", report.Rows))
		return
	}
	for _, m := range report.MissingFiles {
		logg.Warn("Missing media file", zap.Int("media_id", m.MediaID), zap.Int("recipe_id", m.RecipeID), zap.String("path", m.Path))
	}
	for _, m := range report.Mismatched {
		logg.Warn("Media path mismatch", zap.Int("media_id", m.MediaID), zap.String("path", m.Path), zap.String("expected", m.Expected))
	}
	if len(report.Orphans) > 0 {
		logg.Warn("Orphan media files", zap.Strings("paths", report.Orphans))
	}
}

func logSchemaReport(logg *zap.Logger, report *checks.SchemaReport) {
	if report.Matched {
		logg.Info("Database schema matches the models.")
		return
	}
	logg.Warn("Database schema mismatches found")
	for table, tbl := range report.Tables {
		if tbl.Status != "ok" {
			logg.Warn("Table mismatch", zap.String("table", table), zap.String("status", tbl.Status), zap.Strings("missing_columns", tbl.MissingColumns))
		}
	}
	for _, e := range report.Errors {
		logg.Error("Inspection Error", zap.String("error", e))
	}
}
