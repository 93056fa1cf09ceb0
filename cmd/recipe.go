package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"recipe-manager/feature/recipes"
	"recipe-manager/feature/recipes/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// recipeCmd represents the recipe command
var recipeCmd = &cobra.Command{
	Use:   "recipe",
	Short: "Inspect recipes from the command line",
}

// recipeListCmd represents the recipe list command
var recipeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recipe summaries",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		svc := recipes.NewService(recipes.NewStore(rt.db), rt.media, rt.cache, rt.logger)

		summaries, err := svc.GetAll(cmd.Context())
		if err != nil {
			return err
		}
		for _, s := range summaries {
			fmt.Printf("%5d  %-40s  %2d ingredients  %2d steps\n", s.ID, s.ShortTitle, s.IngredientCount, s.InstructionCount)
		}
		return nil
	},
}

// recipeShowCmd represents the recipe show command
var recipeShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a recipe with its children as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid recipe id %q", args[0])
		}
		rt, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		svc := recipes.NewService(recipes.NewStore(rt.db), rt.media, rt.cache, rt.logger)

		detail, err := svc.GetOne(cmd.Context(), id)
		if err != nil {
			return err
		}
		if detail == nil {
			return fmt.Errorf("recipe %d not found", id)
		}

		withContent, _ := cmd.Flags().GetBool("content")
		if !withContent {
			for _, m := range detail.Medias {
				m.Content = ""
			}
		}
		return printJSON(detail)
	},
}

// recipePlanCmd represents the recipe plan command
var recipePlanCmd = &cobra.Command{
	Use:   "plan <file>",
	Short: "Show what an update would change without applying it",
	Long:  `Reads a desired recipe from a JSON file and prints the per-collection plan the update would apply.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}
		var desired models.Recipe
		if err := json.Unmarshal(raw, &desired); err != nil {
			return fmt.Errorf("failed to parse %s: %w", args[0], err)
		}

		rt, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		svc := recipes.NewService(recipes.NewStore(rt.db), rt.media, rt.cache, rt.logger)

		res := svc.Preview(cmd.Context(), &desired)
		if !res.Success {
			return fmt.Errorf("%s: %s", res.Code, res.Message)
		}
		rt.logger.Info("Plan computed", zap.Int("recipe_id", desired.ID), zap.Int("changes", res.Changes))
		return printJSON(res)
	},
}

func init() {
	RootCmd.AddCommand(recipeCmd)
	recipeCmd.AddCommand(recipeListCmd, recipeShowCmd, recipePlanCmd)

	recipeShowCmd.Flags().Bool("content", false, "Include media content as data URLs")
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
