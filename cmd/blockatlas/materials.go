package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/setanarut/blockatlas"
	"github.com/setanarut/blockatlas/config"
)

var materialsCmd = &cobra.Command{
	Use:   "materials",
	Short: "Print the default material profile as YAML",
	Long:  "Print the built-in material coefficients as a profile that generate --materials accepts.",
	Args:  cobra.NoArgs,
	RunE:  runMaterials,
}

func init() {
	rootCmd.AddCommand(materialsCmd)

	materialsCmd.Flags().Int("tile", blockatlas.DefaultTileSize, "Tile size the noise scales are stretched for")
	materialsCmd.Flags().StringP("out", "o", "", "Write to a file instead of stdout")
}

func runMaterials(cmd *cobra.Command, args []string) error {
	tile, _ := cmd.Flags().GetInt("tile")
	out, _ := cmd.Flags().GetString("out")

	data, err := yaml.Marshal(config.FromOptions(blockatlas.OptionsFromSize(tile)))
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if out == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write profile: %w", err)
	}
	logger.Info("Wrote material profile", "path", out)
	return nil
}
