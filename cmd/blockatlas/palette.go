package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/setanarut/blockatlas"
	"github.com/setanarut/blockatlas/utils"
)

var paletteCmd = &cobra.Command{
	Use:   "palette <atlas.png>",
	Short: "Report the dominant colors of each atlas tile",
	Args:  cobra.ExactArgs(1),
	RunE:  runPalette,
}

func init() {
	rootCmd.AddCommand(paletteCmd)

	paletteCmd.Flags().IntP("colors", "k", 5, "Colors per tile")
	paletteCmd.Flags().String("method", utils.PaletteMethodDominantColor.String(), "dominantcolor or kmeans")
	paletteCmd.Flags().String("swatch", "", "Swatch PNG path (default <atlas>_palette.png)")

	bindFlags(paletteCmd, map[string]string{
		"palette.colors": "colors",
		"palette.method": "method",
		"palette.swatch": "swatch",
	})
}

func runPalette(cmd *cobra.Command, args []string) error {
	path := args[0]
	k := viper.GetInt("palette.colors")
	if k <= 0 {
		return fmt.Errorf("colors must be positive, got %d", k)
	}
	method, err := utils.ParsePaletteMethod(viper.GetString("palette.method"))
	if err != nil {
		return err
	}

	img, err := utils.ReadImage(path)
	if err != nil {
		return fmt.Errorf("read atlas: %w", err)
	}
	b := img.Bounds()
	size := b.Dy()
	if size == 0 || b.Dx() != size*int(blockatlas.TileCount) {
		return fmt.Errorf("%s is %dx%d, not a %d-tile atlas", path, b.Dx(), b.Dy(), blockatlas.TileCount)
	}

	palettes := make([][]colorful.Color, 0, blockatlas.TileCount)
	for _, idx := range blockatlas.TileOrder {
		tile, err := blockatlas.Tile(img, idx, size)
		if err != nil {
			return err
		}
		p := utils.ExtractPalette(tile, k, method)
		utils.SortPaletteByBrightness(p)
		palettes = append(palettes, p)

		s := blockatlas.LumaStats(tile)
		logger.Info("Tile palette",
			"tile", idx,
			"method", method,
			"colors", strings.Join(utils.HexPalette(p), " "),
			"luma_mean", fmt.Sprintf("%.1f", s.Mean),
		)
	}

	swatch := viper.GetString("palette.swatch")
	if swatch == "" {
		swatch = strings.TrimSuffix(path, filepath.Ext(path)) + "_palette.png"
	}
	if err := utils.SavePalettes(palettes, 64, swatch); err != nil {
		return fmt.Errorf("write swatch: %w", err)
	}
	logger.Info("Wrote palette swatch", "path", swatch)
	return nil
}
