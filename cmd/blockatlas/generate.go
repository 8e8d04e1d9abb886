package main

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/setanarut/blockatlas"
	"github.com/setanarut/blockatlas/config"
	"github.com/setanarut/blockatlas/utils"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the block texture atlas",
	Long: "Render the four block tiles and write them left to right into a PNG atlas " +
		"(grass_top, grass_side, dirt, stone). Values in --materials override --tile and --seed.",
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

// defaultAtlasPath places the atlas next to this command's source, where the
// renderer expects it.
func defaultAtlasPath() string {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return "block_atlas.png"
	}
	return filepath.Join(filepath.Dir(file), "block_atlas.png")
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().Int("tile", blockatlas.DefaultTileSize, "Tile edge length in pixels")
	generateCmd.Flags().Int64("seed", blockatlas.DefaultSeed, "Root seed for every noise layer")
	generateCmd.Flags().StringP("out", "o", defaultAtlasPath(), "Output PNG path")
	generateCmd.Flags().String("materials", "", "YAML material profile (see the materials command)")
	generateCmd.Flags().Int("preview", 0, "Also write a nearest-neighbour preview upscaled by this factor")

	bindFlags(generateCmd, map[string]string{
		"atlas.tile":      "tile",
		"atlas.seed":      "seed",
		"atlas.out":       "out",
		"atlas.materials": "materials",
		"atlas.preview":   "preview",
	})
}

func bindFlags(cmd *cobra.Command, keys map[string]string) {
	for key, flag := range keys {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", flag, err))
		}
	}
}

func generateOptions() (blockatlas.Options, error) {
	tile := viper.GetInt("atlas.tile")
	if tile <= 0 {
		return blockatlas.Options{}, fmt.Errorf("%w: tile must be positive, got %d", blockatlas.ErrInvalidParameter, tile)
	}
	opt := blockatlas.OptionsFromSize(tile)
	opt.Seed = viper.GetInt64("atlas.seed")

	if path := viper.GetString("atlas.materials"); path != "" {
		profile, err := config.Load(path)
		if err != nil {
			return opt, err
		}
		if opt, err = profile.Apply(opt); err != nil {
			return opt, fmt.Errorf("apply %s: %w", path, err)
		}
		logger.Debug("Loaded material profile", "path", path)
	}
	return opt, opt.Validate()
}

func runGenerate(cmd *cobra.Command, args []string) error {
	opt, err := generateOptions()
	if err != nil {
		return err
	}
	out := viper.GetString("atlas.out")

	start := time.Now()
	ab := blockatlas.NewAtlasBuilder(opt)
	if err := ab.Build(); err != nil {
		return err
	}
	for i, tile := range ab.Tiles {
		s := blockatlas.LumaStats(tile)
		logger.Debug("Rendered tile",
			"index", i,
			"tile", blockatlas.TileOrder[i],
			"luma_mean", fmt.Sprintf("%.1f", s.Mean),
			"luma_stddev", fmt.Sprintf("%.1f", s.StdDev),
		)
	}

	if err := utils.SaveImage(ab.Atlas, out); err != nil {
		return fmt.Errorf("write atlas: %w", err)
	}
	size := ab.Atlas.Bounds().Size()
	logger.Info("Generated atlas",
		"path", out,
		"width", size.X,
		"height", size.Y,
		"seed", opt.Seed,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)

	if factor := viper.GetInt("atlas.preview"); factor > 1 {
		preview := strings.TrimSuffix(out, filepath.Ext(out)) + "_preview.png"
		if err := utils.SaveImage(utils.ScaleNearest(ab.Atlas, factor), preview); err != nil {
			return fmt.Errorf("write preview: %w", err)
		}
		logger.Info("Wrote preview", "path", preview, "scale", factor)
	}
	return nil
}
