package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	postercrop "github.com/menta2k/poster-cropper"
	"github.com/menta2k/poster-cropper/internal/utils"
	"github.com/menta2k/poster-cropper/pkg/cropper"
	"github.com/menta2k/poster-cropper/pkg/types"
)

var (
	cropInput   string
	cropOutput  string
	cropPosters string
	cropPolicy  string
	cropAll     bool
	cropMkdir   bool
)

var cropCmd = &cobra.Command{
	Use:   "crop",
	Short: "Crop the selected posters out of a sheet",
	Example: `  poster-crop crop -i LethalPosters.png -o ./posters --all
  poster-crop crop -i LethalPosters.png -o ./posters -p 1,3,5`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return runCrop(cmd.Context())
	},
}

func init() {
	cropCmd.Flags().StringVarP(&cropInput, "input", "i", "", "Path to the 1024x1024 poster sheet")
	cropCmd.Flags().StringVarP(&cropOutput, "output", "o", "", "Folder the posters are written to (default from config)")
	cropCmd.Flags().StringVarP(&cropPosters, "posters", "p", "", "Posters to crop: 1,3,5 or 2-4")
	cropCmd.Flags().BoolVarP(&cropAll, "all", "a", false, "Crop all five posters")
	cropCmd.Flags().StringVar(&cropPolicy, "policy", "", "Out-of-bounds handling: reject or clamp (default from config)")
	cropCmd.Flags().BoolVar(&cropMkdir, "mkdir", false, "Create the output folder if it does not exist")

	cropCmd.MarkFlagRequired("input")
	cropCmd.MarkFlagsMutuallyExclusive("posters", "all")
	rootCmd.AddCommand(cropCmd)
}

func runCrop(ctx context.Context) error {
	outDir := cropOutput
	if outDir == "" {
		outDir = cfg.Output.Dir
	}

	selection := cropPosters
	if cropAll {
		selection = "all"
	}
	ids, err := cropper.ParseSelection(selection)
	if err != nil {
		if errors.Is(err, types.ErrNoSelection) {
			return fmt.Errorf("%w: use --posters or --all", err)
		}
		return err
	}

	policyName := cfg.Cropper.BoundsPolicy
	if cropPolicy != "" {
		policyName = cropPolicy
	}
	policy, err := cropper.ParseBoundsPolicy(policyName)
	if err != nil {
		return err
	}

	if cropMkdir {
		if err := utils.EnsureDir(outDir); err != nil {
			return fmt.Errorf("failed to create output folder: %w", err)
		}
	}

	bar := progressbar.NewOptions(len(ids),
		progressbar.OptionSetDescription("Cropping posters"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
	)

	pc := postercrop.NewWithConfig(
		cropper.CropConfig{Policy: policy},
		cfg.EncodeOptions(),
		postercrop.WithLogger(logger),
		postercrop.WithProgress(func(done, total int, spec cropper.CropSpec) {
			bar.Describe(spec.OutputName)
			bar.Add(1)
		}),
	)

	n, err := pc.RunCrops(ctx, cropInput, outDir, ids)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		var ce *types.CropError
		if errors.As(err, &ce) && ce.ID > 0 {
			return fmt.Errorf("cropping stopped at poster %d (%d of %d done): %w", ce.ID, n, len(ids), err)
		}
		return err
	}
	bar.Finish()

	for _, id := range ids {
		spec, _ := cropper.Lookup(id)
		path := filepath.Join(outDir, spec.OutputName)
		if info, err := os.Stat(path); err == nil {
			fmt.Printf("%s (%s)\n", path, utils.FormatFileSize(info.Size()))
		}
	}
	fmt.Println("All selected crops completed successfully!")
	return nil
}
