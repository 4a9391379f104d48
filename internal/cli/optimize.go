package cli

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/menta2k/pano-optimizer/internal/config"
	"github.com/menta2k/pano-optimizer/internal/hasher"
	"github.com/menta2k/pano-optimizer/internal/profiler"
	"github.com/menta2k/pano-optimizer/internal/utils"
	"github.com/menta2k/pano-optimizer/pkg/imageops"
	"github.com/menta2k/pano-optimizer/pkg/optimizer"
	"github.com/menta2k/pano-optimizer/pkg/processing"
)

var (
	optOutDir    string
	optAngle     int
	optVAngle    int
	optFormat    string
	optQuality   int
	optLossless  bool
	optHashNames bool
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize <panorama>",
	Short: "Reduce a panorama to its focus patch and blurred crop",
	Long: `Runs the forward transform on a panorama (file path or URL) and saves
the two buffers of the reduced representation: the full-resolution
focus patch and the blurred 180° crop. Prints the geometry metadata
and the size reduction.`,
	Args: cobra.ExactArgs(1),
	RunE: runOptimize,
}

func init() {
	optimizeCmd.Flags().StringVarP(&optOutDir, "out", "o", "", "output directory (default from config)")
	optimizeCmd.Flags().IntVar(&optAngle, "angle", 0, "horizontal viewing angle in degrees")
	optimizeCmd.Flags().IntVar(&optVAngle, "vangle", 90, "vertical viewing angle in degrees")
	optimizeCmd.Flags().StringVar(&optFormat, "format", "", "output format: jpg|png|webp (default from config)")
	optimizeCmd.Flags().IntVar(&optQuality, "quality", 0, "JPEG/WebP quality 1-100 (default from config)")
	optimizeCmd.Flags().BoolVar(&optLossless, "lossless", false, "WebP lossless mode")
	optimizeCmd.Flags().BoolVar(&optHashNames, "hash-names", false, "content-addressed output filenames")
	rootCmd.AddCommand(optimizeCmd)
}

func runOptimize(cmd *cobra.Command, args []string) error {
	in := args[0]
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyOutputFlags(cmd, &optOutDir, &optFormat, &optQuality, &optLossless, &optHashNames, cfg)
	if !cmd.Flags().Changed("angle") {
		optAngle = cfg.Viewer.Angle
	}
	if !cmd.Flags().Changed("vangle") {
		optVAngle = cfg.Viewer.VAngle
	}

	if err := utils.EnsureDir(optOutDir); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	proc := processing.NewProcessor()
	img, err := proc.LoadImageSmart(in)
	if err != nil {
		return fmt.Errorf("load %s: %w", in, err)
	}
	if err := proc.ValidatePanorama(img); err != nil {
		logVerbose("warning: %v", err)
	}

	timer := profiler.NewStageTimer(timerOut())
	timer.Start()
	opt, err := optimizer.OptimizeImage(img, optAngle, optVAngle)
	if err != nil {
		return err
	}
	timer.Stop("optimize")

	focusedPath, err := saveBuffer(proc, opt.Focused(), in, optOutDir, "_focused", optFormat, optQuality, optLossless, optHashNames)
	if err != nil {
		return fmt.Errorf("save focus patch: %w", err)
	}
	blurredPath, err := saveBuffer(proc, opt.Blurred(), in, optOutDir, "_blurred", optFormat, optQuality, optLossless, optHashNames)
	if err != nil {
		return fmt.Errorf("save blurred crop: %w", err)
	}

	w, h := imageops.Size(img)
	originalBytes := int64(w * h * 4)
	fmt.Printf("wrote %s\n", focusedPath)
	fmt.Printf("wrote %s\n", blurredPath)
	fmt.Printf("viewing direction: %d°/%d°  focus at row %d, col %d  left buffer col %d\n",
		optAngle, optVAngle, opt.FocusRow(), opt.FocusCol(), opt.LeftBuffer())
	fmt.Printf("pixel footprint: %s -> %s (%.1f%%)\n",
		utils.FormatFileSize(originalBytes),
		utils.FormatFileSize(int64(opt.Size())),
		100*float64(opt.Size())/float64(originalBytes))
	return nil
}

// saveBuffer writes one result image, either under a derived name or a
// content-addressed one.
func saveBuffer(proc *processing.Processor, img *image.NRGBA, in, outDir, suffix, format string, quality int, lossless, hashNames bool) (string, error) {
	if !hashNames {
		path := utils.GenerateOutputFilename(in, outDir, "", suffix, format)
		return path, proc.SaveImage(img, path, format, quality, lossless)
	}

	data, err := proc.EncodeImage(img, format, quality, lossless)
	if err != nil {
		return "", err
	}
	base := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
	name := fmt.Sprintf("%s%s.%s.%s", base, suffix, hasher.ContentHash(data, 16), strings.ToLower(format))
	path := filepath.Join(outDir, name)
	return path, os.WriteFile(path, data, 0o644)
}

// applyOutputFlags fills unset output flags from the config.
func applyOutputFlags(cmd *cobra.Command, outDir, format *string, quality *int, lossless, hashNames *bool, cfg *config.Config) {
	if !cmd.Flags().Changed("out") || *outDir == "" {
		*outDir = cfg.Output.Dir
	}
	if !cmd.Flags().Changed("format") || *format == "" {
		*format = cfg.Output.Format
	}
	if !cmd.Flags().Changed("quality") || *quality == 0 {
		*quality = cfg.Output.Quality
	}
	if !cmd.Flags().Changed("lossless") {
		*lossless = cfg.Output.Lossless
	}
	if !cmd.Flags().Changed("hash-names") {
		*hashNames = cfg.Output.HashNames
	}
}
