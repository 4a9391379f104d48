package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/menta2k/pano-optimizer/internal/profiler"
	"github.com/menta2k/pano-optimizer/internal/utils"
	"github.com/menta2k/pano-optimizer/pkg/optimizer"
	"github.com/menta2k/pano-optimizer/pkg/processing"
)

var (
	procOutDir    string
	procAngle     int
	procVAngle    int
	procFormat    string
	procQuality   int
	procLossless  bool
	procHashNames bool
)

var processCmd = &cobra.Command{
	Use:   "process <panorama>",
	Short: "Round-trip a panorama through the optimizer",
	Long: `Runs the forward and inverse transforms back to back and saves the
reconstructed full-size frame. The result shows exactly what survives
transmission: full resolution inside the focus window, a blurred 180°
surround, black elsewhere.`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	processCmd.Flags().StringVarP(&procOutDir, "out", "o", "", "output directory (default from config)")
	processCmd.Flags().IntVar(&procAngle, "angle", 0, "horizontal viewing angle in degrees")
	processCmd.Flags().IntVar(&procVAngle, "vangle", 90, "vertical viewing angle in degrees")
	processCmd.Flags().StringVar(&procFormat, "format", "", "output format: jpg|png|webp (default from config)")
	processCmd.Flags().IntVar(&procQuality, "quality", 0, "JPEG/WebP quality 1-100 (default from config)")
	processCmd.Flags().BoolVar(&procLossless, "lossless", false, "WebP lossless mode")
	processCmd.Flags().BoolVar(&procHashNames, "hash-names", false, "content-addressed output filenames")
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	in := args[0]
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyOutputFlags(cmd, &procOutDir, &procFormat, &procQuality, &procLossless, &procHashNames, cfg)
	if !cmd.Flags().Changed("angle") {
		procAngle = cfg.Viewer.Angle
	}
	if !cmd.Flags().Changed("vangle") {
		procVAngle = cfg.Viewer.VAngle
	}

	if err := utils.EnsureDir(procOutDir); err != nil {
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
	opt, err := optimizer.OptimizeImage(img, procAngle, procVAngle)
	if err != nil {
		return err
	}
	timer.Stop("optimize")

	timer.Start()
	full, err := optimizer.ExtractImage(opt)
	if err != nil {
		return err
	}
	timer.Stop("extract")

	path, err := saveBuffer(proc, full, in, procOutDir, "_reconstructed", procFormat, procQuality, procLossless, procHashNames)
	if err != nil {
		return fmt.Errorf("save reconstructed frame: %w", err)
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}
