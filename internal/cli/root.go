// Package cli implements the pano-optimizer command tree.
package cli

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/menta2k/pano-optimizer/internal/config"
)

var (
	version    = "1.0.0"
	verbose    bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "pano-optimizer",
	Short: "Viewport-adaptive transcoding for 360° panoramas",
	Long: `pano-optimizer reduces an equirectangular panorama to a fraction of
its size while keeping full resolution where the viewer is looking:
a 30° focus window stays sharp, the surrounding 180° crop is blurred,
and the rest is dropped. The reduced representation can be expanded
back into a full-size frame for rendering.`,
	Version: version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output with per-stage timings")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to JSON config file")
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"pano-optimizer %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}

// loadConfig returns defaults, overridden by the --config file when given.
func loadConfig() (*config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configPath, err)
	}
	return cfg, nil
}

// timerOut returns the stage-timer sink: stderr when --verbose, else nil.
func timerOut() io.Writer {
	if verbose {
		return os.Stderr
	}
	return nil
}

// logVerbose prints a message only when --verbose is set.
func logVerbose(format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[pano-optimizer] "+format+"\n", args...)
	}
}
