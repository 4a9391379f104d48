package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/menta2k/pano-optimizer/internal/profiler"
	"github.com/menta2k/pano-optimizer/pkg/optimizer"
	"github.com/menta2k/pano-optimizer/pkg/processing"
)

var (
	benchFrames int
	benchAngle  int
	benchVAngle int
	benchSweep  bool
)

var benchCmd = &cobra.Command{
	Use:   "bench <panorama>",
	Short: "Measure round-trip throughput on a panorama",
	Long: `Runs the forward+inverse transform repeatedly on one panorama and
reports the rolling-average framerate, approximating per-frame cost in
a video pipeline. With --sweep the viewing angle advances one degree
per frame, exercising the wraparound path.`,
	Args: cobra.ExactArgs(1),
	RunE: runBench,
}

func init() {
	benchCmd.Flags().IntVarP(&benchFrames, "frames", "n", 100, "number of frames to process")
	benchCmd.Flags().IntVar(&benchAngle, "angle", 0, "horizontal viewing angle in degrees")
	benchCmd.Flags().IntVar(&benchVAngle, "vangle", 90, "vertical viewing angle in degrees")
	benchCmd.Flags().BoolVar(&benchSweep, "sweep", false, "advance the viewing angle 1° per frame")
	rootCmd.AddCommand(benchCmd)
}

func runBench(_ *cobra.Command, args []string) error {
	if benchFrames < 1 {
		return fmt.Errorf("frames must be at least 1")
	}

	proc := processing.NewProcessor()
	img, err := proc.LoadImageSmart(args[0])
	if err != nil {
		return fmt.Errorf("load %s: %w", args[0], err)
	}

	var fps profiler.FramerateProfiler
	angle := benchAngle
	for i := 0; i < benchFrames; i++ {
		fps.StartFrame()
		if _, err := optimizer.ProcessImage(img, angle, benchVAngle); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		fps.FinishFrame()
		if benchSweep {
			angle++
		}
	}

	fmt.Printf("%d frames, %.2f fps (rolling average)\n", benchFrames, fps.Framerate())
	return nil
}
