package main

import (
	"fmt"
	"os"

	"compass.klederson.com/internal/app"
	"compass.klederson.com/internal/config"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var (
	flagDemo      bool
	flagSource    string
	flagDevice    string
	flagVariant   string
	flagAlpha     float64
	flagThreshold float64
	flagConfig    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "compass",
		Short: "Compass - Terminal heading display driven by real orientation sensors",
		Long: `Compass reads device orientation from a Linux IIO accelerometer and
magnetometer pair (or a BLE IMU peripheral streaming quaternions),
stabilizes the heading, and renders a rotating compass dial with a
numeric readout.

Reading IIO sensors may require membership in the relevant sysfs group;
BLE requires CAP_NET_ADMIN. Use --demo for a demonstration mode without
any sensor hardware.`,
		RunE: run,
	}

	rootCmd.Flags().BoolVar(&flagDemo, "demo", false, "Run in demo mode with a generated heading (no hardware required)")
	rootCmd.Flags().StringVar(&flagSource, "source", "auto", "Sensor source: auto, iio or ble")
	rootCmd.Flags().StringVar(&flagDevice, "device", "", "Device name filter (IIO chip name or BLE peripheral name)")
	rootCmd.Flags().StringVar(&flagVariant, "variant", "", "Orientation sample variant: matrix or vectors (default per source)")
	rootCmd.Flags().Float64Var(&flagAlpha, "alpha", 0, fmt.Sprintf("Heading smoothing factor in (0, 1] (default %g)", config.SmoothingAlpha))
	rootCmd.Flags().Float64Var(&flagThreshold, "threshold", 0, fmt.Sprintf("Minimum visible heading change in degrees (default %g)", config.EmitThresholdDeg))
	rootCmd.Flags().StringVar(&flagConfig, "config", "", "Config file path (default ~/.config/compass/config.yaml)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfgPath := flagConfig
	if cfgPath == "" {
		cfgPath = config.DefaultPath()
	}
	file, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	source := flagSource
	if source == "auto" {
		source = file.Source
		if source == "" || source == "auto" {
			source = "iio"
		}
	}

	device := flagDevice
	if device == "" {
		device = file.Device
	}

	variant, err := pickVariant(flagVariant, file.Variant, source)
	if err != nil {
		return err
	}

	alpha := flagAlpha
	if alpha == 0 {
		alpha = file.Alpha
	}
	if alpha == 0 {
		alpha = config.SmoothingAlpha
	}
	if alpha < 0 || alpha > 1 {
		return fmt.Errorf("alpha %v outside (0, 1]", alpha)
	}

	threshold := flagThreshold
	if threshold == 0 {
		threshold = file.Threshold
	}
	if threshold == 0 {
		threshold = config.EmitThresholdDeg
	}
	if threshold < 0 {
		return fmt.Errorf("threshold %v is negative", threshold)
	}

	model := app.New(flagDemo, source, device, variant, alpha, threshold)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithFPS(config.TargetFPS),
	)

	// Start the sensor source with reference to the tea program
	if err := model.StartSource(p); err != nil {
		fmt.Fprintf(os.Stderr, "\nError: %v\n\n", err)
		fmt.Fprintln(os.Stderr, "No usable orientation sensor. Try one of:")
		fmt.Fprintln(os.Stderr, "  ./compass --source iio --device <chip>   (pick a specific IIO device)")
		fmt.Fprintln(os.Stderr, "  sudo ./compass --source ble --device <name>")
		fmt.Fprintln(os.Stderr, "  ./compass --demo    (demo mode, no hardware needed)")
		return err
	}

	_, err = p.Run()
	return err
}

// pickVariant resolves the sample variant: explicit flag, then config file,
// then the natural variant of the source (BLE peripherals stream fused
// quaternions; IIO pairs deliver separate vectors). The choice is fixed for
// the whole session.
func pickVariant(flag, fromFile, source string) (config.Variant, error) {
	v := flag
	if v == "" {
		v = fromFile
	}
	if v == "" {
		if source == "ble" {
			v = string(config.VariantMatrix)
		} else {
			v = string(config.VariantDualVector)
		}
	}
	switch config.Variant(v) {
	case config.VariantMatrix, config.VariantDualVector:
		return config.Variant(v), nil
	}
	return "", fmt.Errorf("unknown variant %q (want matrix or vectors)", v)
}
