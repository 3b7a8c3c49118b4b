package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/pimonitor/internal/config"
	"github.com/Dicklesworthstone/pimonitor/internal/errors"
)

// Global flags
var (
	cfgFile      string
	driverFlag   string
	debugFlag    bool
	intervalFlag time.Duration
)

// rootCmd runs the display
var rootCmd = &cobra.Command{
	Use:   "pimonitor",
	Short: "Rotating system status display for a Raspberry Pi OLED",
	Long: `pimonitor samples CPU, network, memory and disk statistics and shows
them on a 128x64 SSD1306 display. Five buttons switch screens and panels;
holding reset returns to the CPU overview.

Use --driver terminal to run the same screens in a terminal, with the
keyboard standing in for the buttons.

Examples:
  pimonitor
  pimonitor --driver terminal
  pimonitor --config ./config.yaml --debug`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return run(cmd.Context(), cfg)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file merged after the system and user files")
	rootCmd.PersistentFlags().StringVar(&driverFlag, "driver", "", "display driver: ssd1306 or terminal")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().DurationVar(&intervalFlag, "interval", 0, "collection and redraw interval")
}

// loadConfig loads the files, applies flags that were set, and validates.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	applyFlags(cmd, cfg)
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("driver") {
		cfg.Display.Driver = driverFlag
	}
	if flags.Changed("debug") {
		cfg.Debug = debugFlag
	}
	if flags.Changed("interval") {
		cfg.Interval = intervalFlag
	}
}

// Execute runs the root command until it finishes or the process is
// interrupted.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.IsCode(err, errors.ErrConfig) || errors.IsCode(err, errors.ErrEnv) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
