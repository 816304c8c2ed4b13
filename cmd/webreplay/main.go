package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/v0xg/webreplay/internal/browser"
	"github.com/v0xg/webreplay/internal/display"
	"github.com/v0xg/webreplay/internal/logging"
	"github.com/v0xg/webreplay/internal/runner"
	"github.com/v0xg/webreplay/internal/script"
)

var (
	width      int
	height     int
	headless   bool
	profile    string
	reportPath string
	timeout    int
	settle     int
	check      bool
	verbose    bool
)

// errReplayFailed marks a run that started but hit a fatal step
// failure, so main can exit 1 instead of the setup code 2.
var errReplayFailed = errors.New("replay failed")

func main() {
	// Load .env file if present (silently ignore if not found)
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "webreplay <script.yaml>",
		Short: "Replay recorded browser interaction scripts",
		Long: `webreplay executes a recorded sequence of browser steps (navigate,
wait, click, fill, ...) against a live page, one step at a time, with a
visibility wait before every interaction and a settle pause after it.

Example:
  webreplay checkout.yaml --report run.json`,
		Args:          cobra.ExactArgs(1),
		RunE:          run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.Flags().IntVar(&width, "width", 1280, "Viewport width")
	rootCmd.Flags().IntVar(&height, "height", 720, "Viewport height")
	rootCmd.Flags().BoolVar(&headless, "headless", true, "Run the browser headless")
	rootCmd.Flags().StringVar(&profile, "profile", "", "Chrome/Chromium profile directory for authenticated sessions (close browser first)")
	rootCmd.Flags().StringVar(&reportPath, "report", "", "Write the run report as JSON to this path")
	rootCmd.Flags().IntVar(&timeout, "timeout", 0, "Override per-step element timeout (ms)")
	rootCmd.Flags().IntVar(&settle, "settle", 0, "Override post-step settle pause (ms)")
	rootCmd.Flags().BoolVar(&check, "check", false, "Validate and list the script without launching a browser")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show detailed progress")

	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, errReplayFailed) {
			os.Exit(1)
		}
		// Setup and configuration problems are reported distinctly
		// from a failed run.
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}
}

func run(cmd *cobra.Command, args []string) error {
	logging.Init(verbose)

	s, err := script.Load(args[0])
	if err != nil {
		return err
	}
	s.OverrideTimeouts(timeout, settle)

	console := display.NewConsole(os.Stdout)

	if check {
		console.Plan(s)
		return nil
	}

	if profile == "" {
		profile = os.Getenv("WEBREPLAY_PROFILE")
	}

	fmt.Printf("→ Launching browser... ")
	b, err := browser.New(browser.Options{
		Width:      width,
		Height:     height,
		Headless:   headless,
		ProfileDir: profile,
	})
	if err != nil {
		fmt.Println("failed")
		return err
	}
	fmt.Println("done")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("→ Replaying %s (%d steps)\n", s.Name, len(s.Steps))
	report := runner.New(s.Name, console).Run(ctx, b, s.Steps)
	console.Summary(report)

	if reportPath != "" {
		if err := report.WriteJSON(reportPath); err != nil {
			return err
		}
		fmt.Printf("→ Report saved to %s\n", reportPath)
	}

	if !report.Success {
		return errReplayFailed
	}
	return nil
}
