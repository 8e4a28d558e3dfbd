// Package cmd provides the CLI commands for tvm.
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tvm/core/output"
	"tvm/core/ui"
	"tvm/internal/config"
	"tvm/internal/logging"
)

// Version is the tool version
const Version = "0.1.0"

// globalOptions are the persistent flags shared by every command
type globalOptions struct {
	cfgFile string
	verbose bool
	noColor bool
}

// displayOptions are the output flags shared by solve and scenario
type displayOptions struct {
	format   string
	style    string
	schedule bool
}

func (d *displayOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&d.format, "format", "o", string(output.FormatCLI), "output format (cli, json)")
	cmd.Flags().StringVar(&d.style, "style", "", "number style (fixed, si); default from settings")
	cmd.Flags().BoolVarP(&d.schedule, "schedule", "s", false, "print the amortization schedule")
}

func (d *displayOptions) formatter(g *globalOptions) (output.Formatter, error) {
	cfg := config.Get()
	style := cfg.Style
	if d.style != "" {
		style = d.style
	}
	if style != config.StyleFixed && style != config.StyleSI {
		return nil, fmt.Errorf("unknown style %q (want fixed or si)", style)
	}
	return output.New(output.Format(d.format), output.Display{
		Currency:  cfg.Currency,
		Precision: cfg.Precision,
		SI:        style == config.StyleSI,
		NoColor:   g.noColor || !cfg.Color,
		Verbose:   g.verbose,
	})
}

// newRootCmd builds the command tree
func newRootCmd() *cobra.Command {
	g := &globalOptions{}
	s := &solveOptions{}

	rootCmd := &cobra.Command{
		Use:   "tvm [flags] name=value ...",
		Short: "Time value of money calculator",
		Long: `tvm solves the fixed-rate annuity equation for whichever of its five
quantities you leave out.

  pv    present value
  fv    future value
  pmt   payment made each period
  r     annual interest rate, in percent
  N     number of periods

Money received is positive and money paid is negative.

Examples:
  tvm pv='$300k' fv=0 r=6.5 N=360          # monthly mortgage payment
  tvm pv=-1000 fv=0 pmt=21.25 N=48         # implied interest rate
  tvm pv='-$5k' pmt=-250 r=4.8% N=120      # savings after ten years
  tvm -f 4 pv=-10k fv=12k pmt=0 N=20       # quarterly compounding`,
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(g)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runSolve(cmd, g, s, args)
		},
	}

	rootCmd.PersistentFlags().StringVar(&g.cfgFile, "config", "", "settings file (default is "+config.DefaultPath()+")")
	rootCmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&g.noColor, "no-color", false, "disable colored output")
	s.register(rootCmd)

	rootCmd.AddCommand(newScenarioCmd(g))
	rootCmd.AddCommand(newConfigCmd(g))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// Execute runs the CLI
func Execute() error {
	return run(newRootCmd(), os.Args[1:], os.Stdout, os.Stderr)
}

func run(rootCmd *cobra.Command, args []string, stdout, stderr io.Writer) error {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.Execute()
	if err != nil {
		noColor, _ := rootCmd.PersistentFlags().GetBool("no-color")
		ui.NewWriter(stderr, noColor || !config.Get().Color).Error("%v", err)
	}
	logging.Sync()
	return err
}

func initConfig(g *globalOptions) error {
	path := g.cfgFile
	if path == "" {
		path = config.Discover()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if g.verbose {
		cfg.Logging.Level = "debug"
	}
	config.Set(cfg)

	if err := logging.Initialize(cfg.Logging); err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}
	logging.Debug("settings loaded", zap.String("path", path), zap.Int("frequency", cfg.Frequency))
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tvm version %s\n", Version)
		},
	}
}
