package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tvm/core/request"
	"tvm/core/scenario"
	"tvm/core/tvm"
	"tvm/core/ui"
	"tvm/internal/config"
	"tvm/internal/logging"
)

type scenarioOptions struct {
	displayOptions
	solverFlags
}

func newScenarioCmd(g *globalOptions) *cobra.Command {
	o := &scenarioOptions{}

	cmd := &cobra.Command{
		Use:   "scenario FILE [NAME ...]",
		Short: "Solve the scenarios in an HCL file",
		Long: `Solve every scenario block in an HCL file, or only the named ones.

A scenario gives four of pv, fv, pmt, rate and periods. Rate is an annual
percentage. frequency and timing default to the settings.

  scenario "mortgage" {
    pv       = 300000
    fv       = 0
    rate     = 6.5
    periods  = 360
    schedule = true
  }

Scenarios that fail are reported and the rest still run.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarios(cmd, g, o, args[0], args[1:])
		},
	}

	o.displayOptions.register(cmd)
	o.solverFlags.register(cmd)
	return cmd
}

func runScenarios(cmd *cobra.Command, g *globalOptions, o *scenarioOptions, path string, names []string) error {
	cfg := config.Get()

	timing, err := tvm.ParseTiming(cfg.Timing)
	if err != nil {
		return err
	}
	loader := scenario.NewLoader(scenario.Defaults{Frequency: cfg.Frequency, Timing: timing})

	all, err := loader.LoadFile(path)
	if err != nil {
		return err
	}
	selected, err := scenario.Select(all, names)
	if err != nil {
		return err
	}
	logging.Debug("scenarios loaded", zap.String("file", path), zap.Int("total", len(all)), zap.Int("selected", len(selected)))

	formatter, err := o.formatter(g)
	if err != nil {
		return err
	}

	opts := o.options(cfg)
	stderr := ui.NewWriter(cmd.ErrOrStderr(), g.noColor || !cfg.Color)

	reports := make([]*request.Report, 0, len(selected))
	failed := 0
	for _, s := range selected {
		req := s.Request
		if o.schedule {
			req.Schedule = true
		}
		report, err := request.Evaluate(req, opts)
		if err != nil {
			failed++
			logging.Warn("scenario failed", zap.String("scenario", s.Name), zap.String("pos", s.Pos), zap.Error(err))
			stderr.Warning("%s (%s): %v", s.Name, s.Pos, err)
			continue
		}
		reports = append(reports, report)
	}

	if err := formatter.Render(cmd.OutOrStdout(), reports); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d scenarios failed", failed, len(selected))
	}
	return nil
}
