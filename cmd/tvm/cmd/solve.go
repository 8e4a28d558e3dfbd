package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tvm/core/request"
	"tvm/core/tvm"
	"tvm/internal/config"
	"tvm/internal/logging"
)

// solveOptions are the flags of the root solve command
type solveOptions struct {
	displayOptions
	solverFlags

	frequency int
	due       bool
}

// solverFlags tune the rate solver for a single run
type solverFlags struct {
	tolerance float64
	maxIter   int
}

func (s *solverFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&s.tolerance, "tolerance", 0, "rate solver convergence tolerance (default from settings)")
	cmd.Flags().IntVar(&s.maxIter, "max-iter", 0, "rate solver iteration limit (default from settings)")
}

// options merges the flags over the settings
func (s *solverFlags) options(cfg *config.Config) tvm.Options {
	opts := cfg.SolverOptions()
	if s.tolerance > 0 {
		opts.Tolerance = s.tolerance
	}
	if s.maxIter > 0 {
		opts.MaxIterations = s.maxIter
	}
	return opts
}

func (s *solveOptions) register(cmd *cobra.Command) {
	s.displayOptions.register(cmd)
	s.solverFlags.register(cmd)
	cmd.Flags().IntVarP(&s.frequency, "frequency", "f", 0, "periods per year (default from settings)")
	cmd.Flags().BoolVar(&s.due, "due", false, "payments at the start of each period (annuity-due)")
}

// request builds a request from the settings, the flags, and the arguments
func (s *solveOptions) request(cfg *config.Config, args []string) (request.Request, error) {
	params, err := request.ParseAssignments(args)
	if err != nil {
		return request.Request{}, err
	}

	timing, err := tvm.ParseTiming(cfg.Timing)
	if err != nil {
		return request.Request{}, err
	}
	if s.due {
		timing = tvm.Begin
	}

	frequency := cfg.Frequency
	if s.frequency != 0 {
		frequency = s.frequency
	}

	return request.Request{
		Params:    params,
		Frequency: frequency,
		Timing:    timing,
		Schedule:  s.schedule,
	}, nil
}

func runSolve(cmd *cobra.Command, g *globalOptions, s *solveOptions, args []string) error {
	cfg := config.Get()

	req, err := s.request(cfg, args)
	if err != nil {
		return err
	}
	formatter, err := s.formatter(g)
	if err != nil {
		return err
	}

	opts := s.options(cfg)
	logging.Debug("solving",
		zap.Strings("args", args),
		zap.Int("frequency", req.Frequency),
		zap.String("timing", req.Timing.String()),
		zap.Float64("tolerance", opts.Tolerance),
	)

	report, err := request.Evaluate(req, opts)
	if err != nil {
		return err
	}
	logging.Debug("solved", zap.String("variable", string(report.Solved)), zap.Int("iterations", report.Iterations))

	return formatter.Render(cmd.OutOrStdout(), []*request.Report{report})
}
