package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cottand/ilec/ilec"
	"github.com/cottand/ilec/internal/log"
	"github.com/cottand/ilec/ir"
)

var RunCmd = &cobra.Command{
	Use:          "run ./folder|module.yaml...",
	Short:        "Compile modules and evaluate a definition of the last one",
	RunE:         runRun,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
}

var (
	runEval     *string
	runImports  *[]string
	runLogLevel *int
)

func init() {
	runEval = RunCmd.Flags().StringP("eval", "e", "main", "definition of the last module to evaluate")
	runImports = RunCmd.Flags().StringSlice("import", nil, "interface documents of modules compiled separately")
	runLogLevel = RunCmd.Flags().IntP("log-level", "l", int(slog.LevelError), "log level")
}

func runRun(cmd *cobra.Command, args []string) error {
	log.SetLevel(slog.Level(*runLogLevel))

	cfg := ilec.DefaultConfiguration()
	p, err := compile(args, *runImports, cfg)
	if err != nil {
		return err
	}
	v, err := evaluate(p, cfg, *runEval)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), ir.FormatValue(v))
	return err
}

func evaluate(p *program, cfg ilec.Configuration, name string) (ir.Value, error) {
	host, err := ilec.HostList(cfg)
	if err != nil {
		return nil, fmt.Errorf("could not set up the list library: %w", err)
	}
	last := p.modules[len(p.modules)-1]
	v, err := ir.NewInterpreter(host, p.modules...).Global(last.Path + "." + name)
	if err != nil {
		return nil, fmt.Errorf("could not evaluate %s: %w", name, err)
	}
	return v, nil
}
