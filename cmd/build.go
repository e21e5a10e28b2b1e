package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cottand/ilec/frontend/document"
	"github.com/cottand/ilec/ilec"
	"github.com/cottand/ilec/internal/log"
)

var BuildCmd = &cobra.Command{
	Use:          "build ./folder|module.yaml...",
	Short:        "Compile modules into IR, in the order they are given",
	RunE:         runBuild,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
}

var (
	buildOutPath      *string
	buildInterfaceOut *string
	buildImports      *[]string
	buildLogLevel     *int
)

func init() {
	buildOutPath = BuildCmd.Flags().StringP("out", "o", "", "directory to write the IR of every module to, instead of stdout")
	buildInterfaceOut = BuildCmd.Flags().StringP("interface", "i", "", "directory to write the interface of every module to")
	buildImports = BuildCmd.Flags().StringSlice("import", nil, "interface documents of modules compiled separately")
	buildLogLevel = BuildCmd.Flags().IntP("log-level", "l", int(slog.LevelError), "log level")
}

func runBuild(cmd *cobra.Command, args []string) error {
	log.SetLevel(slog.Level(*buildLogLevel))

	p, err := compile(args, *buildImports, ilec.DefaultConfiguration())
	if err != nil {
		return err
	}

	for _, m := range p.modules {
		if *buildOutPath == "" {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), m.String())
			continue
		}
		if err := write(*buildOutPath, fileName(m.Path)+".ir", []byte(m.String())); err != nil {
			return err
		}
	}
	if *buildInterfaceOut == "" {
		return nil
	}
	for _, m := range p.modules {
		encoded, err := document.EncodeInterface(p.interfaces[m.Path])
		if err != nil {
			return fmt.Errorf("could not encode interface: %w", err)
		}
		if err := write(*buildInterfaceOut, fileName(m.Path)+".interface.yaml", encoded); err != nil {
			return err
		}
	}
	return nil
}

// fileName flattens a module path into a single file name
func fileName(modulePath string) string {
	return strings.ReplaceAll(modulePath, "/", "_")
}

func write(dir, name string, content []byte) error {
	err := os.MkdirAll(dir, os.ModePerm)
	if err != nil {
		return fmt.Errorf("could not create output directory: %w", err)
	}
	err = os.WriteFile(filepath.Join(dir, name), content, 0o644)
	if err != nil {
		return fmt.Errorf("could not write file: %w", err)
	}
	return nil
}
