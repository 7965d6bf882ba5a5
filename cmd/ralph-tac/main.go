package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/raymyers/ralph-tac/pkg/ast"
	"github.com/raymyers/ralph-tac/pkg/tac"
	"github.com/raymyers/ralph-tac/pkg/tacgen"
	"github.com/raymyers/ralph-tac/pkg/tacstats"
	"github.com/raymyers/ralph-tac/pkg/treefile"
)

var version = "0.1.0"

// Debug flags for dumping intermediate representations
var (
	dTree bool
	dTAC  bool
)

// Output options
var (
	outputPath string
	showStats  bool
	verbose    bool
)

func main() {
	os.Exit(run())
}

func run() int {
	rootCmd := newRootCmd(os.Stdout, os.Stderr)
	// Normalize CompCert-style single-dash flags to double-dash for pflag compatibility
	rootCmd.SetArgs(normalizeFlags(os.Args[1:]))
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

// debugFlagNames lists the dump flags that also accept a single dash
var debugFlagNames = []string{"dtree", "dtac"}

// normalizeFlags converts single-dash dump flags like -dtac to --dtac
func normalizeFlags(args []string) []string {
	result := make([]string, len(args))
	for i, arg := range args {
		result[i] = arg
		for _, flagName := range debugFlagNames {
			if strings.EqualFold(arg, "-"+flagName) {
				result[i] = "-" + arg
				break
			}
		}
	}
	return result
}

// lowerFlagNames makes flag names case-insensitive, so -dTAC and --dtac agree
func lowerFlagNames(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ToLower(name))
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ralph-tac [file.yaml]",
		Short: "ralph-tac lowers a resolved syntax tree to three-address code",
		Long: `ralph-tac reads a type-checked, name-resolved syntax tree in its
YAML interchange form and lowers it to three-address code: one flat,
label-linked list of quads per procedure.`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			filename := args[0]

			var logger *tlog.Logger
			if verbose {
				logger = tlog.New(tlog.NewConsoleWriter(errOut, tlog.LstdFlags))
			}

			prog, err := loadTree(filename, errOut, logger)
			if err != nil {
				return err
			}

			if dTree {
				return doTree(filename, prog, out, errOut)
			}
			return doTAC(filename, prog, out, errOut, logger)
		},
	}

	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)
	rootCmd.Flags().SetNormalizeFunc(lowerFlagNames)
	rootCmd.Flags().BoolVarP(&dTree, "dtree", "", false, "Dump the loaded tree")
	rootCmd.Flags().BoolVarP(&dTAC, "dtac", "", false, "Dump three-address code to a .3ac file")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write three-address code to this file instead of stdout")
	rootCmd.Flags().BoolVar(&showStats, "stats", false, "Print lowering counters in Prometheus text format")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log pipeline progress to stderr")

	return rootCmd
}

func logw(logger *tlog.Logger, msg string, kvs ...interface{}) {
	if logger != nil {
		logger.Printw(msg, kvs...)
	}
}

func loadTree(filename string, errOut io.Writer, logger *tlog.Logger) (*ast.Program, error) {
	prog, err := treefile.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(errOut, "ralph-tac: %v\n", err)
		return nil, err
	}
	logw(logger, "loaded tree", "file", filename, "decls", len(prog.Decls))
	return prog, nil
}

// doTree writes the resolved tree to a .tree file and to stdout
func doTree(filename string, prog *ast.Program, out, errOut io.Writer) error {
	outputFilename := treeOutputFilename(filename)

	outFile, err := os.Create(outputFilename)
	if err != nil {
		fmt.Fprintf(errOut, "ralph-tac: error creating %s: %v\n", outputFilename, err)
		return err
	}
	defer outFile.Close()

	ast.NewPrinter(outFile).PrintProgram(prog)

	// Also print to stdout for convenience
	ast.NewPrinter(out).PrintProgram(prog)
	return nil
}

// doTAC lowers the tree and writes the three-address code
func doTAC(filename string, prog *ast.Program, out, errOut io.Writer, logger *tlog.Logger) error {
	code, err := tacgen.LowerProgram(prog)
	if err != nil {
		err = errors.Wrap(err, "lower %v", filename)
		fmt.Fprintf(errOut, "ralph-tac: %v\n", err)
		return err
	}
	logw(logger, "lowered", "procs", len(code.Procs), "globals", len(code.Globals), "strings", len(code.Strings))

	switch {
	case outputPath != "":
		if err := writeTAC(outputPath, code, errOut); err != nil {
			return err
		}
		logw(logger, "wrote", "file", outputPath)
	case dTAC:
		outputFilename := tacOutputFilename(filename)
		if err := writeTAC(outputFilename, code, errOut); err != nil {
			return err
		}
		logw(logger, "wrote", "file", outputFilename)
		tac.NewPrinter(out).PrintProgram(code)
	default:
		tac.NewPrinter(out).PrintProgram(code)
	}

	if showStats {
		tacstats.Write(out, code)
	}
	return nil
}

func writeTAC(path string, code *tac.Program, errOut io.Writer) error {
	outFile, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(errOut, "ralph-tac: error creating %s: %v\n", path, err)
		return err
	}
	defer outFile.Close()

	tac.NewPrinter(outFile).PrintProgram(code)
	return nil
}

// trimTreeExt strips a .yaml or .yml extension
func trimTreeExt(filename string) string {
	for _, ext := range []string{".yaml", ".yml"} {
		if strings.HasSuffix(filename, ext) {
			return filename[:len(filename)-len(ext)]
		}
	}
	return filename
}

// treeOutputFilename returns the output filename for -dtree
func treeOutputFilename(filename string) string {
	return trimTreeExt(filename) + ".tree"
}

// tacOutputFilename returns the output filename for -dtac
func tacOutputFilename(filename string) string {
	return trimTreeExt(filename) + ".3ac"
}
