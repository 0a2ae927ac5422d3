package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"pyedit/internal/config"
	"pyedit/internal/diff"
	"pyedit/internal/edit"
	"pyedit/internal/intent"
	"pyedit/internal/inventory"
	"pyedit/internal/session"
	"pyedit/internal/watch"
)

var (
	// Global flags
	verbose    bool
	configPath string
	backend    string

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "pyedit",
	Short: "pyedit - edit Python source with plain English instructions",
	Long: `pyedit turns natural language instructions into structural edits of
Python source files.

Each instruction is parsed into an intent (action plus extracted names),
matched against a tree-sitter inventory of the file, and applied by a
mutation backend: "line" splices text lines, "tree" splices syntax-tree
byte ranges.

Run without arguments to start the interactive editor.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if backend != "" {
			cfg.Backend = backend
		}

		zcfg := zap.NewProductionConfig()
		level, err := zapcore.ParseLevel(cfg.LogLevel)
		if err != nil {
			return fmt.Errorf("log level %q: %w", cfg.LogLevel, err)
		}
		zcfg.Level = zap.NewAtomicLevelAt(level)
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: launch the interactive editor
		return runInteractive()
	},
}

// analyzeCmd prints the structural inventory of Python files
var analyzeCmd = &cobra.Command{
	Use:   "analyze [files...]",
	Short: "Print the structural inventory of Python files as JSON",
	Long: `Parses each file with tree-sitter and prints its inventory: classes
with methods, attributes and base classes, top-level functions, and
imports. Files are analyzed in parallel; a syntax error in one file is
reported in its inventory without failing the others.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

// intentCmd shows the parsed intent without applying it
var intentCmd = &cobra.Command{
	Use:   "intent [instruction]",
	Short: "Parse an instruction and print the extracted intent as JSON",
	Long: `Shows what an instruction would do without touching any file. With
--source, names in the intent are normalized against the file's
inventory (class and method casing repaired).`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIntent,
}

// applyCmd applies a single instruction to a file
var applyCmd = &cobra.Command{
	Use:   "apply [instruction]",
	Short: "Apply one instruction to a Python file",
	Long: `Applies the instruction to the file named by --file and prints the
resulting source. With --diff only the changed hunks are printed; with
--write the file is updated in place.

Example:
  pyedit apply "Add a method called eat to the Animal class" -f zoo.py --diff`,
	Args: cobra.MinimumNArgs(1),
	RunE: runApply,
}

// watchCmd re-analyzes a file whenever it changes on disk
var watchCmd = &cobra.Command{
	Use:   "watch [file]",
	Short: "Watch a file and print inventory changes on every save",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

var (
	applyFile  string
	applyDiff  bool
	applyWrite bool

	intentSource string
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: .pyedit.yaml in the working directory)")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "", "Mutation backend: line or tree (overrides config)")

	applyCmd.Flags().StringVarP(&applyFile, "file", "f", "", "Python file to edit (required)")
	applyCmd.Flags().BoolVar(&applyDiff, "diff", false, "Print changed hunks instead of the full source")
	applyCmd.Flags().BoolVarP(&applyWrite, "write", "w", false, "Write the result back to the file")
	_ = applyCmd.MarkFlagRequired("file")

	intentCmd.Flags().StringVar(&intentSource, "source", "", "Python file to normalize intent names against")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(intentCmd)
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(watchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// newParser builds the instruction parser from the loaded config.
func newParser() *intent.Parser {
	return intent.NewParser(
		intent.WithTokenizer(intent.NewTokenizer(cfg.Tokenizer)),
		intent.WithSynonyms(cfg.Synonyms),
	)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	type report struct {
		File      string               `json:"file"`
		Inventory *inventory.Inventory `json:"inventory"`
	}
	reports := make([]report, len(args))

	var g errgroup.Group
	for i, path := range args {
		g.Go(func() error {
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			reports[i] = report{
				File:      path,
				Inventory: inventory.NewAnalyzer().Analyze(string(data)),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	for _, r := range reports {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return nil
}

func runIntent(cmd *cobra.Command, args []string) error {
	instruction := strings.Join(args, " ")
	in := newParser().Parse(instruction)

	if intentSource != "" {
		data, err := os.ReadFile(intentSource)
		if err != nil {
			return err
		}
		in = intent.Normalize(in, inventory.NewAnalyzer().Analyze(string(data)))
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(in)
}

func runApply(cmd *cobra.Command, args []string) error {
	instruction := strings.Join(args, " ")

	s := session.New(
		session.WithLogger(logger),
		session.WithParser(newParser()),
		session.WithMutator(edit.New(cfg.Backend)),
	)
	if err := s.Load(applyFile); err != nil {
		return err
	}

	out, err := s.Execute(instruction)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if applyDiff {
		fmt.Fprint(w, diff.Render(out.Diff))
	} else {
		fmt.Fprint(w, out.Source)
	}
	if applyWrite {
		if err := s.Save(""); err != nil {
			return err
		}
		logger.Info("wrote file", zap.String("path", applyFile))
	}
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	path := args[0]
	analyzer := inventory.NewAnalyzer()
	differ := diff.NewEngine()

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	last := string(data)
	printInventory(cmd, analyzer.Analyze(last))

	w, err := watch.New(logger)
	if err != nil {
		return err
	}
	defer w.Close()

	out := cmd.OutOrStdout()
	err = w.Watch(path, func(p string) {
		data, err := os.ReadFile(p)
		if err != nil {
			logger.Warn("reread failed", zap.String("path", p), zap.Error(err))
			return
		}
		current := string(data)
		result := differ.Compute(last, current)
		if !result.Changed() {
			return
		}
		fmt.Fprintln(out)
		fmt.Fprint(out, diff.Render(result))
		printInventory(cmd, analyzer.Analyze(current))
		last = current
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "watching %s (ctrl-c to stop)\n", path)
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	return nil
}

func printInventory(cmd *cobra.Command, inv *inventory.Inventory) {
	out := cmd.OutOrStdout()
	if inv.Status != inventory.StatusOK {
		fmt.Fprintln(out, inv.Message)
		return
	}
	for _, name := range inv.ClassNames() {
		cls := inv.Class(name)
		fmt.Fprintf(out, "class %s (%d methods, %d attributes)\n",
			name, len(cls.Methods), len(cls.Attributes))
	}
	for _, fn := range inv.Functions {
		fmt.Fprintf(out, "def %s(%s)\n", fn.Name, strings.Join(fn.Arguments, ", "))
	}
}
