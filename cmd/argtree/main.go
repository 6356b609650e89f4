package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/janert/argtree"
	"github.com/janert/argtree/internal/treefile"
)

// Exit codes
const (
	exitOK     = 0
	exitConfig = 1
	exitParse  = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line args and returns the exit code.
func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)

	err := root.Execute()
	if err == nil {
		return exitOK
	}

	FormatError(stderr, err)

	var pe *argtree.ParseError
	if errors.As(err, &pe) {
		return exitParse
	}
	return exitConfig
}

type globalFlags struct {
	tree  string
	debug bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	g := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:           "argtree [command]",
		Short:         "Parse command lines against parameter trees declared in YAML or TOML",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	rootCmd.PersistentFlags().StringVarP(&g.tree, "tree", "t", "", "Path to tree file (.yaml, .yml or .toml)")
	rootCmd.PersistentFlags().BoolVar(&g.debug, "debug", false, "Trace matching decisions to stderr")
	_ = rootCmd.MarkPersistentFlagRequired("tree")

	rootCmd.AddCommand(
		newParseCmd(g),
		newUsageCmd(g),
		newCheckCmd(g),
	)
	return rootCmd
}

// load reads the tree file and builds its parser.
func (g *globalFlags) load(cmd *cobra.Command) (*treefile.Tree, *argtree.Parser, *treefile.Values, error) {
	level := slog.LevelWarn
	if g.debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	tree, err := treefile.Load(g.tree)
	if err != nil {
		return nil, nil, nil, err
	}
	logger.Debug("Tree loaded", "file", g.tree, "program", tree.Program)

	p, values, err := treefile.Build(tree, argtree.WithLogger(logger))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%s: %w", g.tree, err)
	}
	return tree, p, values, nil
}

func newParseCmd(g *globalFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "parse [flags] -- [tokens...]",
		Short: "Parse tokens and print the resulting values",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			writer, err := outputWriter(format)
			if err != nil {
				return err
			}

			_, p, values, err := g.load(cmd)
			if err != nil {
				return err
			}

			res, err := p.Parse(args)
			if err != nil {
				return err
			}
			return writer(cmd.OutOrStdout(), values.Snapshot(res))
		},
	}
	cmd.Flags().SetInterspersed(false)
	cmd.Flags().StringVarP(&format, "format", "o", "env", "Output format: env, json or yaml")
	return cmd
}

func newUsageCmd(g *globalFlags) *cobra.Command {
	var (
		newline string
		short   bool
	)

	cmd := &cobra.Command{
		Use:   "usage",
		Short: "Print the usage text of a tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			nl, err := argtree.ParseNewline(newline)
			if err != nil {
				return err
			}

			tree, p, _, err := g.load(cmd)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if tree.Program != "" {
				if _, err := fmt.Fprintf(w, "Usage: %s ", tree.Program); err != nil {
					return err
				}
			}
			if err := p.WriteShortUsage(w, nl); err != nil {
				return err
			}
			if short {
				return nil
			}

			if tree.Description != "" {
				if _, err := fmt.Fprintf(w, "%s%s%s", nl.Terminator(), tree.Description, nl.Terminator()); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprint(w, nl.Terminator()); err != nil {
				return err
			}
			return p.WriteUsage(w, nl)
		},
	}
	cmd.Flags().StringVar(&newline, "newline", "auto", "Line endings: auto, posix or windows")
	cmd.Flags().BoolVar(&short, "short", false, "Print the one-line synopsis only")
	return cmd
}

func newCheckCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate a tree file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, p, _, err := g.load(cmd)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d parameters)\n", g.tree, len(p.Nodes()))
			return err
		},
	}
}
