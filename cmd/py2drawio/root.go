package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/odvcencio/py2drawio/pkg/drawio"
	"github.com/odvcencio/py2drawio/pkg/exclude"
	"github.com/odvcencio/py2drawio/pkg/index"
	"github.com/odvcencio/py2drawio/pkg/layout"
	"github.com/odvcencio/py2drawio/pkg/model"
)

const usageExitCode = 2

type exitCodeError struct {
	code int
	err  error
}

func (e exitCodeError) Error() string {
	if e.err == nil {
		return "command failed"
	}
	return e.err.Error()
}

func (e exitCodeError) ExitCode() int {
	if e.code <= 0 {
		return 1
	}
	return e.code
}

func (e exitCodeError) Unwrap() error {
	return e.err
}

type runOptions struct {
	Root     string
	Output   string
	Sort     bool
	Spacing  layout.Spacing
	JSON     bool
	Debounce time.Duration
	Exclude  *exclude.Set
}

func newRootCmd() *cobra.Command {
	var sortClasses bool
	var spacing string
	var jsonOutput bool
	var watch bool
	var debounce time.Duration
	var excludePatterns []string
	var excludeFrom string

	cmd := &cobra.Command{
		Use:   "py2drawio <directory>",
		Short: "Render the classes of a Python source tree as a draw.io diagram",
		Long: "py2drawio parses every .py file under <directory>, merges classes that share a name,\n" +
			"and writes " + drawio.DefaultFileName + " to the working directory.",
		Args:          requireDirectory,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := layout.ParseSpacing(spacing)
			if err != nil {
				return exitCodeError{code: usageExitCode, err: err}
			}
			if watch && debounce <= 0 {
				return exitCodeError{code: usageExitCode, err: fmt.Errorf("debounce must be > 0 in watch mode")}
			}

			opts := runOptions{
				Root:     args[0],
				Output:   drawio.DefaultFileName,
				Sort:     sortClasses,
				Spacing:  mode,
				JSON:     jsonOutput,
				Debounce: debounce,
			}

			builder, err := index.NewBuilder()
			if err != nil {
				return err
			}
			excluded := exclude.New(excludePatterns...)
			if excludeFrom != "" {
				if err := excluded.ReadFile(excludeFrom); err != nil {
					return exitCodeError{code: usageExitCode, err: fmt.Errorf("read exclude file: %w", err)}
				}
			}
			builder.SetExclude(excluded)
			opts.Exclude = excluded
			if !watch {
				_, err := generate(cmd.OutOrStdout(), cmd.ErrOrStderr(), builder, opts)
				return err
			}

			cache, err := index.NewCache(0)
			if err != nil {
				return err
			}
			builder.SetCache(cache)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return watchAndGenerate(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), builder, cache, opts)
		},
	}

	cmd.Flags().BoolVar(&sortClasses, "sort", false, "order classes by name instead of first sighting")
	cmd.Flags().StringVar(&spacing, "spacing", "quadratic", "horizontal spacing between boxes: quadratic|linear")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "emit the extracted index as JSON instead of the summary")
	cmd.Flags().StringArrayVar(&excludePatterns, "exclude", nil, "skip paths matching a gitignore-style pattern (repeatable)")
	cmd.Flags().StringVar(&excludeFrom, "exclude-from", "", "read exclude patterns from a file, one per line")
	cmd.Flags().BoolVar(&watch, "watch", false, "regenerate the diagram whenever a source file changes")
	cmd.Flags().DurationVar(&debounce, "debounce", 250*time.Millisecond, "quiet period before regenerating in watch mode")
	return cmd
}

func requireDirectory(cmd *cobra.Command, args []string) error {
	switch len(args) {
	case 0:
		return exitCodeError{code: usageExitCode, err: errors.New("please provide a directory")}
	case 1:
		return nil
	default:
		return exitCodeError{code: usageExitCode, err: fmt.Errorf("expected one directory, got %d arguments", len(args))}
	}
}

// generate runs one full pass: build the class model, lay it out, and write
// the diagram. Nothing is written when the build fails.
func generate(out, errOut io.Writer, builder *index.Builder, opts runOptions) (*model.Index, error) {
	idx, err := builder.BuildPath(opts.Root)
	if err != nil {
		return nil, err
	}

	classes := idx.Classes
	if opts.Sort {
		classes = classes.Sorted()
	}

	diagram := layout.Compute(classes, layout.Options{Spacing: opts.Spacing})
	for _, id := range drawio.DuplicateIDs(diagram) {
		fmt.Fprintf(errOut, "warning: cell id %q is used more than once\n", id)
	}
	if err := drawio.WriteFile(opts.Output, diagram); err != nil {
		return nil, fmt.Errorf("write %s: %w", opts.Output, err)
	}

	if opts.JSON {
		return idx, emitJSON(out, idx)
	}
	printSummary(out, idx)
	fmt.Fprintln(out, "Finished")
	fmt.Fprintf(out, "--> %s\n", opts.Output)
	return idx, nil
}

func printSummary(out io.Writer, idx *model.Index) {
	fmt.Fprintf(out, "indexed: files=%d classes=%d declarations=%d root=%s\n", idx.FileCount(), idx.ClassCount(), idx.DeclarationCount(), idx.Root)
}

func emitJSON(out io.Writer, value any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}
