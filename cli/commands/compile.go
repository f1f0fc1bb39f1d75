package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/frm-go/cli/internal/config"
	"github.com/satishbabariya/frm-go/cli/internal/ui"
	"github.com/satishbabariya/frm-go/cli/internal/watch"
	"github.com/satishbabariya/frm-go/internal/debug"
	"github.com/satishbabariya/frm-go/query/ast"
	"github.com/satishbabariya/frm-go/query/cache"
	"github.com/satishbabariya/frm-go/query/compiler"
	"github.com/satishbabariya/frm-go/query/sqlgen"
)

type compileOptions struct {
	funcName string
	watch    bool
	plain    bool

	// descriptors survives recompiles in watch mode.
	descriptors *cache.LRU[*compiler.Descriptor]
}

func newCompileCommand(global *globalOptions) *cobra.Command {
	opts := &compileOptions{}

	cmd := &cobra.Command{
		Use:   "compile [file]",
		Short: "Compile comprehension functions to SQL",
		Long: `Compile the functions of a query file to SQL for the configured provider.
Every function is compiled unless --func selects one.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := global.config()
			if err != nil {
				return err
			}
			file := cfg.QueryPath
			if len(args) > 0 {
				file = args[0]
			}

			opts.descriptors = cache.NewLRU[*compiler.Descriptor](cache.DefaultSize)
			out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
			compileOnce := func() error {
				return compileFile(out, errOut, cfg, file, opts)
			}
			if !opts.watch {
				return compileOnce()
			}

			onError := func(err error) {
				if !errors.Is(err, errReported) {
					ui.PrintError(errOut, "%v", err)
				}
			}
			if err := compileOnce(); err != nil {
				onError(err)
			}

			w, err := watch.NewWatcher([]string{cfg.SchemaPath, file}, func(changed string) error {
				ui.PrintSection(out, changed+" changed")
				return compileOnce()
			})
			if err != nil {
				return err
			}
			ui.PrintWarning(out, "watching %s and %s, press Ctrl+C to stop", cfg.SchemaPath, file)
			return w.Run(cmd.Context(), onError)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.funcName, "func", "", "compile only the named function")
	flags.BoolVarP(&opts.watch, "watch", "w", false, "recompile when the schema or query file changes")
	flags.BoolVar(&opts.plain, "plain", false, "print bare SQL statements")
	return cmd
}

// compileFile compiles the selected functions of file and prints their SQL.
func compileFile(w, errOut io.Writer, cfg *config.Config, file string, opts *compileOptions) error {
	p, err := loadProject(errOut, cfg)
	if err != nil {
		return err
	}
	gen, err := sqlgen.NewGenerator(cfg.Provider)
	if err != nil {
		return err
	}
	src, err := config.ReadFile(file)
	if err != nil {
		return fmt.Errorf("failed to read queries: %w", err)
	}

	names, err := functionNames(file, src, opts.funcName)
	if err != nil {
		return report(errOut, src, err)
	}

	c := compiler.New(p.registry, compiler.WithFilename(file), compiler.WithCache(opts.descriptors))
	defer func() {
		stats := opts.descriptors.Stats()
		debug.Debug("descriptor cache", "hits", stats.Hits, "misses", stats.Misses, "size", stats.Size)
	}()

	for _, name := range names {
		q, err := c.CompileFunc(src, name, nil)
		if err != nil {
			return report(errOut, src, err)
		}
		stmt := gen.GenerateSelect(q)

		if opts.plain {
			fmt.Fprintf(w, "%s;\n", stmt.SQL)
			continue
		}
		if name != "" {
			ui.PrintSection(w, name)
		}
		fmt.Fprintln(w, ui.RenderSQL(stmt.SQL))
	}
	return nil
}

// functionNames lists the functions to compile. A bare expression yields a
// single empty name.
func functionNames(file, src, selected string) ([]string, error) {
	if selected != "" {
		return []string{selected}, nil
	}
	tree, err := ast.ParseString(file, src)
	if err != nil {
		return nil, err
	}
	if tree.Expr != nil {
		return []string{""}, nil
	}
	return tree.FuncNames(), nil
}
