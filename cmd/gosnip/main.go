package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/kakkky/gosnip/compiler"
	"github.com/kakkky/gosnip/completer"
	"github.com/kakkky/gosnip/declregistry"
	"github.com/kakkky/gosnip/errs"
	"github.com/kakkky/gosnip/executor"
	"github.com/kakkky/gosnip/repl"
	"github.com/kakkky/gosnip/resolver"
	"github.com/kakkky/gosnip/stdpkg"
	"github.com/kakkky/gosnip/universe"
	"github.com/kakkky/gosnip/usings"
	"github.com/kakkky/gosnip/version"
)

type options struct {
	dir         string
	usings      []string
	std         bool
	timeout     time.Duration
	checkUpdate bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errs.HandleError(err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := options{}
	cmd := &cobra.Command{
		Use:           "gosnip",
		Short:         "Interactive Go snippet console with completion",
		Version:       version.VERSION,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts)
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&opts.dir, "dir", "d", ".", "project directory whose packages are offered as completion candidates")
	flags.StringSliceVarP(&opts.usings, "using", "u", []string{"fmt", "strings"}, "packages selected at startup")
	flags.BoolVar(&opts.std, "std", true, "load the standard library catalog")
	flags.DurationVar(&opts.timeout, "timeout", compiler.DefaultTimeout, "how long Enter waits for the compilation of the input")
	flags.BoolVar(&opts.checkUpdate, "check-update", true, "check whether a newer release exists")
	return cmd
}

func run(ctx context.Context, opts options) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	if opts.checkUpdate {
		if latest, latestVersion, err := version.IsLatestVersion(); err == nil && !latest {
			version.PrintNoteLatestVersion(latestVersion)
		}
	}

	providers := []universe.CatalogProvider{universe.NewBasicCatalog()}
	if opts.std {
		pp := universe.NewPackagesProvider(opts.dir, stdpkg.Paths()...)
		pp.OnError(errs.HandleError)
		providers = append(providers, pp)
	}
	sp := universe.NewSourceProvider(opts.dir)
	sp.OnError(errs.HandleError)
	providers = append(providers, sp)
	u := universe.New(providers...)
	u.OnError(errs.HandleError)

	declRegistry := declregistry.NewRegistry()
	store := usings.NewStore(opts.usings...)
	r := resolver.New(u, declRegistry)

	engine := completer.NewEngine(u, declRegistry, r, store)
	compileEngine := compiler.NewEngine(compiler.NewYaegiCompiler(declRegistry), declRegistry, r)
	worker := compiler.NewWorker(compileEngine, store.List)
	worker.Timeout = opts.timeout
	worker.OnError(errs.HandleError)

	exec := executor.NewExecutor(declRegistry, u, store, worker)
	return repl.NewRepl(engine, exec, worker).Run(ctx)
}
