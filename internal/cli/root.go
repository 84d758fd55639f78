package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mcoot/sporthub/internal/config"
	"github.com/mcoot/sporthub/internal/factory"
	"github.com/mcoot/sporthub/internal/services/session"
)

// skipSeedAnnotation marks commands that manage seeding themselves
const skipSeedAnnotation = "sporthub/skip-seed"

// runtime is the state shared by the commands of one invocation
type runtime struct {
	opts     Options
	flags    Flags
	settings config.Config
	app      *factory.App
}

func (rt *runtime) output(cmd *cobra.Command) *Output {
	return NewOutput(rt.flags.Output, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// start builds the application and performs the work every page load does:
// fetch the bundled data, seed absent catalog keys, wait for the session to
// be restored and drop it if it has expired
func (rt *runtime) start(cmd *cobra.Command) error {
	if err := rt.flags.validateOutput(); err != nil {
		return err
	}

	settings, err := rt.flags.settings(cmd)
	if err != nil {
		return err
	}

	rt.settings = settings

	logger := rt.opts.Logger
	if logger == nil {
		logger = newLogger(settings)
	}

	build := rt.opts.NewApp
	if build == nil {
		build = defaultAppBuilder
	}
	app, err := build(settings, logger)
	if err != nil {
		return fmt.Errorf("failed to start: %w", err)
	}
	rt.app = app

	ctx := cmd.Context()
	app.Catalog.Load(ctx)
	if _, skip := cmd.Annotations[skipSeedAnnotation]; !skip {
		// failures are logged by the catalog and reads fall back to bundled data
		_, _ = app.Catalog.Seed(ctx)
	}

	go app.Sessions.Initialize(context.WithoutCancel(ctx))
	if err := app.Sessions.WaitReady(ctx, settings.ReadyTimeout); err != nil {
		return errors.New(session.Message(err))
	}
	app.Sessions.CheckSessionExpiry(ctx)
	return nil
}

func (rt *runtime) stop() error {
	if rt.app == nil {
		return nil
	}
	err := rt.app.Close()
	rt.app = nil
	return err
}

// NewRootCmd creates the root command
func NewRootCmd(opts Options) *cobra.Command {
	return newRootCmd(&runtime{opts: opts, flags: Flags{Output: "text"}})
}

func newRootCmd(rt *runtime) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sporthub",
		Short: "Browse venues, coaches and gear, and manage bookings",
		Long: `sporthub is a command-line front end for the SportHub catalog.

Each invocation behaves like a page load: the bundled sample data is loaded,
absent catalog entries are seeded into the store, and any saved login session
is restored. Sessions expire 24 hours after login.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return rt.start(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&rt.flags.Output, "output", "o", rt.flags.Output, "Output format: text, json")
	rootCmd.PersistentFlags().StringVar(&rt.flags.Storage, "storage", "", "Storage backend: memory, redis, sqlite (env: SPORTHUB_STORAGE)")
	rootCmd.PersistentFlags().StringVar(&rt.flags.Data, "data", "", "Bundled data file or URL (env: SPORTHUB_DATA)")

	// Add subcommands
	rootCmd.AddCommand(newLoginCmd(rt))
	rootCmd.AddCommand(newSignupCmd(rt))
	rootCmd.AddCommand(newLogoutCmd(rt))
	rootCmd.AddCommand(newWhoAmICmd(rt))
	rootCmd.AddCommand(newProfileCmd(rt))
	rootCmd.AddCommand(newVenuesCmd(rt))
	rootCmd.AddCommand(newCoachesCmd(rt))
	rootCmd.AddCommand(newProductsCmd(rt))
	rootCmd.AddCommand(newNewsCmd(rt))
	rootCmd.AddCommand(newSearchCmd(rt))
	rootCmd.AddCommand(newBookCmd(rt))
	rootCmd.AddCommand(newBookingsCmd(rt))
	rootCmd.AddCommand(newStatsCmd(rt))
	rootCmd.AddCommand(newSeedCmd(rt))
	rootCmd.AddCommand(newWatchCmd(rt))

	return rootCmd
}

// Run executes one invocation with the given arguments. The application is
// closed afterwards whether or not the command succeeded.
func Run(ctx context.Context, opts Options, args []string, stdout, stderr io.Writer) error {
	rt := &runtime{opts: opts, flags: Flags{Output: "text"}}
	rootCmd := newRootCmd(rt)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.ExecuteContext(ctx)
	if stopErr := rt.stop(); err == nil {
		err = stopErr
	}
	if err != nil {
		NewOutput(rt.flags.Output, stdout, stderr).PrintError(err)
	}
	return err
}

// Execute runs the root command with the process arguments
func Execute(ctx context.Context) {
	if err := Run(ctx, Options{}, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}
