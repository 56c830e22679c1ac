package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/paradisepeak/ppadmin/internal/config"
	"github.com/paradisepeak/ppadmin/internal/guard"
)

var version = "dev"

var noColor bool

// guardAnnotation names the guard a command (or any of its parents) runs behind.
const guardAnnotation = "guard"

var (
	errNotSignedIn = errors.New("not signed in: run `ppadmin login` first")
	errSignedIn    = errors.New("already signed in: run `ppadmin logout` first")
	errNotAdmin    = errors.New("this command needs an admin account")
)

var rootCmd = &cobra.Command{
	Use:           "ppadmin",
	Short:         "Paradise Peak travel admin",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		setupLogging(cfg.Log.Level)

		name, ok := guardFor(cmd)
		if !ok {
			return nil
		}
		g, ok := guard.ByName(name)
		if !ok {
			return fmt.Errorf("unknown guard %q on %s", name, cmd.CommandPath())
		}

		a, err := openApp(cfg)
		if err != nil {
			return err
		}
		current = a
		return denial(name, g(a.session))
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(loginCmd, signupCmd, forgotCmd, resetCmd, logoutCmd, whoamiCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(bookingsCmd, packagesCmd, galleryCmd, reviewsCmd)
	rootCmd.AddCommand(usersCmd, subscribersCmd, photosCmd)
	rootCmd.AddCommand(configCmd, sandboxCmd, mcpCmd)
}

func guardFor(cmd *cobra.Command) (string, bool) {
	for c := cmd; c != nil; c = c.Parent() {
		if name, ok := c.Annotations[guardAnnotation]; ok {
			return name, true
		}
	}
	return "", false
}

func guarded(name string) map[string]string {
	return map[string]string{guardAnnotation: name}
}

// denial turns a redirect into the error the operator sees.
func denial(name string, d guard.Decision) error {
	if d.Allow {
		return nil
	}
	switch {
	case d.Redirect == guard.Login:
		return errNotSignedIn
	case name == "public":
		return errSignedIn
	default:
		return errNotAdmin
	}
}

func setupLogging(level string) {
	logLevel := slog.LevelInfo
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	defer closeApp()

	return rootCmd.ExecuteContext(ctx)
}
