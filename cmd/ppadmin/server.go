package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/paradisepeak/ppadmin/internal/admin"
	"github.com/paradisepeak/ppadmin/internal/config"
	"github.com/paradisepeak/ppadmin/internal/sandbox"
	"github.com/paradisepeak/ppadmin/internal/tools"
)

// --- sandbox ---

var sandboxCmd = &cobra.Command{
	Use:   "sandbox",
	Short: "Run a local API with seeded data (foreground)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if port, _ := cmd.Flags().GetInt("port"); port != 0 {
			cfg.Sandbox.Port = port
		}
		return runSandbox(cmd.Context(), cfg)
	},
}

func runSandbox(ctx context.Context, cfg config.Config) error {
	fmt.Fprintf(os.Stderr, "ppadmin sandbox %s\n", version)

	printStep("Seeding sandbox data")
	data := sandbox.NewData()
	if err := data.Seed(); err != nil {
		return fmt.Errorf("seeding sandbox: %w", err)
	}

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.Sandbox.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: sandbox.NewHandler(data, slog.Default()),
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	// Start server in a goroutine.
	errCh := make(chan error, 1)
	go func() {
		printStatus("API", "http://%s%s", addr, sandbox.Prefix)
		printStatus("Admin", "%s / %s", sandbox.AdminEmail, sandbox.AdminPassword)
		printStatus("Traveller", "%s / %s", sandbox.UserEmail, sandbox.UserPassword)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for signal or server error.
	select {
	case <-ctx.Done():
		fmt.Fprintln(os.Stderr, "shutting down...")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	// Graceful shutdown with timeout.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// --- mcp ---

var mcpCmd = &cobra.Command{
	Use:         "mcp",
	Short:       "Serve the admin tools over MCP (stdio)",
	Annotations: guarded("admin"),
	RunE: func(cmd *cobra.Command, args []string) error {
		d := current.deps()
		mcpSrv := tools.NewMCPServer(tools.MCPDeps{
			Bookings:    admin.NewBookings(d),
			Packages:    admin.NewPackages(d),
			Reviews:     admin.NewReviews(d),
			Subscribers: admin.NewSubscribers(d),
			Dashboard:   current.client,
			Session:     current.session,
		})
		slog.Info("MCP server started (stdio transport)")
		stdioSrv := server.NewStdioServer(mcpSrv)
		if err := stdioSrv.Listen(cmd.Context(), os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("MCP stdio server: %w", err)
		}
		return nil
	},
}

func init() {
	sandboxCmd.Flags().Int("port", 0, "listen port (defaults to sandbox.port)")
}
