package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cinevault/cinevault/internal/server"
	"github.com/cinevault/cinevault/internal/service"
	"github.com/cinevault/cinevault/internal/store"
)

const banner = `
  ___ ___ _  _ ___ _   _  _   _   _ _  _____
 / __|_ _| \| | __| | | |/_\ | | | | ||_   _|
| (__ | || .  | _|| |_| / _ \| |_| | |_ | |
 \___|___|_|\_|___|\___/_/ \_\\___/|____||_|
`

func newServeCmd() *cobra.Command {
	var (
		port int
		host string
		dev  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the CineVault API server",
		Long:  "Connect to the database, bootstrap the administrator identity, and start the HTTP server.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(host, port, dev)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 5000, "HTTP listen port")
	cmd.Flags().StringVar(&host, "host", "0.0.0.0", "HTTP listen host")
	cmd.Flags().BoolVar(&dev, "dev", false, "Enable development mode (verbose logging)")

	viper.BindPFlag("server.port", cmd.Flags().Lookup("port"))
	viper.BindPFlag("server.host", cmd.Flags().Lookup("host"))

	return cmd
}

func runServe(host string, port int, dev bool) error {
	fmt.Print(banner)
	fmt.Println()

	logLevel := slog.LevelInfo
	if dev {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	// Refuse to start without the two required settings. The process must
	// never come up half-configured.
	dsn := viper.GetString("database.url")
	if dsn == "" {
		return fmt.Errorf("database.url is required (set CINEVAULT_DATABASE_URL or database.url in cinevault.yaml)")
	}
	jwtSecret := viper.GetString("auth.jwt_secret")
	if jwtSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required (set CINEVAULT_AUTH_JWT_SECRET or auth.jwt_secret in cinevault.yaml)")
	}

	// Connect with retries. Exhaustion is fatal; no listener starts without
	// a live store.
	ctx := context.Background()
	st, err := store.OpenWithRetry(ctx, store.DefaultConfig(dsn), logger)
	if err != nil {
		return fmt.Errorf("connect store: %w", err)
	}
	defer st.Close()
	logger.Info("store connected", "driver", st.Driver())

	authSvc := service.NewAuthService(st, jwtSecret)

	created, err := authSvc.EnsureDefaultAdmin(ctx)
	if err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	if created {
		logger.Warn("default admin created - rotate the credentials immediately",
			"username", service.DefaultAdminUsername)
	}

	// Background connectivity monitor. Logs transitions; the HTTP layer
	// answers 503 on /readyz while the store is unreachable.
	monitorCtx, stopMonitor := context.WithCancel(ctx)
	defer stopMonitor()
	go st.MonitorConnectivity(monitorCtx, 15*time.Second, logger)

	srvCfg := server.DefaultConfig()
	srvCfg.Host = viper.GetString("server.host")
	srvCfg.Port = viper.GetInt("server.port")
	if srvCfg.Host == "" {
		srvCfg.Host = host
	}
	if srvCfg.Port == 0 {
		srvCfg.Port = port
	}

	srv := server.New(srvCfg, st, authSvc, logger)

	fmt.Printf("→ Listening on http://%s:%d\n", srvCfg.Host, srvCfg.Port)
	fmt.Printf("→ OpenAPI:    http://%s:%d/openapi.json\n", srvCfg.Host, srvCfg.Port)
	fmt.Printf("→ Health:     http://%s:%d/healthz\n", srvCfg.Host, srvCfg.Port)
	fmt.Println()

	return srv.ListenAndServe()
}
