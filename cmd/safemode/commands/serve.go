package commands

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/opencode-ai/safemode/internal/config"
	"github.com/opencode-ai/safemode/internal/logging"
	"github.com/opencode-ai/safemode/internal/permission"
	"github.com/opencode-ai/safemode/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expose the classifier over HTTP",
	Long: `Start the safemode sidecar server. The configuration file is
hot-reloaded on change; a broken or missing file leaves the previous
(or deny-everything) mode in force.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8080, "Port to listen on")
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logging.Component("serve")

	dir, err := GetWorkDir(workDir)
	if err != nil {
		return err
	}

	manager := permission.NewManager()
	defer manager.Close()

	path := configPath
	if path == "" {
		path = config.Resolve(dir)
	}

	if path != "" {
		file, err := config.Load(path)
		if err != nil {
			return err
		}
		if err := manager.Apply(file, path); err != nil {
			return err
		}
		if err := manager.WatchFile(path); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("config watching disabled")
		}
	} else {
		log.Info().Msg("no config file found, running with the deny-everything default")
	}

	serverConfig := server.DefaultConfig()
	serverConfig.Port = servePort
	serverConfig.Directory = dir

	srv := server.New(serverConfig, manager)

	go func() {
		log.Info().Int("port", servePort).Msg("safemode server listening")
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
