// Package main provides the entry point for the settings server
package main

import (
	"context"
	"embed"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"settings-ui/internal/app"
	"settings-ui/internal/commands"
	"settings-ui/internal/container"
	"settings-ui/internal/types"
	"settings-ui/internal/utils"

	"github.com/sirupsen/logrus"
)

//go:embed web/static
var staticFS embed.FS

func main() {
	if len(os.Args) > 1 {
		if runCommand(os.Args[1], os.Args[2:]) {
			return
		}
	}

	runServer()
}

// runCommand dispatches subcommands, returning false for serve.
func runCommand(name string, args []string) bool {
	switch name {
	case "serve":
		return false
	case "show":
		commands.RunShow(args)
	case "set":
		commands.RunSet(args)
	case "export":
		commands.RunExport(args)
	case "import":
		commands.RunImport(args)
	case "migrate-keys":
		commands.RunMigrateKeys(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", name)
		printUsage()
		os.Exit(2)
	}
	return true
}

func printUsage() {
	fmt.Println("Usage: settings-ui [command] [flags]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  serve          Start the settings server (default)")
	fmt.Println("  show           Print every setting grouped by category")
	fmt.Println("  set            Convert and store one setting")
	fmt.Println("  export         Write a settings snapshot")
	fmt.Println("  import         Apply a settings snapshot")
	fmt.Println("  migrate-keys   Re-encrypt stored overrides under a new ENCRYPTION_KEY")
}

// runServer runs the application server
func runServer() {
	cont, err := container.BuildContainer()
	if err != nil {
		logrus.Fatalf("Failed to build container: %v", err)
	}

	if err := cont.Provide(func() embed.FS { return staticFS }); err != nil {
		logrus.Fatalf("Failed to provide static files: %v", err)
	}

	// Initialize global logger
	if err := cont.Invoke(func(configManager types.ConfigManager) {
		utils.SetupLogger(configManager)
	}); err != nil {
		logrus.Fatalf("Failed to setup logger: %v", err)
	}

	// Create and run the application
	if err := cont.Invoke(func(application *app.App, configManager types.ConfigManager) {
		if err := application.Start(); err != nil {
			logrus.Fatalf("Failed to start application: %v", err)
		}

		// Wait for interrupt signal for graceful shutdown
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		serverConfig := configManager.GetEffectiveServerConfig()
		shutdownTimeout := time.Duration(serverConfig.GracefulShutdownTimeout) * time.Second
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		application.Stop(ctx)
	}); err != nil {
		logrus.Fatalf("Failed to run application: %v", err)
	}
}
