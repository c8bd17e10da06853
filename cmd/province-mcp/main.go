package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ironsheep/province-tools-mcp/internal/config"
	"github.com/ironsheep/province-tools-mcp/internal/logger"
	"github.com/ironsheep/province-tools-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("province-tools-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("province-tools-mcp - MCP server for province map detection")
			fmt.Println()
			fmt.Println("Usage: province-tools-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables (also read from ./.env):")
			fmt.Println("  " + config.EnvLogLevel + "=debug            Log level: debug, info, warn, error")
			fmt.Println("  " + config.EnvLogFormat + "=json           Log format: text or json")
			fmt.Println("  " + config.EnvConnectivity + "=8         Pixel connectivity: 4 or 8")
			fmt.Println("  " + config.EnvMergeConnectivity + "=8   Border merger connectivity (default: same as above)")
			fmt.Println("  " + config.EnvMinShapeSize + "=8       Flag provinces with this many pixels or fewer")
			fmt.Println("  " + config.EnvMaxShapeRatio + "=8      Flag provinces spanning 1/N of the map")
			fmt.Println("  " + config.EnvBorderColor + "=#000000     Border line color to absorb")
			fmt.Println("  " + config.EnvOutputStages + "=./stages   Write labels1.png and labels2.png here")
			fmt.Println("  " + config.EnvSnapshotMaxSide + "=4096 Downscale stage snapshots above this side")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
			return
		}
	}

	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(2)
	}

	// Logging goes to stderr; stdout is for MCP protocol
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Debug("province MCP server starting",
		"version", Version, "built", BuildTime, "commit", GitCommit)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg, log)
	if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
		log.Error("server error", "err", err)
		stop()
		os.Exit(1)
	}
}
