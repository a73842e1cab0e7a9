// spztool is a CLI utility for converting SPZ Gaussian splat files into
// binary glTF content plus a 3D Tiles tileset.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/TASallin/JSpz/internal/config"
	"github.com/TASallin/JSpz/internal/logger"
	"github.com/TASallin/JSpz/pkg/spz"
	"github.com/TASallin/JSpz/pkg/transcode"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "info":
		cmdInfo(args)
	case "convert":
		cmdConvert(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`spztool - SPZ Gaussian splat conversion utility

Usage:
  spztool <command> [options]

Commands:
  info <file.spz>                      Show container information
  convert [options] <file.spz> <dir>   Convert to GLB + tileset.json

Convert options:
  --content-name <name>   GLB filename (default content.glb)
  --bounds <box|sphere>   Bounding volume mode (default box)
  --error-divisor <n>     Geometric error divisor, 0 = exact (default 16)
  --workers <n>           Parallelism, 0 = one per CPU
  --config <path>         Config file path
  --debug                 Enable debug logging

Examples:
  spztool info scene.spz
  spztool convert scene.spz ./tiles
  spztool convert --content-name scene.glb --bounds sphere scene.spz ./tiles`)
}

func cmdInfo(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: spztool info <file.spz>")
		os.Exit(1)
	}

	container, err := spz.ParseFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	h := container.Header
	fmt.Printf("File:            %s\n", args[0])
	fmt.Printf("Format version:  %d\n", h.Version)
	fmt.Printf("Points:          %d\n", h.PointCount)
	fmt.Printf("SH degree:       %d\n", h.SHDegree)
	fmt.Printf("Fractional bits: %d\n", h.FractionalBits)
	fmt.Printf("Antialiased:     %v\n", h.Antialiased())
}

func cmdConvert(args []string) {
	config.ParseFlags(args)
	rest := flag.Args()
	if len(rest) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: spztool convert [options] <file.spz> <output-dir>")
		os.Exit(1)
	}
	inputPath, outputDir := rest[0], rest[1]

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("converting",
		zap.String("input", inputPath),
		zap.String("output_dir", outputDir),
		zap.String("content_name", cfg.Convert.ContentName))

	result, err := transcode.Convert(inputPath, outputDir, cfg.Options())
	if err != nil {
		logger.Error("conversion failed", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("conversion complete")
	fmt.Println(result.GLBPath)
	fmt.Println(result.TilesetPath)
}
