// Package transcode drives the SPZ to GLB/tileset conversion pipeline.
//
// The pipeline is strictly staged: parse, decode, basis change, bounds,
// encode, write. Every stage is fallible and the first failure aborts the
// conversion; nothing is written to the output directory until encoding has
// succeeded, so a failed conversion leaves no partial GLB behind.
package transcode

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/TASallin/JSpz/pkg/splat"
	"github.com/TASallin/JSpz/pkg/spz"
	"github.com/TASallin/JSpz/pkg/tiles"
)

// DefaultContentName is the GLB filename used when none is configured.
const DefaultContentName = "content.glb"

// TilesetName is the fixed tileset filename within the output directory.
const TilesetName = "tileset.json"

// Options tune one conversion. The zero value is not usable; start from
// DefaultOptions.
type Options struct {
	// ContentName is the GLB filename within the output directory.
	ContentName string
	// BoundsMode selects box or sphere bounding volumes.
	BoundsMode splat.BoundsMode
	// ErrorDivisor feeds the geometric error heuristic; zero means exact.
	ErrorDivisor float64
	// Workers bounds intra-stage parallelism; zero or less means one per CPU.
	Workers int
}

// DefaultOptions returns the conversion defaults.
func DefaultOptions() Options {
	return Options{
		ContentName:  DefaultContentName,
		BoundsMode:   splat.BoundsBox,
		ErrorDivisor: tiles.DefaultErrorDivisor,
	}
}

// Result reports where a conversion wrote its artifacts.
type Result struct {
	GLBPath     string
	TilesetPath string
}

// Convert reads the SPZ container at inputPath and writes the GLB content
// and tileset.json into outputDir, creating the directory if needed.
func Convert(inputPath, outputDir string, opts Options) (*Result, error) {
	if opts.ContentName == "" {
		opts.ContentName = DefaultContentName
	}
	if opts.BoundsMode == "" {
		opts.BoundsMode = splat.BoundsBox
	}

	container, err := spz.ParseFile(inputPath)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", inputPath, err)
	}

	cloud, err := container.Decode()
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", inputPath, err)
	}

	if err := cloud.ToViewerBasis(opts.Workers); err != nil {
		return nil, fmt.Errorf("changing basis: %w", err)
	}

	bounds, err := cloud.Bounds(opts.BoundsMode, opts.Workers)
	if err != nil {
		return nil, fmt.Errorf("computing bounds: %w", err)
	}

	glb, err := tiles.EncodeGLB(cloud, bounds)
	if err != nil {
		return nil, fmt.Errorf("encoding GLB: %w", err)
	}

	tileset := tiles.NewTileset(bounds, tiles.GeometricError(bounds, opts.ErrorDivisor), opts.ContentName)

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	result := &Result{
		GLBPath:     filepath.Join(outputDir, opts.ContentName),
		TilesetPath: filepath.Join(outputDir, TilesetName),
	}
	if err := os.WriteFile(result.GLBPath, glb, 0644); err != nil {
		return nil, fmt.Errorf("writing GLB: %w", err)
	}
	if err := tileset.WriteTileset(result.TilesetPath); err != nil {
		return nil, err
	}
	return result, nil
}
