package tiles

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/TASallin/JSpz/pkg/splat"
)

// TilesetVersion is the 3D Tiles spec version emitted in asset.version.
const TilesetVersion = "1.1"

// DefaultErrorDivisor is the denominator of the geometric error heuristic:
// largest bounding extent divided by this constant.
const DefaultErrorDivisor = 16.0

// Tileset is a single-tile 3D Tiles document.
type Tileset struct {
	Asset          TilesetAsset `json:"asset"`
	GeometricError float64      `json:"geometricError"`
	Root           Tile         `json:"root"`
}

// TilesetAsset holds tileset metadata.
type TilesetAsset struct {
	Version string `json:"version"`
}

// Tile is one tile of the hierarchy; this writer only ever produces a root.
type Tile struct {
	BoundingVolume BoundingVolume `json:"boundingVolume"`
	GeometricError float64        `json:"geometricError"`
	Refine         string         `json:"refine"`
	Content        *Content       `json:"content,omitempty"`
}

// BoundingVolume carries exactly one volume kind.
type BoundingVolume struct {
	Box    []float64 `json:"box,omitempty"`
	Sphere []float64 `json:"sphere,omitempty"`
}

// Content references the tile's renderable payload.
type Content struct {
	URI string `json:"uri"`
}

// GeometricError derives the tile error from the bounding volume: largest
// extent over the divisor. A divisor of zero declares exact rendering.
func GeometricError(bounds splat.Bounds, divisor float64) float64 {
	if divisor <= 0 {
		return 0
	}
	return float64(bounds.LargestExtent()) / divisor
}

// NewTileset builds a single-tile tileset whose root references contentURI.
func NewTileset(bounds splat.Bounds, geometricError float64, contentURI string) *Tileset {
	return &Tileset{
		Asset:          TilesetAsset{Version: TilesetVersion},
		GeometricError: geometricError,
		Root: Tile{
			BoundingVolume: boundingVolume(bounds),
			GeometricError: geometricError,
			Refine:         "ADD",
			Content:        &Content{URI: contentURI},
		},
	}
}

// WriteTileset serializes the tileset as indented UTF-8 JSON.
func (t *Tileset) WriteTileset(path string) error {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding tileset: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing tileset: %w", err)
	}
	return nil
}

// boundingVolume converts the computed bounds into the 3D Tiles encoding:
// boxes are center plus three half-axis vectors, spheres are center plus
// radius.
func boundingVolume(b splat.Bounds) BoundingVolume {
	if b.Mode == splat.BoundsSphere {
		return BoundingVolume{Sphere: []float64{
			float64(b.Center.X), float64(b.Center.Y), float64(b.Center.Z),
			float64(b.Radius),
		}}
	}
	center := b.Min.Add(b.Max).Scale(0.5)
	half := b.Max.Sub(b.Min).Scale(0.5)
	return BoundingVolume{Box: []float64{
		float64(center.X), float64(center.Y), float64(center.Z),
		float64(half.X), 0, 0,
		0, float64(half.Y), 0,
		0, 0, float64(half.Z),
	}}
}
