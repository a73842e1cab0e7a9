package tiles

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/TASallin/JSpz/pkg/math"
	"github.com/TASallin/JSpz/pkg/splat"
)

func boxBounds() splat.Bounds {
	return splat.Bounds{
		Mode: splat.BoundsBox,
		Min:  math.Vec3{X: -1, Y: -1, Z: -1},
		Max:  math.Vec3{X: 3, Y: 1, Z: 5},
	}
}

func TestGeometricError(t *testing.T) {
	b := boxBounds() // largest extent 6

	if got := GeometricError(b, 16); got != 6.0/16 {
		t.Errorf("expected %v, got %v", 6.0/16, got)
	}
	if got := GeometricError(b, 0); got != 0 {
		t.Errorf("divisor 0 should mean exact rendering, got %v", got)
	}
}

func TestNewTileset_Box(t *testing.T) {
	ts := NewTileset(boxBounds(), 0.375, "content.glb")

	if ts.Asset.Version != TilesetVersion {
		t.Errorf("expected asset version %s, got %s", TilesetVersion, ts.Asset.Version)
	}
	if ts.Root.Refine != "ADD" {
		t.Errorf("expected refine ADD, got %s", ts.Root.Refine)
	}
	if ts.Root.Content.URI != "content.glb" {
		t.Errorf("expected content.glb, got %s", ts.Root.Content.URI)
	}
	if ts.GeometricError != 0.375 || ts.Root.GeometricError != 0.375 {
		t.Error("geometric error must appear at both levels")
	}

	// Center (1, 0, 2), half extents (2, 1, 3).
	want := []float64{1, 0, 2, 2, 0, 0, 0, 1, 0, 0, 0, 3}
	if len(ts.Root.BoundingVolume.Box) != 12 {
		t.Fatalf("box volume needs 12 numbers, got %d", len(ts.Root.BoundingVolume.Box))
	}
	for i, w := range want {
		if ts.Root.BoundingVolume.Box[i] != w {
			t.Errorf("box[%d]: expected %v, got %v", i, w, ts.Root.BoundingVolume.Box[i])
		}
	}
	if ts.Root.BoundingVolume.Sphere != nil {
		t.Error("box tileset must not carry a sphere volume")
	}
}

func TestNewTileset_Sphere(t *testing.T) {
	b := splat.Bounds{
		Mode:   splat.BoundsSphere,
		Center: math.Vec3{X: 1, Y: 2, Z: 3},
		Radius: 4,
	}
	ts := NewTileset(b, 0.5, "scene.glb")

	want := []float64{1, 2, 3, 4}
	if len(ts.Root.BoundingVolume.Sphere) != 4 {
		t.Fatalf("sphere volume needs 4 numbers, got %d", len(ts.Root.BoundingVolume.Sphere))
	}
	for i, w := range want {
		if ts.Root.BoundingVolume.Sphere[i] != w {
			t.Errorf("sphere[%d]: expected %v, got %v", i, w, ts.Root.BoundingVolume.Sphere[i])
		}
	}
	if ts.Root.BoundingVolume.Box != nil {
		t.Error("sphere tileset must not carry a box volume")
	}
}

func TestWriteTileset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tileset.json")
	ts := NewTileset(boxBounds(), 0.25, "content.glb")

	if err := ts.WriteTileset(path); err != nil {
		t.Fatalf("WriteTileset failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading tileset: %v", err)
	}

	var parsed struct {
		Asset struct {
			Version string `json:"version"`
		} `json:"asset"`
		GeometricError float64 `json:"geometricError"`
		Root           struct {
			Content struct {
				URI string `json:"uri"`
			} `json:"content"`
			BoundingVolume struct {
				Box []float64 `json:"box"`
			} `json:"boundingVolume"`
		} `json:"root"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("tileset is not valid JSON: %v", err)
	}

	if parsed.Asset.Version != TilesetVersion {
		t.Errorf("expected asset version %s, got %s", TilesetVersion, parsed.Asset.Version)
	}
	if parsed.Root.Content.URI != "content.glb" {
		t.Errorf("expected content.glb, got %s", parsed.Root.Content.URI)
	}
	if len(parsed.Root.BoundingVolume.Box) != 12 {
		t.Errorf("expected 12 box numbers, got %d", len(parsed.Root.BoundingVolume.Box))
	}
	if parsed.GeometricError != 0.25 {
		t.Errorf("expected geometric error 0.25, got %v", parsed.GeometricError)
	}
}
