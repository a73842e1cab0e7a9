package splat

import (
	"errors"
	"testing"

	"github.com/TASallin/JSpz/pkg/math"
)

func TestBounds_Box(t *testing.T) {
	c, _ := NewCloud(3, 0, false)
	c.Positions[0] = math.Vec3{X: -1, Y: 2, Z: 5}
	c.Positions[1] = math.Vec3{X: 4, Y: -3, Z: 0}
	c.Positions[2] = math.Vec3{X: 0, Y: 0, Z: -2}

	b, err := c.Bounds(BoundsBox, 1)
	if err != nil {
		t.Fatalf("Bounds failed: %v", err)
	}

	if b.Min != (math.Vec3{X: -1, Y: -3, Z: -2}) {
		t.Errorf("unexpected min %v", b.Min)
	}
	if b.Max != (math.Vec3{X: 4, Y: 2, Z: 5}) {
		t.Errorf("unexpected max %v", b.Max)
	}
	if b.LargestExtent() != 7 {
		t.Errorf("largest extent: expected 7, got %v", b.LargestExtent())
	}
}

func TestBounds_ContainsAllPoints(t *testing.T) {
	for _, mode := range []BoundsMode{BoundsBox, BoundsSphere} {
		c := randomCloud(t, 500, 0)
		b, err := c.Bounds(mode, 4)
		if err != nil {
			t.Fatalf("%s: Bounds failed: %v", mode, err)
		}
		for i, p := range c.Positions {
			if !b.Contains(p, 1e-4) {
				t.Fatalf("%s: position %d (%v) outside bounding volume", mode, i, p)
			}
		}
	}
}

func TestBounds_SphereCentroid(t *testing.T) {
	c, _ := NewCloud(2, 0, false)
	c.Positions[0] = math.Vec3{X: -2, Y: 0, Z: 0}
	c.Positions[1] = math.Vec3{X: 2, Y: 0, Z: 0}

	b, err := c.Bounds(BoundsSphere, 1)
	if err != nil {
		t.Fatalf("Bounds failed: %v", err)
	}
	if b.Center != (math.Vec3{}) {
		t.Errorf("expected centroid at origin, got %v", b.Center)
	}
	if b.Radius != 2 {
		t.Errorf("expected radius 2, got %v", b.Radius)
	}
	if b.LargestExtent() != 4 {
		t.Errorf("expected extent 4, got %v", b.LargestExtent())
	}
}

func TestBounds_DeterministicAcrossWorkerCounts(t *testing.T) {
	c := randomCloud(t, 1000, 0)

	ref, err := c.Bounds(BoundsSphere, 1)
	if err != nil {
		t.Fatalf("Bounds failed: %v", err)
	}
	for _, workers := range []int{2, 3, 8, 17} {
		b, err := c.Bounds(BoundsSphere, workers)
		if err != nil {
			t.Fatalf("workers=%d: Bounds failed: %v", workers, err)
		}
		if b.Min != ref.Min || b.Max != ref.Max {
			t.Errorf("workers=%d: min/max differ from single-worker result", workers)
		}
		if b.Center.Distance(ref.Center) > 1e-6 || b.Radius-ref.Radius > 1e-6 || ref.Radius-b.Radius > 1e-6 {
			t.Errorf("workers=%d: sphere differs from single-worker result", workers)
		}
	}
}

func TestBounds_EmptyCloud(t *testing.T) {
	c, _ := NewCloud(0, 0, false)
	_, err := c.Bounds(BoundsBox, 1)
	if !errors.Is(err, ErrEmptyCloud) {
		t.Errorf("expected ErrEmptyCloud, got %v", err)
	}
}

func TestBounds_UnknownMode(t *testing.T) {
	c, _ := NewCloud(1, 0, false)
	if _, err := c.Bounds("pyramid", 1); err == nil {
		t.Error("expected error for unknown bounds mode")
	}
}
