package splat

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/TASallin/JSpz/pkg/math"
)

// BoundsMode selects the bounding volume kind.
type BoundsMode string

const (
	BoundsBox    BoundsMode = "box"
	BoundsSphere BoundsMode = "sphere"
)

// Valid reports whether the mode is a known bounding volume kind.
func (m BoundsMode) Valid() bool {
	return m == BoundsBox || m == BoundsSphere
}

// Bounds describes the extent of a cloud. Min and Max are always populated;
// Center and Radius are additionally populated in sphere mode.
type Bounds struct {
	Mode     BoundsMode
	Min, Max math.Vec3
	Center   math.Vec3
	Radius   float32
}

// LargestExtent returns the longest edge of the box, or the sphere diameter.
func (b Bounds) LargestExtent() float32 {
	if b.Mode == BoundsSphere {
		return 2 * b.Radius
	}
	return b.Max.Sub(b.Min).MaxComponent()
}

// Contains reports whether p lies inside the bounding volume, within eps.
func (b Bounds) Contains(p math.Vec3, eps float32) bool {
	if b.Mode == BoundsSphere {
		return p.Distance(b.Center) <= b.Radius+eps
	}
	return p.X >= b.Min.X-eps && p.X <= b.Max.X+eps &&
		p.Y >= b.Min.Y-eps && p.Y <= b.Max.Y+eps &&
		p.Z >= b.Min.Z-eps && p.Z <= b.Max.Z+eps
}

// Bounds scans the positions and returns the bounding volume for the given
// mode. Chunks are reduced independently and merged in index order so the
// result does not depend on scheduling. workers <= 0 selects one worker per
// CPU. An empty cloud has no bounds and returns ErrEmptyCloud.
func (c *Cloud) Bounds(mode BoundsMode, workers int) (Bounds, error) {
	if c.Count == 0 {
		return Bounds{}, ErrEmptyCloud
	}
	if !mode.Valid() {
		return Bounds{}, fmt.Errorf("unknown bounds mode %q", mode)
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	chunk := (c.Count + workers - 1) / workers
	if chunk < 1 {
		chunk = 1
	}

	type partial struct {
		min, max math.Vec3
		sum      [3]float64
	}
	parts := make([]partial, 0, workers)
	starts := make([]int, 0, workers)
	for start := 0; start < c.Count; start += chunk {
		starts = append(starts, start)
		parts = append(parts, partial{})
	}

	var g errgroup.Group
	for k, start := range starts {
		k, start := k, start
		end := min(start+chunk, c.Count)
		g.Go(func() error {
			p := partial{min: c.Positions[start], max: c.Positions[start]}
			for i := start; i < end; i++ {
				pos := c.Positions[i]
				p.min = p.min.Min(pos)
				p.max = p.max.Max(pos)
				p.sum[0] += float64(pos.X)
				p.sum[1] += float64(pos.Y)
				p.sum[2] += float64(pos.Z)
			}
			parts[k] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Bounds{}, err
	}

	b := Bounds{Mode: mode, Min: parts[0].min, Max: parts[0].max}
	var sum [3]float64
	for _, p := range parts {
		b.Min = b.Min.Min(p.min)
		b.Max = b.Max.Max(p.max)
		sum[0] += p.sum[0]
		sum[1] += p.sum[1]
		sum[2] += p.sum[2]
	}

	if mode == BoundsSphere {
		n := float64(c.Count)
		b.Center = math.Vec3{
			X: float32(sum[0] / n),
			Y: float32(sum[1] / n),
			Z: float32(sum[2] / n),
		}
		b.Radius = c.maxDistance(b.Center, starts, chunk)
	}
	return b, nil
}

// maxDistance finds the largest distance from center over all positions,
// using the same chunking as the main scan.
func (c *Cloud) maxDistance(center math.Vec3, starts []int, chunk int) float32 {
	radii := make([]float32, len(starts))
	var g errgroup.Group
	for k, start := range starts {
		k, start := k, start
		end := min(start+chunk, c.Count)
		g.Go(func() error {
			var r float32
			for i := start; i < end; i++ {
				if d := c.Positions[i].Distance(center); d > r {
					r = d
				}
			}
			radii[k] = r
			return nil
		})
	}
	g.Wait()

	var r float32
	for _, d := range radii {
		if d > r {
			r = d
		}
	}
	return r
}
