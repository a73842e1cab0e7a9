package splat

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Axis conventions. SPZ captures are right-handed with +Y up and +Z forward
// (RUB); the viewer ecosystem expects left-handed +Y up with -Z forward
// (LUF). The two differ by a reflection across the XY plane, so the basis
// change negates Z.
const (
	SourceConvention = "RUB"
	TargetConvention = "LUF"
)

// shZFlipSigns[l] holds the diagonal of the real-SH rotation matrix for the
// Z reflection at degree l. Under z -> -z the real basis functions obey
// Y_lm = (-1)^(l+m) Y_lm, so the full rotation reduces to per-coefficient
// signs. Indexed by m+l.
var shZFlipSigns [MaxSHDegree + 1][]float32

func init() {
	for l := 1; l <= MaxSHDegree; l++ {
		signs := make([]float32, 2*l+1)
		for m := -l; m <= l; m++ {
			if (l+m)%2 == 0 {
				signs[m+l] = 1
			} else {
				signs[m+l] = -1
			}
		}
		shZFlipSigns[l] = signs
	}
}

// ToViewerBasis converts the cloud from the source convention (RUB) to the
// target convention (LUF) in place: positions flip Z, quaternions are
// conjugated by the Z reflection so they stay proper rotations, and SH
// coefficients are re-expressed through the precomputed per-degree sign
// tables. Scales and opacities are direction-free and pass through.
// workers <= 0 selects one worker per CPU. The cloud is untouched on error.
func (c *Cloud) ToViewerBasis(workers int) error {
	coeffs := SHCoeffs(c.SHDegree)
	if coeffs < 0 {
		return fmt.Errorf("%w: degree %d", ErrUnsupportedDegree, c.SHDegree)
	}
	if len(c.SH) != c.Count*coeffs*3 {
		return fmt.Errorf("%w: degree %d needs %d SH floats, have %d",
			ErrUnsupportedDegree, c.SHDegree, c.Count*coeffs*3, len(c.SH))
	}

	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	chunk := (c.Count + workers - 1) / workers
	if chunk < 1 {
		chunk = 1
	}

	var g errgroup.Group
	for start := 0; start < c.Count; start += chunk {
		start := start
		end := min(start+chunk, c.Count)
		g.Go(func() error {
			c.flipRange(start, end)
			return nil
		})
	}
	return g.Wait()
}

// FromViewerBasis applies the inverse conversion. The Z reflection is an
// involution, so this is the same operation as ToViewerBasis.
func (c *Cloud) FromViewerBasis(workers int) error {
	return c.ToViewerBasis(workers)
}

// flipRange applies the Z reflection to points [start, end).
func (c *Cloud) flipRange(start, end int) {
	coeffs := SHCoeffs(c.SHDegree)
	for i := start; i < end; i++ {
		c.Positions[i].Z = -c.Positions[i].Z

		// Conjugating a rotation R by the reflection F gives F*R*F, still a
		// proper rotation; on quaternions that maps (x,y,z,w) to (-x,-y,z,w).
		c.Rotations[i].X = -c.Rotations[i].X
		c.Rotations[i].Y = -c.Rotations[i].Y

		if coeffs == 0 {
			continue
		}
		base := i * coeffs * 3
		j := 0
		for l := 1; l <= c.SHDegree; l++ {
			for _, sign := range shZFlipSigns[l] {
				if sign < 0 {
					c.SH[base+j] = -c.SH[base+j]
					c.SH[base+j+1] = -c.SH[base+j+1]
					c.SH[base+j+2] = -c.SH[base+j+2]
				}
				j += 3
			}
		}
	}
}
