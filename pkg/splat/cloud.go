// Package splat holds decoded Gaussian splat point clouds and the basis
// transforms that prepare them for Y-up viewers.
package splat

import (
	"errors"
	"fmt"

	"github.com/TASallin/JSpz/pkg/math"
)

// Splat cloud errors.
var (
	ErrUnsupportedDegree = errors.New("unsupported spherical harmonics degree")
	ErrEmptyCloud        = errors.New("splat cloud has no points")
)

// MaxSHDegree is the highest spherical harmonics degree a cloud can carry.
const MaxSHDegree = 3

// Cloud is a decoded splat point cloud stored as parallel per-attribute
// arrays. Every array has exactly Count entries; SH holds
// Count*SHCoeffs(SHDegree)*3 floats, coefficient-major with three color
// channels per coefficient.
type Cloud struct {
	Count       int
	SHDegree    int
	Antialiased bool

	Positions []math.Vec3 // source units
	Rotations []math.Quat // unit quaternions
	Scales    []math.Vec3 // log-space extents
	Colors    []math.Vec3 // DC spherical harmonics term
	Opacities []float32   // logit-space
	SH        []float32   // higher-order coefficients, empty for degree 0
}

// SHCoeffs returns the number of higher-order SH coefficients per point for
// a degree: 0, 3, 8 or 15. Each coefficient has three color channels.
func SHCoeffs(degree int) int {
	switch degree {
	case 0:
		return 0
	case 1:
		return 3
	case 2:
		return 8
	case 3:
		return 15
	default:
		return -1
	}
}

// NewCloud allocates a cloud with all attribute arrays sized for count
// points at the given SH degree.
func NewCloud(count, degree int, antialiased bool) (*Cloud, error) {
	coeffs := SHCoeffs(degree)
	if coeffs < 0 {
		return nil, fmt.Errorf("%w: degree %d", ErrUnsupportedDegree, degree)
	}
	return &Cloud{
		Count:       count,
		SHDegree:    degree,
		Antialiased: antialiased,
		Positions:   make([]math.Vec3, count),
		Rotations:   make([]math.Quat, count),
		Scales:      make([]math.Vec3, count),
		Colors:      make([]math.Vec3, count),
		Opacities:   make([]float32, count),
		SH:          make([]float32, count*coeffs*3),
	}, nil
}

// SHCoef returns the three color channels of higher-order coefficient j for
// point i. j counts from 0 across all degrees in degree-major order.
func (c *Cloud) SHCoef(i, j int) (r, g, b float32) {
	base := (i*SHCoeffs(c.SHDegree) + j) * 3
	return c.SH[base], c.SH[base+1], c.SH[base+2]
}
