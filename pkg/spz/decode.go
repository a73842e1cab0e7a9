package spz

import (
	"encoding/binary"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/x448/float16"
	"golang.org/x/sync/errgroup"

	"github.com/TASallin/JSpz/pkg/math"
	"github.com/TASallin/JSpz/pkg/splat"
)

// Quantization constants pinned from the published SPZ format. Colors store
// the DC spherical harmonics term through an affine map, scales are
// log-space sixteenths with a -10 bias, rotations store XYZ of a
// non-negative-W unit quaternion, and higher-order SH coefficients are
// signed bytes around 128.
const (
	colorQuantScale = 0.15
	scaleQuantStep  = 16.0
	scaleQuantBias  = -10.0
	rotQuantScale   = 127.5
	shQuantCenter   = 128.0
	shQuantScale    = 1.0 / 128.0
)

// Decode dequantizes the container's attribute blocks into a source-basis
// splat cloud. The attribute blocks are independent, so they decode
// concurrently; the first failure aborts the whole decode.
func (c *Container) Decode() (*splat.Cloud, error) {
	h := c.Header
	n := int(h.PointCount)

	cloud, err := splat.NewCloud(n, int(h.SHDegree), h.Antialiased())
	if err != nil {
		return nil, err
	}

	var g errgroup.Group
	g.Go(func() error { return c.decodePositions(cloud) })
	g.Go(func() error { return c.decodeAlphas(cloud) })
	g.Go(func() error { return c.decodeColors(cloud) })
	g.Go(func() error { return c.decodeScales(cloud) })
	g.Go(func() error { return c.decodeRotations(cloud) })
	g.Go(func() error { return c.decodeSH(cloud) })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := checkConsistency(cloud); err != nil {
		return nil, err
	}
	return cloud, nil
}

// checkConsistency verifies every attribute array carries exactly one entry
// per declared point.
func checkConsistency(cloud *splat.Cloud) error {
	n := cloud.Count
	lengths := map[string]int{
		"position": len(cloud.Positions),
		"rotation": len(cloud.Rotations),
		"scale":    len(cloud.Scales),
		"color":    len(cloud.Colors),
		"opacity":  len(cloud.Opacities),
	}
	for kind, l := range lengths {
		if l != n {
			return fmt.Errorf("%w: %s array has %d entries, header declares %d",
				ErrConsistency, kind, l, n)
		}
	}
	if want := n * splat.SHCoeffs(cloud.SHDegree) * 3; len(cloud.SH) != want {
		return fmt.Errorf("%w: SH array has %d floats, degree %d declares %d",
			ErrConsistency, len(cloud.SH), cloud.SHDegree, want)
	}
	return nil
}

func (c *Container) blockLenError(kind string, got, want int) error {
	return fmt.Errorf("%w: %s block is %d bytes, expected %d", ErrTruncatedData, kind, got, want)
}

func (c *Container) decodePositions(cloud *splat.Cloud) error {
	h := c.Header
	compSize := h.positionSize()
	if want := cloud.Count * 3 * compSize; len(c.positions) != want {
		return c.blockLenError("position", len(c.positions), want)
	}

	if h.Version == 1 {
		for i := 0; i < cloud.Count; i++ {
			base := i * 6
			cloud.Positions[i].X = float16.Frombits(binary.LittleEndian.Uint16(c.positions[base:])).Float32()
			cloud.Positions[i].Y = float16.Frombits(binary.LittleEndian.Uint16(c.positions[base+2:])).Float32()
			cloud.Positions[i].Z = float16.Frombits(binary.LittleEndian.Uint16(c.positions[base+4:])).Float32()
		}
		return nil
	}

	scale := 1.0 / float32(int32(1)<<h.FractionalBits)
	for i := 0; i < cloud.Count; i++ {
		base := i * 9
		cloud.Positions[i].X = float32(int24(c.positions[base:])) * scale
		cloud.Positions[i].Y = float32(int24(c.positions[base+3:])) * scale
		cloud.Positions[i].Z = float32(int24(c.positions[base+6:])) * scale
	}
	return nil
}

// int24 decodes a little-endian signed 24-bit integer.
func int24(b []byte) int32 {
	v := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
	if v&0x800000 != 0 {
		v -= 0x1000000
	}
	return v
}

func (c *Container) decodeAlphas(cloud *splat.Cloud) error {
	if len(c.alphas) != cloud.Count {
		return c.blockLenError("alpha", len(c.alphas), cloud.Count)
	}
	for i, b := range c.alphas {
		cloud.Opacities[i] = logit(float32(b) / 255.0)
	}
	return nil
}

// logit is the inverse sigmoid, clamped away from 0 and 1 so the extreme
// quantization buckets stay finite.
func logit(p float32) float32 {
	const eps = 1e-6
	if p < eps {
		p = eps
	} else if p > 1-eps {
		p = 1 - eps
	}
	return math32.Log(p / (1 - p))
}

func (c *Container) decodeColors(cloud *splat.Cloud) error {
	if want := cloud.Count * 3; len(c.colors) != want {
		return c.blockLenError("color", len(c.colors), want)
	}
	for i := 0; i < cloud.Count; i++ {
		base := i * 3
		cloud.Colors[i].X = colorChannel(c.colors[base])
		cloud.Colors[i].Y = colorChannel(c.colors[base+1])
		cloud.Colors[i].Z = colorChannel(c.colors[base+2])
	}
	return nil
}

func colorChannel(b uint8) float32 {
	return (float32(b)/255.0 - 0.5) / colorQuantScale
}

func (c *Container) decodeScales(cloud *splat.Cloud) error {
	if want := cloud.Count * 3; len(c.scales) != want {
		return c.blockLenError("scale", len(c.scales), want)
	}
	for i := 0; i < cloud.Count; i++ {
		base := i * 3
		cloud.Scales[i].X = float32(c.scales[base])/scaleQuantStep + scaleQuantBias
		cloud.Scales[i].Y = float32(c.scales[base+1])/scaleQuantStep + scaleQuantBias
		cloud.Scales[i].Z = float32(c.scales[base+2])/scaleQuantStep + scaleQuantBias
	}
	return nil
}

func (c *Container) decodeRotations(cloud *splat.Cloud) error {
	if want := cloud.Count * 3; len(c.rotations) != want {
		return c.blockLenError("rotation", len(c.rotations), want)
	}
	for i := 0; i < cloud.Count; i++ {
		base := i * 3
		x := float32(c.rotations[base])/rotQuantScale - 1
		y := float32(c.rotations[base+1])/rotQuantScale - 1
		z := float32(c.rotations[base+2])/rotQuantScale - 1

		// W is reconstructed from the unit-norm constraint; the format
		// canonicalizes quaternions to non-negative W before packing.
		t := 1 - (x*x + y*y + z*z)
		var w float32
		if t > 0 {
			w = math32.Sqrt(t)
		}
		q := math.Quat{X: x, Y: y, Z: z, W: w}
		cloud.Rotations[i] = q.Normalize()
	}
	return nil
}

func (c *Container) decodeSH(cloud *splat.Cloud) error {
	if want := len(cloud.SH); len(c.sh) != want {
		return c.blockLenError("spherical harmonics", len(c.sh), want)
	}
	for i, b := range c.sh {
		cloud.SH[i] = (float32(b) - shQuantCenter) * shQuantScale
	}
	return nil
}
