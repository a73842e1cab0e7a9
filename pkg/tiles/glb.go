// Package tiles packs transformed splat clouds into binary glTF and writes
// the 3D Tiles tileset that references them.
package tiles

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/chewxy/math32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/TASallin/JSpz/pkg/splat"
)

// ErrEncoding marks clouds that cannot be represented as a single GLB.
var ErrEncoding = errors.New("GLB encoding failed")

// Splat attribute names in the emitted primitive. POSITION and COLOR_0 are
// standard; the rest are application-specific per the glTF naming rules.
const (
	AttrRotation = "_ROTATION"
	AttrScale    = "_SCALE"
	attrSHCoef   = "_SH_COEF_%d"
)

// shDC is the degree-0 real spherical harmonics basis constant,
// 1/(2*sqrt(pi)). Maps the DC term to linear color.
const shDC = 0.28209479177387814

// glbSizeLimit leaves headroom under the u32 GLB length field for the JSON
// chunk and padding.
const glbSizeLimit = 1<<32 - 1<<20

// BuildDocument assembles a glTF document for a target-basis cloud: one
// point-mode primitive whose accessors hold the per-point attributes as
// contiguous float32 arrays. Position min/max come from the bounds pass
// rather than a second scan.
func BuildDocument(cloud *splat.Cloud, bounds splat.Bounds) (*gltf.Document, error) {
	if cloud.Count == 0 {
		return nil, splat.ErrEmptyCloud
	}
	coeffs := splat.SHCoeffs(cloud.SHDegree)
	if coeffs < 0 {
		return nil, fmt.Errorf("%w: degree %d", splat.ErrUnsupportedDegree, cloud.SHDegree)
	}
	bytesPerPoint := (3 + 4 + 3 + 4 + coeffs*3) * 4
	if size := uint64(cloud.Count) * uint64(bytesPerPoint); size > glbSizeLimit {
		return nil, fmt.Errorf("%w: %d points need %d buffer bytes, GLB limit is %d",
			ErrEncoding, cloud.Count, size, uint64(glbSizeLimit))
	}

	positions := make([][3]float32, cloud.Count)
	rotations := make([][4]float32, cloud.Count)
	scales := make([][3]float32, cloud.Count)
	colors := make([][4]float32, cloud.Count)
	for i := 0; i < cloud.Count; i++ {
		positions[i] = cloud.Positions[i].Array()
		rotations[i] = cloud.Rotations[i].Normalize().Array()
		scales[i] = cloud.Scales[i].Exp().Array()
		colors[i] = [4]float32{
			linearColor(cloud.Colors[i].X),
			linearColor(cloud.Colors[i].Y),
			linearColor(cloud.Colors[i].Z),
			sigmoid(cloud.Opacities[i]),
		}
	}

	doc := gltf.NewDocument()
	doc.Asset.Generator = "JSpz spztool"

	posAccessor := modeler.WriteAccessor(doc, gltf.TargetArrayBuffer, positions)
	doc.Accessors[posAccessor].Min = []float32{bounds.Min.X, bounds.Min.Y, bounds.Min.Z}
	doc.Accessors[posAccessor].Max = []float32{bounds.Max.X, bounds.Max.Y, bounds.Max.Z}

	attributes := map[string]uint32{
		gltf.POSITION: posAccessor,
		gltf.COLOR_0:  modeler.WriteAccessor(doc, gltf.TargetArrayBuffer, colors),
		AttrRotation:  modeler.WriteAccessor(doc, gltf.TargetArrayBuffer, rotations),
		AttrScale:     modeler.WriteAccessor(doc, gltf.TargetArrayBuffer, scales),
	}

	// Higher-order SH coefficients, one VEC3 accessor per coefficient in
	// degree-major order.
	for j := 0; j < coeffs; j++ {
		coef := make([][3]float32, cloud.Count)
		for i := 0; i < cloud.Count; i++ {
			r, g, b := cloud.SHCoef(i, j)
			coef[i] = [3]float32{r, g, b}
		}
		attributes[fmt.Sprintf(attrSHCoef, j)] = modeler.WriteAccessor(doc, gltf.TargetArrayBuffer, coef)
	}

	mesh := &gltf.Mesh{
		Name: "splats",
		Primitives: []*gltf.Primitive{{
			Attributes: attributes,
			Mode:       gltf.PrimitivePoints,
		}},
	}
	if cloud.Antialiased {
		mesh.Extras = map[string]any{"antialiased": true}
	}
	doc.Meshes = []*gltf.Mesh{mesh}
	doc.Nodes = []*gltf.Node{{Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)

	return doc, nil
}

// EncodeGLB serializes the cloud as a binary glTF container.
func EncodeGLB(cloud *splat.Cloud, bounds splat.Bounds) ([]byte, error) {
	doc, err := BuildDocument(cloud, bounds)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := gltf.NewEncoder(&buf)
	enc.AsBinary = true
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	return buf.Bytes(), nil
}

// WriteGLB encodes the cloud and writes the container to path.
func WriteGLB(cloud *splat.Cloud, bounds splat.Bounds, path string) error {
	data, err := EncodeGLB(cloud, bounds)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing GLB: %w", err)
	}
	return nil
}

// linearColor maps a DC spherical harmonics term to a linear color channel.
func linearColor(dc float32) float32 {
	c := 0.5 + shDC*dc
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

func sigmoid(x float32) float32 {
	return 1 / (1 + math32.Exp(-x))
}
