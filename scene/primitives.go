package scene

import (
	stdmath "math"

	"github.com/go-gl/mathgl/mgl32"

	"light-engine/core"
)

// CreateCube generates an axis-aligned cube centered at the origin.
func CreateCube(size float32) *Mesh {
	h := size * 0.5

	type face struct {
		normal mgl32.Vec3
		// corners in CCW order seen from outside
		corners [4]mgl32.Vec3
	}

	faces := []face{
		{mgl32.Vec3{0, 0, 1}, [4]mgl32.Vec3{{-h, -h, h}, {h, -h, h}, {h, h, h}, {-h, h, h}}},
		{mgl32.Vec3{0, 0, -1}, [4]mgl32.Vec3{{h, -h, -h}, {-h, -h, -h}, {-h, h, -h}, {h, h, -h}}},
		{mgl32.Vec3{1, 0, 0}, [4]mgl32.Vec3{{h, -h, h}, {h, -h, -h}, {h, h, -h}, {h, h, h}}},
		{mgl32.Vec3{-1, 0, 0}, [4]mgl32.Vec3{{-h, -h, -h}, {-h, -h, h}, {-h, h, h}, {-h, h, -h}}},
		{mgl32.Vec3{0, 1, 0}, [4]mgl32.Vec3{{-h, h, h}, {h, h, h}, {h, h, -h}, {-h, h, -h}}},
		{mgl32.Vec3{0, -1, 0}, [4]mgl32.Vec3{{-h, -h, -h}, {h, -h, -h}, {h, -h, h}, {-h, -h, h}}},
	}

	uvs := [4]mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

	var vertices []core.Vertex
	var indices []uint32
	for _, f := range faces {
		base := uint32(len(vertices))
		for i, c := range f.corners {
			vertices = append(vertices, core.Vertex{
				Position: c,
				Normal:   f.normal,
				UV:       uvs[i],
				Color:    core.ColorWhite,
			})
		}
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}

	m := CreateMeshFromData("Cube", vertices, indices)
	ComputeTangents(m)
	return m
}

// CreatePlane generates a flat plane on the XZ axis, facing +Y.
func CreatePlane(width, depth float32, subdivisions int) *Mesh {
	if subdivisions < 1 {
		subdivisions = 1
	}

	var vertices []core.Vertex
	var indices []uint32

	for z := 0; z <= subdivisions; z++ {
		for x := 0; x <= subdivisions; x++ {
			fx := float32(x) / float32(subdivisions)
			fz := float32(z) / float32(subdivisions)
			vertices = append(vertices, core.Vertex{
				Position: mgl32.Vec3{(fx - 0.5) * width, 0, (fz - 0.5) * depth},
				Normal:   mgl32.Vec3{0, 1, 0},
				UV:       mgl32.Vec2{fx, fz},
				Color:    core.ColorWhite,
			})
		}
	}

	stride := uint32(subdivisions + 1)
	for z := 0; z < subdivisions; z++ {
		for x := 0; x < subdivisions; x++ {
			tl := uint32(z)*stride + uint32(x)
			bl := tl + stride
			indices = append(indices, tl, bl, tl+1)
			indices = append(indices, tl+1, bl, bl+1)
		}
	}

	m := CreateMeshFromData("Plane", vertices, indices)
	ComputeTangents(m)
	return m
}

// CreateSphere generates a UV-sphere mesh.
func CreateSphere(radius float32, segments, rings int) *Mesh {
	if segments < 3 {
		segments = 3
	}
	if rings < 2 {
		rings = 2
	}

	var vertices []core.Vertex
	var indices []uint32

	for ring := 0; ring <= rings; ring++ {
		phi := float64(ring) * stdmath.Pi / float64(rings)
		sinPhi := float32(stdmath.Sin(phi))
		cosPhi := float32(stdmath.Cos(phi))

		for seg := 0; seg <= segments; seg++ {
			theta := float64(seg) * 2.0 * stdmath.Pi / float64(segments)
			sinTheta := float32(stdmath.Sin(theta))
			cosTheta := float32(stdmath.Cos(theta))

			normal := mgl32.Vec3{sinPhi * cosTheta, cosPhi, sinPhi * sinTheta}
			vertices = append(vertices, core.Vertex{
				Position: normal.Mul(radius),
				Normal:   normal,
				UV:       mgl32.Vec2{float32(seg) / float32(segments), float32(ring) / float32(rings)},
				Color:    core.ColorWhite,
			})
		}
	}

	for ring := 0; ring < rings; ring++ {
		for seg := 0; seg < segments; seg++ {
			current := uint32(ring*(segments+1) + seg)
			next := current + uint32(segments+1)

			indices = append(indices, current, next, current+1)
			indices = append(indices, current+1, next, next+1)
		}
	}

	m := CreateMeshFromData("Sphere", vertices, indices)
	ComputeTangents(m)
	return m
}

// CreateSkyboxCube generates the position-only unit cube used to render an
// environment cubemap. Faces wind toward the inside since the camera sits
// within the cube.
func CreateSkyboxCube() *Mesh {
	positions := []mgl32.Vec3{
		// -Z
		{-1, -1, -1}, {1, 1, -1}, {1, -1, -1},
		{1, 1, -1}, {-1, -1, -1}, {-1, 1, -1},
		// +Z
		{-1, -1, 1}, {1, -1, 1}, {1, 1, 1},
		{1, 1, 1}, {-1, 1, 1}, {-1, -1, 1},
		// -X
		{-1, 1, 1}, {-1, 1, -1}, {-1, -1, -1},
		{-1, -1, -1}, {-1, -1, 1}, {-1, 1, 1},
		// +X
		{1, 1, 1}, {1, -1, -1}, {1, 1, -1},
		{1, -1, -1}, {1, 1, 1}, {1, -1, 1},
		// -Y
		{-1, -1, -1}, {1, -1, -1}, {1, -1, 1},
		{1, -1, 1}, {-1, -1, 1}, {-1, -1, -1},
		// +Y
		{-1, 1, -1}, {1, 1, 1}, {1, 1, -1},
		{1, 1, 1}, {-1, 1, -1}, {-1, 1, 1},
	}

	vertices := make([]core.Vertex, len(positions))
	for i, p := range positions {
		vertices[i] = core.Vertex{Position: p, Color: core.ColorWhite}
	}
	return CreateMeshFromData("SkyboxCube", vertices, nil)
}
