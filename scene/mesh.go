package scene

import "light-engine/core"

// DrawMode controls the GPU primitive type used when rendering a mesh.
type DrawMode int

const (
	DrawTriangles DrawMode = iota // default
	DrawLines
	DrawPoints
)

// Mesh holds CPU-side vertex/index data.
// GPU upload is managed by the graphics device on first draw.
type Mesh struct {
	Name     string
	Vertices []core.Vertex
	Indices  []uint32
	DrawMode DrawMode

	// GPUData is set by the graphics device (e.g. *opengl.GPUMesh).
	// Do not access directly; use the device's API.
	GPUData interface{}
}

func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:     name,
		Vertices: make([]core.Vertex, 0),
		Indices:  make([]uint32, 0),
	}
}

// CreateMeshFromData builds a Mesh from pre-assembled vertex/index slices.
func CreateMeshFromData(name string, vertices []core.Vertex, indices []uint32) *Mesh {
	return &Mesh{
		Name:     name,
		Vertices: vertices,
		Indices:  indices,
	}
}

// Model groups meshes with their materials. MeshMaterial maps each mesh to
// an index into Materials; a missing or out-of-range entry means the default
// material.
type Model struct {
	Name         string
	Meshes       []*Mesh
	Materials    []*Material
	MeshMaterial []int
}

// MaterialFor resolves the material for mesh slot i, falling back to
// DefaultMaterial when unset.
func (m *Model) MaterialFor(i int) *Material {
	if i < len(m.MeshMaterial) {
		mi := m.MeshMaterial[i]
		if mi >= 0 && mi < len(m.Materials) && m.Materials[mi] != nil {
			return m.Materials[mi]
		}
	}
	return DefaultMaterial()
}
