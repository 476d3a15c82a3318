package opengl

import (
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"light-engine/core"
	"light-engine/scene"
)

// GPUMesh holds the OpenGL buffer objects for an uploaded mesh.
type GPUMesh struct {
	VAO        uint32
	VBO        uint32
	EBO        uint32
	IndexCount int32
	HasIndices bool
}

// Draw lazily uploads mesh geometry and issues the draw call. instances > 1
// uses instanced drawing (one gl_InstanceID per stereo eye).
func (d *Device) Draw(mesh *scene.Mesh, instances int32) {
	gpu := d.ensureUploaded(mesh)
	if gpu == nil {
		return
	}

	primitive := uint32(gl.TRIANGLES)
	switch mesh.DrawMode {
	case scene.DrawLines:
		primitive = gl.LINES
	case scene.DrawPoints:
		primitive = gl.POINTS
	}

	gl.BindVertexArray(gpu.VAO)
	switch {
	case gpu.HasIndices && instances > 1:
		gl.DrawElementsInstanced(primitive, gpu.IndexCount, gl.UNSIGNED_INT, nil, instances)
	case gpu.HasIndices:
		gl.DrawElements(primitive, gpu.IndexCount, gl.UNSIGNED_INT, nil)
	case instances > 1:
		gl.DrawArraysInstanced(primitive, 0, int32(len(mesh.Vertices)), instances)
	default:
		gl.DrawArrays(primitive, 0, int32(len(mesh.Vertices)))
	}
	gl.BindVertexArray(0)
}

// ReleaseMesh frees GPU buffers for the given mesh.
func (d *Device) ReleaseMesh(mesh *scene.Mesh) {
	if gpu, ok := d.gpuMeshes[mesh]; ok {
		gl.DeleteVertexArrays(1, &gpu.VAO)
		gl.DeleteBuffers(1, &gpu.VBO)
		if gpu.HasIndices {
			gl.DeleteBuffers(1, &gpu.EBO)
		}
		delete(d.gpuMeshes, mesh)
		mesh.GPUData = nil
	}
}

// ensureUploaded uploads vertex/index data if not already done.
func (d *Device) ensureUploaded(mesh *scene.Mesh) *GPUMesh {
	if gpu, ok := d.gpuMeshes[mesh]; ok {
		return gpu
	}
	if len(mesh.Vertices) == 0 {
		return nil
	}

	stride := int32(unsafe.Sizeof(core.Vertex{}))

	gpu := &GPUMesh{
		IndexCount: int32(len(mesh.Indices)),
		HasIndices: len(mesh.Indices) > 0,
	}

	gl.GenVertexArrays(1, &gpu.VAO)
	gl.GenBuffers(1, &gpu.VBO)
	gl.BindVertexArray(gpu.VAO)

	gl.BindBuffer(gl.ARRAY_BUFFER, gpu.VBO)
	gl.BufferData(gl.ARRAY_BUFFER,
		len(mesh.Vertices)*int(stride),
		gl.Ptr(mesh.Vertices),
		gl.STATIC_DRAW)

	var v core.Vertex
	posOff := int(unsafe.Offsetof(v.Position))
	normOff := int(unsafe.Offsetof(v.Normal))
	uvOff := int(unsafe.Offsetof(v.UV))
	colorOff := int(unsafe.Offsetof(v.Color))
	tangentOff := int(unsafe.Offsetof(v.Tangent))
	bitangentOff := int(unsafe.Offsetof(v.Bitangent))

	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(posOff))

	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, gl.PtrOffset(normOff))

	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 2, gl.FLOAT, false, stride, gl.PtrOffset(uvOff))

	gl.EnableVertexAttribArray(3)
	gl.VertexAttribPointer(3, 4, gl.FLOAT, false, stride, gl.PtrOffset(colorOff))

	gl.EnableVertexAttribArray(4)
	gl.VertexAttribPointer(4, 3, gl.FLOAT, false, stride, gl.PtrOffset(tangentOff))

	gl.EnableVertexAttribArray(5)
	gl.VertexAttribPointer(5, 3, gl.FLOAT, false, stride, gl.PtrOffset(bitangentOff))

	if gpu.HasIndices {
		gl.GenBuffers(1, &gpu.EBO)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, gpu.EBO)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER,
			len(mesh.Indices)*4,
			gl.Ptr(mesh.Indices),
			gl.STATIC_DRAW)
	}

	gl.BindVertexArray(0)

	d.gpuMeshes[mesh] = gpu
	mesh.GPUData = gpu
	return gpu
}
