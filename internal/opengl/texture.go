package opengl

import (
	"fmt"
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"light-engine/gfx"
	"light-engine/scene"
)

// UploadTexture uploads a scene.Texture to the GPU and sets its ID field.
// The OpenGL context must be current on the calling thread.
func (d *Device) UploadTexture(tex *scene.Texture) error {
	if tex == nil {
		return fmt.Errorf("nil texture")
	}
	if len(tex.Pixels) == 0 {
		return fmt.Errorf("texture %q has no pixel data", tex.Name)
	}

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA,
		int32(tex.Width), int32(tex.Height), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&tex.Pixels[0]))
	gl.GenerateMipmap(gl.TEXTURE_2D)

	gl.BindTexture(gl.TEXTURE_2D, 0)

	tex.ID = id
	return nil
}

// UploadCubemap uploads six equally sized square faces in the order
// +X, -X, +Y, -Y, +Z, -Z.
func (d *Device) UploadCubemap(faces [6]*scene.Texture) (gfx.TextureID, error) {
	size := 0
	for i, f := range faces {
		if f == nil || len(f.Pixels) == 0 {
			return 0, fmt.Errorf("cubemap face %d missing pixel data", i)
		}
		if f.Width != f.Height {
			return 0, fmt.Errorf("cubemap face %d is %dx%d, want square", i, f.Width, f.Height)
		}
		if i == 0 {
			size = f.Width
		} else if f.Width != size {
			return 0, fmt.Errorf("cubemap face %d is %d px, want %d", i, f.Width, size)
		}
	}

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, id)
	for i, f := range faces {
		gl.TexImage2D(gl.TEXTURE_CUBE_MAP_POSITIVE_X+uint32(i), 0, gl.RGBA,
			int32(size), int32(size), 0,
			gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&f.Pixels[0]))
	}
	setCubemapParams()
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)

	return gfx.TextureID(id), nil
}

// NewColorCubemap allocates an uninitialized renderable cubemap; hdr selects
// an RGBA16F internal format for float radiance values.
func (d *Device) NewColorCubemap(size int32, hdr bool) (gfx.TextureID, error) {
	internal := int32(gl.RGBA8)
	format := uint32(gl.RGBA)
	typ := uint32(gl.UNSIGNED_BYTE)
	if hdr {
		internal = gl.RGBA16F
		typ = gl.FLOAT
	}

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, id)
	for face := 0; face < 6; face++ {
		gl.TexImage2D(gl.TEXTURE_CUBE_MAP_POSITIVE_X+uint32(face), 0, internal,
			size, size, 0, format, typ, nil)
	}
	setCubemapParams()
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)

	return gfx.TextureID(id), nil
}

func setCubemapParams() {
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_EDGE)
}

func (d *Device) DeleteTexture(id gfx.TextureID) {
	if id == 0 {
		return
	}
	glid := uint32(id)
	gl.DeleteTextures(1, &glid)
}

func (d *Device) BindTexture2D(unit int32, id gfx.TextureID) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D, uint32(id))
}

func (d *Device) BindCubemap(unit int32, id gfx.TextureID) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, uint32(id))
}

// CaptureCubemap renders into each face of target through the shared capture
// framebuffer: face attached, color+depth cleared, then draw(face). An
// incomplete framebuffer is logged and the bake continues best-effort.
func (d *Device) CaptureCubemap(target gfx.TextureID, size int32, draw func(face int)) error {
	if draw == nil {
		return fmt.Errorf("capture cubemap: nil draw callback")
	}
	if d.captureFBO == 0 {
		gl.GenFramebuffers(1, &d.captureFBO)
		gl.GenRenderbuffers(1, &d.captureRBO)
	}

	gl.BindFramebuffer(gl.FRAMEBUFFER, d.captureFBO)
	if d.captureRBOSize != size {
		gl.BindRenderbuffer(gl.RENDERBUFFER, d.captureRBO)
		gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT24, size, size)
		gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, d.captureRBO)
		d.captureRBOSize = size
	}
	gl.Viewport(0, 0, size, size)

	for face := 0; face < 6; face++ {
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0,
			gl.TEXTURE_CUBE_MAP_POSITIVE_X+uint32(face), uint32(target), 0)
		if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
			d.log.Errorf("cubemap capture: framebuffer incomplete on face %d: status=0x%X", face, status)
		}
		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
		draw(face)
	}

	d.restoreViewport()
	return nil
}
