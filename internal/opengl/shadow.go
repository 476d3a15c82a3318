package opengl

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"light-engine/gfx"
)

// DepthMap is a depth-only 2D framebuffer used for directional and spot
// shadow maps.
type DepthMap struct {
	device   *Device
	fbo      uint32
	depthTex uint32
	size     int32
}

var _ gfx.DepthTarget = (*DepthMap)(nil)

// NewDepthMap creates a depth-only FBO of size×size resolution.
// Fragments outside the shadow map read as lit (border depth = 1.0).
func (d *Device) NewDepthMap(size int32) (gfx.DepthTarget, error) {
	sm := &DepthMap{device: d, size: size}

	gl.GenTextures(1, &sm.depthTex)
	gl.BindTexture(gl.TEXTURE_2D, sm.depthTex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.DEPTH_COMPONENT32F,
		size, size, 0, gl.DEPTH_COMPONENT, gl.FLOAT, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_BORDER)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_BORDER)
	border := [4]float32{1, 1, 1, 1}
	gl.TexParameterfv(gl.TEXTURE_2D, gl.TEXTURE_BORDER_COLOR, &border[0])

	gl.GenFramebuffers(1, &sm.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, sm.fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, sm.depthTex, 0)
	gl.DrawBuffer(gl.NONE)
	gl.ReadBuffer(gl.NONE)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if status != gl.FRAMEBUFFER_COMPLETE {
		gl.DeleteTextures(1, &sm.depthTex)
		gl.DeleteFramebuffers(1, &sm.fbo)
		return nil, fmt.Errorf("shadow FBO incomplete: status=0x%X", status)
	}

	return sm, nil
}

func (sm *DepthMap) Texture() gfx.TextureID { return gfx.TextureID(sm.depthTex) }
func (sm *DepthMap) IsCube() bool           { return false }
func (sm *DepthMap) Size() int32            { return sm.size }

func (sm *DepthMap) Begin() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, sm.fbo)
	gl.Viewport(0, 0, sm.size, sm.size)
	gl.Clear(gl.DEPTH_BUFFER_BIT)
}

func (sm *DepthMap) BeginFace(face int) {} // 2D target has no faces

func (sm *DepthMap) End() {
	sm.device.restoreViewport()
}

func (sm *DepthMap) Destroy() {
	if sm.fbo != 0 {
		gl.DeleteFramebuffers(1, &sm.fbo)
		sm.fbo = 0
	}
	if sm.depthTex != 0 {
		gl.DeleteTextures(1, &sm.depthTex)
		sm.depthTex = 0
	}
}

// DepthCubemap is a six-faced depth framebuffer used for omni light shadow
// maps. Each face stores light-to-fragment distance rescaled by the far
// plane (the depth shader writes gl_FragDepth).
type DepthCubemap struct {
	device   *Device
	fbo      uint32
	depthTex uint32
	size     int32
}

var _ gfx.DepthTarget = (*DepthCubemap)(nil)

// NewDepthCubemap creates a depth cubemap FBO with size×size faces.
func (d *Device) NewDepthCubemap(size int32) (gfx.DepthTarget, error) {
	sm := &DepthCubemap{device: d, size: size}

	gl.GenTextures(1, &sm.depthTex)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, sm.depthTex)
	for face := 0; face < 6; face++ {
		gl.TexImage2D(gl.TEXTURE_CUBE_MAP_POSITIVE_X+uint32(face), 0, gl.DEPTH_COMPONENT24,
			size, size, 0, gl.DEPTH_COMPONENT, gl.FLOAT, nil)
	}
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_EDGE)

	gl.GenFramebuffers(1, &sm.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, sm.fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT,
		gl.TEXTURE_CUBE_MAP_POSITIVE_X, sm.depthTex, 0)
	gl.DrawBuffer(gl.NONE)
	gl.ReadBuffer(gl.NONE)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)

	if status != gl.FRAMEBUFFER_COMPLETE {
		gl.DeleteTextures(1, &sm.depthTex)
		gl.DeleteFramebuffers(1, &sm.fbo)
		return nil, fmt.Errorf("shadow cubemap FBO incomplete: status=0x%X", status)
	}

	return sm, nil
}

func (sm *DepthCubemap) Texture() gfx.TextureID { return gfx.TextureID(sm.depthTex) }
func (sm *DepthCubemap) IsCube() bool           { return true }
func (sm *DepthCubemap) Size() int32            { return sm.size }

func (sm *DepthCubemap) Begin() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, sm.fbo)
	gl.Viewport(0, 0, sm.size, sm.size)
}

// BeginFace attaches cube face [0,6) as the depth attachment and clears it.
func (sm *DepthCubemap) BeginFace(face int) {
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT,
		gl.TEXTURE_CUBE_MAP_POSITIVE_X+uint32(face), sm.depthTex, 0)
	gl.Clear(gl.DEPTH_BUFFER_BIT)
}

func (sm *DepthCubemap) End() {
	sm.device.restoreViewport()
}

func (sm *DepthCubemap) Destroy() {
	if sm.fbo != 0 {
		gl.DeleteFramebuffers(1, &sm.fbo)
		sm.fbo = 0
	}
	if sm.depthTex != 0 {
		gl.DeleteTextures(1, &sm.depthTex)
		sm.depthTex = 0
	}
}
