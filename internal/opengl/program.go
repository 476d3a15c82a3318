package opengl

import (
	"fmt"
	"strings"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"light-engine/gfx"
)

// Program wraps a linked OpenGL program object.
type Program struct {
	id uint32
}

var _ gfx.Program = (*Program)(nil)

// CompileProgram compiles and links a vertex+fragment program.
func (d *Device) CompileProgram(vertexSrc, fragmentSrc string) (gfx.Program, error) {
	id, err := newProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return nil, err
	}
	return &Program{id: id}, nil
}

func (p *Program) Use() { gl.UseProgram(p.id) }

func (p *Program) Location(name string) int32 {
	return gl.GetUniformLocation(p.id, gl.Str(name+"\x00"))
}

func (p *Program) SetInt(loc int32, v int32)     { gl.Uniform1i(loc, v) }
func (p *Program) SetFloat(loc int32, v float32) { gl.Uniform1f(loc, v) }

func (p *Program) SetVec2(loc int32, v mgl32.Vec2) { gl.Uniform2f(loc, v.X(), v.Y()) }
func (p *Program) SetVec3(loc int32, v mgl32.Vec3) { gl.Uniform3f(loc, v.X(), v.Y(), v.Z()) }
func (p *Program) SetVec4(loc int32, v mgl32.Vec4) {
	gl.Uniform4f(loc, v.X(), v.Y(), v.Z(), v.W())
}

func (p *Program) SetMat4(loc int32, m mgl32.Mat4) {
	gl.UniformMatrix4fv(loc, 1, false, &m[0])
}

func (p *Program) Destroy() {
	if p.id != 0 {
		gl.DeleteProgram(p.id)
		p.id = 0
	}
}

func newProgram(vertSrc, fragSrc string) (uint32, error) {
	vert, err := compileShader(vertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex: %w", err)
	}
	frag, err := compileShader(fragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vert)
		return 0, fmt.Errorf("fragment: %w", err)
	}

	prog := gl.CreateProgram()
	gl.AttachShader(prog, vert)
	gl.AttachShader(prog, frag)
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		return 0, fmt.Errorf("link failed: %v", log)
	}

	gl.DeleteShader(vert)
	gl.DeleteShader(frag)
	return prog, nil
}

func compileShader(src string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src + "\x00")
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		return 0, fmt.Errorf("compile failed: %v", log)
	}
	return shader, nil
}
