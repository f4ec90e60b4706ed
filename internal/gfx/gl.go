package gfx

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// GLBackend implements Backend on OpenGL 4.1 core. It must be used from
// the thread that owns the GL context.
type GLBackend struct {
	meshes map[Mesh]*glMesh

	// GL needs the original target to rebind a texture; the Backend
	// interface deals in opaque handles only.
	textureTargets map[Texture]uint32
}

type glMesh struct {
	vao        uint32
	vbo        uint32
	ebo        uint32
	indexCount int32
}

// NewGLBackend initializes the OpenGL function pointers. The GLFW context
// must be current on the calling thread.
func NewGLBackend() (*GLBackend, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("could not initialize OpenGL: %v", err)
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	return &GLBackend{
		meshes:         make(map[Mesh]*glMesh),
		textureTargets: make(map[Texture]uint32),
	}, nil
}

// Name identifies the backend in logs and window titles.
func (b *GLBackend) Name() string { return "OpenGL 4.1" }

// CompileShader compiles and links a program from vertex and fragment
// sources.
func (b *GLBackend) CompileShader(name, vertexSrc, fragmentSrc string) (Shader, error) {
	program, err := compileProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return 0, fmt.Errorf("shader %q: %v", name, err)
	}
	return Shader(program), nil
}

// UseShader activates the shader program.
func (b *GLBackend) UseShader(s Shader) {
	gl.UseProgram(uint32(s))
}

// SetUniformBool sets a boolean uniform.
func (b *GLBackend) SetUniformBool(s Shader, name string, value bool) {
	var intValue int32
	if value {
		intValue = 1
	}
	gl.Uniform1i(uniformLocation(s, name), intValue)
}

// SetUniformInt sets an integer uniform.
func (b *GLBackend) SetUniformInt(s Shader, name string, value int32) {
	gl.Uniform1i(uniformLocation(s, name), value)
}

// SetUniformFloat sets a float uniform.
func (b *GLBackend) SetUniformFloat(s Shader, name string, value float32) {
	gl.Uniform1f(uniformLocation(s, name), value)
}

// SetUniformVec3 sets a vector3 uniform.
func (b *GLBackend) SetUniformVec3(s Shader, name string, x, y, z float32) {
	gl.Uniform3f(uniformLocation(s, name), x, y, z)
}

// SetUniformVec4 sets a vector4 uniform.
func (b *GLBackend) SetUniformVec4(s Shader, name string, x, y, z, w float32) {
	gl.Uniform4f(uniformLocation(s, name), x, y, z, w)
}

// SetUniformMat4 sets a 4x4 matrix uniform.
func (b *GLBackend) SetUniformMat4(s Shader, name string, value *float32) {
	gl.UniformMatrix4fv(uniformLocation(s, name), 1, false, value)
}

// CreateStorageBuffer allocates an empty per-light data buffer. GL 4.1 has
// no shader storage buffers, so these are uniform-block-backed; the light
// structs are laid out std140-compatible (vec4 fields only).
func (b *GLBackend) CreateStorageBuffer() Buffer {
	var ubo uint32
	gl.GenBuffers(1, &ubo)
	return Buffer(ubo)
}

// BindStorageBuffer binds the buffer to a uniform block binding slot.
func (b *GLBackend) BindStorageBuffer(buf Buffer, slot uint32) {
	gl.BindBufferBase(gl.UNIFORM_BUFFER, slot, uint32(buf))
}

// SetBufferData replaces the buffer's contents.
func (b *GLBackend) SetBufferData(buf Buffer, data []byte) {
	gl.BindBuffer(gl.UNIFORM_BUFFER, uint32(buf))
	if len(data) == 0 {
		gl.BufferData(gl.UNIFORM_BUFFER, 0, nil, gl.DYNAMIC_DRAW)
	} else {
		gl.BufferData(gl.UNIFORM_BUFFER, len(data), gl.Ptr(data), gl.DYNAMIC_DRAW)
	}
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)
}

// BindUniformBlock routes the shader's named uniform block to a binding
// slot.
func (b *GLBackend) BindUniformBlock(s Shader, name string, slot uint32) {
	index := gl.GetUniformBlockIndex(uint32(s), gl.Str(name+"\x00"))
	if index != gl.INVALID_INDEX {
		gl.UniformBlockBinding(uint32(s), index, slot)
	}
}

// CreateDepthMapArray allocates a depth-only framebuffer backed by a 2D
// texture array. Returns an error if the framebuffer is incomplete.
func (b *GLBackend) CreateDepthMapArray(size, layers int32) (Framebuffer, Texture, error) {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D_ARRAY, tex)
	gl.TexImage3D(gl.TEXTURE_2D_ARRAY, 0, gl.DEPTH_COMPONENT32F,
		size, size, layers, 0, gl.DEPTH_COMPONENT, gl.FLOAT, nil)
	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_BORDER)
	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_BORDER)
	border := [4]float32{1, 1, 1, 1}
	gl.TexParameterfv(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_BORDER_COLOR, &border[0])

	var fbo uint32
	gl.GenFramebuffers(1, &fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
	gl.FramebufferTextureLayer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, tex, 0, 0)
	gl.DrawBuffer(gl.NONE)
	gl.ReadBuffer(gl.NONE)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		return 0, 0, fmt.Errorf("depth map array framebuffer incomplete: 0x%x", status)
	}
	b.textureTargets[Texture(tex)] = gl.TEXTURE_2D_ARRAY
	return Framebuffer(fbo), Texture(tex), nil
}

// CreateDepthCubeMapArray allocates a depth-only framebuffer backed by a
// cube map array with layers*6 faces.
func (b *GLBackend) CreateDepthCubeMapArray(faceSize, layers int32) (Framebuffer, Texture, error) {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP_ARRAY, tex)
	gl.TexImage3D(gl.TEXTURE_CUBE_MAP_ARRAY, 0, gl.DEPTH_COMPONENT32F,
		faceSize, faceSize, layers*6, 0, gl.DEPTH_COMPONENT, gl.FLOAT, nil)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP_ARRAY, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP_ARRAY, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP_ARRAY, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP_ARRAY, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP_ARRAY, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_EDGE)

	var fbo uint32
	gl.GenFramebuffers(1, &fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
	gl.FramebufferTextureLayer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, tex, 0, 0)
	gl.DrawBuffer(gl.NONE)
	gl.ReadBuffer(gl.NONE)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		return 0, 0, fmt.Errorf("depth cube map array framebuffer incomplete: 0x%x", status)
	}
	b.textureTargets[Texture(tex)] = gl.TEXTURE_CUBE_MAP_ARRAY
	return Framebuffer(fbo), Texture(tex), nil
}

// BindFramebuffer makes the framebuffer the active render target.
func (b *GLBackend) BindFramebuffer(f Framebuffer) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(f))
}

// UnbindFramebuffer restores the default framebuffer.
func (b *GLBackend) UnbindFramebuffer() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

// CommitLayer attaches one texture layer as the depth attachment of the
// currently configured framebuffer and clears it.
func (b *GLBackend) CommitLayer(f Framebuffer, t Texture, layer int32) {
	gl.FramebufferTextureLayer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, uint32(t), 0, layer)
	gl.Clear(gl.DEPTH_BUFFER_BIT)
}

// BindTexture binds a texture to a texture unit using the target it was
// created with.
func (b *GLBackend) BindTexture(t Texture, unit uint32) {
	target, ok := b.textureTargets[t]
	if !ok {
		target = gl.TEXTURE_2D
	}
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(target, uint32(t))
}

// CreateTexture uploads an RGBA8 image, used for UI font atlases.
func (b *GLBackend) CreateTexture(width, height int32, rgba []byte) Texture {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, width, height, 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(rgba))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	b.textureTargets[Texture(tex)] = gl.TEXTURE_2D
	return Texture(tex)
}

// UploadMesh creates a VAO with interleaved position/normal/uv vertices
// and an index buffer.
func (b *GLBackend) UploadMesh(vertices []float32, indices []uint32) Mesh {
	var vao, vbo, ebo uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)

	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)

	gl.GenBuffers(1, &ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)

	stride := int32(VertexStride * 4)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, stride, 6*4)
	gl.EnableVertexAttribArray(2)

	gl.BindVertexArray(0)

	handle := Mesh(vao)
	b.meshes[handle] = &glMesh{
		vao:        vao,
		vbo:        vbo,
		ebo:        ebo,
		indexCount: int32(len(indices)),
	}
	return handle
}

// DrawMesh issues one indexed draw for the mesh.
func (b *GLBackend) DrawMesh(m Mesh) {
	mesh, ok := b.meshes[m]
	if !ok {
		return
	}
	gl.BindVertexArray(mesh.vao)
	gl.DrawElements(gl.TRIANGLES, mesh.indexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

// DeleteMesh releases the mesh's GPU buffers.
func (b *GLBackend) DeleteMesh(m Mesh) {
	mesh, ok := b.meshes[m]
	if !ok {
		return
	}
	gl.DeleteBuffers(1, &mesh.vbo)
	gl.DeleteBuffers(1, &mesh.ebo)
	gl.DeleteVertexArrays(1, &mesh.vao)
	delete(b.meshes, m)
}

// SetViewport sets the render area in pixels.
func (b *GLBackend) SetViewport(width, height int32) {
	gl.Viewport(0, 0, width, height)
}

// Clear clears color and depth with the given clear color.
func (b *GLBackend) Clear(r, g, bl, a float32) {
	gl.ClearColor(r, g, bl, a)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// SetDepthTest toggles depth testing (UI overlay draws with it off).
func (b *GLBackend) SetDepthTest(enabled bool) {
	if enabled {
		gl.Enable(gl.DEPTH_TEST)
	} else {
		gl.Disable(gl.DEPTH_TEST)
	}
}

// Teardown releases remaining mesh buffers.
func (b *GLBackend) Teardown() {
	for handle := range b.meshes {
		b.DeleteMesh(handle)
	}
}

func uniformLocation(s Shader, name string) int32 {
	return gl.GetUniformLocation(uint32(s), gl.Str(name+"\x00"))
}

func compileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vertexShader, err := compileShader(vertexSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fragmentShader, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))

		return 0, fmt.Errorf("failed to link program: %v", log)
	}
	gl.DeleteShader(vertexShader)
	gl.DeleteShader(fragmentShader)
	return program, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))

		return 0, fmt.Errorf("failed to compile shader: %v", log)
	}
	return shader, nil
}
