// Package gfx is the GPU boundary of the engine. Render code talks to a
// Backend, never to a graphics API directly, so the renderer can degrade
// to a headless no-op backend when GPU initialization fails and tests can
// substitute a recording fake.
package gfx

// Opaque GPU handles. Zero is never a valid handle.
type (
	Shader      uint32
	Buffer      uint32
	Framebuffer uint32
	Texture     uint32
	Mesh        uint32
)

// Backend is the narrow GPU contract the renderer is written against:
// shader compile + uniforms, storage buffers, depth framebuffer arrays,
// mesh upload and indexed draws.
type Backend interface {
	Name() string

	CompileShader(name, vertexSrc, fragmentSrc string) (Shader, error)
	UseShader(s Shader)
	SetUniformBool(s Shader, name string, value bool)
	SetUniformInt(s Shader, name string, value int32)
	SetUniformFloat(s Shader, name string, value float32)
	SetUniformVec3(s Shader, name string, x, y, z float32)
	SetUniformVec4(s Shader, name string, x, y, z, w float32)
	SetUniformMat4(s Shader, name string, value *float32)

	CreateStorageBuffer() Buffer
	BindStorageBuffer(b Buffer, slot uint32)
	SetBufferData(b Buffer, data []byte)
	// BindUniformBlock routes a named shader uniform block to a buffer
	// binding slot.
	BindUniformBlock(s Shader, name string, slot uint32)

	// CreateDepthMapArray allocates a framebuffer backed by a 2D depth
	// texture array with the given per-layer resolution.
	CreateDepthMapArray(size, layers int32) (Framebuffer, Texture, error)
	// CreateDepthCubeMapArray allocates a framebuffer backed by a cube map
	// depth array holding layers*6 faces.
	CreateDepthCubeMapArray(faceSize, layers int32) (Framebuffer, Texture, error)
	BindFramebuffer(f Framebuffer)
	UnbindFramebuffer()
	// CommitLayer attaches one layer of the framebuffer's depth texture as
	// the active depth attachment and clears it.
	CommitLayer(f Framebuffer, t Texture, layer int32)
	BindTexture(t Texture, unit uint32)

	// CreateTexture uploads an RGBA8 image (UI font atlases).
	CreateTexture(width, height int32, rgba []byte) Texture

	UploadMesh(vertices []float32, indices []uint32) Mesh
	DrawMesh(m Mesh)
	DeleteMesh(m Mesh)

	SetViewport(width, height int32)
	Clear(r, g, b, a float32)
	SetDepthTest(enabled bool)

	Teardown()
}

// VertexStride is the number of floats per vertex in UploadMesh data:
// position (3), normal (3), uv (2).
const VertexStride = 8
