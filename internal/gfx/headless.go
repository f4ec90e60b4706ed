package gfx

// HeadlessBackend is the degrade target when GPU initialization fails:
// every call is a no-op that still hands out distinct handles, so the
// frame loop and scene update keep running without a window. It counts
// calls so callers (and tests) can verify nothing was drawn.
type HeadlessBackend struct {
	nextHandle uint32

	DrawCalls     int
	BufferUploads int
	ShaderBinds   int
}

// NewHeadlessBackend returns a fresh no-op backend.
func NewHeadlessBackend() *HeadlessBackend {
	return &HeadlessBackend{}
}

// Name identifies the backend in logs.
func (b *HeadlessBackend) Name() string { return "headless" }

func (b *HeadlessBackend) handle() uint32 {
	b.nextHandle++
	return b.nextHandle
}

// CompileShader hands out a fake handle; there is nothing to compile.
func (b *HeadlessBackend) CompileShader(name, vertexSrc, fragmentSrc string) (Shader, error) {
	return Shader(b.handle()), nil
}

func (b *HeadlessBackend) UseShader(s Shader) { b.ShaderBinds++ }

func (b *HeadlessBackend) SetUniformBool(s Shader, name string, value bool)        {}
func (b *HeadlessBackend) SetUniformInt(s Shader, name string, value int32)        {}
func (b *HeadlessBackend) SetUniformFloat(s Shader, name string, value float32)    {}
func (b *HeadlessBackend) SetUniformVec3(s Shader, name string, x, y, z float32)   {}
func (b *HeadlessBackend) SetUniformVec4(s Shader, name string, x, y, z, w float32) {
}
func (b *HeadlessBackend) SetUniformMat4(s Shader, name string, value *float32) {}

func (b *HeadlessBackend) CreateStorageBuffer() Buffer {
	return Buffer(b.handle())
}

func (b *HeadlessBackend) BindStorageBuffer(buf Buffer, slot uint32) {}

func (b *HeadlessBackend) SetBufferData(buf Buffer, data []byte) {
	b.BufferUploads++
}

func (b *HeadlessBackend) BindUniformBlock(s Shader, name string, slot uint32) {}

func (b *HeadlessBackend) CreateDepthMapArray(size, layers int32) (Framebuffer, Texture, error) {
	return Framebuffer(b.handle()), Texture(b.handle()), nil
}

func (b *HeadlessBackend) CreateDepthCubeMapArray(faceSize, layers int32) (Framebuffer, Texture, error) {
	return Framebuffer(b.handle()), Texture(b.handle()), nil
}

func (b *HeadlessBackend) BindFramebuffer(f Framebuffer)                 {}
func (b *HeadlessBackend) UnbindFramebuffer()                            {}
func (b *HeadlessBackend) CommitLayer(f Framebuffer, t Texture, l int32) {}
func (b *HeadlessBackend) BindTexture(t Texture, unit uint32)            {}

func (b *HeadlessBackend) CreateTexture(width, height int32, rgba []byte) Texture {
	return Texture(b.handle())
}

func (b *HeadlessBackend) UploadMesh(vertices []float32, indices []uint32) Mesh {
	return Mesh(b.handle())
}

func (b *HeadlessBackend) DrawMesh(m Mesh) {
	b.DrawCalls++
}

func (b *HeadlessBackend) DeleteMesh(m Mesh) {}

func (b *HeadlessBackend) SetViewport(width, height int32) {}
func (b *HeadlessBackend) Clear(r, g, bl, a float32)       {}
func (b *HeadlessBackend) SetDepthTest(enabled bool)       {}

func (b *HeadlessBackend) Teardown() {}
