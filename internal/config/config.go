package config

import "sync"

// RenderSettings holds render configuration shared across the engine.
type RenderSettings struct {
	mu sync.RWMutex

	fpsLimit int // 0 = uncapped

	shadowMapSize     int // directional shadow map resolution per layer
	cubeShadowMapSize int // point light cube face resolution

	shadowBiasFactor float32
	shadowBiasOffset float32
	ambientLight     float32
}

var globalRenderSettings = &RenderSettings{
	fpsLimit:          0,
	shadowMapSize:     4096,
	cubeShadowMapSize: 1024,
	// defaults that produced the best shadows after testing
	shadowBiasFactor: 0.000200,
	shadowBiasOffset: 0.000006,
	ambientLight:     0.02,
}

// GetFPSLimit returns the frame rate cap, 0 meaning uncapped.
func GetFPSLimit() int {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.fpsLimit
}

// SetFPSLimit sets the frame rate cap. Values below 0 are treated as uncapped.
func SetFPSLimit(limit int) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()

	if limit < 0 {
		limit = 0
	}
	globalRenderSettings.fpsLimit = limit
}

// GetShadowMapSize returns the per-layer resolution of the directional
// shadow map array.
func GetShadowMapSize() int {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.shadowMapSize
}

// SetShadowMapSize sets the directional shadow map resolution, clamped to
// a sane range.
func SetShadowMapSize(size int) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()

	if size < 256 {
		size = 256
	}
	if size > 8192 {
		size = 8192
	}
	globalRenderSettings.shadowMapSize = size
}

// GetCubeShadowMapSize returns the cube face resolution used for point
// light shadows.
func GetCubeShadowMapSize() int {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.cubeShadowMapSize
}

// SetCubeShadowMapSize sets the cube face resolution, clamped to a sane range.
func SetCubeShadowMapSize(size int) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()

	if size < 128 {
		size = 128
	}
	if size > 4096 {
		size = 4096
	}
	globalRenderSettings.cubeShadowMapSize = size
}

// GetShadowBias returns the shadow bias factor and offset applied in the
// main shader.
func GetShadowBias() (factor, offset float32) {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.shadowBiasFactor, globalRenderSettings.shadowBiasOffset
}

// SetShadowBias sets the shadow bias factor and offset.
func SetShadowBias(factor, offset float32) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.shadowBiasFactor = factor
	globalRenderSettings.shadowBiasOffset = offset
}

// GetAmbientLight returns the ambient light term.
func GetAmbientLight() float32 {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.ambientLight
}

// SetAmbientLight sets the ambient light term, clamped to 0.0-1.0.
func SetAmbientLight(ambient float32) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()

	if ambient < 0 {
		ambient = 0
	}
	if ambient > 1 {
		ambient = 1
	}
	globalRenderSettings.ambientLight = ambient
}
