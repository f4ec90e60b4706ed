// Command headless runs the engine for a fixed number of frames against
// the no-op backend and prints frame statistics. It exercises the full
// degrade path: scene updates and every render pass execute without a
// window or GPU.
package main

import (
	"flag"
	"log"

	"github.com/go-gl/mathgl/mgl32"

	"arbor/internal/color"
	"arbor/internal/engine"
	"arbor/internal/nodes"
	"arbor/internal/profiling"
	"arbor/internal/scene"
)

func main() {
	frames := flag.Int("frames", 60, "number of frames to run")
	useVulkan := flag.Bool("vulkan", false, "probe the Vulkan backend instead of the no-op one")
	flag.Parse()

	root := scene.NewScene()

	camera := nodes.Camera3DBuilder().WithPosition(0, 3, 10).Build()
	must(root.Add("camera", camera))

	sun := nodes.NewDirectionalLight()
	sun.Direction = mgl32.Vec3{-0.4, -1, -0.3}
	must(root.Add("sun", sun))

	lamp := nodes.PointLightBuilder().WithPosition(4, 3, 0).Build()
	must(root.Add("lamp", lamp))

	spins := 0
	cube := nodes.ModelBuilder().
		WithPosition(0, 1, 0).
		On(scene.EventUpdate, func(m *nodes.Model, ctx *scene.GameContext) {
			m.Transform().RotateEuler(0, 40*ctx.Delta, 0)
			spins++
		}).
		Build()
	cube.Mesh = nodes.CubeMesh(2)
	cube.Color = color.FromHex(0x4080FF)
	must(root.Add("cube", cube))

	floor := nodes.ModelBuilder().Build()
	floor.Mesh = nodes.PlaneMesh(30)
	must(root.Add("floor", floor))

	opts := engine.Options{Headless: true}
	if *useVulkan {
		opts.Headless = false
		opts.Backend = engine.BackendVulkan
	}
	e := engine.New(root, opts)
	e.RunFrames(*frames)

	stats := e.Renderer().Stats()
	log.Printf("ran %d frames on %s", e.Context().FrameCount, e.Renderer().Backend().Name())
	log.Printf("last frame: %d drawables, %d directional lights, %d point lights, %d passes",
		stats.Drawables, stats.DirectionalLights, stats.PointLights, stats.Passes)
	log.Printf("updates delivered to cube: %d", spins)
	if top := profiling.TopN(5); top != "" {
		log.Printf("last frame timing: %s", top)
	}
}

func must(err error) {
	if err != nil {
		log.Panic(err)
	}
}
