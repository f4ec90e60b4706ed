package main

import (
	"fmt"
	"log"
	"math"
	"os"
	"runtime"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/xlab/closer"

	"arbor/internal/color"
	"arbor/internal/config"
	"arbor/internal/engine"
	"arbor/internal/gfx"
	"arbor/internal/input"
	"arbor/internal/nodes"
	"arbor/internal/scene"
)

func init() {
	runtime.LockOSThread()
}

const moveSpeed = 6.0

func main() {
	config.SetFPSLimit(144)

	root := scene.NewScene()

	camera := nodes.Camera3DBuilder().
		WithPosition(0, 3, 10).
		On(scene.EventUpdate, func(c *nodes.Camera3D, ctx *scene.GameContext) {
			if ctx.Input == nil {
				return
			}
			moveCamera(c, ctx)
		}).
		Build()
	must(root.Add("camera", camera))

	sun := nodes.DirectionalLightBuilder().Build()
	sun.Direction = mgl32.Vec3{-0.4, -1, -0.3}
	sun.Color = color.FromHex(0xFFF4D6)
	must(root.Add("sun", sun))

	lamp := nodes.PointLightBuilder().
		WithPosition(4, 3, 0).
		On(scene.EventUpdate, func(l *nodes.PointLight, ctx *scene.GameContext) {
			// Orbit around the cube.
			angle := float32(ctx.Elapsed)
			l.Transform().SetPosition(4*cosf(angle), 3, 4*sinf(angle))
		}).
		Build()
	lamp.Color = color.FromHex(0xFF8040)
	lamp.Intensity = 2
	must(root.Add("lamp", lamp))

	cube := nodes.ModelBuilder().
		WithPosition(0, 1, 0).
		On(scene.EventUpdate, func(m *nodes.Model, ctx *scene.GameContext) {
			m.Transform().RotateEuler(0, 40*ctx.Delta, 0)
		}).
		Build()
	cube.Mesh = nodes.CubeMesh(2)
	cube.Color = color.FromHex(0x4080FF)
	must(root.Add("cube", cube))

	satellite := nodes.ModelBuilder().WithPosition(2, 0, 0).WithScale(0.4, 0.4, 0.4).Build()
	satellite.Mesh = nodes.CubeMesh(1)
	satellite.Color = color.Yellow
	must(cube.Children().Add("satellite", satellite))

	floor := nodes.ModelBuilder().Build()
	floor.Mesh = nodes.PlaneMesh(30)
	floor.Color = color.FromHex(0x6B7F5E)
	floor.CastShadow = false
	must(root.Add("floor", floor))

	e := engine.New(root, engine.Options{
		Title:  "arbor demo",
		Width:  1280,
		Height: 720,
	})
	if e.Headless() {
		log.Print("running without a window")
	} else {
		addFPSOverlay(root, e)
	}

	closer.Bind(func() {
		log.Print("shutting down")
	})

	e.Run()
	closer.Close()
}

// addFPSOverlay bakes a font atlas and attaches a corner FPS readout.
// Missing font files just skip the overlay.
func addFPSOverlay(root *scene.Scene, e *engine.Engine) {
	fontBytes, err := os.ReadFile("assets/fonts/default.ttf")
	if err != nil {
		log.Printf("no UI font, skipping overlay: %v", err)
		return
	}
	atlas, err := gfx.BuildFontAtlas(e.Renderer().Backend(), fontBytes, 24)
	if err != nil {
		log.Printf("font atlas: %v", err)
		return
	}

	label := nodes.UITextBuilder().
		On(scene.EventUpdate, func(t *nodes.UIText, ctx *scene.GameContext) {
			stats := e.Renderer().Stats()
			t.SetText(formatStats(stats.Drawables, stats.DirectionalLights+stats.PointLights))
		}).
		Build()
	label.Atlas = atlas
	label.X, label.Y = 12, 28
	must(root.Add("fps-label", label))
}

func moveCamera(c *nodes.Camera3D, ctx *scene.GameContext) {
	tr := c.Transform()
	step := moveSpeed * ctx.Delta
	if ctx.Input.IsActive(input.ActionSprint) {
		step *= 3
	}
	if ctx.Input.IsActive(input.ActionMoveForward) {
		tr.TranslateLocal(mgl32.Vec3{0, 0, -step})
	}
	if ctx.Input.IsActive(input.ActionMoveBackward) {
		tr.TranslateLocal(mgl32.Vec3{0, 0, step})
	}
	if ctx.Input.IsActive(input.ActionMoveLeft) {
		tr.TranslateLocal(mgl32.Vec3{-step, 0, 0})
	}
	if ctx.Input.IsActive(input.ActionMoveRight) {
		tr.TranslateLocal(mgl32.Vec3{step, 0, 0})
	}
	if ctx.Input.IsActive(input.ActionMoveUp) {
		tr.Translate(mgl32.Vec3{0, step, 0})
	}
	if ctx.Input.IsActive(input.ActionMoveDown) {
		tr.Translate(mgl32.Vec3{0, -step, 0})
	}

	// Mouse look while holding the right button; zoom on the middle one.
	if ctx.Input.IsActive(input.ActionMouseRight) {
		dx, dy := ctx.Input.CursorDelta()
		tr.Rotate(mgl32.Vec3{0, 1, 0}, float32(-dx)*0.1)
		tr.Rotate(tr.Right(), float32(-dy)*0.1)
	}
	if ctx.Input.JustPressed(input.ActionMouseMiddle) {
		c.EaseFOVTo(30, 0.25)
	}
	if ctx.Input.JustReleased(input.ActionMouseMiddle) {
		c.EaseFOVTo(70, 0.25)
	}
}

func must(err error) {
	if err != nil {
		log.Panic(err)
	}
}

func cosf(v float32) float32 { return float32(math.Cos(float64(v))) }
func sinf(v float32) float32 { return float32(math.Sin(float64(v))) }

func formatStats(drawables, lights int) string {
	return fmt.Sprintf("drawables %d  lights %d", drawables, lights)
}
