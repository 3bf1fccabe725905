package main

import (
	"image/color"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/actorkit/actor"
	"github.com/milk9111/actorkit/common"
	"github.com/milk9111/actorkit/ecs"
	"github.com/milk9111/actorkit/ecs/component"
	"github.com/milk9111/actorkit/levels"
	"github.com/milk9111/actorkit/physics"
	"golang.org/x/image/colornames"
)

const flashDuration = 0.15

// renderSystem draws the level and every entity with a Render component as
// flat rectangles. It follows the player and flashes actors when harmed.
type renderSystem struct {
	level   *levels.Level
	physics *physics.World

	scale         float64
	width, height int
	camX, camY    float64
	debug         bool

	world       *ecs.World
	flashes     map[ecs.Entity]float64
	unsubscribe map[ecs.Entity]func()
	drawList    []drawItem
}

type drawItem struct {
	e      ecs.Entity
	bounds common.Rect
	render *component.Render
}

func newRenderSystem(width, height int, scale float64, debug bool) *renderSystem {
	return &renderSystem{
		width:       width,
		height:      height,
		scale:       scale,
		debug:       debug,
		flashes:     map[ecs.Entity]float64{},
		unsubscribe: map[ecs.Entity]func(){},
	}
}

// attach points the renderer at a (possibly rebuilt) level.
func (r *renderSystem) attach(w *ecs.World, lvl *levels.Level, pw *physics.World) {
	r.level, r.physics = lvl, pw
	if w == r.world {
		return
	}
	for _, fn := range r.unsubscribe {
		fn()
	}
	r.world = w
	r.flashes = map[ecs.Entity]float64{}
	r.unsubscribe = map[ecs.Entity]func(){}
}

func (r *renderSystem) Update(w *ecs.World, dt float64) {
	for e, fn := range r.unsubscribe {
		if !ecs.IsAlive(w, e) {
			fn()
			delete(r.unsubscribe, e)
			delete(r.flashes, e)
		}
	}
	ecs.ForEach(w, component.HealthComponent.Kind(), func(e ecs.Entity, h *actor.HealthManager) {
		if _, ok := r.unsubscribe[e]; ok {
			return
		}
		r.unsubscribe[e] = h.OnHarmed(func(actor.Harmed) { r.flashes[e] = flashDuration })
	})
	for e, left := range r.flashes {
		if left -= dt; left <= 0 {
			delete(r.flashes, e)
		} else {
			r.flashes[e] = left
		}
	}

	if e, ok := ecs.First(w, component.PlayerTagComponent.Kind()); ok {
		if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
			r.camX = common.Lerp(r.camX, t.X, 0.15)
			r.camY = common.Lerp(r.camY, t.Y, 0.15)
		}
	}
	r.clampCamera()
}

// clampCamera keeps the view inside the level when the level is larger than
// the screen.
func (r *renderSystem) clampCamera() {
	if r.level == nil {
		return
	}
	lw, lh := r.level.Size()
	halfW := float64(r.width) / r.scale / 2
	halfH := float64(r.height) / r.scale / 2
	if lw > 2*halfW {
		r.camX = common.Clamp(r.camX, halfW, lw-halfW)
	} else {
		r.camX = lw / 2
	}
	if lh > 2*halfH {
		r.camY = common.Clamp(r.camY, halfH, lh-halfH)
	} else {
		r.camY = lh / 2
	}
}

func (r *renderSystem) toScreen(x, y float64) (float32, float32) {
	sx := (x-r.camX)*r.scale + float64(r.width)/2
	sy := float64(r.height)/2 - (y-r.camY)*r.scale
	return float32(sx), float32(sy)
}

func (r *renderSystem) fillRect(screen *ebiten.Image, b common.Rect, clr color.Color) {
	x, y := r.toScreen(b.Left(), b.Top())
	vector.DrawFilledRect(screen, x, y, float32(b.Width*r.scale), float32(b.Height*r.scale), clr, false)
}

func (r *renderSystem) strokeRect(screen *ebiten.Image, b common.Rect, clr color.Color) {
	x, y := r.toScreen(b.Left(), b.Top())
	vector.StrokeRect(screen, x, y, float32(b.Width*r.scale), float32(b.Height*r.scale), 1, clr, false)
}

func (r *renderSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	r.drawLevel(screen)

	r.drawList = r.drawList[:0]
	ecs.ForEach2(w, component.RenderComponent.Kind(), component.PhysicsBodyComponent.Kind(), func(e ecs.Entity, rc *component.Render, pb *component.PhysicsBody) {
		if pb.Body == nil {
			return
		}
		r.drawList = append(r.drawList, drawItem{e: e, bounds: pb.Body.Bounds(), render: rc})
	})
	sort.SliceStable(r.drawList, func(i, j int) bool { return r.drawList[i].render.Layer < r.drawList[j].render.Layer })

	for _, item := range r.drawList {
		clr := item.render.Color
		if clr == nil {
			clr = colornames.White
		}
		if _, ok := r.flashes[item.e]; ok {
			clr = colornames.White
		}
		if d, ok := ecs.Get(w, item.e, component.DeathComponent.Kind()); ok && d.IsDead() {
			clr = colornames.Dimgray
		}
		r.fillRect(screen, item.bounds, clr)
		if f, ok := ecs.Get(w, item.e, component.FacerComponent.Kind()); ok {
			r.drawEye(screen, item.bounds, f.Facing())
		}
	}

	if r.debug && r.physics != nil {
		for _, b := range r.physics.Bodies() {
			r.strokeRect(screen, b.Bounds(), colornames.Lime)
		}
	}
}

func (r *renderSystem) drawEye(screen *ebiten.Image, b common.Rect, facing int) {
	size := b.Height * 0.15
	x := b.CenterX() + float64(facing)*b.Width*0.25 - size/2
	eye := common.Rect{X: x, Y: b.Top() - b.Height*0.3, Width: size, Height: size}
	r.fillRect(screen, eye, colornames.Black)
}

func (r *renderSystem) drawLevel(screen *ebiten.Image) {
	lvl := r.level
	if lvl == nil {
		return
	}
	lw, _ := lvl.Size()
	ts := lw / float64(lvl.Width)
	for i, layer := range lvl.Layers {
		clr := color.Color(colornames.Darkslategray)
		if i < len(lvl.LayerMeta) && lvl.LayerMeta[i].Physics {
			clr = colornames.Slategray
		}
		for idx, v := range layer {
			if v == 0 {
				continue
			}
			col, row := idx%lvl.Width, idx/lvl.Width
			x, y := lvl.Feet(col, row)
			r.fillRect(screen, common.Rect{X: x - ts/2, Y: y, Width: ts, Height: ts}, clr)
		}
	}
}
