package ecs

import "github.com/hajimehoshi/ebiten/v2"

// RenderSystem draws ECS entities each frame.
type RenderSystem interface {
	Draw(w *World, screen *ebiten.Image)
}

// Draw calls every scheduled system that can render.
func (s *Scheduler) Draw(w *World, screen *ebiten.Image) {
	if s == nil || w == nil || screen == nil {
		return
	}
	for _, system := range s.systems {
		if rs, ok := system.(RenderSystem); ok {
			rs.Draw(w, screen)
		}
	}
}
