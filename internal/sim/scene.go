package sim

import (
	stdmath "math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/stride/internal/config"
	"github.com/Faultbox/stride/internal/engine/staticworld"
)

// Collision layers used by the demo arena.
const (
	LayerTerrain uint = 0
	LayerStatic  uint = 1
	LayerAgent   uint = 2
)

const terrainCellSize = 1.0

// Scene is the demo arena: rolling noise terrain with a flat spawn pad
// poking through it, a wall to brush against and a low gallery that
// knocks standing agents on the head.
type Scene struct {
	World       *staticworld.World
	PlatformTop float32 // y of the spawn pad surface
}

// BuildScene assembles the arena from the sim section of the config.
// The same seed always produces the same terrain.
func BuildScene(cfg *config.Config) *Scene {
	w := staticworld.New()

	size := cfg.Sim.TerrainSize
	field := staticworld.BuildPerlinHeightfield(size, size, terrainCellSize,
		cfg.Sim.Seed, cfg.Sim.TerrainAmplitude, cfg.Sim.TerrainFrequency)
	half := float32(size-1) * terrainCellSize / 2
	field.SetOrigin(-half, -half)
	w.SetTerrain(field, LayerTerrain)

	top := float32(cfg.Sim.TerrainAmplitude) + 0.5

	// Spawn pad. Deep enough to poke through the terrain everywhere.
	w.AddBox(mgl32.Vec3{-6, top - 8, -6}, mgl32.Vec3{6, top, 6}, LayerStatic)

	// Wall along the east edge of the pad.
	w.AddBox(mgl32.Vec3{5.5, top, -6}, mgl32.Vec3{6, top + 3, 6}, LayerStatic)

	// Gallery roof over the north strip, too low to walk under upright.
	w.AddBox(mgl32.Vec3{-6, top + 1.6, 4}, mgl32.Vec3{6, top + 1.9, 6}, LayerStatic)

	return &Scene{World: w, PlatformTop: top}
}

// SpawnPoints rings n start positions above the middle of the pad.
func (s *Scene) SpawnPoints(n int) []mgl32.Vec3 {
	const ring = 3.0
	pts := make([]mgl32.Vec3, n)
	for i := range pts {
		a := 2 * stdmath.Pi * float64(i) / float64(n)
		pts[i] = mgl32.Vec3{
			float32(ring * stdmath.Cos(a)),
			s.PlatformTop + 1,
			float32(ring * stdmath.Sin(a)),
		}
	}
	return pts
}
