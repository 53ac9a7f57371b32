package staticworld

import (
	"github.com/aquilax/go-perlin"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/stride/internal/engine/physics"
)

// Perlin shaping, octave count and smoothing for generated terrain.
const (
	perlinAlpha   = 2.0
	perlinBeta    = 2.0
	perlinOctaves = 3
)

// Heightfield is a regular grid of terrain heights. World X/Z map onto the
// grid through the cell size and origin; heights between samples are
// bilinearly interpolated.
type Heightfield struct {
	heights  [][]float32 // [x][z]
	cols     int
	rows     int
	cellSize float32
	originX  float32
	originZ  float32
}

// NewHeightfield returns a flat field of cols by rows samples spaced
// cellSize apart, anchored at the world origin.
func NewHeightfield(cols, rows int, cellSize float32) *Heightfield {
	if cols < 2 {
		cols = 2
	}
	if rows < 2 {
		rows = 2
	}
	heights := make([][]float32, cols)
	for x := range heights {
		heights[x] = make([]float32, rows)
	}
	return &Heightfield{heights: heights, cols: cols, rows: rows, cellSize: cellSize}
}

// BuildPerlinHeightfield fills a field from layered Perlin noise. The
// amplitude scales the [-1, 1] noise into world units, the frequency
// stretches it across the grid.
func BuildPerlinHeightfield(cols, rows int, cellSize float32, seed int64, amplitude, frequency float64) *Heightfield {
	f := NewHeightfield(cols, rows, cellSize)
	p := perlin.NewPerlin(perlinAlpha, perlinBeta, perlinOctaves, seed)
	for x := 0; x < f.cols; x++ {
		for z := 0; z < f.rows; z++ {
			n := p.Noise2D(float64(x)*frequency, float64(z)*frequency)
			f.heights[x][z] = float32(amplitude * n)
		}
	}
	return f
}

// SetOrigin anchors the grid's first sample at the given world X/Z.
func (f *Heightfield) SetOrigin(x, z float32) {
	f.originX = x
	f.originZ = z
}

// SetHeight overwrites one sample. Out-of-range indices are ignored.
func (f *Heightfield) SetHeight(x, z int, h float32) {
	if x < 0 || z < 0 || x >= f.cols || z >= f.rows {
		return
	}
	f.heights[x][z] = h
}

// Bounds returns the world-space rectangle covered by the grid.
func (f *Heightfield) Bounds() (minX, minZ, maxX, maxZ float32) {
	return f.originX, f.originZ,
		f.originX + float32(f.cols-1)*f.cellSize,
		f.originZ + float32(f.rows-1)*f.cellSize
}

// HeightAt returns the interpolated terrain height at a world position.
// Positions outside the grid clamp to the border samples.
func (f *Heightfield) HeightAt(worldX, worldZ float32) float32 {
	cellFX := (worldX - f.originX) / f.cellSize
	cellFZ := (worldZ - f.originZ) / f.cellSize

	cellX := int(cellFX)
	cellZ := int(cellFZ)

	if cellX < 0 {
		cellX = 0
	}
	if cellZ < 0 {
		cellZ = 0
	}
	if cellX > f.cols-2 {
		cellX = f.cols - 2
	}
	if cellZ > f.rows-2 {
		cellZ = f.rows - 2
	}

	fracX := mgl32.Clamp(cellFX-float32(cellX), 0, 1)
	fracZ := mgl32.Clamp(cellFZ-float32(cellZ), 0, 1)

	// Bilinear blend: south edge, north edge, then between them.
	south := f.heights[cellX][cellZ]*(1-fracX) + f.heights[cellX+1][cellZ]*fracX
	north := f.heights[cellX][cellZ+1]*(1-fracX) + f.heights[cellX+1][cellZ+1]*fracX
	return south*(1-fracZ) + north*fracZ
}

// NormalAt returns the upward surface normal at a world position, from
// central height differences one cell apart.
func (f *Heightfield) NormalAt(worldX, worldZ float32) mgl32.Vec3 {
	e := f.cellSize
	if e <= 0 {
		return mgl32.Vec3{0, 1, 0}
	}
	dx := f.HeightAt(worldX+e, worldZ) - f.HeightAt(worldX-e, worldZ)
	dz := f.HeightAt(worldX, worldZ+e) - f.HeightAt(worldX, worldZ-e)
	return mgl32.Vec3{-dx / (2 * e), 1, -dz / (2 * e)}.Normalize()
}

// raycast marches the ray across the surface and bisects the crossing.
// Rays that start at or below the surface miss; the field is one-sided.
func (f *Heightfield) raycast(origin, dir mgl32.Vec3, maxDist float32) (float32, mgl32.Vec3, bool) {
	step := f.cellSize / 2
	if step <= 0 || maxDist <= 0 {
		return 0, mgl32.Vec3{}, false
	}
	above := func(t float32) float32 {
		p := origin.Add(dir.Mul(t))
		return p.Y() - f.HeightAt(p.X(), p.Z())
	}
	if above(0) <= 0 {
		return 0, mgl32.Vec3{}, false
	}

	prev := float32(0)
	for prev < maxDist {
		t := prev + step
		if t > maxDist {
			t = maxDist
		}
		if above(t) <= 0 {
			lo, hi := prev, t
			for i := 0; i < 16; i++ {
				mid := (lo + hi) / 2
				if above(mid) <= 0 {
					hi = mid
				} else {
					lo = mid
				}
			}
			p := origin.Add(dir.Mul(hi))
			return hi, f.NormalAt(p.X(), p.Z()), true
		}
		if t == maxDist {
			break
		}
		prev = t
	}
	return 0, mgl32.Vec3{}, false
}

// hit wraps a raw surface crossing into a physics hit.
func (f *Heightfield) hit(origin, dir mgl32.Vec3, maxDist float32, id physics.ColliderID) physics.Hit {
	t, normal, ok := f.raycast(origin, dir, maxDist)
	if !ok {
		return physics.Hit{}
	}
	return physics.Hit{
		OK:       true,
		Distance: t,
		Point:    origin.Add(dir.Mul(t)),
		Normal:   normal,
		Collider: id,
	}
}
