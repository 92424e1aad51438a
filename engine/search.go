package engine

import (
	"math"
	"runtime"
	"sync"
)

// IoU computes the Intersection-over-Union similarity between two
// same-size patterns. If the union is empty, the score is 0.
func IoU(a, b *Pattern) float64 {
	var inter, union int
	for i := range a.Bits {
		av := a.Bits[i] != 0
		bv := b.Bits[i] != 0
		if av || bv {
			union++
			if av && bv {
				inter++
			}
		}
	}
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// shiftPattern returns a copy of p translated by (tx, ty) pixels; pixels
// shifted out of bounds are dropped, matching Apply's "pre-image outside
// the source is 0" rule but without re-deriving rotation/scale, since the
// translation lattice is scanned independently of the (scale, angle) grid.
func shiftPattern(p *Pattern, tx, ty int) *Pattern {
	out := NewPattern(p.Size)
	for y := 0; y < p.Size; y++ {
		sy := y - ty
		if sy < 0 || sy >= p.Size {
			continue
		}
		for x := 0; x < p.Size; x++ {
			sx := x - tx
			if sx < 0 || sx >= p.Size {
				continue
			}
			if p.At(sx, sy) {
				out.Set(x, y)
			}
		}
	}
	return out
}

// scaleLadder returns an arithmetic ladder of `steps` scale samples
// between min and max inclusive. steps <= 1 degenerates to {1.0}.
func scaleLadder(min, max float64, steps int) []float64 {
	if steps <= 1 {
		return []float64{1.0}
	}
	out := make([]float64, steps)
	step := (max - min) / float64(steps-1)
	for i := 0; i < steps; i++ {
		out[i] = min + float64(i)*step
	}
	return out
}

// angleLadder returns uniform-increment angle samples in degrees over
// [0, 360). angleStep <= 0 or >= 360 degenerates to {0}.
func angleLadder(angleStep float64) []float64 {
	if angleStep <= 0 || angleStep >= 360 {
		return []float64{0}
	}
	var out []float64
	for a := 0.0; a < 360; a += angleStep {
		out = append(out, a)
	}
	return out
}

// translationLattice returns the integer (tx, ty) lattice over
// [-trange, +trange]^2 with spacing tstep.
func translationLattice(trange, tstep int) [][2]int {
	if tstep <= 0 {
		tstep = 1
	}
	var out [][2]int
	for ty := -trange; ty <= trange; ty += tstep {
		for tx := -trange; tx <= trange; tx += tstep {
			out = append(out, [2]int{tx, ty})
		}
	}
	return out
}

// angularDistance is the circular distance of a degree value from 0,
// used for the |θ| tie-break term.
func angularDistance(deg float64) float64 {
	m := math.Mod(deg, 360)
	if m < 0 {
		m += 360
	}
	d := m
	if 360-m < d {
		d = 360 - m
	}
	return d
}

// better reports whether candidate a is preferred over candidate b under a
// deterministic tie-break: higher IoU first, then smaller |scale-1|, then
// smaller |θ|, then smaller |tx|, then smaller |ty|. Candidates equal on
// all of these keys (e.g. tx=-5 vs tx=+5, or 10° vs 350°) are not ordered
// by better; Search resolves them in enumeration order, keeping the
// earlier one, so the result is independent of which worker finishes first.
func better(aT Transform, aIoU float64, bT Transform, bIoU float64) bool {
	if aIoU != bIoU {
		return aIoU > bIoU
	}
	da, db := math.Abs(aT.Scale-1), math.Abs(bT.Scale-1)
	if da != db {
		return da < db
	}
	ta, tb := angularDistance(aT.AngleDeg), angularDistance(bT.AngleDeg)
	if ta != tb {
		return ta < tb
	}
	if abs(aT.Tx) != abs(bT.Tx) {
		return abs(aT.Tx) < abs(bT.Tx)
	}
	return abs(aT.Ty) < abs(bT.Ty)
}

// searchTile is one (scale, angle) grid cell to evaluate by a worker.
type searchTile struct {
	scale, angle float64
}

type tileResult struct {
	transform Transform
	iou       float64
}

// evaluateTile hoists rotation/scale out of the translation loop: the
// query is rotated and scaled once, then shifted per translation
// candidate and scored.
func evaluateTile(query, reference *Pattern, tile searchTile, lattice [][2]int) tileResult {
	rotatedScaled := Apply(Transform{Scale: tile.scale, AngleDeg: tile.angle}, query)

	best := tileResult{transform: Transform{Scale: tile.scale, AngleDeg: tile.angle}, iou: -1}
	for _, t := range lattice {
		shifted := shiftPattern(rotatedScaled, t[0], t[1])
		iou := IoU(shifted, reference)
		candidate := Transform{Scale: tile.scale, AngleDeg: tile.angle, Tx: t[0], Ty: t[1]}
		if best.iou < 0 || better(candidate, iou, best.transform, best.iou) {
			best = tileResult{transform: candidate, iou: iou}
		}
		if iou >= 0.999 {
			break
		}
	}
	return best
}

// Search performs Transform Search: it explores the discrete grid of
// (scale, rotation, translation) implied by cfg and returns the
// best-scoring Transform and the IoU it achieves.
func Search(query, reference *Pattern, cfg MatchConfig) MatchResult {
	if query.Count() == 0 || reference.Count() == 0 {
		return MatchResult{Transform: IdentityTransform(), IoU: 0}
	}

	var scales, angles []float64
	if cfg.Simplify {
		scales = []float64{1.0}
		angles = []float64{0}
	} else {
		scales = scaleLadder(cfg.MinScale, cfg.MaxScale, cfg.ScaleSteps)
		angles = angleLadder(cfg.AngleStep)
	}
	lattice := translationLattice(cfg.TRange, cfg.TStep)

	var tiles []searchTile
	for _, s := range scales {
		for _, a := range angles {
			tiles = append(tiles, searchTile{scale: s, angle: a})
		}
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(tiles) {
		workers = len(tiles)
	}
	if workers < 1 {
		workers = 1
	}

	// Each tile is evaluated independently and in full: the only early
	// termination is the per-tile translation-loop break inside
	// evaluateTile, which follows the fixed lattice order and is therefore
	// deterministic regardless of which worker runs which tile. Skipping
	// whole tiles once some other tile hits the threshold would make the
	// result depend on goroutine scheduling, breaking the bit-identical-
	// results requirement across runs.
	// Each worker writes only its own tile's slot, so results stays in
	// tile enumeration order whatever the scheduling.
	tileChan := make(chan int)
	results := make([]tileResult, len(tiles))

	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range tileChan {
				results[i] = evaluateTile(query, reference, tiles[i], lattice)
			}
		}()
	}

	for i := range tiles {
		tileChan <- i
	}
	close(tileChan)
	wg.Wait()

	best := tileResult{transform: IdentityTransform(), iou: -1}
	for _, r := range results {
		if best.iou < 0 || better(r.transform, r.iou, best.transform, best.iou) {
			best = r
		}
	}
	if best.iou < 0 {
		best = tileResult{transform: IdentityTransform(), iou: 0}
	}

	return MatchResult{Transform: best.transform, IoU: best.iou}
}
