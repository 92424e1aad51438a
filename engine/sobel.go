package engine

import "math"

// sobelKernels returns the standard 3x3 Sobel X/Y kernels.
func sobelKernels() (kx, ky [][]float64) {
	kx = [][]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	ky = [][]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}
	return kx, ky
}

// sobelGradients computes gradient magnitude and angle (degrees) grids for
// a w x h luminance grid, clamping magnitude to 255 to match 8-bit image
// range.
func sobelGradients(grid []float64, w, h int, kx, ky [][]float64) (mag, angle []float64) {
	radius := len(kx) / 2
	mag = make([]float64, w*h)
	angle = make([]float64, w*h)
	for y := radius; y < h-radius; y++ {
		for x := radius; x < w-radius; x++ {
			var gx, gy float64
			for dy := -radius; dy <= radius; dy++ {
				for dx := -radius; dx <= radius; dx++ {
					v := grid[(y+dy)*w+(x+dx)]
					gx += v * kx[dy+radius][dx+radius]
					gy += v * ky[dy+radius][dx+radius]
				}
			}
			m := math.Sqrt(gx*gx + gy*gy)
			if m > 255 {
				m = 255
			}
			mag[y*w+x] = m
			angle[y*w+x] = math.Atan2(gy, gx) * 180 / math.Pi
		}
	}
	return mag, angle
}
