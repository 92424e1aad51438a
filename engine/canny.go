package engine

// nonMaxSuppression thins edges by keeping only local maxima along the
// gradient direction.
func nonMaxSuppression(mag, angle []float64, w, h int) []float64 {
	out := make([]float64, w*h)
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			a := angle[y*w+x]
			m := mag[y*w+x]
			var n1, n2 float64

			switch {
			case (a >= -22.5 && a <= 22.5) || a >= 157.5 || a <= -157.5:
				n1, n2 = mag[y*w+x-1], mag[y*w+x+1]
			case (a > 22.5 && a <= 67.5) || (a < -112.5 && a >= -157.5):
				n1, n2 = mag[(y-1)*w+x-1], mag[(y+1)*w+x+1]
			case (a > 67.5 && a <= 112.5) || (a < -67.5 && a >= -112.5):
				n1, n2 = mag[(y-1)*w+x], mag[(y+1)*w+x]
			default:
				n1, n2 = mag[(y+1)*w+x-1], mag[(y-1)*w+x+1]
			}

			if m >= n1 && m >= n2 {
				out[y*w+x] = m
			}
		}
	}
	return out
}

// hysteresisThreshold classifies edges as strong/weak/none and keeps a weak
// edge when one of its 8 neighbours is strong. This is a single pass: a weak
// edge linked to a strong one only through other weak edges is dropped.
func hysteresisThreshold(mag []float64, w, h int, low, high float64) []bool {
	const (
		none = iota
		weak
		strong
	)
	state := make([]byte, w*h)
	for i, m := range mag {
		switch {
		case m >= high:
			state[i] = strong
		case m >= low:
			state[i] = weak
		default:
			state[i] = none
		}
	}

	isConnectedToStrong := func(x, y int) bool {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				nx, ny := x+dx, y+dy
				if nx < 0 || nx >= w || ny < 0 || ny >= h {
					continue
				}
				if state[ny*w+nx] == strong {
					return true
				}
			}
		}
		return false
	}

	out := make([]bool, w*h)
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			switch state[y*w+x] {
			case strong:
				out[y*w+x] = true
			case weak:
				out[y*w+x] = isConnectedToStrong(x, y)
			}
		}
	}
	return out
}

// cannyEdges runs the full pipeline (Gaussian blur -> Sobel -> non-max
// suppression -> hysteresis) over a luminance grid, producing a boolean
// edge map.
func cannyEdges(luminance []float64, w, h int, low, high float64) []bool {
	kernel := gaussianKernel(5, 1.4)
	blurred := applyKernel(luminance, w, h, kernel)

	kx, ky := sobelKernels()
	mag, angle := sobelGradients(blurred, w, h, kx, ky)

	suppressed := nonMaxSuppression(mag, angle, w, h)

	return hysteresisThreshold(suppressed, w, h, low, high)
}
