package engine

// toLuminance converts a Raster to a single-channel luminance grid using
// the Rec. 601 perceptual weights.
func toLuminance(r *Raster) []float64 {
	n := r.Width * r.Height
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		red := float64(r.Pix[i*3])
		green := float64(r.Pix[i*3+1])
		blue := float64(r.Pix[i*3+2])
		out[i] = 0.299*red + 0.587*green + 0.114*blue
	}
	return out
}
