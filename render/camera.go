package render

// Camera maps world meters (y up) to screen pixels (y down).
type Camera struct {
	Scale   float64
	OffsetX float64
	OffsetY float64
	Height  float64
}

// Fit returns a camera that shows a width x height world centered in a
// screenW x screenH screen, keeping the aspect ratio.
func Fit(width, height float64, screenW, screenH int) Camera {
	if width <= 0 || height <= 0 || screenW <= 0 || screenH <= 0 {
		return Camera{Scale: 1, Height: height}
	}
	scale := min(float64(screenW)/width, float64(screenH)/height)
	return Camera{
		Scale:   scale,
		OffsetX: (float64(screenW) - width*scale) / 2,
		OffsetY: (float64(screenH) - height*scale) / 2,
		Height:  height,
	}
}

// ToScreen converts a world position to screen coordinates.
func (c Camera) ToScreen(x, y float64) (float32, float32) {
	return float32(c.OffsetX + x*c.Scale), float32(c.OffsetY + (c.Height-y)*c.Scale)
}

// Length converts a world distance to pixels.
func (c Camera) Length(d float64) float32 {
	return float32(d * c.Scale)
}
