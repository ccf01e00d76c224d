// Package camera maps the metric world onto the screen for the viewer.
package camera

import "math"

// Camera controls the viewport into the world. World coordinates are metres
// with Y pointing up; screen coordinates are pixels with Y pointing down.
type Camera struct {
	// Center is the camera center in world coordinates
	X, Y float64

	// Zoom multiplies PixelsPerMetre (1.0 = configured scale)
	Zoom float32

	PixelsPerMetre float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// World bounds; the center never leaves them
	MinX, MinY, MaxX, MaxY float64

	// Zoom constraints
	MinZoom, MaxZoom float32
}

// New creates a camera centered on the world at the configured scale.
func New(viewportW, viewportH, pixelsPerMetre float32, minX, minY, maxX, maxY float64) *Camera {
	c := &Camera{
		Zoom:           1.0,
		PixelsPerMetre: pixelsPerMetre,
		ViewportW:      viewportW,
		ViewportH:      viewportH,
		MinX:           minX,
		MinY:           minY,
		MaxX:           maxX,
		MaxY:           maxY,
		MinZoom:        0.25,
		MaxZoom:        8.0,
	}
	c.Reset()
	return c
}

// scale returns pixels per metre at the current zoom.
func (c *Camera) scale() float32 {
	return c.PixelsPerMetre * c.Zoom
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float64) (sx, sy float32) {
	s := c.scale()
	sx = c.ViewportW/2 + float32(wx-c.X)*s
	sy = c.ViewportH/2 - float32(wy-c.Y)*s
	return sx, sy
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float64) {
	s := c.scale()
	wx = c.X + float64((sx-c.ViewportW/2)/s)
	wy = c.Y - float64((sy-c.ViewportH/2)/s)
	return wx, wy
}

// Length converts a world distance to pixels.
func (c *Camera) Length(metres float64) float32 {
	return float32(metres) * c.scale()
}

// IsVisible returns true if a circle at (wx, wy) with given radius
// could be visible on screen (conservative check for culling).
func (c *Camera) IsVisible(wx, wy, radius float64) bool {
	minX, minY, maxX, maxY := c.VisibleWorldBounds()
	return wx+radius >= minX && wx-radius <= maxX && wy+radius >= minY && wy-radius <= maxY
}

// Resize updates viewport dimensions.
func (c *Camera) Resize(viewportW, viewportH float32) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}

// Pan moves the camera by the given delta in screen pixels. The center is
// kept inside the world bounds.
func (c *Camera) Pan(dx, dy float32) {
	s := c.scale()
	c.X = clamp(c.X+float64(dx/s), c.MinX, c.MaxX)
	c.Y = clamp(c.Y-float64(dy/s), c.MinY, c.MaxY)
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = float32(clamp(float64(zoom), float64(c.MinZoom), float64(c.MaxZoom)))
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// Reset returns the camera to the world center and default zoom.
func (c *Camera) Reset() {
	c.X = (c.MinX + c.MaxX) / 2
	c.Y = (c.MinY + c.MaxY) / 2
	c.Zoom = 1.0
}

// FitZoom returns the zoom at which the whole world just fits the viewport.
func (c *Camera) FitZoom() float32 {
	zx := c.ViewportW / (float32(c.MaxX-c.MinX) * c.PixelsPerMetre)
	zy := c.ViewportH / (float32(c.MaxY-c.MinY) * c.PixelsPerMetre)
	return float32(math.Min(float64(zx), float64(zy)))
}

// VisibleWorldBounds returns the world-coordinate bounds of the visible area.
func (c *Camera) VisibleWorldBounds() (minX, minY, maxX, maxY float64) {
	s := c.scale()
	halfW := float64(c.ViewportW / (2 * s))
	halfH := float64(c.ViewportH / (2 * s))
	return c.X - halfW, c.Y - halfH, c.X + halfW, c.Y + halfH
}

// clamp restricts a value to a range.
func clamp(x, min, max float64) float64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
