package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

var barCenterLine = rl.Color{R: 80, G: 80, B: 80, A: 255}

// Renderer draws descriptor panels in one theme.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel fills a bordered panel background.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rect := rl.NewRectangle(float32(x), float32(y), float32(width), float32(height))
	rl.DrawRectangleRec(rect, r.Theme.PanelBg)
	rl.DrawRectangleLinesEx(rect, 1, r.Theme.PanelBorder)
}

// rowHeight is the vertical space one widget takes.
func (r *Renderer) rowHeight(w WidgetType) int32 {
	switch w {
	case WidgetBar, WidgetCenteredBar:
		return r.Theme.LineHeight + 2
	case WidgetSpacer:
		return 6
	}
	return r.Theme.LineHeight
}

func (r *Renderer) label(x, y int32, text string) {
	rl.DrawText(text+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
}

// track draws the empty bar to the right of the label column and returns
// its bounds. The value text goes after the track.
func (r *Renderer) track(x, y, width int32) rl.Rectangle {
	t := r.Theme
	rect := rl.NewRectangle(float32(x+t.LabelWidth), float32(y+2), float32(width-t.LabelWidth-50), float32(t.BarHeight))
	rl.DrawRectangleRec(rect, t.BarBg)
	return rect
}

func (r *Renderer) trailing(rect rl.Rectangle, y int32, text string) {
	rl.DrawText(text, int32(rect.X+rect.Width)+5, y, r.Theme.FontSize, r.Theme.ValueColor)
}

func (r *Renderer) drawText(x, y int32, label, value string) {
	r.label(x, y, label)
	rl.DrawText(value, x+r.Theme.LabelWidth, y, r.Theme.FontSize, r.Theme.ValueColor)
}

// drawBar fills the track in proportion to value within rng.
func (r *Renderer) drawBar(x, y int32, label string, value float32, rng FieldRange, width int32) {
	r.label(x, y, label)
	rect := r.track(x, y, width)
	fill := rect
	fill.Width *= normalize(value, rng)
	rl.DrawRectangleRec(fill, r.Theme.BarFill)
	r.trailing(rect, y, fmt.Sprintf("%.2f", value))
}

// drawCenteredBar fills from the track's midpoint, right for positive
// values and left for negative, saturating at ±limit.
func (r *Renderer) drawCenteredBar(x, y int32, label string, value, limit float32, width int32) {
	r.label(x, y, label)
	rect := r.track(x, y, width)
	mid := rect.X + rect.Width/2
	rl.DrawLineV(rl.NewVector2(mid, rect.Y), rl.NewVector2(mid, rect.Y+rect.Height), barCenterLine)

	var frac float32
	if limit > 0 {
		frac = min(abs32(value)/limit, 1)
	}
	fill := rl.NewRectangle(mid, rect.Y, rect.Width/2*frac, rect.Height)
	color := r.Theme.BarFillPositive
	if value < 0 {
		fill.X -= fill.Width
		color = r.Theme.BarFillNegative
	}
	rl.DrawRectangleRec(fill, color)
	r.trailing(rect, y, fmt.Sprintf("%+.2f", value))
}

func (r *Renderer) drawSwatch(x, y int32, label string, color rl.Color) {
	r.label(x, y, label)
	rl.DrawRectangle(x+r.Theme.LabelWidth, y+1, 12, 12, color)
}

// DrawField renders one field and returns the Y below it.
func (r *Renderer) DrawField(x, y int32, fd FieldDescriptor, data any, width int32) int32 {
	var value float32
	if fd.Getter != nil {
		value = fd.Getter(data)
	}

	switch fd.Widget {
	case WidgetText:
		text := fmt.Sprintf(fd.Format, value)
		if fd.TextGetter != nil {
			text = fd.TextGetter(data)
		}
		r.drawText(x, y, fd.Label, text)
	case WidgetBar:
		r.drawBar(x, y, fd.Label, value, fd.Range, width)
	case WidgetCenteredBar:
		r.drawCenteredBar(x, y, fd.Label, value, fd.Range.Max, width)
	case WidgetColorSwatch:
		color := fd.Color
		if fd.ColorGetter != nil {
			color = fd.ColorGetter(data)
		}
		r.drawSwatch(x, y, fd.Label, color)
	}
	return y + r.rowHeight(fd.Widget)
}

// visibleFields returns the fields of sd shown for data, or nil with
// false when the whole section is hidden.
func visibleFields(sd SectionDescriptor, data any) ([]FieldDescriptor, bool) {
	if sd.Visible != nil && !sd.Visible(data) {
		return nil, false
	}
	out := make([]FieldDescriptor, 0, len(sd.Fields))
	for _, fd := range sd.Fields {
		if fd.Visible == nil || fd.Visible(data) {
			out = append(out, fd)
		}
	}
	return out, true
}

// DrawSection renders a titled group of fields and returns the Y below it.
func (r *Renderer) DrawSection(x, y int32, sd SectionDescriptor, data any, width int32) int32 {
	fields, ok := visibleFields(sd, data)
	if !ok {
		return y
	}
	if sd.Title != "" {
		rl.DrawText(sd.Title, x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
		y += r.Theme.LineHeight
	}
	for _, fd := range fields {
		y = r.DrawField(x, y, fd, data, width)
	}
	return y + 4
}

// SectionHeight is the height DrawSection uses for data.
func (r *Renderer) SectionHeight(sd SectionDescriptor, data any) int32 {
	fields, ok := visibleFields(sd, data)
	if !ok {
		return 0
	}
	h := int32(4)
	if sd.Title != "" {
		h += r.Theme.LineHeight
	}
	for _, fd := range fields {
		h += r.rowHeight(fd.Widget)
	}
	return h
}

func normalize(v float32, rng FieldRange) float32 {
	if rng.Max <= rng.Min {
		return 0
	}
	return max(0, min(1, (v-rng.Min)/(rng.Max-rng.Min)))
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
