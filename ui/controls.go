package ui

import (
	"strings"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

var keyHintColor = rl.Color{R: 150, G: 150, B: 150, A: 255}

// ControlsPanel lists the overlays grouped by category, each as a
// clickable checkbox with its hotkey.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a hidden controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{renderer: NewRenderer(), x: x, y: y, width: width}
}

func (c *ControlsPanel) SetPosition(x, y int32) { c.x, c.y = x, y }

func (c *ControlsPanel) IsVisible() bool { return c.visible }

// Toggle flips visibility and returns the new state.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// height is the panel height for the registry's current contents.
func (c *ControlsPanel) height(overlays *OverlayRegistry) int32 {
	t := c.renderer.Theme
	cats := overlays.Categories()
	rows := int32(len(cats) + len(overlays.All()) + 1)
	return rows*t.LineHeight + int32(len(cats)+1)*4 + 2*t.Padding
}

// Draw renders the panel, applies checkbox clicks to overlays, and returns
// the Y below the panel.
func (c *ControlsPanel) Draw(overlays *OverlayRegistry) int32 {
	if !c.visible {
		return c.y
	}
	t := c.renderer.Theme
	c.renderer.DrawPanel(c.x, c.y, c.width, c.height(overlays))

	x := c.x + t.Padding
	y := c.y + t.Padding
	rl.DrawText("Overlays", x, y, 16, rl.White)
	y += t.LineHeight + 4

	for _, cat := range overlays.Categories() {
		rl.DrawText(categoryLabel(cat), x, y, t.HeaderFontSize, t.SectionHeader)
		y += t.LineHeight
		for _, desc := range overlays.ByCategory(cat) {
			box := rl.NewRectangle(float32(x), float32(y+1), 10, 10)
			on := overlays.IsEnabled(desc.ID)
			if next := gui.CheckBox(box, desc.Name, on); next != on {
				overlays.SetEnabled(desc.ID, next)
			}
			if desc.KeyLabel != "" {
				hint := "[" + desc.KeyLabel + "]"
				w := rl.MeasureText(hint, t.FontSize)
				rl.DrawText(hint, c.x+c.width-t.Padding-w, y, t.FontSize, keyHintColor)
			}
			y += t.LineHeight
		}
		y += 4
	}
	return c.y + c.height(overlays)
}

func categoryLabel(cat string) string {
	if cat == "" {
		return cat
	}
	return strings.ToUpper(cat[:1]) + cat[1:]
}
