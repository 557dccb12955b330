package ui

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// InputHandler tracks the mouse in logical (unscaled) coordinates.
type InputHandler struct {
	mouseX, mouseY   int
	leftJustPressed  bool
	leftJustReleased bool
}

// NewInputHandler creates a new input handler.
func NewInputHandler() *InputHandler {
	return &InputHandler{}
}

// Update refreshes the mouse state. Call it once per frame.
func (ih *InputHandler) Update() {
	rawX, rawY := ebiten.CursorPosition()
	scale := max(UIScale, 1.0)
	ih.mouseX = int(float64(rawX) / scale)
	ih.mouseY = int(float64(rawY) / scale)

	ih.leftJustPressed = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	ih.leftJustReleased = inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft)
}

// MousePosition returns the current mouse position in logical coordinates.
func (ih *InputHandler) MousePosition() (int, int) {
	return ih.mouseX, ih.mouseY
}

// IsLeftJustPressed reports whether the left button went down this frame.
func (ih *InputHandler) IsLeftJustPressed() bool {
	return ih.leftJustPressed
}

// IsLeftJustReleased reports whether the left button went up this frame.
func (ih *InputHandler) IsLeftJustReleased() bool {
	return ih.leftJustReleased
}

// IsInBounds returns true if the mouse is within the given rectangle.
func (ih *InputHandler) IsInBounds(x, y, w, h int) bool {
	return ih.mouseX >= x && ih.mouseX < x+w && ih.mouseY >= y && ih.mouseY < y+h
}

// ClickedInBounds returns true if the mouse was just clicked within the rectangle.
func (ih *InputHandler) ClickedInBounds(x, y, w, h int) bool {
	return ih.leftJustPressed && ih.IsInBounds(x, y, w, h)
}

// IsKeyJustPressed returns true if the specified key was just pressed.
func IsKeyJustPressed(key ebiten.Key) bool {
	return inpututil.IsKeyJustPressed(key)
}
