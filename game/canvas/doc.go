// Package canvas models the game's drawing surface without any rendering
// backend.
//
// The canvas package provides:
//   - Canvas: the local pixel space and the ordered list of segments drawn on it
//   - Pointer: the pressed/released drag state that turns pointer moves into segments
//   - Picker: the saturation/brightness square plus hue strip color picker
//
// A Canvas is not safe for concurrent use; the session controller owns it and
// serializes access.
package canvas
