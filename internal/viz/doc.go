// Package viz turns render frames into pictures.
//
//   - [Plotter]: raster line plot with a static backdrop (axes, grid, ticks,
//     labels, annotation and legend boxes) shared by every frame
//   - [Film]: adapts a [render.Source] to the encoder's frame sequence
//   - [Canvas]: paletted pixel canvas with Bresenham lines and bitmap text
//   - [Preview]: terminal rendering of a single frame
//   - Theme selection with 4 built-in color schemes
//
// Lipgloss styles for command summaries live here as well.
package viz
