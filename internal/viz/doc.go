// Package viz renders tensegrity structures in the terminal.
//
// [Model] is a Bubble Tea program that steps a simulator in real time and
// draws the structure on a braille [Canvas] through a rotatable [Camera].
// Struts are drawn two dots wide, cables one dot wide, free nodes as
// blocks. The side panel shows the energy distribution and an energy chart.
//
// # Key Bindings
//
//	Space   - Pause/Resume
//	R       - Rebuild the structure from scratch
//	C       - Toggle the constraint enforcer
//	Arrows  - Rotate the camera
//	+/-     - Zoom
//	[ ]     - Halve/double the steps per frame
//	T       - Cycle themes
//	?       - Full help
package viz
