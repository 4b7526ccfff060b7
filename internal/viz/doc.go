// Package viz renders simulation results in the terminal.
//
//   - [Plot] and [PlotMany]: asciigraph line plots of output columns
//   - [MetricsTable]: lipgloss table of metric records
//   - [Browser]: Bubble Tea scenario browser
//
// # Key Bindings
//
//	j/k   - Move between scenarios
//	Enter - Simulate the selected scenario
//	Tab   - Cycle the plotted column (S, E, I, R, M)
//	T     - Cycle color themes
//	Q     - Quit
package viz
