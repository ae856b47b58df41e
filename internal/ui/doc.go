// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI runs a single sync and tracks it through two views:
//  1. [RunView] : Live phase and counter display while the engine works
//  2. [ResultView] : Final summary with download counts and failures
//
// The [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the sync engine, providing
// non-blocking status reporting during the run.
package ui
