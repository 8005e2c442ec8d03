// Package config loads, caches and saves warehouse puzzle configurations.
//
// Puzzles live in a directory as either JSON documents:
//
//	{
//	  "name": "starter",
//	  "description": "Small warehouse with a few boxes",
//	  "layout": ["########", "#..O.O.#", ...],
//	  "moves": "<^^>>>vv<v>>v<<"
//	}
//
// or raw puzzle text files (.txt): the board rows, a blank line, then the
// move characters. Text puzzles take their name from the file.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	puzzle, err := manager.LoadConfig("starter")
//	infos, err := manager.ListConfigs()
//
// When the directory holds no "starter" puzzle the first valid file becomes
// the default, and an empty directory falls back to the built-in starter.
package config
