// Package config loads space definitions from JSON files on disk.
//
// The config package backs the presence server's local mode, where no
// platform map service is available. Each file in the configured directory
// describes one space:
//
//	{
//	  "name": "Lobby",
//	  "layout": [
//	    "..........",
//	    "..####....",
//	    "..........",
//	    ".....s...."
//	  ],
//	  "legend": {".": "floor", "#": "blocked", "s": "spawn"}
//	}
//
// Layout rows must all have the same width. The spawn cell is either the
// cell marked "spawn" in the layout, the explicit "spawn" field, or the
// first unblocked cell scanning row-major.
//
// Manager caches parsed spaces behind a read-write mutex and implements
// platform.SpaceLoader, so it can be handed to the room registry directly.
// Space ids are file names without the .json extension.
package config
