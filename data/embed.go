// Package data embeds the bundled world script.
package data

import "embed"

// Name is the bundled world script's file name within FS.
const Name = "labyrinth.lua"

// FS holds the bundled world script.
//
//go:embed labyrinth.lua
var FS embed.FS
