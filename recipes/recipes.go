// Package recipes embeds the recipes shipped with the binary.
package recipes

import _ "embed"

// IPCFile is the file name reported for the embedded ipc recipe.
const IPCFile = "ipc.recipe.hcl"

// IPC is the source of the ipc recipe.
//
//go:embed ipc.recipe.hcl
var IPC []byte
