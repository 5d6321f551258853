package pptdom

import "fmt"

// Version information for the pptdom library.
const (
	VersionMajor = 0
	VersionMinor = 3
	VersionPatch = 0
)

// Version is the full version string of the pptdom library.
var Version = fmt.Sprintf("%d.%d.%d", VersionMajor, VersionMinor, VersionPatch)
