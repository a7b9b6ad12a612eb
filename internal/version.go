// Package internal holds build information shared by the drillmaster packages.
package internal

// Version is the drillmaster release, overridden at build time with
// -ldflags "-X codeberg.org/snonux/drillmaster/internal.Version=..."
var Version = "0.4.0"
