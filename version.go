package fsmview

// Version is the release of the module. Overridden at build time with -ldflags.
var Version = "dev"
