package types

// Version is the current application version
var Version = "0.1.0"
