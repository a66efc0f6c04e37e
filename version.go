package lox

// Version of the interpreter; overridable at build time with
// -ldflags "-X github.com/DhruvPatel01/lox-rocks.Version=...".
var Version = "0.3.0"
