// Package utils holds small internal helpers shared by provider
// implementations: a generic JSON POST with span instrumentation and a
// logging resource closer. Nothing here is part of the public API.
package utils
