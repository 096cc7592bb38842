// Package utils provides small shared helpers, currently the per-platform
// browser launcher.
package utils
