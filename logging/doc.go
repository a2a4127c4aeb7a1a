// Package logging wraps zap into the small leveled-logger shape the rest
// of this module depends on, so packages like grammar and terminal can
// accept a narrow interface instead of importing zap directly.
package logging
