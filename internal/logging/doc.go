// Package logging provides leveled logging for the upkeep commands.
//
// Levels, lowest first: DEBUG, INFO, WARN, ERROR. FATAL always prints and
// exits. The level comes from LOG_LEVEL (debug, info, warn, error) unless
// DEBUG is set to a truthy value. Diagnostics go to stderr so that command
// reports written to stdout stay clean.
package logging
