// Package durations walks an audio track tree and records the playing time
// of each track as "M:SS", keyed by its slash-separated path relative to the
// tree root. The result is written as the JSON Duration Mapping consumed by
// the playlist patcher.
//
// Durations are read with ffprobe; tracks ffprobe cannot read are reported
// as skipped rather than failing the scan.
package durations
