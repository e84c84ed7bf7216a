// Command upkeep maintains the media assets of the site: video thumbnails,
// the track duration mapping and the durations in the playlist document.
//
// Usage:
//
//	upkeep [-config FILE] <command> [flags]
//
// Commands:
//
//	thumbnails  Write a JPEG thumbnail for every video in VIDEO_DIR that
//	            does not have one yet. A frame is taken one second in, or
//	            from the start when that fails.
//
//	durations   Probe every audio track under TRACKS_DIR and write the
//	            path to "M:SS" mapping to DURATIONS_FILE.
//
//	patch       Rewrite the duration of every track entry in PLAYLIST_FILE
//	            from DURATIONS_FILE. With -dry-run the document is not
//	            written.
//
//	history     List recent runs, optionally only those of -command NAME.
//	            With -missing, list the tracks the last patch run had no
//	            duration for.
//
//	version     Print build information.
//
// Configuration is read from the YAML file given with -config (or
// UPKEEP_CONFIG) and the environment; run "upkeep help" for the full list of
// variables.
package main
