// Package database keeps the run history of the upkeep commands in a SQLite
// file.
//
// Every command run is stored with its start and finish time, status and a
// one-line summary. Patch runs additionally store the track paths that had no
// duration in the mapping, so they can be listed later with
// "upkeep history -missing".
//
// The database uses WAL mode. The schema lives in embedded goose migrations
// (migrations/*.sql) that are applied on open. Queries go through sqlx, and
// every statement is logged at debug level through sqldb-logger.
package database
