/*
Package filesystem wraps the few filesystem operations the upkeep commands
need with retry logic for NFS stale file handle errors.

Media libraries often live on NFS mounts, where ESTALE (errno 116) shows up
after server-side changes. Only ESTALE triggers a retry; every other error is
returned immediately.

	data, err := filesystem.ReadFileWithRetry(path, filesystem.DefaultRetryConfig())

Retry defaults:
  - MaxRetries: 3 attempts
  - InitialBackoff: 50ms
  - MaxBackoff: 500ms

WriteFileAtomic replaces a file through a temporary sibling and a rename, so
a playlist document is never left half written.
*/
package filesystem
