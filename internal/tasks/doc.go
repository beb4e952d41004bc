// Package tasks keeps a user's playlists consistent between the local cache and the companion server.
//
// # Consistency Policy
//
// The [Coordinator] treats the server as authoritative for reads and the local cache
// as guaranteed for writes:
//
//  1. [Coordinator.Load] : remote-preferred read
//     - One attempt against the server, no retry
//     - On success the cache is overwritten with the server's copy
//     - On failure the last cached copy (possibly empty) is returned and the failure is logged
//
//  2. [Coordinator.Save] : cache-first dual write
//     - The cache is written before the network is touched, unconditionally
//     - The server write is best effort; false means "the server may be stale", not "nothing was saved"
//
// All calls for one username are serialized, so a later save is never overtaken by
// an earlier one and a load never interleaves with a read-modify-write.
//
// # Library Operations
//
// [Library] runs each user-facing mutation as load → mutate → save on a fresh copy
// and returns a [Result] holding the authoritative collection. Views must be
// re-derived from that result, never from a previously rendered list.
//
// # Bulk Export
//
// [Library.BulkExport] writes every playlist to disk with a worker pool. Thumbnail
// downloads are throttled with a token bucket, and progress is reported over a
// non-blocking channel of [ProgressUpdate].
package tasks
