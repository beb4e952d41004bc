// Package repositories implements the client's SQLite-backed local cache.
//
// Key Implementations:
//   - [PlaylistCacheRepository] : one JSON document of playlists per username
//   - [LocalCache] : the never-failing cache adapter used by the sync coordinator
//   - [SessionRepository] : the single signed-in session of this device
//   - [SearchHistoryRepository] : recent search queries per user
//
// Schema is owned by the embedded migrations in the shared package.
package repositories
