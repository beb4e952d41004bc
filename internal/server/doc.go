// Package server implements the companion server that stores accounts, playlists and
// uploaded audio for tubelist clients.
//
// # Routes
//
// The [Server] mounts a chi router:
//
//	GET  /health
//	POST /api/register            create an account, returns a session token
//	POST /api/login               exchange credentials for a session token
//	POST /api/logout
//	GET  /api/users               public profiles only
//	GET  /api/playlists/{username}
//	PUT  /api/playlists/{username} replace-all, POST is accepted as an alias
//	POST /api/upload              multipart field "file", MP3 only
//	GET  /mp3/*                   uploaded files
//
// Playlist and upload routes require an HS256 bearer token. Playlist routes also
// require the token subject to match {username}.
//
// # Storage
//
// Accounts and playlists live behind [Store]. [FileStore] keeps users.json plus one
// JSON document per user and replaces files atomically. [RedisStore] keeps accounts
// in a hash and each user's playlists under its own key.
//
// # Middleware
//
// Every request passes through chi's RequestID, RealIP and Recoverer middleware and
// a [RequestLogger] that writes one structured line per request.
package server
