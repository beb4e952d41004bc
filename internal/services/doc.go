// Package services implements the client side of every network collaborator.
//
// # Remote Playlist Store
//
// [RemoteService] talks HTTP/JSON to the companion server. It registers and logs in
// users, fetches and replaces a user's full playlist collection, and uploads audio.
// Every authenticated call sends the session token as a bearer token.
//
// # Search Adapter
//
// [YouTubeService] queries the YouTube Data API (search.list followed by videos.list)
// with an API key. Calls are throttled with a token bucket.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrServiceUnavailable] : the server could not be reached
//   - [shared.ErrAPIRequest] : the server answered with a non-2xx status
//   - [shared.ErrNotAuthenticated] : the server rejected the session token
//   - [shared.ErrInvalidInput] : a request was rejected before being sent
//
// Callers in the sync layer treat the first two as "remote unavailable".
package services
