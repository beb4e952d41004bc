// Package models defines the entities shared by the tubelist client and companion server.
//
// The package contains two categories of types:
//
// 1. Playlist data, exchanged verbatim between the client cache, the server and exports
//   - [Playlist] : a named, ordered collection of videos owned by one user
//   - [Video] : a streamed video or an uploaded audio file with a 1-10 rating
//
// 2. Identity and adapter payloads
//   - [User] : public profile, [Account] : server-side profile plus password hash
//   - [Session] : the signed-in user and bearer token passed to every client operation
//   - [SearchResult] : a candidate video from the search adapter
//   - [UploadResult] : the server location of an uploaded audio file
//
// JSON field names match the wire format used by the companion server.
package models
