// Package models holds the domain types shared across the client.
//
// [Song] and [Profile] mirror the wire representation of the SyncUp API
// (Spanish JSON keys, English field names). [CachedSong] adds the local
// persistence envelope used by the SQLite catalog cache, implementing the
// [Model] interface consumed by [Repository] implementations.
package models
