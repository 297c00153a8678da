// Package models defines domain entities and persistence interfaces for vidx.
//
// The package contains two categories of types:
//
// 1. Value records built at the API and file boundaries:
//   - [Track] : a favorited track read from the local library
//   - [Library] : the flat track list plus the ordered unique artist set
//   - [Artist] and [Video] : TIDAL entities, reduced to plain values
//   - [VideoRecord] and [OutputDocument] : the serialized result of a fetch
//   - [Session] : the cached OAuth session
//
// 2. Persistent entities: Database-backed models
//   - [FetchRun] : a summary row per completed fetch
//
// Persistent entities implement the [Model] interface, and the [Repository] interface defines standard CRUD operations.
package models
