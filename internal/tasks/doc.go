// Package tasks implements the video fetch pipeline.
//
// # Strategies
//
// Two independent strategies discover videos through a [services.VideoProvider]:
//
//   - Track matching ([VideoEngine.MatchTrack]): searches "<title> <artist>" for every favorited
//     track and keeps the candidates whose artist name contains, or is contained in, the track's
//     artist (case-insensitive). When none match, the top-ranked candidate is kept.
//   - Artist sweep ([VideoEngine.SweepArtist]): resolves every unique artist name to a catalogue
//     artist, preferring an exact case-insensitive name match, and lists that artist's videos.
//
// Each strategy returns an [ItemResult] per track or artist. A provider failure is carried in the
// result and counted as zero videos; it never stops the run.
//
// # Deduplication
//
// Both phases feed one [Accumulator], all tracks before any artist. The accumulator keeps the first
// occurrence of every video id and drops later ones, so the output order is phase-1 discovery
// order followed by phase-2 discovery order.
//
// # Progress
//
// [VideoEngine.Run] emits [ProgressUpdate] values on an optional channel. Each send waits for the
// reader and gives up only when the context is cancelled.
package tasks
