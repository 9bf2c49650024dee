// Package persist stores signal snapshots outside the process.
//
// A Store is a flat key/value space of byte slices. Bind connects a
// signal to a key: the stored snapshot, if any, becomes the signal's value
// and every later notification writes a fresh JSON snapshot back. Signals
// know nothing about persistence; a failing store never affects the
// signal.
//
// Backends:
//   - MemoryStore keeps values in process (github.com/patrickmn/go-cache)
//   - SQLiteStore keeps values in a single SQLite table (modernc.org/sqlite)
//   - S3Store keeps one object per key in a bucket (aws-sdk-go-v2)
package persist
