// Package dataset locates, parses and caches the per-country solar
// measurement files.
//
// The Registry fixes the countries the dashboard knows about and how their
// files are named. The Loader turns one CSV or XLSX file into a
// domain.Frame. The Store resolves files on disk, memoizes parsed frames in
// an expiring LRU keyed by file modification time, and loads several
// countries concurrently.
//
// Frames returned by the Store are shared with the cache and must be
// treated as read-only.
package dataset
