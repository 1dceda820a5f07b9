// Package fetcher keeps a local copy of a season's leaderboard page.
//
// Copies live in a cache directory, one file per (URL, season) pair, so a copy downloaded
// for one season is never mistaken for another. A copy is downloaded when missing and
// refreshed when it was last written on another calendar day than today.
// A failed download is not fatal as long as an older copy exists.
package fetcher
