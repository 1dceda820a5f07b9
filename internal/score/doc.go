// Package score defines the domain model shared by the extraction, statistics and report
// packages: the configured player roster, per-race score triples and the score columns and
// summary kinds a report is built from.
//
// Every value here is built once per run from the fetched leaderboard and is treated as an
// immutable snapshot afterwards.
package score
