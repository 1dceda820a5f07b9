// Package extractor turns a Guess the Grid leaderboard page into per-race score triples.
//
// Each race section of the page starts with a heading (h3.pull-left) whose id is the race
// key. The heading's grandparent is the race "well" that holds every player's score links:
// for each player the first link is the qualifying prediction and the second the race
// prediction, with the points in a span next to the link. Any deviation from that shape is
// reported as an ExtractionError rather than guessed around.
package extractor
