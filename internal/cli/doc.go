// Package cli implements the gtg-stats command-line interface.
//
// The cli package provides the Cobra root command, applies flag overrides on top of the
// loaded configuration and runs the report pipeline: fetch the leaderboard, extract the
// scores, summarize them and write the HTML report. It finishes by printing the season
// standings (text or JSON) and maps pipeline failures onto distinct exit codes.
package cli
