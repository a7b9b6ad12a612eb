// Package processor runs corpus passes. It lists the tier corpus files,
// locks and loads each one, hands it to the pass, writes it back unless the
// run is a dry run, and finally writes the JSON report and prints the
// summary table. Every corpus subcommand is a pass driven by this package.
package processor
