// Package cli provides the root command, the shared flag groups and the
// configuration handling of drillmaster. Config values come from
// $HOME/.drillmaster.yaml or ./.drillmaster.yaml and DRILLMASTER_* variables
// and only fill flags that were not given on the command line.
package cli
