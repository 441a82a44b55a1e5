/*
Package gbavid converts video into a frame container that a Game Boy Advance
can decode and play back.
*/
package gbavid

import "github.com/hashicorp/go-hclog"

// Converter runs conversions, optionally recording each one in a StatsDB.
type Converter struct {
	stats  *StatsDB
	logger hclog.Logger
}

// New returns a Converter. stats may be nil.
func New(stats *StatsDB, logger hclog.Logger) *Converter {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Converter{
		stats:  stats,
		logger: logger,
	}
}
