package server

import (
	"github.com/gyeh/recordstats/internal/dataset"
	"github.com/gyeh/recordstats/internal/table"
)

// Source yields a freshly loaded dataset. The server calls Load on every
// request and keeps nothing between requests.
type Source interface {
	Load() (*dataset.Dataset, error)
}

// DirSource reads the five CSV sources from a directory.
type DirSource struct {
	Dir     string
	Sources dataset.Sources
	Options table.CSVOptions
}

// Load implements Source.
func (s DirSource) Load() (*dataset.Dataset, error) {
	return dataset.Load(s.Dir, s.Sources, s.Options)
}
