package tomecat

import "time"

// IncomingFile is a manually uploaded file awaiting catalog insertion.
type IncomingFile struct {
	Name    string
	Data    []byte
	Size    int64
	ModTime time.Time
}

// ConflictRecord is a pending decision about an uploaded file that appears
// to duplicate an existing catalog item. Records live only in memory and
// are discarded once resolved.
type ConflictRecord struct {
	Incoming       IncomingFile
	Existing       *Item
	TargetCategory string
}

// Decision resolves a conflict record.
type Decision int

// Conflict decisions.
const (
	// DecisionReplace deletes the existing item and inserts the incoming
	// file in its place.
	DecisionReplace Decision = iota

	// DecisionKeepBoth inserts the incoming file under a disambiguated
	// title, leaving the existing item untouched.
	DecisionKeepBoth

	// DecisionSkip drops the incoming file.
	DecisionSkip
)
