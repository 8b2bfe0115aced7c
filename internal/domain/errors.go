package domain

import "errors"

// Error classes surfaced by the pipeline. Stages wrap one of these with
// context, so callers match with errors.Is.
var (
	// ErrFile reports a missing or unreadable input file.
	ErrFile = errors.New("file error")
	// ErrParse reports input that is not valid delimited text.
	ErrParse = errors.New("parse error")
	// ErrSchema reports a required column that is absent or has the wrong kind.
	ErrSchema = errors.New("schema error")
	// ErrIO reports an output path that cannot be created or written.
	ErrIO = errors.New("io error")
	// ErrNoData reports a chart or aggregate with nothing to show.
	ErrNoData = errors.New("no data")
)
