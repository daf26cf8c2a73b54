package summarizer

import "errors"

// ErrSummaryNotFound is returned by repositories when a record is absent
// under the requesting owner.
var ErrSummaryNotFound = errors.New("summary not found")
