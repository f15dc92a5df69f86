package core

import (
	"errors"
	"fmt"
)

// ErrNoData means the retrieval corpus is empty. It is a deployment fault:
// nothing was ingested, or the wrong database is configured.
var ErrNoData = errors.New("no embeddings found in database")

// UpstreamError wraps a failure talking to the embedding or completion provider.
type UpstreamError struct {
	Op  string // "embeddings" or "chat completion"
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s request failed: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
