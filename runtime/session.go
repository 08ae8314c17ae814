package runtime

import "github.com/pithecene-io/cdxq/types"

// Session is the explicit mutable holder of query-run state owned by the
// caller of the orchestrator: the active configuration, the latest completed
// batch, and whether a run has happened. Created per CLI invocation or
// interactive session; replaced wholesale on Clear, never a hidden global.
type Session struct {
	config *types.QueryConfig
	batch  *types.ResultBatch
	ran    bool
}

// NewSession creates an empty session.
func NewSession() *Session {
	return &Session{}
}

// Begin records the configuration for a new run and discards any previous
// batch. The batch itself is attached by Complete once the run finishes.
func (s *Session) Begin(cfg *types.QueryConfig) {
	s.config = cfg
	s.batch = nil
	s.ran = false
}

// Complete attaches a finished batch to the session.
func (s *Session) Complete(batch *types.ResultBatch) {
	s.batch = batch
	s.ran = true
}

// Clear resets the session to its initial empty state.
func (s *Session) Clear() {
	s.config = nil
	s.batch = nil
	s.ran = false
}

// Config returns the active query configuration, nil before Begin.
func (s *Session) Config() *types.QueryConfig {
	return s.config
}

// Batch returns the latest completed batch, nil before Complete.
func (s *Session) Batch() *types.ResultBatch {
	return s.batch
}

// Ran reports whether the session holds a completed run.
func (s *Session) Ran() bool {
	return s.ran
}
