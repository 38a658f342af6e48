package domain

import "context"

// DispatchResult reports the outcome of one outbound webhook call. A
// successful call may still carry no data: the engine is free to process
// asynchronously and call back later.
type DispatchResult struct {
	Success      bool
	Data         *CanonicalPayload
	ErrorKind    DispatchErrorKind
	ErrorMessage string
}

// Err materializes the failure as a DispatchError, or nil on success.
func (r *DispatchResult) Err(job JobName) error {
	if r.Success {
		return nil
	}
	return &DispatchError{Job: job, Kind: r.ErrorKind, Body: r.ErrorMessage}
}

// JobDispatcher performs one fire-and-collect HTTP call per named job.
// Dispatch failures are reported in the result, never as a returned error;
// the error return is reserved for payloads that cannot be encoded.
type JobDispatcher interface {
	Dispatch(ctx context.Context, job JobName, payload any) (*DispatchResult, error)
}
