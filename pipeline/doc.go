// Package pipeline drives videos through the processing lifecycle:
// pending, uploading, transcribing, processing, embedding, completed, with
// failed as the retryable detour.
//
// The StateMachine owns every status write and rejects illegal transitions
// at write time. The Service consumes the two pipeline events on a worker
// pool. The Monitor periodically sweeps for videos stalled past their
// stage timeout and recommends corrective action.
package pipeline
