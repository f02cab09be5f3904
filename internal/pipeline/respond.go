package pipeline

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
)

// responder enforces the single-response invariant: three listeners (stream
// error, normal end of stream, client disconnect) race to terminate a
// request, and at most one of them may produce a client-visible response.
// The state cell transitions once from pending to sent; later attempts are
// no-ops.
type responder struct {
	w    http.ResponseWriter
	sent atomic.Bool
}

func newResponder(w http.ResponseWriter) *responder {
	return &responder{w: w}
}

// markSent claims the response slot without writing anything. The streaming
// path calls this right before writing headers.
func (r *responder) markSent() bool {
	return r.sent.CompareAndSwap(false, true)
}

// fail sends a JSON error body if and only if no response has been sent
// yet. Returns whether this call won the transition.
func (r *responder) fail(status int, message string) bool {
	if !r.sent.CompareAndSwap(false, true) {
		return false
	}
	r.w.Header().Set("Content-Type", "application/json")
	r.w.WriteHeader(status)
	_ = json.NewEncoder(r.w).Encode(map[string]string{"message": message})
	return true
}
