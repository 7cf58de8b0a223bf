package rotate

// CtlT coalesces asynchronous rotation requests down to at most one
// pending. A request only marks state; all flush and reopen I/O runs on
// the session loop at a safe point between records.
type CtlT struct {
	pending chan struct{}
}

func NewCtl() *CtlT {
	return &CtlT{
		pending: make(chan struct{}, 1),
	}
}

// Request marks a rotation pending. Requests arriving before the next
// Pending observation coalesce into one.
func (c *CtlT) Request() {
	select {
	case c.pending <- struct{}{}:
	default:
	}
}

// Pending consumes and reports a pending request.
func (c *CtlT) Pending() bool {
	select {
	case <-c.pending:
		return true
	default:
		return false
	}
}
