// Package loader tracks the lifecycle of an asynchronous catalog
// acquisition: Idle, Loading, then Succeeded or Failed.
//
// A Controller is not safe for concurrent use; its owner serializes access
// (the quiz and simulation engines hold their own mutex around it).
package loader

// Status is the load lifecycle state.
type Status int

const (
	Idle Status = iota
	Loading
	Succeeded
	Failed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Ticket identifies one Begin call.
type Ticket uint64

// Controller holds the lifecycle state of one engine.
//
// Without fencing every resolution is applied, so when two loads overlap the
// one that resolves last wins regardless of call order. WithFencing makes
// resolutions from a superseded ticket no-ops. Tickets issued before a Reset
// are always rejected.
type Controller struct {
	status Status
	err    string
	latest Ticket
	epoch  Ticket
	fence  bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithFencing rejects resolutions whose ticket was superseded by a later
// Begin or Reset.
func WithFencing() Option {
	return func(c *Controller) { c.fence = true }
}

// New creates an Idle controller.
func New(opts ...Option) *Controller {
	c := &Controller{}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Status returns the current lifecycle state.
func (c *Controller) Status() Status {
	return c.status
}

// Err returns the failure message, empty unless Failed.
func (c *Controller) Err() string {
	return c.err
}

// Fenced reports whether stale resolutions are rejected.
func (c *Controller) Fenced() bool {
	return c.fence
}

// Begin moves to Loading with the error cleared.
func (c *Controller) Begin() Ticket {
	c.latest++
	c.status = Loading
	c.err = ""
	return c.latest
}

// Succeed records a successful resolution. It returns false when the
// resolution was rejected and the caller must not apply its result.
func (c *Controller) Succeed(t Ticket) bool {
	if !c.accept(t) {
		return false
	}
	c.status = Succeeded
	c.err = ""
	return true
}

// Fail records a failed resolution with msg. Same return contract as Succeed.
func (c *Controller) Fail(t Ticket, msg string) bool {
	if !c.accept(t) {
		return false
	}
	c.status = Failed
	c.err = msg
	return true
}

// Reset returns to Idle unconditionally and invalidates every outstanding
// ticket, fenced or not.
func (c *Controller) Reset() {
	c.latest++
	c.epoch = c.latest
	c.status = Idle
	c.err = ""
}

func (c *Controller) accept(t Ticket) bool {
	if t <= c.epoch {
		return false
	}
	return !c.fence || t == c.latest
}
