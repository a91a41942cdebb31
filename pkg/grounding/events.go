package grounding

import "sync"

// EventKind enumerates the event set the grounder supports; atom
// activation is the only event kind the grounding pipeline reacts to.
type EventKind int

const (
	// AtomActivated fires when a previously inactive atom becomes active.
	AtomActivated EventKind = iota
)

// ActivationHandler is invoked by the EventBus when a registered atom
// activation event fires. Implementations (RuleKernel.onAtomActivated) must
// not be re-entered concurrently for the same kernel; the bus guarantees
// this by serializing dispatch per registration.
type ActivationHandler func(a *GroundAtom)

// registrationToken is the identity handle returned by Register and
// consumed by Unregister.
type registrationToken struct {
	kind    EventKind
	handler ActivationHandler
}

// EventBus is a minimal in-process event framework: a registration table
// plus serialized delivery of atom-activation events.
// Each registration is dispatched on its own mutex so that one kernel's
// slow handler does not block delivery to unrelated kernels, while still
// guaranteeing a single kernel's handler is never re-entered.
type EventBus struct {
	mu   sync.RWMutex
	regs map[*registrationToken]*sync.Mutex
}

// NewEventBus constructs an empty event bus.
func NewEventBus() *EventBus {
	return &EventBus{regs: make(map[*registrationToken]*sync.Mutex)}
}

// Register subscribes handler to events of kind, returning a token that
// identifies this subscription for later Unregister calls. The clause
// parameter is accepted so registration carries the formula it serves,
// mirroring the register-formula-for-events shape; the bus itself
// is clause-agnostic and only dispatches raw activations, since filtering
// by which literal positions a clause cares about is the kernel's own
// TraceAssignments logic (query.go), not the bus's concern.
func (b *EventBus) Register(_ *DNFClause, handler ActivationHandler, kind EventKind) *registrationToken {
	tok := &registrationToken{kind: kind, handler: handler}
	b.mu.Lock()
	b.regs[tok] = &sync.Mutex{}
	b.mu.Unlock()
	return tok
}

// Unregister removes a subscription. It is a no-op if tok is unknown,
// which makes it safe to call during shutdown races.
func (b *EventBus) Unregister(tok *registrationToken) {
	b.mu.Lock()
	delete(b.regs, tok)
	b.mu.Unlock()
}

// Publish delivers an AtomActivated event for a to every registration of
// that kind. Each registration's handler runs serialized with respect to
// itself (via its own per-registration mutex) but concurrently with other
// registrations' handlers.
func (b *EventBus) Publish(kind EventKind, a *GroundAtom) {
	b.mu.RLock()
	type fire struct {
		tok *registrationToken
		mu  *sync.Mutex
	}
	var targets []fire
	for tok, mu := range b.regs {
		if tok.kind == kind {
			targets = append(targets, fire{tok, mu})
		}
	}
	b.mu.RUnlock()

	for _, t := range targets {
		t.mu.Lock()
		t.tok.handler(a)
		t.mu.Unlock()
	}
}
