package machine

// Upvalue represents a variable captured by a closure. It has two states:
//
//   - open: location points into the VM value stack (&th.stack[slot]); the
//     upvalue is threaded into th.openUpvalues, a singly linked list sorted
//     by decreasing stack address, so that closures which capture the same
//     slot share the same Upvalue.
//   - closed: location points at the owned field below, which holds a copy
//     of the value at the moment the slot stopped being live.
type Upvalue struct {
	location *Value
	closed   Value
	slot     int // stack index location points at, while open

	next *Upvalue // intrusive link in Thread.openUpvalues while open
}

var _ Value = (*Upvalue)(nil)

func (u *Upvalue) String() string { return "upvalue" }
func (u *Upvalue) Type() string   { return "upvalue" }

// Get dereferences the upvalue, open or closed.
func (u *Upvalue) Get() Value { return *u.location }

// Set writes through the upvalue, open or closed.
func (u *Upvalue) Set(v Value) { *u.location = v }
