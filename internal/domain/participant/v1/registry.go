package participantv1

// Participant is one registered trader: identity, liveness, the count of its
// accepted orders (which drives order-id validation), and its session.
type Participant struct {
	ID       int
	Alive    bool
	Accepted int
	Session  Session
}

// Registry holds every participant for the process lifetime. Participant ids
// are assigned densely in registration order, mirroring the bootstrap's
// connection order.
type Registry struct {
	participants []*Participant
	live         int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add registers a participant for the session and returns it alive.
func (r *Registry) Add(session Session) *Participant {
	p := &Participant{
		ID:      len(r.participants),
		Alive:   true,
		Session: session,
	}
	r.participants = append(r.participants, p)
	r.live++
	return p
}

// Get returns the participant with the given id.
func (r *Registry) Get(id int) (*Participant, bool) {
	if id < 0 || id >= len(r.participants) {
		return nil, false
	}
	return r.participants[id], true
}

// Len returns the number of registered participants.
func (r *Registry) Len() int {
	return len(r.participants)
}

// Live returns the number of participants still alive.
func (r *Registry) Live() int {
	return r.live
}

// MarkDead transitions the participant Alive to Dead. The transition happens
// at most once; repeated calls report false and do not touch the live count.
func (r *Registry) MarkDead(id int) bool {
	p, ok := r.Get(id)
	if !ok || !p.Alive {
		return false
	}
	p.Alive = false
	r.live--
	return true
}

// Each calls fn for every registered participant in id order.
func (r *Registry) Each(fn func(*Participant)) {
	for _, p := range r.participants {
		fn(p)
	}
}
