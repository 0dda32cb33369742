package usecase

// Registry maps a connection ID to the match it currently plays in. It only holds the lookup
// relation; the session state belongs to the match.
type Registry struct {
	byConn map[string]*Match
	count  int
}

func NewRegistry() *Registry {
	return &Registry{byConn: make(map[string]*Match)}
}

func (that *Registry) Add(match *Match) {
	for _, connID := range match.ConnIDs() {
		that.byConn[connID] = match
	}
	that.count++
}

func (that *Registry) Get(connID string) (*Match, bool) {
	match, ok := that.byConn[connID]
	return match, ok
}

// Remove deletes both keys of the match. Removing a match twice is a no-op.
func (that *Registry) Remove(match *Match) bool {
	removed := false

	for _, connID := range match.ConnIDs() {
		if current, ok := that.byConn[connID]; ok && current == match {
			delete(that.byConn, connID)
			removed = true
		}
	}

	if removed {
		that.count--
	}

	return removed
}

// Len returns the number of live matches.
func (that *Registry) Len() int {
	return that.count
}
