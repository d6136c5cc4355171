package config

import "sync/atomic"

// Store publishes the current settings to concurrent readers.
type Store struct {
	cur atomic.Pointer[Settings]
}

func NewStore(s Settings) *Store {
	st := &Store{}
	st.Set(s)
	return st
}

// Snapshot returns a private copy of the current settings.
func (st *Store) Snapshot() Settings {
	p := st.cur.Load()
	if p == nil {
		return Default()
	}
	return p.Clone()
}

// Set replaces the settings; in-flight readers keep their snapshots.
func (st *Store) Set(s Settings) {
	c := s.Clone()
	st.cur.Store(&c)
}

// Update applies fn to a copy of the current settings and publishes it.
func (st *Store) Update(fn func(*Settings)) {
	for {
		old := st.cur.Load()
		var next Settings
		if old == nil {
			next = Default()
		} else {
			next = old.Clone()
		}
		fn(&next)
		if st.cur.CompareAndSwap(old, &next) {
			return
		}
	}
}
