package shortlist

import (
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/leapstack-labs/shortlist/internal/filter"
)

const (
	sessionName  = "shortlist"
	keyFilters   = "filters"
	keyRunID     = "run_id"
	keyLeadCount = "lead_count"
)

// LastShortlist is the most recent allowed submission of a browser session.
type LastShortlist struct {
	Filters   filter.Snapshot
	RunID     string
	LeadCount int
}

// loadLastShortlist reads the saved shortlist. A missing or unreadable cookie
// yields ok=false.
func loadLastShortlist(store sessions.Store, r *http.Request) (LastShortlist, bool) {
	if store == nil {
		return LastShortlist{}, false
	}
	session, err := store.Get(r, sessionName)
	if err != nil {
		return LastShortlist{}, false
	}
	query, ok := session.Values[keyFilters].(string)
	if !ok {
		return LastShortlist{}, false
	}
	filters, err := filter.ParseQuery(query)
	if err != nil {
		return LastShortlist{}, false
	}
	last := LastShortlist{Filters: filters}
	last.RunID, _ = session.Values[keyRunID].(string)
	last.LeadCount, _ = session.Values[keyLeadCount].(int)
	return last, true
}

// saveLastShortlist stores last in the session cookie. Must run before the
// response headers are written.
func saveLastShortlist(store sessions.Store, w http.ResponseWriter, r *http.Request, last LastShortlist) error {
	if store == nil {
		return nil
	}
	// A cookie that fails to decode still yields a fresh session to overwrite.
	session, _ := store.Get(r, sessionName)
	session.Values[keyFilters] = last.Filters.Values().Encode()
	session.Values[keyRunID] = last.RunID
	session.Values[keyLeadCount] = last.LeadCount
	return session.Save(r, w)
}

// clearLastShortlist drops the saved shortlist.
func clearLastShortlist(store sessions.Store, w http.ResponseWriter, r *http.Request) error {
	if store == nil {
		return nil
	}
	session, _ := store.Get(r, sessionName)
	delete(session.Values, keyFilters)
	delete(session.Values, keyRunID)
	delete(session.Values, keyLeadCount)
	return session.Save(r, w)
}
