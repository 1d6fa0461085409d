// Package models defines the data shapes persisted in the flat JSON documents
// and exchanged with external providers.
package models

// UserRecord is one entry of the user document.
//
// On disk the username is the map key and the value is
// {"password": "<digest>", "default_city": "<city>"|null}.
type UserRecord struct {
	Username     string  `json:"-"`
	PasswordHash string  `json:"password"`
	DefaultCity  *string `json:"default_city"`
}

// City returns the default city or "" when none is stored.
func (u UserRecord) City() string {
	if u.DefaultCity == nil {
		return ""
	}
	return *u.DefaultCity
}

// UserStore maps username to record. It is loaded and saved as one document.
type UserStore map[string]UserRecord

// Clone returns a copy that shares no pointers with s.
func (s UserStore) Clone() UserStore {
	out := make(UserStore, len(s))
	for name, rec := range s {
		if rec.DefaultCity != nil {
			city := *rec.DefaultCity
			rec.DefaultCity = &city
		}
		out[name] = rec
	}
	return out
}

// StringPtr is a small helper for building records with a default city.
func StringPtr(s string) *string { return &s }
