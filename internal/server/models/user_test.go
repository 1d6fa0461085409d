package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRecord_JSONShape(t *testing.T) {
	b, err := json.Marshal(UserRecord{Username: "alice", PasswordHash: "abc"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"password":"abc","default_city":null}`, string(b))

	b, err = json.Marshal(UserRecord{PasswordHash: "abc", DefaultCity: StringPtr("Pune")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"password":"abc","default_city":"Pune"}`, string(b))
}

func TestUserRecord_City(t *testing.T) {
	assert.Equal(t, "", UserRecord{}.City())
	assert.Equal(t, "Pune", UserRecord{DefaultCity: StringPtr("Pune")}.City())
}

func TestUserStore_CloneIsDeep(t *testing.T) {
	s := UserStore{"alice": {PasswordHash: "h", DefaultCity: StringPtr("Pune")}}
	c := s.Clone()

	*c["alice"].DefaultCity = "Nashik"
	assert.Equal(t, "Pune", s["alice"].City())
	assert.Equal(t, "Nashik", c["alice"].City())
}
