package users_test

import (
	"encoding/json"
	"testing"

	"github.com/jrsteele09/go-skillgap-client/users"
	"github.com/stretchr/testify/require"
)

func TestExperienceLevelValidity(t *testing.T) {
	for _, level := range users.ExperienceLevels {
		require.True(t, level.Valid(), "expected %q to be valid", level)
	}
	require.True(t, users.ExperienceLevel("").Valid())
	require.False(t, users.ExperienceLevel("Senior").Valid())
}

func TestProfileUpdateEmpty(t *testing.T) {
	require.True(t, users.ProfileUpdate{}.Empty())

	name := "John Doe"
	require.False(t, users.ProfileUpdate{FullName: &name}.Empty())
}

func TestProfileUpdateOmitsUnsetFields(t *testing.T) {
	skills := []string{"Go"}
	patch := users.ProfileUpdate{Skills: &skills}

	raw, err := json.Marshal(patch)
	require.NoError(t, err)
	require.JSONEq(t, `{"skills":["Go"]}`, string(raw))
}
