package services

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationErrorsMarshalPreservesOrder(t *testing.T) {
	verrs := ValidationErrors{
		{Field: "username", Message: "Username cannot be null"},
		{Field: "email", Message: "Email is not valid"},
		{Field: "password", Message: "Password cannot be null"},
	}

	data, err := json.Marshal(verrs)
	require.NoError(t, err)

	assert.Equal(t,
		`{"username":"Username cannot be null","email":"Email is not valid","password":"Password cannot be null"}`,
		string(data))
}

func TestValidationErrorsMarshalEmpty(t *testing.T) {
	data, err := json.Marshal(ValidationErrors{})
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(data))
}

func TestValidationErrorsMarshalEscapesValues(t *testing.T) {
	verrs := ValidationErrors{{Field: "username", Message: `needs "quotes"`}}

	data, err := json.Marshal(verrs)
	require.NoError(t, err)

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, `needs "quotes"`, decoded["username"])
}
