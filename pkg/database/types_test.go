package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringArrayScanJSON(t *testing.T) {
	var a StringArray
	require.NoError(t, a.Scan([]byte(`["ink","paper"]`)))
	assert.Equal(t, StringArray{"ink", "paper"}, a)
}

func TestStringArrayScanPostgresFormat(t *testing.T) {
	var a StringArray
	require.NoError(t, a.Scan(`{ink,paper}`))
	assert.Equal(t, StringArray{"ink", "paper"}, a)

	var quoted StringArray
	require.NoError(t, quoted.Scan(`{"oil paint","mixed, media"}`))
	assert.Equal(t, StringArray{"oil paint", "mixed, media"}, quoted)
}

func TestStringArrayScanNil(t *testing.T) {
	a := StringArray{"stale"}
	require.NoError(t, a.Scan(nil))
	assert.Nil(t, a)
}

func TestStringArrayValue(t *testing.T) {
	v, err := StringArray{"ink", "paper"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `["ink","paper"]`, v)

	v, err = StringArray(nil).Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}
