package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagListAcceptsArrayAndCommaString(t *testing.T) {
	var fromArray CreatePostRequest
	require.NoError(t, json.Unmarshal([]byte(`{"tags":["ai"," roi ",""]}`), &fromArray))
	assert.Equal(t, []string{"ai", "roi"}, fromArray.Tags.Normalize())

	var fromString CreatePostRequest
	require.NoError(t, json.Unmarshal([]byte(`{"tags":"governance, risk ,,audit"}`), &fromString))
	assert.Equal(t, []string{"governance", "risk", "audit"}, fromString.Tags.Normalize())

	var missing CreatePostRequest
	require.NoError(t, json.Unmarshal([]byte(`{"tags":null}`), &missing))
	assert.Empty(t, missing.Tags.Normalize())

	var bad CreatePostRequest
	assert.Error(t, json.Unmarshal([]byte(`{"tags":42}`), &bad))
}
