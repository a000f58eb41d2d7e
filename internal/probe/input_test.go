package probe

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInput(t *testing.T) {
	in, err := ParseInput(json.RawMessage(`"example.com\n\n  golang.org  \n"`))
	require.NoError(t, err)
	assert.Equal(t, RawText, in.Kind)
	assert.Equal(t, []string{"example.com", "golang.org"}, in.Domains())

	in, err = ParseInput(json.RawMessage(`["a.com","a.com"]`))
	require.NoError(t, err)
	assert.Equal(t, StructuredList, in.Kind)
	assert.Equal(t, []string{"a.com", "a.com"}, in.Domains())

	for _, raw := range []string{``, `null`, `""`, `"  \n "`, `[]`} {
		_, err := ParseInput(json.RawMessage(raw))
		assert.ErrorIs(t, err, ErrNoDomains, "input %q", raw)
	}
	for _, raw := range []string{`42`, `{"a":1}`, `[1,2]`, `true`} {
		_, err := ParseInput(json.RawMessage(raw))
		assert.ErrorIs(t, err, ErrInvalidInput, "input %q", raw)
	}
}

func TestInputMarshalJSON(t *testing.T) {
	data, err := json.Marshal(map[string]Input{"domains": ListInput([]string{"a.com"})})
	require.NoError(t, err)
	assert.JSONEq(t, `{"domains":["a.com"]}`, string(data))

	data, err = json.Marshal(TextInput("a.com\nb.com"))
	require.NoError(t, err)
	assert.JSONEq(t, `"a.com\nb.com"`, string(data))
}
