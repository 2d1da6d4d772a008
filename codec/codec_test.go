package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByName(t *testing.T) {
	for _, name := range []string{"json", "go-json"} {
		c, err := ByName(name)
		require.NoError(t, err)
		assert.Equal(t, name, c.Name())
	}

	c, err := ByName("")
	require.NoError(t, err)
	assert.Equal(t, Default.Name(), c.Name())

	_, err = ByName("msgpack")
	assert.Error(t, err)
}

func TestCodecsInteroperate(t *testing.T) {
	in := makeBenchFooter(2, 3)

	data, err := GoJSON{}.Marshal(in)
	require.NoError(t, err)

	var out benchFooter
	require.NoError(t, JSON{}.Unmarshal(data, &out))
	assert.Equal(t, in, out)

	data, err = JSON{}.Marshal(in)
	require.NoError(t, err)

	out = benchFooter{}
	require.NoError(t, GoJSON{}.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestUnmarshalError(t *testing.T) {
	var out benchFooter
	assert.Error(t, GoJSON{}.Unmarshal([]byte("{"), &out))
	assert.Error(t, JSON{}.Unmarshal([]byte("{"), &out))
}
