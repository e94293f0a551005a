package frontmatter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	raw, body, ok, err := Split([]byte("# Title\n"))
	require.NoError(t, err)
	require.False(t, ok)
	require.Nil(t, raw)
	require.Equal(t, "# Title\n", string(body))

	raw, body, ok, err = Split([]byte("---\ntitle: x\n---\n# Title\n"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "title: x\n", string(raw))
	require.Equal(t, "# Title\n", string(body))

	raw, body, ok, err = Split([]byte("---\r\ntitle: x\r\n---\r\nbody\r\n"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "title: x\r\n", string(raw))
	require.Equal(t, "body\r\n", string(body))

	raw, body, ok, err = Split([]byte("---\n---\nbody"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Empty(t, raw)
	require.Equal(t, "body", string(body))

	_, _, _, err = Split([]byte("---\ntitle: x\nbody\n"))
	require.ErrorIs(t, err, ErrMissingClosingDelimiter)
}

func TestJoinAndParse(t *testing.T) {
	doc, err := Join(map[string]any{"title": "src/a.ts", "source": "src/a.ts", "weight": 2}, []byte("body\n"))
	require.NoError(t, err)
	require.Equal(t, "---\nsource: src/a.ts\ntitle: src/a.ts\nweight: 2\n---\nbody\n", string(doc))

	raw, body, ok, err := Split(doc)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "body\n", string(body))
	fields, err := Parse(raw)
	require.NoError(t, err)
	require.Equal(t, "src/a.ts", fields["source"])
	require.Equal(t, 2, fields["weight"])

	same, err := Join(nil, []byte("body"))
	require.NoError(t, err)
	require.Equal(t, "body", string(same))
}

func TestSerialize_SortsNestedKeys(t *testing.T) {
	out, err := Serialize(map[string]any{
		"outer": map[string]any{"b": 2, "a": 1},
		"list":  []string{"x", "y"},
		"flag":  true,
	})
	require.NoError(t, err)
	require.Equal(t, "flag: true\nlist:\n  - x\n  - y\nouter:\n  a: 1\n  b: 2\n", string(out))

	_, err = Serialize(map[string]any{"bad": struct{}{}})
	require.Error(t, err)
}

func TestFingerprint(t *testing.T) {
	fields := map[string]any{"title": "a"}
	fp1, err := Fingerprint(fields, []byte("body"))
	require.NoError(t, err)
	require.NotEmpty(t, fp1)

	stamped, err := Stamp(fields, []byte("body"))
	require.NoError(t, err)
	require.Equal(t, fp1, stamped)
	require.Equal(t, fp1, fields[FingerprintField])

	// The stored fingerprint does not feed back into the hash.
	again, err := Fingerprint(fields, []byte("body"))
	require.NoError(t, err)
	require.Equal(t, fp1, again)

	changed, err := Fingerprint(fields, []byte("other body"))
	require.NoError(t, err)
	require.NotEqual(t, fp1, changed)
}
