package propscript

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadAstRoundTrips(t *testing.T) {
	src := `
func add(a, b) {
	ret a + b
}

x = vec2(1, 2)
for i in range(0, 3) {
	if i > 1 {
		x[0] = add(i, 1)
	} else {
		x[1] = i
	}
}
`
	ast, err := Parse(LexBytes([]byte(src)))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteAst(&buf, ast))

	got, err := ReadAst(&buf)
	require.NoError(t, err)

	assert.Equal(t, ast.Parents, got.Parents)
	require.Equal(t, len(ast.Pool), len(got.Pool))
	for i := range ast.Pool {
		assert.Equal(t, ast.Pool[i], got.Pool[i], "node %d", i)
	}
}

func TestSaveLoadRoundTripsThroughDisk(t *testing.T) {
	ast, err := Parse(LexBytes([]byte("x = 1 + 2\nprint(x)\n")))
	require.NoError(t, err)

	path := t.TempDir() + "/test.psobj"
	require.NoError(t, Save(path, ast))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ast, got)
}

func TestLoadMissingFileReturnsSerializeError(t *testing.T) {
	_, err := Load("/nonexistent/path.psobj")
	require.Error(t, err)

	var serr *SerializeError
	require.ErrorAs(t, err, &serr)
}
