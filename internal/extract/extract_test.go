package extract

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var defaultPatterns = Patterns{
	Line:       regexp.MustCompile(`//\s?(.*)$`),
	BlockOpen:  regexp.MustCompile(`/\*\*?`),
	BlockLine:  regexp.MustCompile(`^\s*\*?\s?(.*)$`),
	BlockClose: regexp.MustCompile(`\*/`),
}

func str(s string) *string { return &s }

func TestExtract_LineComments(t *testing.T) {
	f := Extract("src/a.ts", "let x = 1; // set !x\n// @x only\nreturn x;\n", defaultPatterns)

	require.Equal(t, "src/a.ts", f.Name)
	require.Equal(t, "ts", f.Type)
	require.Len(t, f.Lines, 3)
	assert.Equal(t, Line{Code: str("let x = 1;"), Comment: str("set !x")}, f.Lines[0])
	assert.Equal(t, Line{Comment: str("@x only")}, f.Lines[1])
	assert.Equal(t, Line{Code: str("return x;")}, f.Lines[2])
}

func TestExtract_BlockComments(t *testing.T) {
	src := "/**\n * # !classes/Generator\n *\n * Builds docs.\n */\nclass Generator {}\n"
	f := Extract("gen.ts", src, defaultPatterns)

	require.Len(t, f.Lines, 6)
	assert.Equal(t, Line{LongComment: true}, f.Lines[0])
	assert.Equal(t, Line{LongComment: true, Comment: str("# !classes/Generator")}, f.Lines[1])
	assert.Equal(t, Line{LongComment: true, Comment: str("")}, f.Lines[2])
	assert.Equal(t, Line{LongComment: true, Comment: str("Builds docs.")}, f.Lines[3])
	assert.Equal(t, Line{LongComment: true}, f.Lines[4])
	assert.Equal(t, Line{Code: str("class Generator {}")}, f.Lines[5])
}

func TestExtract_SingleLineBlockWithCode(t *testing.T) {
	f := Extract("a.c", "int x; /* counter */\nint y;", defaultPatterns)

	require.Len(t, f.Lines, 2)
	assert.Equal(t, Line{Code: str("int x;"), Comment: str("counter"), LongComment: true}, f.Lines[0])
	assert.Equal(t, Line{Code: str("int y;")}, f.Lines[1])
}

func TestExtract_BlockOpenerInsideLineComment(t *testing.T) {
	f := Extract("a.go", "// see /* here\nx := 1\n", defaultPatterns)

	require.Len(t, f.Lines, 2)
	assert.Equal(t, Line{Comment: str("see /* here")}, f.Lines[0])
	assert.Equal(t, Line{Code: str("x := 1")}, f.Lines[1])
}

func TestExtract_KeepsBlankCodeLinesAndCRLF(t *testing.T) {
	f := Extract("a.js", "a();\r\n\r\nb();\r\n", defaultPatterns)

	require.Len(t, f.Lines, 3)
	assert.Equal(t, "a();", *f.Lines[0].Code)
	assert.Equal(t, "", *f.Lines[1].Code)
	assert.Equal(t, "b();", *f.Lines[2].Code)
}

func TestExtract_Empty(t *testing.T) {
	f := Extract("empty.ts", "", defaultPatterns)
	require.Empty(t, f.Lines)
	require.NotNil(t, f.Lines)
}

func TestLine_JSONOmitsAbsentFields(t *testing.T) {
	data, err := json.Marshal([]Line{{Code: str("x")}, {Comment: str("c"), LongComment: true}, {}})
	require.NoError(t, err)
	require.JSONEq(t, `[{"code":"x"},{"comment":"c","longComment":true},{}]`, string(data))
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "ok.ts"), []byte("// !a\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bin.ts"), []byte{0xff, 0xfe, 0x00}, 0o600))

	f, err := ReadFile(dir, "src/ok.ts", defaultPatterns)
	require.NoError(t, err)
	require.Equal(t, "src/ok.ts", f.Name)
	require.Equal(t, "!a", *f.Lines[0].Comment)

	_, err = ReadFile(dir, "bin.ts", defaultPatterns)
	require.ErrorIs(t, err, ErrNotText)

	_, err = ReadFile(dir, "missing.ts", defaultPatterns)
	require.Error(t, err)
}

func TestFileType(t *testing.T) {
	require.Equal(t, "go", FileType("internal/x.go"))
	require.Equal(t, "", FileType("Makefile"))
}
