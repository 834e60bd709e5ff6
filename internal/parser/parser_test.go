package parser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mcncl/armaconf/arma"
	"github.com/mcncl/armaconf/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Statements(t *testing.T) {
	ir, err := Parse(strings.NewReader("version = 12;\nname = \"Op\";\nclass Header { maxPlayers = 4; };\n"))
	require.NoError(t, err)
	require.NotNil(t, ir.Root)

	assert.Equal(t, []string{"version", "name", "Header"}, ir.Root.Names())
	version, _ := ir.Root.Get("version")
	assert.Equal(t, uint64(12), version)

	header, ok := ir.Root.Class("Header")
	require.True(t, ok)
	players, _ := header.Get("maxPlayers")
	assert.Equal(t, uint64(4), players)
	assert.Contains(t, ir.Source, "class Header")
}

func TestParseString_Empty(t *testing.T) {
	for _, input := range []string{"", "   \n\t"} {
		_, err := ParseString(input)
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrEmptyInput)
		assert.ErrorIs(t, err, errors.NewInputError("", nil))
	}
}

func TestParseString_BareValue(t *testing.T) {
	tests := []struct {
		input    string
		contains string
	}{
		{`"just a string"`, "bare string"},
		{`42`, "bare number"},
		{`true`, "bare boolean"},
		{`{1, 2}`, "bare array"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := ParseString(tt.input)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
			assert.ErrorIs(t, err, errors.NewDecodingError("", nil))
		})
	}
}

func TestParseString_DecodeErrorPosition(t *testing.T) {
	input := "version = 12;\naddons[] = {\"a\" \"b\"};\n"
	_, err := ParseString(input)
	require.Error(t, err)

	assert.ErrorIs(t, err, arma.ErrExpectedArrayComma)
	assert.Contains(t, err.Error(), "line 2, column 17")
	assert.Equal(t,
		"Config decoding error: line 2, column 17: expected ',' between array elements (array elements must be separated by ',')",
		errors.UserFriendlyError(err),
	)
}

func TestParseString_Strict(t *testing.T) {
	input := "a = 1;\nclass Inner { x = 1; X = 2; };\n"

	_, err := ParseString(input)
	require.NoError(t, err, "duplicates are accepted by default")

	_, err = Options{Strict: true}.ParseString(input)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Inner.X repeats x")
	assert.ErrorIs(t, err, arma.ErrSyntax)
	assert.ErrorIs(t, err, errors.ErrDuplicateMember)
}

func TestParseFile(t *testing.T) {
	t.Run("mission fixture", func(t *testing.T) {
		ir, err := ParseFile("../../testdata/mission.sqm")
		require.NoError(t, err)
		addons, ok := ir.Root.Get("addons")
		require.True(t, ok)
		assert.Equal(t, []any{"A3_Characters_F", "A3_Map_Stratis"}, addons)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ParseFile(filepath.Join(t.TempDir(), "nope.sqm"))
		assert.ErrorIs(t, err, errors.ErrFileNotFound)
	})

	t.Run("empty file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.sqm")
		require.NoError(t, os.WriteFile(path, nil, 0o644))
		_, err := ParseFile(path)
		assert.ErrorIs(t, err, errors.ErrFileEmpty)
	})

	t.Run("empty path", func(t *testing.T) {
		_, err := ParseFile(" ")
		assert.ErrorIs(t, err, errors.ErrInvalidFilePath)
	})
}

func TestPosition(t *testing.T) {
	text := "ab\ncdé\nf"
	tests := []struct {
		offset    int
		line, col int
	}{
		{0, 1, 1},
		{2, 1, 3},
		{3, 2, 1},
		{7, 2, 4},
		{8, 3, 1},
		{100, 3, 2},
	}
	for _, tt := range tests {
		line, col := Position(text, tt.offset)
		assert.Equal(t, tt.line, line, "offset %d", tt.offset)
		assert.Equal(t, tt.col, col, "offset %d", tt.offset)
	}
}
