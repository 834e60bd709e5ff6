package e2e_test

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const missionFixture = "../../testdata/mission.sqm"

// runCLI runs the command and returns its stdout, failing the test on error.
func runCLI(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	cmd := exec.Command("go", append([]string{"run", "../../main.go"}, args...)...)
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	require.NoError(t, cmd.Run(), "CLI command failed: %s", stderr.String())
	return stdout.String()
}

// TestEndToEnd_GeneratedStructsDecodeDocument generates structs for the
// mission fixture, decodes the fixture into them with a small program and
// checks the result matches the direct JSON transcoding.
func TestEndToEnd_GeneratedStructsDecodeDocument(t *testing.T) {
	code := runCLI(t, "", "-i", missionFixture, "-p", "main", "-r", "Mission")
	assert.Contains(t, code, "type Mission struct")
	assert.NotContains(t, code, "import")

	transcoded := runCLI(t, "", "-i", missionFixture, "-f", "json")

	// The program must live inside the module so it can import the decoder.
	dir, err := os.MkdirTemp(".", "roundtrip-")
	require.NoError(t, err)
	defer func() { _ = os.RemoveAll(dir) }()

	program := strings.Replace(code, "package main\n", `package main

import (
	"encoding/json"
	"os"

	"github.com/mcncl/armaconf/arma"
)

func main() {
	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		panic(err)
	}
	var m Mission
	if err := arma.Unmarshal(data, &m); err != nil {
		panic(err)
	}
	if err := json.NewEncoder(os.Stdout).Encode(m); err != nil {
		panic(err)
	}
}
`, 1)
	mainFile := filepath.Join(dir, "main.go")
	require.NoError(t, os.WriteFile(mainFile, []byte(program), 0644))

	fixture, err := filepath.Abs(missionFixture)
	require.NoError(t, err)

	cmd := exec.Command("go", "run", "./"+dir, fixture)
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "generated program failed: %s", string(output))

	assert.JSONEq(t, transcoded, string(output))
}

// TestEndToEnd_GeneratedCodeCompiles builds generated code for a document
// that needs time and uuid imports.
func TestEndToEnd_GeneratedCodeCompiles(t *testing.T) {
	input := `
class Session
{
	id = "550e8400-e29b-41d4-a716-446655440000";
	started = "2023-05-20T14:56:23Z";
	players[] = {"Alpha", "Bravo"};
	grid[] = {{1, 2}, {3, 4.5}};
	target = null;
	class Weather
	{
		overcast = 0.3;
		fog = 0;
	};
};
`
	code := runCLI(t, input, "-p", "main", "-r", "Report")

	assert.Contains(t, code, "import (\n\t\"time\"\n\n\t\"github.com/google/uuid\"\n)")
	assert.Regexp(t, `Id\s+uuid\.UUID\s+\x60arma:"id"`, code)
	assert.Regexp(t, `Started\s+time\.Time\s+\x60arma:"started"`, code)
	assert.Regexp(t, `Grid\s+\[\]\[\]float64\s+\x60arma:"grid" json:"grid,omitempty"\x60`, code)
	assert.Regexp(t, `Target\s+any\s+\x60arma:"target" json:"target,omitempty"\x60`, code)
	assert.Regexp(t, `Fog\s+int\s+\x60arma:"fog"`, code)

	buildGenerated(t, code, "Report")
}

// TestEndToEnd_WidenedArraysCompile builds generated code for arrays that mix
// UUID or time strings with plain strings.
func TestEndToEnd_WidenedArraysCompile(t *testing.T) {
	input := `ids[] = {"550e8400-e29b-41d4-a716-446655440000", "plain"};
when[] = {"2024-01-02", "x"};
`
	code := runCLI(t, input, "-p", "main", "-r", "Record")
	assert.Regexp(t, `Ids\s+\[\]string`, code)
	assert.NotContains(t, code, "import")

	buildGenerated(t, code, "Record")
}

// buildGenerated compiles code with a main function that uses root.
func buildGenerated(t *testing.T, code, root string) {
	t.Helper()
	dir, err := os.MkdirTemp(".", "compile-")
	require.NoError(t, err)
	defer func() { _ = os.RemoveAll(dir) }()

	verifyCode := fmt.Sprintf("%s\nfunc main() {\n\t_ = %s{}\n}\n", code, root)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"), []byte(verifyCode), 0644))

	compileCmd := exec.Command("go", "build", "-o", os.DevNull, "./"+dir)
	compileOut, err := compileCmd.CombinedOutput()
	require.NoError(t, err, "Generated code does not compile: %s", string(compileOut))
}

// TestEndToEnd_EdgeCases tests various edge cases
func TestEndToEnd_EdgeCases(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		args     []string
		expected string
		isError  bool
	}{
		{
			name:     "EmptyClass",
			input:    `class Empty {};`,
			expected: "type Empty struct{}",
		},
		{
			name:     "JoinedString",
			input:    "text = \"one\" \\n \"two\";",
			args:     []string{"-f", "json"},
			expected: `"text": "one\ntwo"`,
		},
		{
			name:     "UnquotedWordJSON",
			input:    `side = WEST; rank = never;`,
			args:     []string{"-f", "json"},
			expected: `"rank": "never"`,
		},
		{
			name:     "UnquotedWordGo",
			input:    `side = WEST; name = "n";`,
			expected: "Side string `arma:\"side\" json:\"side\"`",
		},
		{
			name:     "CRLF",
			input:    "a[] =\r\n{\r\n1,\r\n2\r\n};\r\n",
			args:     []string{"-f", "json"},
			expected: "\"a\": [\n    1,\n    2\n  ]",
		},
		{
			name:     "DeeplyNestedClasses",
			input:    `class L1 { class L2 { class L3 { class L4 { class L5 { value = 42; }; }; }; }; };`,
			expected: "type L5 struct",
		},
		{
			name:     "DeeplyNestedArray",
			input:    `v[] = {{{{{{42}}}}}};`,
			expected: "[][][][][][]int",
		},
		{
			name:    "MissingSemicolon",
			input:   `a = 1 b = 2;`,
			isError: true,
		},
		{
			name:    "TrailingComma",
			input:   `a[] = {1, 2,};`,
			isError: true,
		},
		{
			name:    "UnterminatedClass",
			input:   `class A { b = 1;`,
			isError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cmd := exec.Command("go", append([]string{"run", "../../main.go"}, tc.args...)...)
			cmd.Stdin = strings.NewReader(tc.input)
			var stdout bytes.Buffer
			cmd.Stdout = &stdout
			var stderr bytes.Buffer
			cmd.Stderr = &stderr

			err := cmd.Run()
			if tc.isError {
				assert.Error(t, err, "Expected an error but got none")
				assert.Contains(t, stderr.String(), "Config decoding error")
				return
			}
			require.NoError(t, err, "Unexpected error: %s", stderr.String())
			assert.Contains(t, stdout.String(), tc.expected)
		})
	}
}
