package e2e_test

import (
	"fmt"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeNestedClasses writes width classes per level, depth levels deep.
func writeNestedClasses(b *strings.Builder, depth, width int, indent string) {
	if depth <= 0 {
		fmt.Fprintf(b, "%sleafValue = \"data\";\n", indent)
		fmt.Fprintf(b, "%scount = %d;\n", indent, rand.Intn(100))
		fmt.Fprintf(b, "%senabled = %t;\n", indent, rand.Intn(2) == 1)
		return
	}
	for i := 0; i < width; i++ {
		fmt.Fprintf(b, "%sclass Nested_%d_%d\n%s{\n", indent, depth, i, indent)
		writeNestedClasses(b, depth-1, width, indent+"\t")
		fmt.Fprintf(b, "%s};\n", indent)
	}
}

// generateWideConfig creates a document with many statements at the same level
func generateWideConfig(fieldCount int) string {
	var b strings.Builder
	for i := 0; i < fieldCount; i++ {
		switch i % 5 {
		case 0:
			fmt.Fprintf(&b, "stringField%d = \"value_%d\";\n", i, i)
		case 1:
			fmt.Fprintf(&b, "intField%d = %d;\n", i, i)
		case 2:
			fmt.Fprintf(&b, "boolField%d = %t;\n", i, i%2 == 0)
		case 3:
			fmt.Fprintf(&b, "floatField%d = %d.5;\n", i, i)
		case 4:
			fmt.Fprintf(&b, "class Object%d { id = %d; name = \"Object %d\"; value = %d; };\n", i, i, i, i*10)
		}
	}
	return b.String()
}

// generateItems creates a mission-style list of item classes
func generateItems(itemCount int) string {
	rng := rand.New(rand.NewSource(42))

	var b strings.Builder
	fmt.Fprintf(&b, "class Entities\n{\n\titems = %d;\n", itemCount)
	for i := 0; i < itemCount; i++ {
		fmt.Fprintf(&b, "\tclass Item%d\n\t{\n", i)
		fmt.Fprintf(&b, "\t\tdataType = \"Object\";\n")
		fmt.Fprintf(&b, "\t\tid = %d;\n", i+1)
		fmt.Fprintf(&b, "\t\ttype = \"B_Soldier_F\";\n")
		fmt.Fprintf(&b, "\t\tposition[] = {%.3f, %.3f, %.3f};\n", rng.Float64()*8000, rng.Float64()*20, rng.Float64()*8000)
		fmt.Fprintf(&b, "\t\tdescription = \"Unit \"\"%d\"\"\";\n", i+1)
		fmt.Fprintf(&b, "\t\tclass Attributes { skill = %.2f; isPlayable = %d; };\n", rng.Float64(), rng.Intn(2))
		fmt.Fprintf(&b, "\t};\n")
	}
	b.WriteString("};\n")
	return b.String()
}

// benchmarkCLI runs the command against a document for each iteration.
func benchmarkCLI(b *testing.B, name, document string, args ...string) {
	b.Helper()
	tempDir := b.TempDir()

	inputFile := filepath.Join(tempDir, name+".sqm")
	require.NoError(b, os.WriteFile(inputFile, []byte(document), 0644))
	outputFile := filepath.Join(tempDir, name+"_output")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cmdArgs := append([]string{"run", "../../main.go", "-i", inputFile, "-o", outputFile}, args...)
		cmd := exec.Command("go", cmdArgs...)
		output, err := cmd.CombinedOutput()
		require.NoError(b, err, "CLI command failed: %s", string(output))

		if err := os.Remove(outputFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error removing file: %v\n", err)
		}
	}
}

// BenchmarkDeepNesting benchmarks performance with deeply nested classes
func BenchmarkDeepNesting(b *testing.B) {
	if testing.Short() {
		b.Skip("skipping benchmark in short mode")
	}

	depths := []struct {
		name  string
		depth int
		width int
	}{
		{"Depth3Width3", 3, 3},
		{"Depth5Width2", 5, 2},
		{"Depth2Width10", 2, 10},
	}

	for _, depth := range depths {
		b.Run(depth.name, func(b *testing.B) {
			var doc strings.Builder
			writeNestedClasses(&doc, depth.depth, depth.width, "")
			benchmarkCLI(b, depth.name, doc.String(), "-p", "bench")
		})
	}
}

// BenchmarkWideStructures benchmarks performance with many statements in one class
func BenchmarkWideStructures(b *testing.B) {
	if testing.Short() {
		b.Skip("skipping benchmark in short mode")
	}

	widths := []struct {
		name       string
		fieldCount int
	}{
		{"Fields10", 10},
		{"Fields100", 100},
		{"Fields1000", 1000},
	}

	for _, width := range widths {
		b.Run(width.name, func(b *testing.B) {
			benchmarkCLI(b, width.name, generateWideConfig(width.fieldCount), "-p", "bench")
		})
	}
}

// BenchmarkTranscode benchmarks JSON and YAML output for large item lists
func BenchmarkTranscode(b *testing.B) {
	if testing.Short() {
		b.Skip("skipping benchmark in short mode")
	}

	for _, count := range []int{100, 1000, 5000} {
		for _, format := range []string{"json", "yaml"} {
			name := fmt.Sprintf("Items%d_%s", count, format)
			b.Run(name, func(b *testing.B) {
				benchmarkCLI(b, name, generateItems(count), "-f", format)
			})
		}
	}
}
