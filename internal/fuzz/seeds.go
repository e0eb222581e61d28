package fuzztests

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const maxSeedBytes = 64 << 10

const maxFuzzInput = 1 << 16

var unitSeeds = []string{
	"",
	"unit = \"empty\"\n",
	`
[[function]]
name = "f"
params = ["int x"]
result = "int"
body = "return x + 1;"

[[function]]
name = "f"
params = ["double x"]
result = "double"
body = "return x;"

[[function]]
name = "main"
body = "int a = f(1); double b = f(2.0); f('c');"
`,
	`
[[class]]
name = "Holder"
type_params = ["T", "U = T"]
constraint = "T is Comparable and not Pointer<U>"

[[class.var]]
name = "value"
type = "T"

[[class.function]]
name = "get"
result = "T"
flags = ["const"]
body = "return value;"

[[class.function]]
kind = "destructor"
body = ""

[[function]]
name = "main"
body = "Holder<int> h; int v = h.get();"
`,
	`
[[class]]
name = "Nest"
type_params = ["T"]
base = "Nest<Nest<T>>"

[[function]]
name = "main"
body = "Nest<int> n;"
`,
}

var bodySeeds = []string{
	"",
	"return;",
	"int x = 1; x = x + 2 * 3;",
	"List<int> xs; int n = xs.size(); geo.flat.area(n);",
	"if (a < b) { return a; } else { while (true) { } }",
	"f(g(h(1, 2.5, 'c', \"s\")));",
	"int x = 1",
	"{{{{",
	"a.b.c<d<e>>();",
}

func addUnitSeeds(f *testing.F) {
	for _, s := range unitSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

func addBodySeeds(f *testing.F) {
	for _, s := range bodySeeds {
		f.Add([]byte(s))
	}
}

// addTestdataSeeds adds every unit file found under the repository's
// testdata directory, if there is one.
func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || !strings.HasSuffix(path, ".unit.toml") {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) > maxSeedBytes {
		src = src[:maxSeedBytes]
	}
	return bytes.Clone(src)
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}
