package protocol

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pelletier/go-toml/v2"
	"github.com/samber/lo"
	"golang.org/x/exp/maps"

	"github.com/elfscript/fireplace"
)

// TestCase is one example from a test file:
//
//	[test.sample]
//	part = 1
//	input = """
//	1abc2
//	pqr3stu8vwx"""
//	answer = 142
//	args = ["--verbose"]
//
// Answers and args may be written as numbers; they are compared as text.
type TestCase struct {
	// Name is "<file stem>.<table name>".
	Name   string         `mapstructure:"-"`
	Part   fireplace.Part `mapstructure:"part"`
	Input  string         `mapstructure:"input"`
	Answer string         `mapstructure:"answer"`
	// Args is nil when the case has no args key.
	Args []string `mapstructure:"args"`
}

// Invocation returns the invocation that runs tc with command.
func (tc TestCase) Invocation(command []string, dir string) Invocation {
	return Invocation{
		Command: command,
		Dir:     dir,
		Part:    tc.Part,
		Args:    tc.Args,
		Input:   tc.Input,
	}
}

// InvalidCase is a test table that could not be used.
type InvalidCase struct {
	Name   string
	Reason string
}

// TestFile holds the cases parsed from one TOML file.
type TestFile struct {
	Path    string
	Cases   []TestCase
	Invalid []InvalidCase
}

// ForPart returns the cases for part p, in name order.
func (f *TestFile) ForPart(p fireplace.Part) []TestCase {
	return lo.Filter(f.Cases, func(tc TestCase, _ int) bool {
		return tc.Part == p
	})
}

var requiredKeys = []string{"input", "answer", "part"}

// ParseTestFile parses test cases from data. Tables missing a required key
// or holding values of the wrong type are collected in Invalid; only a
// malformed document is an error.
func ParseTestFile(path string, data []byte) (*TestFile, error) {
	var doc struct {
		Test map[string]map[string]any `toml:"test"`
	}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("test file %s is malformed: %w", filepath.Base(path), err)
	}

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	f := &TestFile{Path: path}
	for _, name := range slices.Sorted(maps.Keys(doc.Test)) {
		raw := doc.Test[name]
		full := stem + "." + name
		missing := lo.Filter(requiredKeys, func(k string, _ int) bool {
			_, ok := raw[k]
			return !ok
		})
		if len(missing) > 0 {
			f.Invalid = append(f.Invalid, InvalidCase{
				Name:   full,
				Reason: fmt.Sprintf("missing %s", strings.Join(missing, ", ")),
			})
			continue
		}
		tc, err := decodeCase(raw)
		if err != nil {
			f.Invalid = append(f.Invalid, InvalidCase{Name: full, Reason: err.Error()})
			continue
		}
		if !tc.Part.Valid() {
			f.Invalid = append(f.Invalid, InvalidCase{Name: full, Reason: fmt.Sprintf("part %d does not exist", tc.Part)})
			continue
		}
		tc.Name = full
		f.Cases = append(f.Cases, tc)
	}
	return f, nil
}

func decodeCase(raw map[string]any) (TestCase, error) {
	var tc TestCase
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &tc,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return TestCase{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return TestCase{}, err
	}
	return tc, nil
}

// LoadTestFile reads and parses one test file.
func LoadTestFile(path string) (*TestFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseTestFile(path, data)
}

// LoadTestDir parses every *.toml file in dir, in file name order. A missing
// directory has no tests.
func LoadTestDir(dir string) ([]*TestFile, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.toml"))
	if err != nil {
		return nil, err
	}
	slices.Sort(paths)
	files := make([]*TestFile, 0, len(paths))
	for _, p := range paths {
		f, err := LoadTestFile(p)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}
