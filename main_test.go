package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardanlabs/xcc/config"
)

type fakeCompiler struct {
	calls [][2]string
	err   error
}

func (f *fakeCompiler) Compile(ctx context.Context, src, out string) error {
	f.calls = append(f.calls, [2]string{src, out})
	return f.err
}

func testOptions(t *testing.T) (options, *bytes.Buffer) {
	t.Helper()

	dir := t.TempDir()
	var stdout bytes.Buffer
	return options{
		input:  filepath.Join("testdata", "main.xc"),
		output: filepath.Join(dir, "out", "main.c"),
		exe:    filepath.Join(dir, "main"),
		cfg:    config.Default(),
		cc:     &fakeCompiler{},
		stdout: &stdout,
	}, &stdout
}

func TestRunGolden(t *testing.T) {
	opts, stdout := testOptions(t)

	require.NoError(t, run(context.Background(), opts))

	got, err := os.ReadFile(opts.output)
	require.NoError(t, err)
	want, err := os.ReadFile(filepath.Join("testdata", "out", "main.c"))
	require.NoError(t, err)
	assert.Equal(t, string(want), string(got))

	assert.Contains(t, stdout.String(), "Generated: "+opts.output)
	assert.Contains(t, stdout.String(), "  Includes  : 3\n")
	assert.Contains(t, stdout.String(), "  Functions : 3\n")
	assert.Empty(t, opts.cc.(*fakeCompiler).calls)
}

func TestRunStructuralBalance(t *testing.T) {
	opts, _ := testOptions(t)
	require.NoError(t, run(context.Background(), opts))

	got, err := os.ReadFile(opts.output)
	require.NoError(t, err)

	var code []string
	for _, line := range strings.Split(string(got), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "//") || strings.HasPrefix(line, "/*") {
			continue
		}
		code = append(code, line)
	}
	joined := strings.Join(code, "\n")
	assert.Equal(t, strings.Count(joined, "{"), strings.Count(joined, "}"))
}

func TestRunCompile(t *testing.T) {
	opts, stdout := testOptions(t)
	opts.compile = true

	require.NoError(t, run(context.Background(), opts))

	cc := opts.cc.(*fakeCompiler)
	require.Len(t, cc.calls, 1)
	assert.Equal(t, [2]string{opts.output, opts.exe}, cc.calls[0])
	assert.Contains(t, stdout.String(), "Compiled: "+opts.exe)
}

func TestRunCompileError(t *testing.T) {
	opts, _ := testOptions(t)
	opts.compile = true
	failure := errors.New("boom")
	opts.cc = &fakeCompiler{err: failure}

	err := run(context.Background(), opts)
	assert.ErrorIs(t, err, failure)

	_, statErr := os.Stat(opts.output)
	assert.NoError(t, statErr)
}

func TestRunMissingInput(t *testing.T) {
	opts, _ := testOptions(t)
	opts.input = filepath.Join(t.TempDir(), "missing.xc")

	err := run(context.Background(), opts)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRunDumpAndPreview(t *testing.T) {
	opts, stdout := testOptions(t)
	opts.dump = true
	opts.preview = 3

	require.NoError(t, run(context.Background(), opts))

	out := stdout.String()
	end := strings.Index(out, "Generated:")
	require.Greater(t, end, 0)

	var decls []struct {
		Kind string          `json:"kind"`
		Decl json.RawMessage `json:"decl"`
	}
	require.NoError(t, json.Unmarshal([]byte(out[:end]), &decls))
	require.Len(t, decls, 11)
	assert.Equal(t, "include", decls[0].Kind)
	assert.Equal(t, "function", decls[10].Kind)

	var fn struct {
		Name       string
		ReturnType *string
	}
	require.NoError(t, json.Unmarshal(decls[10].Decl, &fn))
	assert.Equal(t, "main", fn.Name)
	require.NotNil(t, fn.ReturnType)
	assert.Equal(t, "void", *fn.ReturnType)

	assert.Contains(t, out, "// Generated C code from main.xc by xcc\n\n#include <stdio.h>\n...\n")
}

func TestRunConfig(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "game.xc")
	src := "fn:start = () => {\n    for:each = (enemies | struct:Enemy:*e) => {\n    }\n    for:each = (players | struct:Player:*p) => {\n    }\n}\n"
	require.NoError(t, os.WriteFile(input, []byte(src), 0644))

	cfg, err := config.Parse([]byte("entry: start\nbounds:\n  exact:\n    enemies: enemy_count\n"))
	require.NoError(t, err)

	opts, _ := testOptions(t)
	opts.input = input
	opts.cfg = cfg
	require.NoError(t, run(context.Background(), opts))

	got, err := os.ReadFile(opts.output)
	require.NoError(t, err)
	assert.Contains(t, string(got), "// Generated C code from game.xc by xcc")
	assert.Contains(t, string(got), "int start(void) {")
	assert.Contains(t, string(got), "i < enemy_count;")
	assert.Contains(t, string(got), "i < MAX_PLAYERS;")

	cfg.Bounds.Replace = true
	opts.cfg = cfg
	require.NoError(t, run(context.Background(), opts))

	got, err = os.ReadFile(opts.output)
	require.NoError(t, err)
	assert.Contains(t, string(got), "i < /* TODO: bound for players */;")
}

func TestRunWithConfigFile(t *testing.T) {
	cfg, err := config.Load(filepath.Join("testdata", "xcc.yaml"))
	require.NoError(t, err)

	opts, _ := testOptions(t)
	opts.cfg = cfg
	require.NoError(t, run(context.Background(), opts))

	got, err := os.ReadFile(opts.output)
	require.NoError(t, err)
	want, err := os.ReadFile(filepath.Join("testdata", "out", "main.c"))
	require.NoError(t, err)
	assert.Equal(t, string(want), string(got))
}
