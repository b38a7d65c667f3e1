// Package compiler runs the native toolchain on generated C code.
package compiler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

var ErrNotFound = errors.New("compiler not found")

// Compiler turns the C file at src into an executable at out.
type Compiler interface {
	Compile(ctx context.Context, src, out string) error
}

// Command invokes an external compiler as "Path src -o out Args...".
type Command struct {
	Path string
	Args []string
}

// Clang returns the default compiler command.
func Clang() Command {
	return Command{Path: "clang", Args: []string{"-Wall", "-Wextra", "-std=c11"}}
}

// Error is returned when the compiler ran and failed.
type Error struct {
	Cmd    string
	Stderr string
	Err    error
}

func (e *Error) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		msg = "(no error output)"
	}
	return fmt.Sprintf("%s: %v\n%s", e.Cmd, e.Err, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (c Command) args(src, out string) []string {
	return append([]string{src, "-o", out}, c.Args...)
}

// CommandLine returns the command line that Compile runs.
func (c Command) CommandLine(src, out string) string {
	return strings.Join(append([]string{c.Path}, c.args(src, out)...), " ")
}

func (c Command) Compile(ctx context.Context, src, out string) error {
	path, err := exec.LookPath(c.Path)
	if err != nil {
		return fmt.Errorf("%s: %w", c.Path, ErrNotFound)
	}

	cmd := exec.CommandContext(ctx, path, c.args(src, out)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return &Error{Cmd: c.CommandLine(src, out), Stderr: stderr.String(), Err: err}
	}
	return nil
}
