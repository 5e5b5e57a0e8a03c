// Package toolchain turns the assembly written by the compiler into an
// executable using an external assembler and linker.
package toolchain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	log "github.com/sirupsen/logrus"
	"os/exec"
	"path/filepath"
	"strings"
)

const (
	DefaultAssembler = "riscv64-linux-gnu-as"
	DefaultLinker    = "riscv64-linux-gnu-gcc"
)

var (
	ErrIncompleteConfig = errors.New("incomplete toolchain configuration")
	ErrToolFailed       = errors.New("external tool failed")
)

type Config struct {
	// Assembler is invoked as: Assembler -o object Input
	Assembler string
	// Linker is invoked as: Linker -o Output object
	Linker string
	// Input is the assembly file
	Input string
	// Output is the executable
	Output string
}

// ObjectFile is the intermediate object file of the Config.
func (c Config) ObjectFile() string {
	return strings.TrimSuffix(c.Input, filepath.Ext(c.Input)) + ".o"
}

func (c Config) validate() error {
	var missing []string
	for _, field := range []struct{ name, value string }{
		{"assembler", c.Assembler},
		{"linker", c.Linker},
		{"input", c.Input},
		{"output", c.Output},
	} {
		if field.value == "" {
			missing = append(missing, field.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrIncompleteConfig, strings.Join(missing, ", "))
	}
	return nil
}

// runner executes an external program, it is replaced in tests.
var runner = func(ctx context.Context, name string, args ...string) error {
	stderr := &bytes.Buffer{}
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return fmt.Errorf("%s: %w: %w", name, ErrToolFailed, err)
		}
		return fmt.Errorf("%s: %w: %w\n%s", name, ErrToolFailed, err, msg)
	}
	return nil
}

// Build assembles and links the assembly file of the Config.
// The assembly file itself is never modified.
func Build(ctx context.Context, c Config) error {
	if err := c.validate(); err != nil {
		return err
	}

	object := c.ObjectFile()
	steps := []struct {
		phase string
		name  string
		args  []string
	}{
		{"assemble", c.Assembler, []string{"-o", object, c.Input}},
		{"link", c.Linker, []string{"-o", c.Output, object}},
	}

	for _, step := range steps {
		log.WithFields(log.Fields{
			"phase": step.phase,
			"tool":  step.name,
			"args":  strings.Join(step.args, " "),
		}).Debug("running external tool")

		if err := runner(ctx, step.name, step.args...); err != nil {
			return fmt.Errorf("%s: %w", step.phase, err)
		}
	}
	return nil
}
