package introspect

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
)

var (
	// ErrInvalidDump indicates a command dump that could not be decoded.
	ErrInvalidDump = errors.New("invalid command dump")
	// ErrCommandNotFound indicates a command missing from a [Source].
	ErrCommandNotFound = errors.New("command not found")
	// ErrReadInput indicates a failure reading a dump file.
	ErrReadInput = errors.New("read input")
)

// LoadCommands decodes a command dump. The dump is JSON or YAML holding a
// single command object or a list of them.
func LoadCommands(data []byte) ([]Command, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrInvalidDump)
	}

	var cmds []Command

	listErr := yaml.Unmarshal(trimmed, &cmds)
	if listErr != nil {
		var cmd Command

		err := yaml.Unmarshal(trimmed, &cmd)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidDump, err)
		}

		cmds = []Command{cmd}
	}

	for i, c := range cmds {
		if strings.TrimSpace(c.Name) == "" {
			return nil, fmt.Errorf("%w: command %d has no name", ErrInvalidDump, i)
		}
	}

	return cmds, nil
}

// Source is a set of introspected commands, looked up by name.
type Source struct {
	index    map[string]int
	commands []Command
}

// NewSource returns a [Source] holding cmds. When two commands share a
// name the later one wins.
func NewSource(cmds ...Command) *Source {
	s := &Source{index: make(map[string]int, len(cmds))}
	s.Add(cmds...)

	return s
}

// LoadFiles reads every dump file in paths into a new [Source].
func LoadFiles(paths ...string) (*Source, error) {
	s := NewSource()

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrReadInput, err)
		}

		cmds, err := LoadCommands(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}

		s.Add(cmds...)
	}

	return s, nil
}

// Add adds cmds to the source.
func (s *Source) Add(cmds ...Command) {
	for _, c := range cmds {
		key := strings.ToLower(c.Name)
		if i, ok := s.index[key]; ok {
			s.commands[i] = c

			continue
		}

		s.index[key] = len(s.commands)
		s.commands = append(s.commands, c)
	}
}

// Lookup returns the named command, compared case-insensitively, or
// [ErrCommandNotFound].
func (s *Source) Lookup(name string) (Command, error) {
	i, ok := s.index[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Command{}, fmt.Errorf("%w: %s", ErrCommandNotFound, name)
	}

	return s.commands[i], nil
}

// Commands returns every command in insertion order.
func (s *Source) Commands() []Command {
	out := make([]Command, len(s.commands))
	copy(out, s.commands)

	return out
}

// Len returns the number of commands.
func (s *Source) Len() int {
	return len(s.commands)
}
