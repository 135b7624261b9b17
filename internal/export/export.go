// Package export encodes a user's movie list for use outside the session.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/movielist/pkg/types"
)

// Supported formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// ErrUnknownFormat is returned for a format Encode does not support.
var ErrUnknownFormat = errors.New("unknown export format")

type encoder func(io.Writer, []types.Movie) error

var encoders = map[string]encoder{
	FormatJSON: encodeJSON,
	FormatYAML: encodeYAML,
	FormatTOML: encodeTOML,
}

// Formats returns the supported format names in sorted order.
func Formats() []string {
	names := make([]string, 0, len(encoders))
	for name := range encoders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Encode writes movies to w in the named format. The format name is matched
// case-insensitively.
func Encode(w io.Writer, format string, movies []types.Movie) error {
	enc, ok := encoders[strings.ToLower(strings.TrimSpace(format))]
	if !ok {
		return fmt.Errorf("%w %q (want one of %s)", ErrUnknownFormat, format, strings.Join(Formats(), ", "))
	}
	if movies == nil {
		movies = []types.Movie{}
	}
	return enc(w, movies)
}

func encodeJSON(w io.Writer, movies []types.Movie) error {
	out, err := json.MarshalIndent(movies, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

func encodeYAML(w io.Writer, movies []types.Movie) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(movies); err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}
	return enc.Close()
}

// TOML documents are tables, so the list is nested under "movies".
type tomlDocument struct {
	Movies []types.Movie `toml:"movies"`
}

func encodeTOML(w io.Writer, movies []types.Movie) error {
	if err := toml.NewEncoder(w).Encode(tomlDocument{Movies: movies}); err != nil {
		return fmt.Errorf("encoding toml: %w", err)
	}
	return nil
}
