package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/movielist/pkg/types"
)

var sample = []types.Movie{
	{Username: "alice", Title: "Dune", Director: "Villeneuve", Genre: "Sci-Fi", Rating: "8.5", Year: "2021", Watched: "Y"},
	{Username: "alice", Title: "Heat", Watched: "N"},
}

func TestEncodeFormats(t *testing.T) {
	tests := []struct {
		format string
		decode func([]byte) ([]types.Movie, error)
	}{
		{
			format: FormatJSON,
			decode: func(b []byte) ([]types.Movie, error) {
				var got []types.Movie
				err := json.Unmarshal(b, &got)
				return got, err
			},
		},
		{
			format: FormatYAML,
			decode: func(b []byte) ([]types.Movie, error) {
				var got []types.Movie
				err := yaml.Unmarshal(b, &got)
				return got, err
			},
		},
		{
			format: FormatTOML,
			decode: func(b []byte) ([]types.Movie, error) {
				var doc tomlDocument
				err := toml.Unmarshal(b, &doc)
				return doc.Movies, err
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, tt.format, sample))

			got, err := tt.decode(buf.Bytes())
			require.NoError(t, err)
			assert.Equal(t, sample, got)
		})
	}
}

func TestEncodeUsesColumnNames(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, "JSON", sample[:1]))
	assert.Contains(t, buf.String(), `"movie_name": "Dune"`)
}

func TestEncodeEmptyList(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, FormatJSON, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestEncodeUnknownFormat(t *testing.T) {
	err := Encode(&bytes.Buffer{}, "xml", sample)
	assert.True(t, errors.Is(err, ErrUnknownFormat))
	assert.Contains(t, err.Error(), "json, toml, yaml")
}

func TestFormats(t *testing.T) {
	assert.Equal(t, []string{"json", "toml", "yaml"}, Formats())
}
