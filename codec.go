package ilo

import (
	"encoding/json"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Codec converts between a config value and its on-disk byte representation.
// Extension reports the file suffix (including the dot) used for configs
// stored with the codec; the resolved path of a named config depends on it.
//
// A codec's encoding is expected to be deterministic so that repeated saves
// of an unchanged value produce byte-identical files. All three codecs in
// this package satisfy that.
type Codec interface {
	Extension() string
	Encode(v any) ([]byte, error)
	Decode(data []byte, v any) error
}

// JSON is the canonical codec: pretty-printed JSON in ".json" files.
// It is the default when no WithCodec option is given.
var JSON Codec = jsonCodec{}

// YAML stores configs as YAML documents in ".yaml" files.
var YAML Codec = yamlCodec{}

// TOML stores configs as TOML documents in ".toml" files.
var TOML Codec = tomlCodec{}

type jsonCodec struct{}

func (jsonCodec) Extension() string { return ".json" }

func (jsonCodec) Encode(v any) ([]byte, error) { return json.MarshalIndent(v, "", "  ") }

func (jsonCodec) Decode(data []byte, v any) error { return json.Unmarshal(data, v) }

type yamlCodec struct{}

func (yamlCodec) Extension() string { return ".yaml" }

func (yamlCodec) Encode(v any) ([]byte, error) { return yaml.Marshal(v) }

func (yamlCodec) Decode(data []byte, v any) error { return yaml.Unmarshal(data, v) }

type tomlCodec struct{}

func (tomlCodec) Extension() string { return ".toml" }

func (tomlCodec) Encode(v any) ([]byte, error) { return toml.Marshal(v) }

func (tomlCodec) Decode(data []byte, v any) error { return toml.Unmarshal(data, v) }
