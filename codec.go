package kvgrid

import (
	"bytes"
	"encoding/base64"
	"encoding/gob"
	"encoding/json"
	"fmt"
)

// Codec converts typed values to and from the textual payload
// stored on the remote.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

var (
	_ Codec = jsonCodec{}
	_ Codec = gobCodec{}

	// JSONCodec is the default value codec.
	JSONCodec Codec = jsonCodec{}
	// GobCodec stores values as base64-wrapped gob.
	GobCodec Codec = gobCodec{}
)

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

type gobCodec struct{}

func (gobCodec) Marshal(v any) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := gob.NewEncoder(buf).Encode(v); err != nil {
		return nil, fmt.Errorf("encoding gob: %w", err)
	}
	return []byte(base64.StdEncoding.EncodeToString(buf.Bytes())), nil
}

func (gobCodec) Unmarshal(data []byte, v any) error {
	raw, err := base64.StdEncoding.DecodeString(string(data))
	if err != nil {
		return fmt.Errorf("decoding base64: %w", err)
	}
	if err := gob.NewDecoder(bytes.NewBuffer(raw)).Decode(v); err != nil {
		return fmt.Errorf("decoding gob: %w", err)
	}
	return nil
}
