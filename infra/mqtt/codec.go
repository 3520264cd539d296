package mqtt

import (
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

const (
	EncodingJSON = "json"
	EncodingCBOR = "cbor"
)

// Codec serialises payloads.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	ContentType() string
}

// NewCodec returns the codec for encoding.
func NewCodec(encoding string) (Codec, error) {
	switch encoding {
	case EncodingJSON, "":
		return jsonCodec{}, nil
	case EncodingCBOR:
		enc, err := cbor.EncOptions{Time: cbor.TimeRFC3339Nano}.EncMode()
		if err != nil {
			return nil, err
		}
		return cborCodec{enc: enc}, nil
	default:
		return nil, fmt.Errorf("unknown mqtt encoding %q", encoding)
	}
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
func (jsonCodec) ContentType() string                { return "application/json" }

// cborCodec falls back to json struct tags when no cbor tag is present.
type cborCodec struct{ enc cbor.EncMode }

func (c cborCodec) Marshal(v any) ([]byte, error)    { return c.enc.Marshal(v) }
func (cborCodec) Unmarshal(data []byte, v any) error { return cbor.Unmarshal(data, v) }
func (cborCodec) ContentType() string                { return "application/cbor" }
