// internal/adapters/grpc/proto/codec.go
package proto

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
	"google.golang.org/protobuf/encoding/protojson"
	protov2 "google.golang.org/protobuf/proto"
)

// CodecName is the gRPC content-subtype the service is served under.
const CodecName = "json"

func init() {
	encoding.RegisterCodec(Codec{})
}

// Codec marshals protobuf messages with protojson and everything else with
// encoding/json.
type Codec struct{}

var unmarshalOptions = protojson.UnmarshalOptions{DiscardUnknown: true}

func (Codec) Marshal(v interface{}) ([]byte, error) {
	if m, ok := v.(protov2.Message); ok {
		return protojson.Marshal(m)
	}
	return json.Marshal(v)
}

func (Codec) Unmarshal(data []byte, v interface{}) error {
	if m, ok := v.(protov2.Message); ok {
		return unmarshalOptions.Unmarshal(data, m)
	}
	return json.Unmarshal(data, v)
}

func (Codec) Name() string {
	return CodecName
}
