package order

import (
	"bytes"
	"encoding/json"

	"github.com/go-faster/errors"
)

// SchemaVersion is the version written into every persisted envelope.
const SchemaVersion = 1

// ErrUnsupportedVersion is returned when stored data was written by a newer
// schema than this build understands.
var ErrUnsupportedVersion = errors.New("unsupported order store version")

type envelope struct {
	Version int     `json:"version"`
	Orders  []Order `json:"orders"`
}

// Encode serializes orders into the versioned envelope.
func Encode(orders []Order) ([]byte, error) {
	if orders == nil {
		orders = []Order{}
	}
	data, err := json.Marshal(envelope{Version: SchemaVersion, Orders: orders})
	if err != nil {
		return nil, errors.Wrap(err, "marshal orders")
	}
	return data, nil
}

// Decode parses stored order data. Empty input and JSON null decode to no
// orders. Both the versioned envelope and the legacy bare array are accepted.
func Decode(data []byte) ([]Order, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}

	if data[0] == '[' {
		var orders []Order
		if err := json.Unmarshal(data, &orders); err != nil {
			return nil, errors.Wrap(err, "unmarshal legacy orders")
		}
		return orders, nil
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, errors.Wrap(err, "unmarshal orders")
	}
	switch {
	case env.Version > SchemaVersion:
		return nil, errors.Wrapf(ErrUnsupportedVersion, "version %d", env.Version)
	case env.Version < 1:
		return nil, errors.Errorf("invalid order store version %d", env.Version)
	}
	return env.Orders, nil
}
