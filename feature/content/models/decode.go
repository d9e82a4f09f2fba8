package models

import (
	"encoding/json"
	"fmt"
)

// DecodeRecord unmarshals a canonical JSON document into its concrete
// record type, dispatching on the envelope's type tag.
func DecodeRecord(raw []byte) (any, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("failed to decode canonical envelope: %w", err)
	}
	switch env.Type {
	case RecordAction:
		var rec Action
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("failed to decode action record: %w", err)
		}
		return &rec, nil
	case RecordItem:
		var rec Item
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("failed to decode item record: %w", err)
		}
		return &rec, nil
	case RecordActor:
		var rec Actor
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("failed to decode actor record: %w", err)
		}
		return &rec, nil
	default:
		return nil, fmt.Errorf("unknown canonical record type %q", env.Type)
	}
}
