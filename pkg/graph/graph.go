package graph

import (
	"encoding/json"
	"fmt"
	"os"

	"go.mongodb.org/mongo-driver/bson"
)

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout and validates it.
// A missing viz type means a lane layout.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	return checked(l)
}

// MarshalLayoutBSON serializes a Layout to a BSON document, for stores that
// keep layouts as binary documents.
func MarshalLayoutBSON(l Layout) ([]byte, error) {
	data, err := bson.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("marshal layout bson: %w", err)
	}
	return data, nil
}

// UnmarshalLayoutBSON decodes a BSON document produced by [MarshalLayoutBSON].
func UnmarshalLayoutBSON(data []byte) (Layout, error) {
	var l Layout
	if err := bson.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout bson: %w", err)
	}
	return checked(l)
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}

func checked(l Layout) (Layout, error) {
	if l.VizType == "" {
		l.VizType = VizTypeLanes
	}
	if err := l.Validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}
