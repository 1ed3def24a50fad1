package adapter

import (
	"encoding/json"
)

// JSON abstracts payload decoding so consumers can substitute decode failures in tests
//
//go:generate mockgen -source=json.go -destination=../mocks/json.go -package=mocks -mock_names=JSON=MockJSON
type JSON interface {
	Unmarshal(data []byte, v interface{}) error
}

// RealJSON decodes with the standard encoding/json package
type RealJSON struct{}

// NewJSON creates the standard library backed implementation
func NewJSON() JSON {
	return &RealJSON{}
}

func (j *RealJSON) Unmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}
