package model

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed resume.schema.json
var schemaJSON []byte

var schema *gojsonschema.Schema

func init() {
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
	if err != nil {
		panic(fmt.Sprintf("model: invalid embedded resume schema: %v", err))
	}
	schema = s
}

// ErrInvalidResume is returned when a payload does not match the schema.
var ErrInvalidResume = errors.New("invalid resume payload")

// Validate checks a raw JSON document against resume.schema.json.
func Validate(raw []byte) error {
	res, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResume, err)
	}
	if res.Valid() {
		return nil
	}
	// collect errors
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalidResume, strings.Join(msgs, "; "))
}

// ValidateMap validates a generic map, e.g. a JSON body already decoded.
func ValidateMap(m map[string]interface{}) error {
	b, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResume, err)
	}
	return Validate(b)
}

// Decode validates raw and unmarshals it into a Resume.
func Decode(raw []byte) (*Resume, error) {
	if err := Validate(raw); err != nil {
		return nil, err
	}
	var r Resume
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResume, err)
	}
	return &r, nil
}
