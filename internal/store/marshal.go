package store

import (
	"fmt"

	"github.com/roach88/nbformat/internal/jsonv"
)

// marshalTags converts a tag list to JSON TEXT for storage.
// A cell without tags is stored as [].
func marshalTags(tags []string) (string, error) {
	arr := make(jsonv.Array, len(tags))
	for i, tag := range tags {
		arr[i] = jsonv.String(tag)
	}
	data, err := jsonv.Marshal(arr)
	if err != nil {
		return "", fmt.Errorf("marshal tags: %w", err)
	}
	return string(data), nil
}

// unmarshalTags parses JSON TEXT written by marshalTags.
func unmarshalTags(data string) ([]string, error) {
	if data == "" || data == "[]" {
		return []string{}, nil
	}
	var arr jsonv.Array
	if err := arr.UnmarshalJSON([]byte(data)); err != nil {
		return nil, fmt.Errorf("unmarshal tags: %w", err)
	}
	tags := make([]string, len(arr))
	for i, v := range arr {
		s, ok := v.(jsonv.String)
		if !ok {
			return nil, fmt.Errorf("unmarshal tags: element %d is %s", i, jsonv.TypeName(v))
		}
		tags[i] = string(s)
	}
	return tags, nil
}
