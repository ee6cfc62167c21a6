package service

import (
	"encoding/base64"
	"fmt"
	"strconv"
)

// DecodeCursor decodes a base64-encoded cursor string into a result offset.
// Returns 0 if the cursor is empty.
func DecodeCursor(cursor string) (int, error) {
	if cursor == "" {
		return 0, nil
	}

	decoded, err := base64.StdEncoding.DecodeString(cursor)
	if err != nil {
		return 0, fmt.Errorf("failed to decode cursor: %w", err)
	}

	offset, err := strconv.Atoi(string(decoded))
	if err != nil || offset < 0 {
		return 0, fmt.Errorf("invalid cursor format: expected a non-negative offset")
	}

	return offset, nil
}

// EncodeCursor encodes a result offset into a base64 cursor string
func EncodeCursor(offset int) string {
	return base64.StdEncoding.EncodeToString([]byte(strconv.Itoa(offset)))
}
