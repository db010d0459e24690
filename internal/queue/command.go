package queue

import (
	"encoding/json"
	"fmt"
)

// Argv elements are arbitrary byte strings, so the stored form is a JSON
// array of base64 values rather than a joined string.

func encodeCommand(argv [][]byte) ([]byte, error) {
	if argv == nil {
		argv = [][]byte{}
	}
	data, err := json.Marshal(argv)
	if err != nil {
		return nil, fmt.Errorf("encode command: %w", err)
	}
	return data, nil
}

func decodeCommand(blob []byte) ([][]byte, error) {
	if len(blob) == 0 {
		return nil, nil
	}
	var argv [][]byte
	if err := json.Unmarshal(blob, &argv); err != nil {
		return nil, fmt.Errorf("decode command: %w", err)
	}
	return argv, nil
}
