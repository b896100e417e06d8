package importer

import "encoding/json"

// DefaultChunkSize bounds the number of raw records sent in one request
const DefaultChunkSize = 10

// Chunk splits records into consecutive batches of at most size elements,
// preserving order. The last batch may be shorter. A non-positive size uses
// DefaultChunkSize.
func Chunk(records []json.RawMessage, size int) [][]json.RawMessage {
	if size <= 0 {
		size = DefaultChunkSize
	}

	chunks := make([][]json.RawMessage, 0, (len(records)+size-1)/size)
	for i := 0; i < len(records); i += size {
		end := i + size
		if end > len(records) {
			end = len(records)
		}
		chunks = append(chunks, records[i:end:end])
	}
	return chunks
}
