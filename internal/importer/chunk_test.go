package importer

import (
	"encoding/json"
	"fmt"
	"testing"
)

func makeRecords(n int) []json.RawMessage {
	records := make([]json.RawMessage, n)
	for i := range records {
		records[i] = json.RawMessage(fmt.Sprintf(`{"n":%d}`, i))
	}
	return records
}

func TestChunk(t *testing.T) {
	tests := []struct {
		name      string
		records   int
		size      int
		wantSizes []int
	}{
		{name: "empty", records: 0, size: 10, wantSizes: []int{}},
		{name: "exact multiple", records: 20, size: 10, wantSizes: []int{10, 10}},
		{name: "short last chunk", records: 23, size: 10, wantSizes: []int{10, 10, 3}},
		{name: "fewer than size", records: 4, size: 10, wantSizes: []int{4}},
		{name: "size one", records: 3, size: 1, wantSizes: []int{1, 1, 1}},
		{name: "non-positive size uses default", records: 12, size: 0, wantSizes: []int{10, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := makeRecords(tt.records)
			chunks := Chunk(records, tt.size)

			if len(chunks) != len(tt.wantSizes) {
				t.Fatalf("Expected %d chunks, got %d", len(tt.wantSizes), len(chunks))
			}

			var flat []json.RawMessage
			for i, c := range chunks {
				if len(c) != tt.wantSizes[i] {
					t.Errorf("Chunk %d: expected %d records, got %d", i, tt.wantSizes[i], len(c))
				}
				flat = append(flat, c...)
			}

			if len(flat) != len(records) {
				t.Fatalf("Concatenation has %d records, want %d", len(flat), len(records))
			}
			for i := range flat {
				if string(flat[i]) != string(records[i]) {
					t.Errorf("Record %d out of order: got %s, want %s", i, flat[i], records[i])
				}
			}
		})
	}
}

func TestChunkDoesNotAlias(t *testing.T) {
	records := makeRecords(4)
	chunks := Chunk(records, 2)

	chunks[0] = append(chunks[0], json.RawMessage(`{"n":99}`))
	if string(records[2]) != `{"n":2}` {
		t.Errorf("Appending to a chunk overwrote the next record: %s", records[2])
	}
}
