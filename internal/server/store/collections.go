package store

import (
	"encoding/json"
	"fmt"
	"strings"
)

// tempIDPrefix marks client-generated placeholder ids that must be replaced
// with permanent ones on upsert.
const tempIDPrefix = "temp-"

// UpsertRecords merges incoming records into the stored JSON array by id.
// Records with a matching id replace the stored record; new records are
// appended. Temp or missing ids are replaced via newID. Returns the updated
// document.
func UpsertRecords(existing []byte, incoming []map[string]any, newID func() string) ([]byte, error) {
	records, err := decodeArray(existing)
	if err != nil {
		return nil, err
	}

	for _, record := range incoming {
		id, _ := record["id"].(string)
		if id == "" || strings.HasPrefix(id, tempIDPrefix) {
			id = newID()
			record["id"] = id
		}

		replaced := false
		for i, current := range records {
			if currentID, _ := current["id"].(string); currentID == id {
				records[i] = record
				replaced = true
				break
			}
		}
		if !replaced {
			records = append(records, record)
		}
	}

	return json.Marshal(records)
}

// DeleteRecord removes the record with the given id from the stored JSON
// array. The second return is false when no record matched.
func DeleteRecord(existing []byte, id string) ([]byte, bool, error) {
	records, err := decodeArray(existing)
	if err != nil {
		return nil, false, err
	}

	kept := records[:0]
	found := false
	for _, record := range records {
		if currentID, _ := record["id"].(string); currentID == id {
			found = true
			continue
		}
		kept = append(kept, record)
	}
	if !found {
		return nil, false, nil
	}

	updated, err := json.Marshal(kept)
	return updated, true, err
}

func decodeArray(existing []byte) ([]map[string]any, error) {
	if len(existing) == 0 {
		return nil, nil
	}
	var records []map[string]any
	if err := json.Unmarshal(existing, &records); err != nil {
		return nil, fmt.Errorf("decoding stored collection: %w", err)
	}
	return records, nil
}
