package dirhash

import (
	"encoding/json"
	"sort"
)

// DuplicateGroup represents a group of paths with the same digest
type DuplicateGroup struct {
	Hash  string   `json:"hash"`
	Files []string `json:"files"`
	Count int      `json:"count"`
}

// FindDuplicates inverts a path -> hex digest snapshot into groups of paths
// sharing a digest, keeping only groups with at least two members. It is a
// pure function over the snapshot: no filesystem content is re-read, and file
// paths are not distinguished from directory paths (both were fingerprinted
// uniformly upstream, so a file and a directory can legitimately share a
// group).
//
// Groups are sorted by hash and paths within a group are sorted ascending,
// so output is deterministic for a given snapshot.
func FindDuplicates(snapshot map[string]string) []DuplicateGroup {
	byHash := make(map[string][]string)
	for path, hexDigest := range snapshot {
		byHash[hexDigest] = append(byHash[hexDigest], path)
	}

	var result []DuplicateGroup
	for hash, paths := range byHash {
		if len(paths) < 2 {
			continue
		}
		sort.Strings(paths)
		result = append(result, DuplicateGroup{
			Hash:  hash,
			Files: paths,
			Count: len(paths),
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Hash < result[j].Hash
	})

	return result
}

// DuplicateReport renders duplicate groups as the JSON object consumed by
// downstream tooling: each digest hex string mapped to the ordered list of
// paths sharing it, pretty-printed with 2-space indent.
func DuplicateReport(groups []DuplicateGroup) ([]byte, error) {
	report := make(map[string][]string, len(groups))
	for _, group := range groups {
		report[group.Hash] = group.Files
	}
	return json.MarshalIndent(report, "", "  ")
}
