package playerstats

import (
	"sort"
	"strings"
)

// minFuzzyBaseLength keeps very short keys from absorbing unrelated names.
const minFuzzyBaseLength = 3

// MergeConfig bounds the fuzzy prefix merge. A longer key merges into a
// shorter one when the shorter is its prefix, the length difference is at
// most MaxLengthDiff and the longer key has at least MinLength characters.
type MergeConfig struct {
	MaxLengthDiff int
	MinLength     int
}

// Merge collapses stored rows into leaderboard buckets: rows are
// re-normalized, routed into alias families, then near-duplicate keys are
// fuzzily merged. Rows whose key normalizes to nothing are dropped. The
// result is sorted by key.
func Merge(rows []Counters, n Normalizer, cfg MergeConfig) []Counters {
	buckets := make(map[string]*Counters, len(rows))
	aliased := make(map[string]bool)
	order := make([]string, 0, len(rows))

	for _, row := range rows {
		key, isAlias, ok := n.Bucket(row.Key)
		if !ok {
			continue
		}
		b, exists := buckets[key]
		if !exists {
			b = &Counters{Key: key}
			buckets[key] = b
			order = append(order, key)
		}
		row.Key = key
		b.Add(row)
		if isAlias {
			aliased[key] = true
		}
	}

	candidates := make([]string, 0, len(order))
	for _, key := range order {
		if !aliased[key] {
			candidates = append(candidates, key)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if len(candidates[i]) != len(candidates[j]) {
			return len(candidates[i]) < len(candidates[j])
		}
		return candidates[i] < candidates[j]
	})

	absorbed := make(map[string]bool)
	for i, variant := range candidates {
		for _, base := range candidates[:i] {
			if absorbed[base] || !fuzzyMatch(base, variant, cfg) {
				continue
			}
			buckets[base].Add(*buckets[variant])
			absorbed[variant] = true
			break
		}
	}

	out := make([]Counters, 0, len(buckets)-len(absorbed))
	for key, b := range buckets {
		if absorbed[key] {
			continue
		}
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func fuzzyMatch(base, variant string, cfg MergeConfig) bool {
	if cfg.MaxLengthDiff <= 0 {
		return false
	}
	if len(base) < minFuzzyBaseLength || len(base) >= len(variant) {
		return false
	}
	if len(variant) < cfg.MinLength {
		return false
	}
	if len(variant)-len(base) > cfg.MaxLengthDiff {
		return false
	}
	return strings.HasPrefix(variant, base)
}
