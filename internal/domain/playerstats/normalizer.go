package playerstats

import (
	"regexp"
	"strings"
	"unicode"
)

// Normalizer turns raw in-game usernames into aggregation keys for one clan.
type Normalizer struct {
	tag        string
	display    string
	bracketTag *regexp.Regexp
	aliases    []alias
}

type alias struct {
	key     string
	compact string
}

// NewNormalizer builds a normalizer for clanTag. display is the decoration
// used for display names ("[TAG]" when empty). aliasPrefixes are known
// multi-account name families; names starting with one of them collapse
// into a single bucket.
func NewNormalizer(clanTag, display string, aliasPrefixes []string) Normalizer {
	tag := strings.ToUpper(strings.TrimSpace(clanTag))
	if strings.TrimSpace(display) == "" && tag != "" {
		display = "[" + tag + "]"
	}
	n := Normalizer{tag: tag, display: strings.TrimSpace(display)}
	if tag != "" {
		n.bracketTag = regexp.MustCompile(`(?i)\[` + regexp.QuoteMeta(tag) + `\]`)
	}
	for _, raw := range aliasPrefixes {
		key := n.Normalize(raw)
		if key == "" {
			continue
		}
		n.aliases = append(n.aliases, alias{key: key, compact: strings.ReplaceAll(key, " ", "")})
	}
	return n
}

// Normalize strips the clan tag, folds punctuation and underscores to spaces,
// collapses whitespace and upper-cases. It is idempotent.
func (n Normalizer) Normalize(raw string) string {
	s := raw
	if n.bracketTag != nil {
		s = n.bracketTag.ReplaceAllString(s, " ")
	}

	s = strings.Map(func(r rune) rune {
		if r == '_' || !(unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r)) {
			return ' '
		}
		return r
	}, s)

	fields := strings.Fields(s)
	out := fields[:0]
	for _, f := range fields {
		if n.tag != "" && strings.EqualFold(f, n.tag) {
			continue
		}
		out = append(out, f)
	}
	return strings.ToUpper(strings.Join(out, " "))
}

// Key is the storage key for a username. When normalization leaves nothing,
// the trimmed upper-cased raw name is used so the increment is still stored.
func (n Normalizer) Key(raw string) string {
	if key := n.Normalize(raw); key != "" {
		return key
	}
	return strings.ToUpper(strings.TrimSpace(raw))
}

// Bucket maps a stored key to its leaderboard bucket. aliased reports that
// an alias family matched; ok is false when the key normalizes to nothing.
func (n Normalizer) Bucket(storedKey string) (bucket string, aliased bool, ok bool) {
	key := n.Normalize(storedKey)
	if key == "" {
		return "", false, false
	}
	compact := strings.ReplaceAll(key, " ", "")
	for _, a := range n.aliases {
		if strings.HasPrefix(key, a.key) || strings.HasPrefix(compact, a.compact) {
			return a.key, true, true
		}
	}
	return key, false, true
}

// DisplayName decorates a raw username with the clan display tag unless it
// already carries the bracketed tag.
func (n Normalizer) DisplayName(raw string) string {
	name := strings.Join(strings.Fields(raw), " ")
	if n.tag == "" || name == "" {
		return name
	}
	if n.bracketTag != nil && n.bracketTag.MatchString(name) {
		return name
	}
	if len(name) > len(n.tag) && strings.EqualFold(name[:len(n.tag)], n.tag) && name[len(n.tag)] == ' ' {
		name = strings.TrimSpace(name[len(n.tag):])
	}
	return n.display + " " + name
}
