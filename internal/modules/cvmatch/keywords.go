package cvmatch

import "sort"

type Keyword struct {
	Term   string
	Key    string
	Weight int
	First  int
}

// ExtractKeywords returns the distinct keys of text ordered by weight
// (frequency) descending, then by first position.
func ExtractKeywords(text string, cfg Config) []Keyword {
	cfg = cfg.withDefaults()
	idx := map[string]int{}
	var out []Keyword
	for _, tok := range Tokenize(text, cfg) {
		if i, ok := idx[tok.Key]; ok {
			out[i].Weight++
			continue
		}
		idx[tok.Key] = len(out)
		out = append(out, Keyword{Term: tok.Surface, Key: tok.Key, Weight: 1, First: tok.Pos})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Weight != out[j].Weight {
			return out[i].Weight > out[j].Weight
		}
		return out[i].First < out[j].First
	})
	if cfg.MaxKeywords > 0 && len(out) > cfg.MaxKeywords {
		out = out[:cfg.MaxKeywords]
	}
	return out
}
