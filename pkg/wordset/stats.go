package wordset

// Stats summarizes how entries are spread across buckets.
type Stats struct {
	Buckets      int     `json:"buckets"`
	Entries      int     `json:"entries"`
	UsedBuckets  int     `json:"usedBuckets"`
	LongestChain int     `json:"longestChain"`
	LoadFactor   float64 `json:"loadFactor"`
}

func (ws *WordSet) Stats() Stats {
	s := Stats{
		Buckets: ws.config.Buckets,
		Entries: len(ws.entries),
	}
	for _, head := range ws.heads {
		chain := 0
		for i := head; i != nilEntry; i = ws.entries[i].next {
			chain++
		}
		if chain > 0 {
			s.UsedBuckets++
		}
		if chain > s.LongestChain {
			s.LongestChain = chain
		}
	}
	if s.Buckets > 0 {
		s.LoadFactor = float64(s.Entries) / float64(s.Buckets)
	}
	return s
}
