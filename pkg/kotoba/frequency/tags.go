package frequency

import "strings"

// TagPrefix starts every frequency bucket tag.
const TagPrefix = "Freq:"

const (
	TagTop1k    = "Freq:Top_1k"
	TagTop2k    = "Freq:Top_2k"
	TagTop3k    = "Freq:Top_3k"
	TagTop5k    = "Freq:Top_5k"
	TagTop10k   = "Freq:Top_10k"
	TagTop20k   = "Freq:Top_20k"
	TagTop30k   = "Freq:Top_30k"
	TagTop50k   = "Freq:Top_50k"
	TagOver50k  = "Freq:Over_50k"
	TagNotFound = "Freq:Not_Found"
)

var buckets = []struct {
	max int
	tag string
}{
	{1000, TagTop1k},
	{2000, TagTop2k},
	{3000, TagTop3k},
	{5000, TagTop5k},
	{10000, TagTop10k},
	{20000, TagTop20k},
	{30000, TagTop30k},
	{50000, TagTop50k},
}

// Tags lists every bucket tag from most to least frequent.
var Tags = []string{
	TagTop1k, TagTop2k, TagTop3k, TagTop5k, TagTop10k,
	TagTop20k, TagTop30k, TagTop50k, TagOver50k, TagNotFound,
}

// Tag returns the bucket for rank. ok=false means the term has no rank.
func Tag(rank int, ok bool) string {
	if !ok {
		return TagNotFound
	}
	for _, b := range buckets {
		if rank <= b.max {
			return b.tag
		}
	}
	return TagOver50k
}

// IsTag reports whether tag is a frequency bucket tag.
func IsTag(tag string) bool {
	return strings.HasPrefix(tag, TagPrefix)
}
