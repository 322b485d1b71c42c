package domain

// RankedPassage is a search hit after rank fusion.
type RankedPassage struct {
	Content  string  `json:"content"`
	Filename string  `json:"filename"`
	Score    float64 `json:"score"`
	Payload  Payload `json:"payload"`
}

// SearchResult is the tagged outcome of a hybrid search. The read path
// never propagates backend errors: a degraded result carries an empty
// passage list plus the reason, so callers and tests can distinguish
// "no documents found" from "search was unavailable".
type SearchResult struct {
	Query    string          `json:"query"`
	Passages []RankedPassage `json:"passages"`
	Degraded bool            `json:"degraded,omitempty"`
	Reason   string          `json:"reason,omitempty"`
}

// Empty reports whether the search produced no passages.
func (r *SearchResult) Empty() bool {
	return len(r.Passages) == 0
}

// IngestMetadata is caller-supplied metadata merged into every point
// payload written for one document.
type IngestMetadata struct {
	PageCount int
	PIIMasked bool
	Extra     map[string]string
}
