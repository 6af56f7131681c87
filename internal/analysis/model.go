package analysis

// Request is the inbound analysis payload.
type Request struct {
	Text string `json:"text"`
}

// Result is the fixed four-field shape returned to callers.
type Result struct {
	Tone    string `json:"tone"`
	Intent  string `json:"intent"`
	Impact  string `json:"impact"`
	Rewrite string `json:"rewrite"`
}
