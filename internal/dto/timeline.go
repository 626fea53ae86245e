package dto

// NodeRunSummary is one entry of the per-execution node timeline. Times are
// epoch milliseconds as reported by the remote engine.
type NodeRunSummary struct {
	Name          string      `json:"name"`
	Type          string      `json:"type"`
	Ran           bool        `json:"ran"`
	StartTime     *int64      `json:"start_time,omitempty"`
	ExecutionTime *int64      `json:"execution_time,omitempty"`
	Error         *string     `json:"error,omitempty"`
	Output        interface{} `json:"output,omitempty"`
}
