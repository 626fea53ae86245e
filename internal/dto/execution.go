package dto

import "time"

type ListExecutionsParam struct {
	Status      string
	WorkflowID  string
	Limit       int
	Cursor      string
	IncludeData bool
}

type ExecutionListResponse struct {
	Data       []Execution `json:"data"`
	NextCursor *string     `json:"nextCursor"`
}

// Execution is the remote engine's execution document. WorkflowData and
// Data are only present when the fetch asked for embedded result data.
type Execution struct {
	ID           string                 `json:"id"`
	WorkflowID   string                 `json:"workflowId"`
	Status       string                 `json:"status"`
	Mode         *string                `json:"mode"`
	StartedAt    *time.Time             `json:"startedAt"`
	StoppedAt    *time.Time             `json:"stoppedAt"`
	CustomData   map[string]interface{} `json:"customData"`
	Annotation   *ExecutionAnnotation   `json:"annotation"`
	WorkflowData *WorkflowData          `json:"workflowData"`
	Data         *ExecutionData         `json:"data"`
}

type ExecutionAnnotation struct {
	CustomData map[string]interface{} `json:"customData"`
}

type WorkflowData struct {
	Nodes []WorkflowNode `json:"nodes"`
}

type WorkflowNode struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type ExecutionData struct {
	ResultData *ResultData `json:"resultData"`
}

// ResultData keys node runs by node name. A node may have multiple runs
// within one execution (retries); the last run supersedes earlier ones.
type ResultData struct {
	RunData map[string][]NodeRun `json:"runData"`
}

type NodeRun struct {
	StartTime     *int64        `json:"startTime"`
	ExecutionTime *int64        `json:"executionTime"`
	Error         *NodeRunError `json:"error"`
	// Data maps an output channel name to branches of items.
	Data map[string][][]NodeRunItem `json:"data"`
}

type NodeRunError struct {
	Message string `json:"message"`
}

type NodeRunItem struct {
	JSON map[string]interface{} `json:"json"`
}

type RetryExecutionRequest struct {
	LoadWorkflow bool `json:"loadWorkflow"`
}

type Workflow struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

type WorkflowListResponse struct {
	Data []Workflow `json:"data"`
}
