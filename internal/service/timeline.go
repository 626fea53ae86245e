package service

import (
	"sort"
	"strconv"
	"strings"

	"flowsync/internal/dto"
	"flowsync/pkg/utils"
)

// BuildNodeTimeline turns a raw execution document into a time-ordered list
// of node-run summaries. Only nodes that ran are kept; the last run of a
// node supersedes earlier retries. Structural gaps in the document degrade
// to fewer entries, never to a panic.
func BuildNodeTimeline(exec *dto.Execution) []dto.NodeRunSummary {
	if exec == nil || exec.WorkflowData == nil {
		return nil
	}

	var runData map[string][]dto.NodeRun
	if exec.Data != nil && exec.Data.ResultData != nil {
		runData = exec.Data.ResultData.RunData
	}

	summaries := make([]dto.NodeRunSummary, 0, len(exec.WorkflowData.Nodes))
	for _, node := range exec.WorkflowData.Nodes {
		runs := runData[node.Name]
		if len(runs) == 0 {
			continue
		}

		last := runs[len(runs)-1]
		summary := dto.NodeRunSummary{
			Name:          node.Name,
			Type:          shortNodeType(node.Type),
			Ran:           true,
			StartTime:     last.StartTime,
			ExecutionTime: last.ExecutionTime,
			Output:        nodeOutput(last),
		}
		if last.Error != nil && last.Error.Message != "" {
			summary.Error = utils.ToPointer(last.Error.Message)
		}

		summaries = append(summaries, summary)
	}

	// Ascending by start time; a missing start time sorts as earliest.
	sort.SliceStable(summaries, func(i, j int) bool {
		si, sj := summaries[i].StartTime, summaries[j].StartTime
		if si == nil {
			return sj != nil
		}
		if sj == nil {
			return false
		}
		return *si < *sj
	})

	return summaries
}

// shortNodeType reduces a dotted node type to its last segment.
func shortNodeType(nodeType string) string {
	if idx := strings.LastIndex(nodeType, "."); idx >= 0 {
		return nodeType[idx+1:]
	}
	return nodeType
}

// nodeOutput flattens the run's output channels into the payloads of the
// items that carry one. A single payload is exposed unwrapped so the common
// single-output case needs no list handling downstream.
func nodeOutput(run dto.NodeRun) interface{} {
	if len(run.Data) == 0 {
		return nil
	}

	channels := make([]string, 0, len(run.Data))
	for name := range run.Data {
		channels = append(channels, name)
	}
	sort.Strings(channels)

	var payloads []interface{}
	for _, name := range channels {
		for _, branch := range run.Data[name] {
			for _, item := range branch {
				if item.JSON == nil {
					continue
				}
				payloads = append(payloads, item.JSON)
			}
		}
	}

	switch len(payloads) {
	case 0:
		return nil
	case 1:
		return payloads[0]
	default:
		return payloads
	}
}

// ExtractCustomValue pulls one business value out of an execution document:
// the top-level custom-data map wins, then the annotation's custom-data map,
// then the first matching key found in any node run's output payloads. It
// returns nil when the key is absent or the document has an unexpected
// shape.
func ExtractCustomValue(exec *dto.Execution, key string) *string {
	if exec == nil || key == "" {
		return nil
	}

	if v, ok := exec.CustomData[key]; ok {
		if s := stringifyValue(v); s != nil {
			return s
		}
	}

	if exec.Annotation != nil {
		if v, ok := exec.Annotation.CustomData[key]; ok {
			if s := stringifyValue(v); s != nil {
				return s
			}
		}
	}

	if exec.Data == nil || exec.Data.ResultData == nil {
		return nil
	}

	for _, runs := range exec.Data.ResultData.RunData {
		for _, run := range runs {
			for _, branches := range run.Data {
				for _, branch := range branches {
					for _, item := range branch {
						if v, ok := item.JSON[key]; ok {
							if s := stringifyValue(v); s != nil {
								return s
							}
						}
					}
				}
			}
		}
	}

	return nil
}

func stringifyValue(v interface{}) *string {
	switch value := v.(type) {
	case string:
		if value == "" {
			return nil
		}
		return utils.ToPointer(value)
	case float64:
		return utils.ToPointer(strconv.FormatFloat(value, 'f', -1, 64))
	case int64:
		return utils.ToPointer(strconv.FormatInt(value, 10))
	case bool:
		return utils.ToPointer(strconv.FormatBool(value))
	default:
		return nil
	}
}
