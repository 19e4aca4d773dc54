package dto

import (
	"fmt"
	"strings"
)

// Tool names form the contract with the tool-calling provider and must
// stay in sync with the schemas in internal/oracle.
const (
	ToolAddSession    = "add_study_session"
	ToolDeleteSession = "delete_study_session"
	ToolMoveSession   = "move_study_session"
)

// Intent is one structured schedule-mutation request extracted from user
// text by the provider. One variant per tool; consumers dispatch with an
// exhaustive type switch so adding a tool is a compile-time change.
type Intent interface {
	isIntent()
}

// AddSession schedules a new study block.
type AddSession struct {
	Day          string
	StartTime    string
	EndTime      string
	Subject      string
	TopicName    string
	ActivityType string
	Teacher      string
	Resource     string
}

// DeleteSession removes one or more blocks on a day, narrowed by hints
// or an explicit time range.
type DeleteSession struct {
	Day        string
	TimeHint   string
	TopicHint  string
	StartRange string
	EndRange   string
}

// MoveSession relocates an existing block to a new day and window.
type MoveSession struct {
	FromDay     string
	TopicHint   string
	FromTime    string
	ToDay       string
	ToStartTime string
	ToEndTime   string
}

func (AddSession) isIntent()    {}
func (DeleteSession) isIntent() {}
func (MoveSession) isIntent()   {}

// ToolCall is a raw structured call as returned by the provider.
type ToolCall struct {
	Name string
	Args map[string]any
}

// ToolResult is the machine-readable outcome handed back to the provider
// for rephrasing into the final user-visible reply.
type ToolResult struct {
	Name    string `json:"name"`
	Message string `json:"message"`
	Success bool   `json:"success"`
}

// ParseIntent maps a raw tool call onto its Intent variant, enforcing
// the required parameters of the tool contract.
func ParseIntent(call ToolCall) (Intent, error) {
	switch call.Name {
	case ToolAddSession:
		add := AddSession{
			Day:          argString(call.Args, "day"),
			StartTime:    argString(call.Args, "startTime"),
			EndTime:      argString(call.Args, "endTime"),
			Subject:      argString(call.Args, "subject"),
			TopicName:    argString(call.Args, "topicName"),
			ActivityType: argString(call.Args, "activityType"),
			Teacher:      argString(call.Args, "teacher"),
			Resource:     argString(call.Args, "resource"),
		}
		if add.Day == "" || add.StartTime == "" || add.EndTime == "" || add.Subject == "" || add.TopicName == "" {
			return nil, fmt.Errorf("%s: missing required parameters", call.Name)
		}
		return add, nil
	case ToolDeleteSession:
		del := DeleteSession{
			Day:        argString(call.Args, "day"),
			TimeHint:   argString(call.Args, "timeHint"),
			TopicHint:  argString(call.Args, "topicHint"),
			StartRange: argString(call.Args, "startRange"),
			EndRange:   argString(call.Args, "endRange"),
		}
		if del.Day == "" {
			return nil, fmt.Errorf("%s: missing required parameter day", call.Name)
		}
		return del, nil
	case ToolMoveSession:
		move := MoveSession{
			FromDay:     argString(call.Args, "fromDay"),
			TopicHint:   argString(call.Args, "topicHint"),
			FromTime:    argString(call.Args, "fromTime"),
			ToDay:       argString(call.Args, "toDay"),
			ToStartTime: argString(call.Args, "toStartTime"),
			ToEndTime:   argString(call.Args, "toEndTime"),
		}
		if move.FromDay == "" || move.ToDay == "" || move.ToStartTime == "" || move.ToEndTime == "" {
			return nil, fmt.Errorf("%s: missing required parameters", call.Name)
		}
		return move, nil
	default:
		return nil, fmt.Errorf("unknown tool %q", call.Name)
	}
}

func argString(args map[string]any, key string) string {
	if args == nil {
		return ""
	}
	v, ok := args[key]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}
