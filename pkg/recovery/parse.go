package recovery

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
	"github.com/tidwall/gjson"

	"github.com/harun/kestrel/pkg/planner"
)

// ParseError reports that a policy reply could not be turned into a
// recovery outcome.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unparseable recovery decision: %s", e.Reason)
}

// ParseOutcome extracts a recovery decision from model output. The
// decision is a JSON object of shape
//
//	{"action": "retry"|"alternative"|"skip"|"abort", "details": {...}}
//
// found either inside a fenced code block or as the first top-level
// object in the text. Malformed JSON is run through jsonrepair before
// giving up.
func ParseOutcome(text string) (planner.Outcome, error) {
	candidate := extractJSON(text)
	if candidate == "" {
		return planner.Unresolved, &ParseError{Reason: "no JSON object in reply"}
	}

	if !json.Valid([]byte(candidate)) {
		repaired, err := jsonrepair.JSONRepair(candidate)
		if err != nil {
			return planner.Unresolved, &ParseError{Reason: "invalid JSON: " + err.Error()}
		}
		candidate = repaired
	}

	doc := gjson.Parse(candidate)
	action := planner.Action(strings.ToLower(doc.Get("action").String()))

	switch action {
	case planner.ActionRetry:
		return planner.Outcome{
			Action: planner.ActionRetry,
			Params: objectField(doc, "details.params", "params"),
		}, nil

	case planner.ActionAlternative:
		tool := firstString(doc, "details.tool", "tool")
		if tool == "" {
			return planner.Unresolved, &ParseError{Reason: "alternative decision names no tool"}
		}
		return planner.Outcome{
			Action: planner.ActionAlternative,
			Tool:   tool,
			Params: objectField(doc, "details.parameters", "details.params", "parameters"),
		}, nil

	case planner.ActionSkip, planner.ActionAbort:
		return planner.Outcome{
			Action: action,
			Reason: firstString(doc, "details.reason", "reason"),
		}, nil

	default:
		return planner.Unresolved, &ParseError{
			Reason: fmt.Sprintf("unknown action %q", doc.Get("action").String()),
		}
	}
}

func objectField(doc gjson.Result, paths ...string) map[string]interface{} {
	for _, path := range paths {
		if value, ok := doc.Get(path).Value().(map[string]interface{}); ok {
			return value
		}
	}
	return nil
}

func firstString(doc gjson.Result, paths ...string) string {
	for _, path := range paths {
		if s := doc.Get(path).String(); s != "" {
			return s
		}
	}
	return ""
}

// extractJSON returns the decision candidate: the contents of the
// first fenced code block if one is present, otherwise the first
// balanced top-level {...} in the text.
func extractJSON(text string) string {
	if fenced := extractFenced(text); fenced != "" {
		return fenced
	}
	return extractBraced(text)
}

func extractFenced(text string) string {
	start := strings.Index(text, "```")
	if start < 0 {
		return ""
	}
	rest := text[start+3:]
	if newline := strings.IndexByte(rest, '\n'); newline >= 0 {
		// Drop the language tag line ("json" etc).
		if tag := strings.TrimSpace(rest[:newline]); tag == "" || !strings.ContainsAny(tag, "{}") {
			rest = rest[newline+1:]
		}
	}
	end := strings.Index(rest, "```")
	if end < 0 {
		return strings.TrimSpace(rest)
	}
	return strings.TrimSpace(rest[:end])
}

func extractBraced(text string) string {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return text[start:]
}
