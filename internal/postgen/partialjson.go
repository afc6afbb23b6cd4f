package postgen

import (
	"encoding/json"
	"strings"
)

// The provider streams one logical JSON document as a growing prefix. To
// publish a coherent snapshot after each delta the prefix has to be repaired
// into parseable JSON: open strings closed, dangling keys dropped, open
// objects and arrays closed.

type jsonFrame struct {
	open byte // '{' or '['
	// memberStart is the byte offset where the current in-progress member or
	// element of this frame begins. Truncating there drops only the value the
	// stream was cut in the middle of.
	memberStart int
	expectKey   bool
}

// CompletePartialJSON repairs a truncated JSON prefix into a parseable
// document. Returns false when no coherent document can be recovered yet;
// callers then simply wait for more bytes.
func CompletePartialJSON(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}
	s = s[start:]

	if out, ok := tryClose(s); ok {
		return out, true
	}
	if t, ok := truncateDangling(s); ok {
		if out, ok := tryClose(t); ok {
			return out, true
		}
	}
	return "", false
}

// DecodeGrowing repairs and decodes a streamed prefix into a partial map.
func DecodeGrowing(s string) (map[string]any, bool) {
	fixed, ok := CompletePartialJSON(s)
	if !ok {
		return nil, false
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(fixed), &obj); err != nil {
		return nil, false
	}
	return obj, true
}

func scanFrames(s string) (stack []jsonFrame, inString, escaped, keyPos bool) {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			if escaped {
				escaped = false
				continue
			}
			switch c {
			case '\\':
				escaped = true
			case '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
			keyPos = len(stack) > 0 && stack[len(stack)-1].open == '{' && stack[len(stack)-1].expectKey
		case '{':
			stack = append(stack, jsonFrame{open: '{', memberStart: i + 1, expectKey: true})
		case '[':
			stack = append(stack, jsonFrame{open: '[', memberStart: i + 1})
		case '}', ']':
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case ':':
			if len(stack) > 0 && stack[len(stack)-1].open == '{' {
				stack[len(stack)-1].expectKey = false
			}
		case ',':
			if len(stack) > 0 {
				top := &stack[len(stack)-1]
				top.memberStart = i + 1
				if top.open == '{' {
					top.expectKey = true
				}
			}
		}
	}
	return stack, inString, escaped, keyPos
}

func tryClose(s string) (string, bool) {
	stack, inString, escaped, keyPos := scanFrames(s)
	out := s
	if inString {
		if keyPos {
			// a half-received key cannot be closed into anything useful
			return "", false
		}
		if escaped {
			out = out[:len(out)-1]
		}
		out += `"`
	}
	out = strings.TrimRight(out, " \t\r\n")
	if strings.HasSuffix(out, ",") {
		out = strings.TrimRight(strings.TrimSuffix(out, ","), " \t\r\n")
	}
	if strings.HasSuffix(out, ":") {
		out += " null"
	}
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i].open == '{' {
			out += "}"
		} else {
			out += "]"
		}
	}
	var v any
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		return "", false
	}
	return out, true
}

func truncateDangling(s string) (string, bool) {
	stack, _, _, _ := scanFrames(s)
	if len(stack) == 0 {
		return "", false
	}
	return s[:stack[len(stack)-1].memberStart], true
}
