// Copyright 2026 ForgeQA Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ai

// repairJSON fixes the two malformations the completion models are
// observed to produce: object keys missing their opening quote
// (`{name": "x"}`) and a trailing comma before a closing bracket.
// String literal contents are never touched.
func repairJSON(s string) string {
	out := make([]byte, 0, len(s)+16)
	inString := false

	for i := 0; i < len(s); i++ {
		ch := s[i]

		if inString {
			out = append(out, ch)
			if ch == '\\' && i+1 < len(s) {
				i++
				out = append(out, s[i])
			} else if ch == '"' {
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
			out = append(out, ch)

		case '{', ',':
			out = append(out, ch)
			if start, end, ok := halfQuotedKey(s, i+1); ok {
				out = append(out, s[i+1:start]...)
				out = append(out, '"')
				out = append(out, s[start:end]...)
				// Resume at the closing quote the model did emit.
				i = end - 1
			}

		case '}', ']':
			out = dropTrailingComma(out)
			out = append(out, ch)

		default:
			out = append(out, ch)
		}
	}

	return string(out)
}

// halfQuotedKey reports whether a key missing its opening quote begins
// after position from: optional whitespace, then key text, then the
// `":` that should have closed a quoted key.
func halfQuotedKey(s string, from int) (start, end int, ok bool) {
	j := from
	for j < len(s) && isSpaceByte(s[j]) {
		j++
	}
	k := j
	for k < len(s) && isKeyByte(s[k]) {
		k++
	}
	if k == j || k+1 >= len(s) || s[k] != '"' || s[k+1] != ':' {
		return 0, 0, false
	}
	return j, k, true
}

// dropTrailingComma removes a comma dangling at the end of out, along
// with any whitespace after it.
func dropTrailingComma(out []byte) []byte {
	n := len(out)
	for n > 0 && isSpaceByte(out[n-1]) {
		n--
	}
	if n > 0 && out[n-1] == ',' {
		return out[:n-1]
	}
	return out
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// isKeyByte accepts the characters seen in model-produced key names,
// including the spaces in keys like "Test Case ID".
func isKeyByte(b byte) bool {
	return b == '_' || b == ' ' ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
