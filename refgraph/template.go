package refgraph

import "strings"

// TemplateRefs extracts the reference targets of a template string, in
// order of appearance. A reference is written ${path}; "$${" escapes a
// literal "${" and contributes no target. Unterminated references are
// ignored here and surface as errors during evaluation.
func TemplateRefs(s string) []string {
	var res []string
	for {
		i := strings.Index(s, "${")
		if i < 0 {
			return res
		}
		if i > 0 && s[i-1] == '$' {
			s = s[i+2:]
			continue
		}
		end := strings.IndexByte(s[i+2:], '}')
		if end < 0 {
			return res
		}
		res = append(res, s[i+2:i+2+end])
		s = s[i+2+end+1:]
	}
}
