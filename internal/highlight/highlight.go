package highlight

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

var ansiCSI = regexp.MustCompile(`\x1b\[[0-?]*[ -/]*[@-~]`)

type Result struct {
	Text      string
	Count     int
	LineIndex []int
}

// ApplyANSI wraps every case-insensitive occurrence of any whitespace
// separated term of query. Escape sequences in input are kept intact and
// never take part in a match.
func ApplyANSI(input, query string, wrap func(string) string) Result {
	terms := Terms(query)
	if len(terms) == 0 {
		return Result{Text: input}
	}
	if wrap == nil {
		wrap = func(s string) string { return s }
	}

	lines := strings.SplitAfter(input, "\n")

	var out strings.Builder
	lineMatches := make([]int, 0, 64)
	total := 0

	for lineNo, line := range lines {
		core, hasNewline := strings.CutSuffix(line, "\n")

		rendered, count := applyToANSIText(core, terms, wrap)
		out.WriteString(rendered)
		if hasNewline {
			out.WriteByte('\n')
		}
		if count > 0 {
			lineMatches = append(lineMatches, lineNo)
			total += count
		}
	}

	return Result{
		Text:      out.String(),
		Count:     total,
		LineIndex: lineMatches,
	}
}

// Terms splits a query into unique terms lower-cased rune by rune,
// longest first. Surrounding quotes are dropped.
func Terms(query string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, f := range strings.Fields(query) {
		f = strings.Map(unicode.ToLower, strings.Trim(f, `"'`))
		if f == "" {
			continue
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	sort.SliceStable(out, func(i, j int) bool { return len(out[i]) > len(out[j]) })
	return out
}

func applyToANSIText(s string, terms []string, wrap func(string) string) (string, int) {
	indices := ansiCSI.FindAllStringIndex(s, -1)
	if len(indices) == 0 {
		return applyToPlain(s, terms, wrap)
	}

	var out strings.Builder
	total := 0
	pos := 0
	for _, idx := range indices {
		if idx[0] > pos {
			plain, count := applyToPlain(s[pos:idx[0]], terms, wrap)
			out.WriteString(plain)
			total += count
		}
		out.WriteString(s[idx[0]:idx[1]])
		pos = idx[1]
	}
	if pos < len(s) {
		plain, count := applyToPlain(s[pos:], terms, wrap)
		out.WriteString(plain)
		total += count
	}
	return out.String(), total
}

func applyToPlain(s string, terms []string, wrap func(string) string) (string, int) {
	if s == "" {
		return s, 0
	}

	var out strings.Builder
	count := 0
	start := 0
	for {
		idx, length := nextMatch(s, start, terms)
		if idx < 0 {
			out.WriteString(s[start:])
			break
		}
		out.WriteString(s[start:idx])
		out.WriteString(wrap(s[idx : idx+length]))
		count++
		start = idx + length
	}
	return out.String(), count
}

// nextMatch finds the earliest term occurrence at or after start. Terms
// are ordered longest first, so ties go to the longest term.
func nextMatch(s string, start int, terms []string) (int, int) {
	for i := start; i < len(s); {
		for _, term := range terms {
			if n := matchAt(s, i, term); n > 0 {
				return i, n
			}
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return -1, 0
}

// matchAt returns how many bytes of s starting at i match term when
// each rune of s is lower-cased, or 0. Byte offsets stay those of s.
func matchAt(s string, i int, term string) int {
	j := i
	for _, tr := range term {
		if j >= len(s) {
			return 0
		}
		r, size := utf8.DecodeRuneInString(s[j:])
		if unicode.ToLower(r) != tr {
			return 0
		}
		j += size
	}
	return j - i
}
