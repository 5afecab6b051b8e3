package convert

import (
	"regexp"
	"strconv"
	"strings"
)

// Patterns for ToC entries: numeric, roman numerals, alphabetic appendices, and explicit Appendix prefix.
var (
	tocNumRe      = regexp.MustCompile(`^\s*(\d+(?:\.\d+)*)\.?\s+(.+?)\s+(\d+)\s*$`)
	tocRomanRe    = regexp.MustCompile(`^\s*([IVXLCDM]+)(?:\.([0-9]+))?\.?\s+(.+?)\s+(\d+)\s*$`)
	tocAlphaRe    = regexp.MustCompile(`^\s*([A-Z](?:\.[0-9]+)*)\.?\s+(.+?)\s+(\d+)\s*$`)
	tocAppendixRe = regexp.MustCompile(`^\s*(?:Appendix|APPENDIX)\s+([A-Z](?:\.[0-9]+)*)\.?\s+(.+?)\s+(\d+)\s*$`)
	tocHeaderRe   = regexp.MustCompile(`(?im)\btable of contents\b|^\s*contents\s*$`)
	dotLeaderRe   = regexp.MustCompile(`(?:\s*\.){3,}\s*`)
)

type tocEntry struct {
	Number string // display number token (e.g., 1.2, I, A.1)
	Title  string
	Page   int
	Depth  int
}

func parseToCLines(lines []string) []tocEntry {
	var out []tocEntry
	seen := map[string]bool{}
	for _, line := range lines {
		e, ok := matchToC(normalizeDotLeaders(line))
		if !ok || seen[e.Number] {
			continue
		}
		seen[e.Number] = true
		out = append(out, e)
	}
	return out
}

func matchToC(line string) (tocEntry, bool) {
	if m := tocAppendixRe.FindStringSubmatch(line); len(m) == 4 {
		p, _ := strconv.Atoi(m[3])
		return tocEntry{Number: m[1], Title: strings.TrimSpace(m[2]), Page: p, Depth: strings.Count(m[1], ".") + 1}, true
	}
	if m := tocNumRe.FindStringSubmatch(line); len(m) == 4 {
		p, _ := strconv.Atoi(m[3])
		return tocEntry{Number: m[1], Title: strings.TrimSpace(m[2]), Page: p, Depth: strings.Count(m[1], ".") + 1}, true
	}
	if m := tocRomanRe.FindStringSubmatch(line); len(m) == 5 {
		p, _ := strconv.Atoi(m[4])
		// depth is 1 if only roman; if has .<n>, treat as depth 2
		depth := 1
		num := m[1]
		if m[2] != "" {
			num = num + "." + m[2]
			depth = 2
		}
		return tocEntry{Number: num, Title: strings.TrimSpace(m[3]), Page: p, Depth: depth}, true
	}
	if m := tocAlphaRe.FindStringSubmatch(line); len(m) == 4 {
		p, _ := strconv.Atoi(m[3])
		return tocEntry{Number: m[1], Title: strings.TrimSpace(m[2]), Page: p, Depth: strings.Count(m[1], ".") + 1}, true
	}
	return tocEntry{}, false
}

func isToCLine(s string) bool {
	_, ok := matchToC(normalizeDotLeaders(s))
	return ok
}

func normalizeDotLeaders(s string) string {
	s = strings.ReplaceAll(s, "•", " ")
	s = strings.ReplaceAll(s, "·", " ")
	s = strings.ReplaceAll(s, "…", " ... ")
	s = dotLeaderRe.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// findToC scans the first n pages for a table of contents. It starts at the
// first page with a "Contents" header (or, failing that, the first page with
// ToC-looking lines) and follows it onto later pages until a page adds nothing.
func findToC(pages []string, n int) []string {
	if n <= 0 {
		n = 8
	}
	start := -1
	for i := 0; i < len(pages) && i < n; i++ {
		if tocHeaderRe.MatchString(pages[i]) {
			start = i
			break
		}
	}
	if start == -1 {
		for i := 0; i < len(pages) && i < n; i++ {
			if countToCLines(pages[i]) >= 3 {
				start = i
				break
			}
		}
	}
	if start == -1 {
		return nil
	}

	var lines []string
	for i := start; i < len(pages) && i < n; i++ {
		added := false
		for _, ln := range strings.Split(pages[i], "\n") {
			ln = strings.TrimSpace(ln)
			if ln != "" && isToCLine(ln) {
				lines = append(lines, ln)
				added = true
			}
		}
		// stop if a page adds nothing, assuming ToC ended
		if !added && i > start {
			break
		}
	}
	return lines
}

func countToCLines(p string) int {
	n := 0
	for _, ln := range strings.Split(p, "\n") {
		if isToCLine(strings.TrimSpace(ln)) {
			n++
		}
	}
	return n
}

func tocEntries(entries []tocEntry) []entry {
	out := make([]entry, 0, len(entries))
	for _, e := range entries {
		out = append(out, entry{ID: "toc-" + slugify(e.Number), Label: e.Number + " " + e.Title, Depth: e.Depth})
	}
	return out
}
