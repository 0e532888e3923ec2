package mdfancy

import "strings"

// StripFrontMatter removes a YAML (---), TOML (+++) or JSON (;;;) front
// matter block from the start of doc. The block is only recognised when its
// first inner line looks like metadata and a closing delimiter exists;
// otherwise doc is returned unchanged.
func StripFrontMatter(doc string) string {
	openLine, next, ok := nextLine(doc, 0)
	if !ok {
		return doc
	}
	delim, ok := frontMatterDelimiter(openLine)
	if !ok {
		return doc
	}
	firstLine, _, ok := nextLine(doc, next)
	if !ok || !metadataLikely(firstLine) {
		return doc
	}
	for idx := next; idx < len(doc); {
		line, after, ok := nextLine(doc, idx)
		if !ok {
			break
		}
		if strings.TrimSpace(line) == delim {
			return doc[after:]
		}
		idx = after
	}
	return doc
}

func nextLine(doc string, start int) (string, int, bool) {
	if start >= len(doc) {
		return "", start, false
	}
	i := strings.IndexByte(doc[start:], '\n')
	if i < 0 {
		return strings.TrimSuffix(doc[start:], "\r"), len(doc), true
	}
	return strings.TrimSuffix(doc[start:start+i], "\r"), start + i + 1, true
}

func frontMatterDelimiter(line string) (string, bool) {
	switch trimmed := strings.TrimSpace(strings.TrimPrefix(line, "\ufeff")); trimmed {
	case "---", "+++", ";;;":
		return trimmed, true
	default:
		return "", false
	}
}

func metadataLikely(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return true
	}
	return strings.ContainsAny(trimmed, ":=")
}
