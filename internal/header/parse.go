package header

import (
	"regexp"
	"strconv"
	"strings"

	"aim/internal/diag"
	"aim/internal/source"
)

// headerRE is the contractual grammar for the one-line AIM declaration.
var headerRE = regexp.MustCompile(
	`^AIM:\s+([a-z0-9]+(?:\.[a-z0-9]+)*)#(intent|schema|flow|contract|persona|view|event|mapping)@([0-9]+\.[0-9]+)$`)

// relaxedRE splits an AIM-prefixed line into its parts without judging them,
// so a near-miss gets a precise diagnostic instead of a generic one.
var relaxedRE = regexp.MustCompile(`^AIM:\s+([^#\s]+)#([^@\s]+)@(\S+)(.*)$`)

var versionRE = regexp.MustCompile(`^[0-9]+\.[0-9]+$`)

// Extract locates and validates the header of one file. It returns the
// header, the byte offset where the block body starts (just past the header
// line), and whether extraction succeeded. Blank lines before the header are
// tolerated; any other preamble is a hard error.
func Extract(file *source.File, rep diag.Reporter) (Header, uint32, bool) {
	content := file.Content
	lineStart := uint32(0)

	for lineStart < uint32(len(content)) {
		lineEnd := lineStart
		for lineEnd < uint32(len(content)) && content[lineEnd] != '\n' {
			lineEnd++
		}
		line := string(content[lineStart:lineEnd])
		bodyOffset := lineEnd
		if bodyOffset < uint32(len(content)) {
			bodyOffset++ // past the newline
		}

		if strings.TrimSpace(line) == "" {
			lineStart = bodyOffset
			continue
		}

		sp := source.Span{File: file.ID, Start: lineStart, End: lineEnd}
		h, ok := parseHeaderLine(line, sp, rep)
		if !ok {
			return Header{}, 0, false
		}
		return h, bodyOffset, true
	}

	report(rep, diag.HdrMissingHeader, source.Span{File: file.ID}, "file has no AIM header")
	return Header{}, 0, false
}

func parseHeaderLine(line string, sp source.Span, rep diag.Reporter) (Header, bool) {
	if m := headerRE.FindStringSubmatch(line); m != nil {
		ns, _ := ParseNamespace(m[1])
		facet, _ := ParseFacetKind(m[2])
		return Header{
			Namespace: ns,
			Facet:     facet,
			Version:   parseVersion(m[3]),
			Span:      sp,
		}, true
	}

	if !strings.HasPrefix(line, "AIM:") {
		report(rep, diag.HdrPreambleContent, sp,
			"content before AIM header: first non-blank line must be the header, got "+strconv.Quote(line))
		return Header{}, false
	}

	// The line is AIM-shaped but fails the grammar; pin down which part.
	m := relaxedRE.FindStringSubmatch(line)
	if m == nil {
		report(rep, diag.HdrBadHeader, sp,
			"malformed AIM header, expected 'AIM: <namespace>#<facet>@<major.minor>'")
		return Header{}, false
	}

	nsPart, facetPart, verPart, rest := m[1], m[2], m[3], m[4]
	_, nsOK := ParseNamespace(nsPart)
	_, facetOK := ParseFacetKind(facetPart)

	switch {
	case strings.TrimSpace(rest) != "":
		report(rep, diag.HdrTrailingContent, sp,
			"trailing content after header: "+strconv.Quote(strings.TrimSpace(rest)))
	case !nsOK:
		report(rep, diag.HdrBadNamespace, sp,
			"invalid namespace "+strconv.Quote(nsPart)+": expected lowercase dot-separated segments")
	case !facetOK:
		report(rep, diag.HdrBadFacet, sp,
			"unknown facet "+strconv.Quote(facetPart)+": expected one of intent|schema|flow|contract|persona|view|event|mapping")
	case !versionRE.MatchString(verPart):
		report(rep, diag.HdrBadVersion, sp,
			"invalid version "+strconv.Quote(verPart)+": expected exactly <major>.<minor>")
	default:
		report(rep, diag.HdrBadHeader, sp, "malformed AIM header")
	}
	return Header{}, false
}

func parseVersion(s string) Version {
	parts := strings.SplitN(s, ".", 2)
	major, _ := strconv.Atoi(parts[0])
	minor, _ := strconv.Atoi(parts[1])
	return Version{Major: major, Minor: minor}
}

func report(rep diag.Reporter, code diag.Code, sp source.Span, msg string) {
	if rep != nil {
		rep.Report(code, diag.SevError, sp, msg, nil)
	}
}
