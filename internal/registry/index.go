// Package registry reads the local package catalog (registry/index.json)
// and the aim.lock file. The engine never fetches anything: both files are
// local project state and validation is the only network-free obligation.
package registry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"aim/internal/diag"
	"aim/internal/header"
	"aim/internal/source"
)

// Package is one catalog entry.
type Package struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Entry   string `json:"entry"`
}

// Index is the parsed registry/index.json.
type Index struct {
	Version  int       `json:"version"`
	Packages []Package `json:"packages"`
}

// CurrentIndexVersion is the index schema this engine understands.
const CurrentIndexVersion = 1

// LoadIndex reads and validates a registry index. The raw file is added to
// the FileSet so diagnostics carry a real file identity; structural
// problems are reported against the file as a whole. Validation never
// short-circuits: every bad entry is reported.
func LoadIndex(path string, fs *source.FileSet, rep diag.Reporter) (Index, bool) {
	raw, err := os.ReadFile(path)
	if err != nil {
		reportAt(rep, diag.RegBadIndex, source.Span{},
			fmt.Sprintf("cannot read registry index: %v", err))
		return Index{}, false
	}
	id := fs.AddVirtual(path, raw)
	fileSpan := source.Span{File: id}

	var idx Index
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&idx); err != nil {
		reportAt(rep, diag.RegBadIndex, fileSpan,
			fmt.Sprintf("registry index is not valid JSON: %v", err))
		return Index{}, false
	}

	ok := true
	if idx.Version != CurrentIndexVersion {
		reportAt(rep, diag.RegBadIndex, fileSpan,
			fmt.Sprintf("unsupported index version %d, want %d", idx.Version, CurrentIndexVersion))
		ok = false
	}
	for i, pkg := range idx.Packages {
		ok = validatePackage(i, pkg, fileSpan, rep) && ok
	}
	return idx, ok
}

func validatePackage(i int, pkg Package, fileSpan source.Span, rep diag.Reporter) bool {
	ok := true
	where := "package #" + strconv.Itoa(i)
	if pkg.Name != "" {
		where = "package " + strconv.Quote(pkg.Name)
	}

	switch {
	case pkg.Name == "":
		reportAt(rep, diag.RegMissingKey, fileSpan, where+" is missing its name")
		ok = false
	default:
		if _, valid := header.ParseNamespace(pkg.Name); !valid {
			reportAt(rep, diag.RegBadName, fileSpan,
				where+": name must be lowercase dotted segments")
			ok = false
		}
	}

	if pkg.Version == "" {
		reportAt(rep, diag.RegMissingKey, fileSpan, where+" is missing its version")
		ok = false
	} else if !ValidVersion(pkg.Version) {
		reportAt(rep, diag.RegBadVersion, fileSpan,
			where+": version must be '<digits>.<digits>', got "+strconv.Quote(pkg.Version))
		ok = false
	}

	switch {
	case pkg.Entry == "":
		reportAt(rep, diag.RegMissingKey, fileSpan, where+" is missing its entry file")
		ok = false
	case !strings.HasSuffix(pkg.Entry, ".intent"):
		reportAt(rep, diag.RegBadEntry, fileSpan,
			where+": entry must be an .intent path, got "+strconv.Quote(pkg.Entry))
		ok = false
	}
	return ok
}

// ValidVersion checks the strict two-part version grammar.
func ValidVersion(v string) bool {
	major, minor, found := strings.Cut(v, ".")
	if !found || major == "" || minor == "" {
		return false
	}
	return allDigits(major) && allDigits(minor)
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func reportAt(rep diag.Reporter, code diag.Code, sp source.Span, msg string) {
	if rep != nil {
		rep.Report(code, diag.SevError, sp, msg, nil)
	}
}
