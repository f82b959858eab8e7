package diag

import (
	"fmt"
)

// Code identifies one diagnostic kind. Numeric ranges group codes by the
// stage that emits them; the range also defines the report category.
type Code uint16

const (
	UnknownCode Code = 0

	// Header and path identity (1xxx).
	HdrInfo              Code = 1000
	HdrMissingHeader     Code = 1001
	HdrBadHeader         Code = 1002
	HdrBadNamespace      Code = 1003
	HdrBadFacet          Code = 1004
	HdrBadVersion        Code = 1005
	HdrTrailingContent   Code = 1006
	HdrPreambleContent   Code = 1007
	HdrPathMismatch      Code = 1008
	HdrUnrecognizedPath  Code = 1009
	HdrDuplicateIdentity Code = 1010

	// Block syntax (2xxx).
	SynInfo               Code = 2000
	SynUnexpectedToken    Code = 2001
	SynUnclosedBrace      Code = 2002
	SynExtraCloseBrace    Code = 2003
	SynTrailingComma      Code = 2004
	SynLegacyToken        Code = 2005
	SynUnterminatedString Code = 2006
	SynUnknownChar        Code = 2007
	SynMalformedProperty  Code = 2008

	// Intent minima and facet extraction (3xxx).
	IntInfo                 Code = 3000
	IntMissingIntent        Code = 3001
	IntMultipleIntents      Code = 3002
	IntMissingSummary       Code = 3003
	IntMissingRequirements  Code = 3004
	IntMissingTests         Code = 3005
	IntInvalidEmbeddedKey   Code = 3006
	IntMissingConstruct     Code = 3007
	IntPersonaMissingRole   Code = 3008
	IntPersonaMissingAccess Code = 3009
	IntNoEnvelope           Code = 3010

	// Includes and precedence resolution (4xxx).
	ResInfo                  Code = 4000
	ResBadIncludeKey         Code = 4001
	ResBadIncludeValue       Code = 4002
	ResIncludeTargetMissing  Code = 4003
	ResIncludeTargetMismatch Code = 4004
	ResOverridden            Code = 4005
	ResDuplicateFacet        Code = 4006

	// Dependencies and mappings (5xxx).
	DepInfo              Code = 5000
	DepBadEntry          Code = 5001
	DepUnresolvedRequire Code = 5002
	DepUnresolvedImport  Code = 5003
	DepConflict          Code = 5004
	DepMappingCycle      Code = 5005

	// Traceability and tiers (6xxx).
	TrcInfo               Code = 6000
	TrcTier1Fidelity      Code = 6001
	TrcDanglingContract   Code = 6002
	TrcDanglingSchemaAttr Code = 6003
	TrcDanglingView       Code = 6004

	// Registry and lock file (7xxx).
	RegInfo       Code = 7000
	RegBadIndex   Code = 7001
	RegMissingKey Code = 7002
	RegBadName    Code = 7003
	RegBadVersion Code = 7004
	RegBadEntry   Code = 7005
	RegBadLock    Code = 7006

	// Environment (8xxx).
	IOLoadFileError Code = 8001
)

var codeDescription = map[Code]string{
	UnknownCode: "unknown diagnostic",

	HdrInfo:              "header note",
	HdrMissingHeader:     "missing AIM header",
	HdrBadHeader:         "malformed AIM header",
	HdrBadNamespace:      "invalid feature namespace",
	HdrBadFacet:          "unknown facet kind",
	HdrBadVersion:        "invalid version",
	HdrTrailingContent:   "trailing content after header",
	HdrPreambleContent:   "content before AIM header",
	HdrPathMismatch:      "header does not match file path identity",
	HdrUnrecognizedPath:  "file path matches no accepted layout",
	HdrDuplicateIdentity: "duplicate source identity across layouts",

	SynInfo:               "syntax note",
	SynUnexpectedToken:    "unexpected token",
	SynUnclosedBrace:      "unclosed brace",
	SynExtraCloseBrace:    "unmatched closing brace",
	SynTrailingComma:      "trailing comma",
	SynLegacyToken:        "legacy metadata token",
	SynUnterminatedString: "unterminated string",
	SynUnknownChar:        "unknown character",
	SynMalformedProperty:  "malformed property",

	IntInfo:                 "intent note",
	IntMissingIntent:        "missing INTENT declaration",
	IntMultipleIntents:      "multiple INTENT declarations",
	IntMissingSummary:       "missing SUMMARY",
	IntMissingRequirements:  "missing or empty REQUIREMENTS",
	IntMissingTests:         "no TESTS declared",
	IntInvalidEmbeddedKey:   "invalid embedded facet key",
	IntMissingConstruct:     "missing facet construct",
	IntPersonaMissingRole:   "persona missing ROLE",
	IntPersonaMissingAccess: "persona missing ACCESS",
	IntNoEnvelope:           "no intent envelope found",

	ResInfo:                  "resolution note",
	ResBadIncludeKey:         "invalid INCLUDES key",
	ResBadIncludeValue:       "invalid INCLUDES value",
	ResIncludeTargetMissing:  "INCLUDES target not found",
	ResIncludeTargetMismatch: "INCLUDES target identity mismatch",
	ResOverridden:            "facet declaration overridden",
	ResDuplicateFacet:        "duplicate facet declaration",

	DepInfo:              "dependency note",
	DepBadEntry:          "malformed dependency entry",
	DepUnresolvedRequire: "unresolved REQUIRES alias",
	DepUnresolvedImport:  "unresolved IMPORT alias",
	DepConflict:          "conflicting dependency declarations",
	DepMappingCycle:      "mapping cycle detected",

	TrcInfo:               "traceability note",
	TrcTier1Fidelity:      "intent-only feature synthesized at reduced fidelity",
	TrcDanglingContract:   "view action references unknown contract",
	TrcDanglingSchemaAttr: "contract references unknown schema attribute",
	TrcDanglingView:       "persona references unknown view",

	RegInfo:       "registry note",
	RegBadIndex:   "invalid registry index",
	RegMissingKey: "missing registry key",
	RegBadName:    "invalid package name",
	RegBadVersion: "invalid package version",
	RegBadEntry:   "invalid package entry",
	RegBadLock:    "invalid lock file",

	IOLoadFileError: "failed to load file",
}

// ID returns the stable short identifier, e.g. "HDR1008".
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("HDR%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("INT%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("RES%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("DEP%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("TRC%04d", ic)
	case ic >= 7000 && ic < 8000:
		return fmt.Sprintf("REG%04d", ic)
	case ic >= 8000 && ic < 9000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

// Category returns the report category implied by the code range.
func (c Code) Category() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return "header"
	case ic >= 2000 && ic < 3000:
		return "syntax"
	case ic >= 3000 && ic < 4000:
		return "intent"
	case ic >= 4000 && ic < 5000:
		return "resolution"
	case ic >= 5000 && ic < 6000:
		return "dependency"
	case ic >= 6000 && ic < 7000:
		return "traceability"
	case ic >= 7000 && ic < 8000:
		return "registry"
	case ic >= 8000 && ic < 9000:
		return "io"
	}
	return "unknown"
}

// Title returns the human-readable description of the code.
func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
