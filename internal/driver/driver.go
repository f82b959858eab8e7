// Package driver orchestrates the resolution pipeline: source discovery,
// parallel per-file parsing and extraction, whole-feature resolution, and
// the on-disk run cache. Per-file work runs fan-out with a local diagnostic
// bag per file; bags merge after the join in path order, so output is
// deterministic regardless of scheduling.
package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"aim/internal/diag"
	"aim/internal/facet"
	"aim/internal/header"
	"aim/internal/lexer"
	"aim/internal/observ"
	"aim/internal/parser"
	"aim/internal/project"
	"aim/internal/resolve"
	"aim/internal/source"
)

// DefaultMaxDiagnostics caps each bag unless the caller overrides it.
const DefaultMaxDiagnostics = 256

// invalidFile marks a path whose load failed; no span ever refers to it.
const invalidFile = ^source.FileID(0)

// Options configures a pipeline run.
type Options struct {
	// Jobs limits parse parallelism; 0 means GOMAXPROCS.
	Jobs int
	// MaxDiagnostics caps the merged bag; 0 applies the default.
	MaxDiagnostics int
	// NoCache disables the run cache.
	NoCache bool
	// CacheDir overrides the XDG cache location, mainly for tests.
	CacheDir string
	// Timer records stage durations when non-nil.
	Timer *observ.Timer
}

func (o Options) maxDiagnostics() int {
	if o.MaxDiagnostics > 0 {
		return o.MaxDiagnostics
	}
	return DefaultMaxDiagnostics
}

// FeatureSummary is the cacheable digest of one resolved feature.
type FeatureSummary struct {
	Namespace string
	Tier      uint8
	Facets    []string
	Aliases   int
}

// Result is the outcome of a pipeline run.
type Result struct {
	FileSet  *source.FileSet
	Bag      *diag.Bag
	Features []FeatureSummary
	// Model is the full resolution model; nil when the run was answered
	// from the cache.
	Model     *resolve.Model
	FromCache bool
}

// ResolveDir runs the full pipeline over the project's aim/ tree.
func ResolveDir(ctx context.Context, root string, opts Options) (*Result, error) {
	return run(ctx, root, opts, true)
}

// ValidateDir runs only the per-file stages: header, syntax, and identity.
// It never touches the cache; validation is cheap and always fresh.
func ValidateDir(ctx context.Context, root string, opts Options) (*Result, error) {
	return run(ctx, root, opts, false)
}

func run(ctx context.Context, root string, opts Options, full bool) (*Result, error) {
	srcDir := project.SourceDir(root)

	end := opts.Timer.Stage("discover")
	relPaths, err := listIntentFiles(srcDir)
	end(countNote(len(relPaths), "files"))
	if err != nil {
		return nil, err
	}

	fileSet := source.NewFileSetWithBase(srcDir)
	bag := diag.NewBag(opts.maxDiagnostics())
	rep := diag.BagReporter{Bag: bag}

	// Load in sorted order so FileIDs are deterministic; the cache digest
	// and cached spans rely on that.
	ids := make([]source.FileID, len(relPaths))
	for i, rel := range relPaths {
		id, err := fileSet.Load(filepath.Join(srcDir, filepath.FromSlash(rel)))
		if err != nil {
			ids[i] = invalidFile
			rep.Report(diag.IOLoadFileError, diag.SevError, source.Span{File: invalidFile},
				"failed to load "+rel+": "+err.Error(), nil)
			continue
		}
		ids[i] = id
	}

	var cache *Cache
	var key Digest
	if full && !opts.NoCache {
		if c, err := OpenCache("aim", opts.CacheDir); err == nil {
			cache = c
			key = runDigest(fileSet, relPaths, ids)
			if payload, hit, _ := cache.get(key); hit {
				return resultFromCache(fileSet, bag, payload), nil
			}
		}
	}

	end = opts.Timer.Stage("parse")
	outcomes, err := parseFiles(ctx, fileSet, relPaths, ids, opts, full)
	end(countNote(len(relPaths), "files"))
	if err != nil {
		return nil, err
	}

	end = opts.Timer.Stage("identity")
	var in resolve.Input
	for _, out := range outcomes {
		bag.Merge(out.bag)
		if out.identity != nil {
			in.Identities = append(in.Identities, *out.identity)
		}
		if out.env != nil {
			in.Envelopes = append(in.Envelopes, out.env)
		}
		in.Records = append(in.Records, out.records...)
		if out.mapping != nil {
			in.Mappings = append(in.Mappings, out.mapping)
		}
	}
	header.DetectDuplicates(in.Identities, rep)
	end(countNote(len(in.Identities), "identities"))

	result := &Result{FileSet: fileSet, Bag: bag}
	if full {
		end = opts.Timer.Stage("resolve")
		result.Model = resolve.Resolve(in, rep)
		end(countNote(result.Model.Len(), "features"))
		result.Features = summarize(result.Model)
	}

	bag.Sort(fileSet.PathOf)

	if cache != nil {
		// Best effort; a failed write just means the next run recomputes.
		_ = cache.put(key, payloadFrom(bag, result.Features))
	}
	return result, nil
}

// fileOutcome is everything one file contributes, produced under the
// errgroup and consumed single-threaded after the join.
type fileOutcome struct {
	bag      *diag.Bag
	identity *header.FileIdentity
	env      *facet.Envelope
	records  []facet.Record
	mapping  *resolve.Mapping
}

func parseFiles(ctx context.Context, fileSet *source.FileSet, relPaths []string, ids []source.FileID, opts Options, full bool) ([]fileOutcome, error) {
	outcomes := make([]fileOutcome, len(relPaths))

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	if len(relPaths) > 0 {
		g.SetLimit(min(jobs, len(relPaths)))
	}

	for i, rel := range relPaths {
		i, rel := i, rel
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			outcomes[i] = parseOne(fileSet, rel, ids[i], opts, full)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

// parseOne runs the per-file stages. Every stage keeps going past errors
// where later stages can still produce useful diagnostics; only a missing
// header or a fatal brace imbalance stops the file.
func parseOne(fileSet *source.FileSet, rel string, id source.FileID, opts Options, full bool) fileOutcome {
	out := fileOutcome{bag: diag.NewBag(opts.maxDiagnostics())}
	rep := diag.BagReporter{Bag: out.bag}

	file := fileSet.Get(id)
	if file == nil {
		return out // load failure already reported
	}

	h, bodyOff, ok := header.Extract(file, rep)
	if !ok {
		return out
	}

	pid, why, pathOK := header.DeriveIdentity(rel)
	if !pathOK {
		diag.ReportError(rep, diag.HdrUnrecognizedPath, h.Span, why).Emit()
	} else {
		header.CrossCheck(h, pid, rep)
		out.identity = &header.FileIdentity{
			Header: h, Path: pid, RelPath: rel, File: id, Span: h.Span,
		}
	}

	lx := lexer.New(file, lexer.Options{Reporter: rep, StartOffset: bodyOff})
	res := parser.ParseFile(file, lx, parser.Options{Reporter: rep})
	if res.Fatal || !full {
		return out
	}

	switch {
	case pathOK && pid.Mapping:
		rec, ok := facet.ExtractFacetFile(h, id, res.Root, rep)
		if !ok {
			break
		}
		if m, mok := resolve.ParseMapping(rec, rep); mok {
			out.mapping = m
		}
	case h.Facet == header.FacetIntent:
		env, recs, ok := facet.ExtractIntent(h, id, res.Root, rep)
		if ok {
			out.env = env
		}
		out.records = recs
	default:
		if rec, ok := facet.ExtractFacetFile(h, id, res.Root, rep); ok {
			out.records = append(out.records, *rec)
		}
	}
	return out
}

// listIntentFiles returns the slash-separated paths of every .intent file
// under dir, relative to dir, sorted.
func listIntentFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".intent") {
			rel, err := filepath.Rel(dir, path)
			if err != nil {
				return err
			}
			files = append(files, filepath.ToSlash(rel))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func summarize(model *resolve.Model) []FeatureSummary {
	features := model.Features()
	out := make([]FeatureSummary, 0, len(features))
	for _, f := range features {
		s := FeatureSummary{
			Namespace: f.Namespace.String(),
			Tier:      uint8(f.Tier),
			Aliases:   len(f.Aliases),
		}
		for _, k := range f.EffectiveKinds() {
			s.Facets = append(s.Facets, k.String())
		}
		out = append(out, s)
	}
	return out
}

func payloadFrom(bag *diag.Bag, features []FeatureSummary) *cachePayload {
	payload := &cachePayload{Schema: cacheSchemaVersion, Features: features}
	for _, d := range bag.Items() {
		cd := cachedDiag{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Message:  d.Message,
			File:     uint32(d.Primary.File),
			Start:    d.Primary.Start,
			End:      d.Primary.End,
		}
		for _, n := range d.Notes {
			cd.Notes = append(cd.Notes, cachedNote{
				Msg: n.Msg, File: uint32(n.Span.File), Start: n.Span.Start, End: n.Span.End,
			})
		}
		payload.Diags = append(payload.Diags, cd)
	}
	return payload
}

func resultFromCache(fileSet *source.FileSet, bag *diag.Bag, payload *cachePayload) *Result {
	for _, cd := range payload.Diags {
		d := diag.Diagnostic{
			Severity: diag.Severity(cd.Severity),
			Code:     diag.Code(cd.Code),
			Message:  cd.Message,
			Primary:  source.Span{File: source.FileID(cd.File), Start: cd.Start, End: cd.End},
		}
		for _, n := range cd.Notes {
			d.Notes = append(d.Notes, diag.Note{
				Msg:  n.Msg,
				Span: source.Span{File: source.FileID(n.File), Start: n.Start, End: n.End},
			})
		}
		bag.Add(d)
	}
	return &Result{
		FileSet:   fileSet,
		Bag:       bag,
		Features:  payload.Features,
		FromCache: true,
	}
}

func countNote(n int, what string) string {
	return strconv.Itoa(n) + " " + what
}
