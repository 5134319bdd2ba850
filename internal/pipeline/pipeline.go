// Package pipeline orchestrates one scan run: list candidate PDFs, dedup by
// content, extract product specifications, filter by weight, persist the
// result.
package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/specscout/internal/dedup"
	"github.com/sells-group/specscout/internal/extract"
	"github.com/sells-group/specscout/internal/model"
	"github.com/sells-group/specscout/internal/pdftext"
	"github.com/sells-group/specscout/internal/report"
)

// Pipeline drives one scan run. Processing is strictly sequential: one file,
// one extraction call at a time, because the external extraction services
// enforce rate limits that concurrent calls would trip.
type Pipeline struct {
	PDF       pdftext.Extractor
	Extractor extract.Extractor
	Reporter  report.Reporter

	// Gate, when set, pre-checks raw text before the extractor runs so
	// documents that plainly carry no weight data never cost an extraction
	// call. It also steers test-mode file selection. Leave nil for extractors
	// that are cheap to call.
	Gate func(text string) bool

	// Limiter paces extraction calls; nil disables pacing.
	Limiter *rate.Limiter

	// OutputPath is where the run's JSON array is written. Empty skips
	// persistence.
	OutputPath string
}

// RunResult summarizes one completed run. Products holds the filtered
// specifications in file-processing order, regardless of whether persisting
// them succeeded.
type RunResult struct {
	Products   []model.Product
	Scanned    int // candidate .pdf files found
	Unique     int // left after content dedup
	Skipped    int // unreadable, gate-rejected or failed documents
	Matches    int
	OutputPath string
}

// Run processes every unique PDF under dir and keeps products whose resolved
// weight is strictly below weightLimit grams. Per-file failures are logged
// and skipped; only an unreadable directory or a canceled context aborts.
func (p *Pipeline) Run(ctx context.Context, dir string, weightLimit float64, testMode bool) (*RunResult, error) {
	rep := p.Reporter
	if rep == nil {
		rep = report.Nop()
	}

	files, err := listPDFs(dir)
	if err != nil {
		return nil, err
	}
	rep.Info("scanning directory", zap.String("dir", dir), zap.Int("candidates", len(files)))

	res := &RunResult{
		Products:   make([]model.Product, 0),
		Scanned:    len(files),
		OutputPath: p.OutputPath,
	}

	unique := p.dedupe(files, rep)
	res.Unique = len(unique)
	rep.Success("deduplicated candidates", zap.Int("unique", len(unique)))

	if testMode && len(unique) > 0 {
		pick := p.selectTestFile(ctx, unique, rep)
		rep.Warn("test mode active: processing a single document",
			zap.String("file", filepath.Base(pick)))
		unique = []string{pick}
	}

	for _, path := range unique {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		base := filepath.Base(path)
		rep.Info("processing", zap.String("file", base))

		text, err := p.PDF.ExtractText(ctx, path)
		if err != nil {
			rep.Warn("skipping file: text extraction failed",
				zap.String("file", base), zap.Error(err))
			res.Skipped++
			continue
		}
		if strings.TrimSpace(text) == "" {
			rep.Warn("skipping file: document has no text", zap.String("file", base))
			res.Skipped++
			continue
		}

		if p.Gate != nil && !p.Gate(text) {
			rep.Info("skipping file: no weight specification found by pre-scan",
				zap.String("file", base))
			res.Skipped++
			continue
		}

		if p.Limiter != nil {
			if err := p.Limiter.Wait(ctx); err != nil {
				return res, err
			}
		}

		results, err := p.Extractor.Extract(ctx, text, base)
		if err != nil {
			rep.Error("extraction failed, document yields no products",
				zap.String("file", base), zap.Error(err))
			res.Skipped++
			continue
		}

		for _, r := range results {
			if r.WeightGrams == nil || *r.WeightGrams >= weightLimit {
				continue
			}
			rep.Success("match",
				zap.String("name", r.Product.Name),
				zap.String("file", r.Product.File),
				zap.Float64("weight_grams", *r.WeightGrams),
			)
			res.Products = append(res.Products, r.Product)
		}
	}

	res.Matches = len(res.Products)

	p.writeOutput(res, rep)

	if res.Matches > 0 {
		rep.Success("products matched the weight requirement",
			zap.Int("count", res.Matches),
			zap.Float64("weight_limit_grams", weightLimit),
		)
	} else {
		rep.Warn("no products matched the weight requirement",
			zap.Float64("weight_limit_grams", weightLimit))
	}

	return res, nil
}

// listPDFs returns the immediate *.pdf files of dir (case-insensitive),
// sorted by name for deterministic processing order.
func listPDFs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, eris.Wrapf(err, "pipeline: read directory %s", dir)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// dedupe drops files whose content digest was already seen; the first name in
// sorted order wins. Unhashable files are skipped with a warning, not fatal.
func (p *Pipeline) dedupe(files []string, rep report.Reporter) []string {
	seen := make(map[string]struct{}, len(files))
	unique := make([]string, 0, len(files))
	for _, path := range files {
		digest, err := dedup.HashFile(path)
		if err != nil {
			rep.Warn("skipping file: hash failed",
				zap.String("file", filepath.Base(path)), zap.Error(err))
			continue
		}
		if _, dup := seen[digest]; dup {
			rep.Info("skipping duplicate content", zap.String("file", filepath.Base(path)))
			continue
		}
		seen[digest] = struct{}{}
		unique = append(unique, path)
	}
	return unique
}

// selectTestFile picks the single document for a test-mode run. Gated runs
// prefer the first file whose text passes the gate so the expensive extractor
// gets exercised on something useful; everything else takes the first unique
// file.
func (p *Pipeline) selectTestFile(ctx context.Context, files []string, rep report.Reporter) string {
	if p.Gate == nil {
		return files[0]
	}
	for _, path := range files {
		text, err := p.PDF.ExtractText(ctx, path)
		if err != nil {
			continue
		}
		if p.Gate(text) {
			return path
		}
	}
	rep.Warn("no file passed the weight pre-scan, falling back to the first unique file")
	return files[0]
}

// writeOutput persists the run's products as an indented JSON array. A write
// failure is reported but leaves the in-memory result intact; the caller
// still sees every match.
func (p *Pipeline) writeOutput(res *RunResult, rep report.Reporter) {
	if p.OutputPath == "" {
		return
	}

	data, err := json.MarshalIndent(res.Products, "", "    ")
	if err != nil {
		rep.Error("marshal results", zap.Error(err))
		return
	}

	if dir := filepath.Dir(p.OutputPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			rep.Error("create output directory", zap.String("dir", dir), zap.Error(err))
			return
		}
	}

	if err := os.WriteFile(p.OutputPath, data, 0o644); err != nil {
		rep.Error("write results", zap.String("path", p.OutputPath), zap.Error(err))
		return
	}

	rep.Info("results saved", zap.String("path", p.OutputPath))
}
