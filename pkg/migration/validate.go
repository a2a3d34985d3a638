package migration

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hybrid-search-be/internal/entity"
	"hybrid-search-be/internal/repository/specification"
)

// Searcher runs a representative search during validation. Satisfied by the
// search engine; optional, the search check is skipped when absent.
type Searcher interface {
	Search(ctx context.Context, q *entity.Query) ([]*entity.Result, error)
}

// AttachSearcher wires the representative-search validation check.
func (p *Pipeline) AttachSearcher(s Searcher) {
	p.searcher = s
}

// validationLatencyBound caps the acceptable total time for the sampled
// lookups; beyond it the index is considered unhealthy for serving.
const validationLatencyBound = 30 * time.Second

type validationReport struct {
	Passed   bool
	Failures []string
}

// validate samples a fraction of migrated records and checks that (a) the
// vector count matches what was processed, (b) sampled content round-trips
// through a lookup, (c) a representative search returns migrated content, and
// (d) aggregate lookup latency is within bounds.
func (p *Pipeline) validate(ctx context.Context, m *entity.Migration, source []*entity.Document, opts Options) validationReport {
	report := validationReport{Passed: true}
	fail := func(format string, args ...interface{}) {
		report.Passed = false
		report.Failures = append(report.Failures, "validation: "+fmt.Sprintf(format, args...))
	}

	count, err := p.vectors.CountByMigrationId(ctx, m.Id.String())
	if err != nil {
		fail("count check errored: %v", err)
	} else if count < int64(m.Processed) {
		fail("vector count %d below processed count %d", count, m.Processed)
	}

	sample := sampleDocuments(source, opts.SampleFraction)
	start := time.Now()
	for _, doc := range sample {
		found, err := p.docs.FindOne(ctx, specification.ByID{ID: doc.Id}, specification.ByNamespace{Namespace: opts.Namespace})
		if err != nil {
			fail("round-trip lookup for %s errored: %v", doc.Id, err)
			continue
		}
		if found == nil {
			fail("document %s did not round-trip", doc.Id)
		}
	}
	if elapsed := time.Since(start); elapsed > validationLatencyBound {
		fail("sampled lookups took %s, above bound %s", elapsed, validationLatencyBound)
	}

	if p.searcher != nil && len(sample) > 0 {
		probe := sample[0]
		results, err := p.searcher.Search(ctx, &entity.Query{
			Text:      representativeQuery(probe),
			TopK:      10,
			Namespace: opts.Namespace,
		})
		if err != nil {
			fail("representative search errored: %v", err)
		} else if !containsId(results, probe.Id) {
			fail("representative search did not return migrated document %s", probe.Id)
		}
	}

	return report
}

// sampleDocuments takes every k-th document to cover roughly the requested
// fraction, deterministic so validation failures are reproducible.
func sampleDocuments(docs []*entity.Document, fraction float64) []*entity.Document {
	if len(docs) == 0 {
		return nil
	}
	if fraction <= 0 || fraction > 1 {
		fraction = 0.1
	}
	stride := int(1 / fraction)
	if stride < 1 {
		stride = 1
	}
	var sample []*entity.Document
	for i := 0; i < len(docs); i += stride {
		sample = append(sample, docs[i])
	}
	return sample
}

func representativeQuery(doc *entity.Document) string {
	words := strings.Fields(doc.Title)
	if len(words) > 4 {
		words = words[:4]
	}
	return strings.Join(words, " ")
}

func containsId(results []*entity.Result, id string) bool {
	for _, r := range results {
		if r.Id == id {
			return true
		}
	}
	return false
}
