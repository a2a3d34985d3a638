package migration

import (
	"hybrid-search-be/internal/entity"
)

// BuildPlan analyzes the source set before any batch runs: record count, field
// mapping, the transformation pipeline, and a rough throughput estimate.
func BuildPlan(docs []*entity.Document, opts Options, transformations []Transformation) entity.MigrationPlan {
	names := make([]string, len(transformations))
	for i, t := range transformations {
		names[i] = t.Name
	}

	// Throughput estimate: one embedding call per chunk-free record, sub-batches
	// serialized behind the rate-limit delay, batches overlapping by concurrency.
	subBatches := (len(docs) + opts.SubBatchSize - 1) / opts.SubBatchSize
	perSubBatch := opts.SubBatchDelay.Seconds() + 0.5
	estimated := float64(subBatches) * perSubBatch / float64(opts.Concurrency)

	return entity.MigrationPlan{
		SourceCount: len(docs),
		FieldMapping: map[string]string{
			"title":    "title",
			"abstract": "abstract",
			"body":     "body",
			"metadata": "metadata",
		},
		Transformations:  names,
		BatchSize:        opts.BatchSize,
		SubBatchSize:     opts.SubBatchSize,
		EstimatedSeconds: estimated,
	}
}

// splitBatches slices docs into fixed-size batches, preserving order. Batch
// index is the scheduling order; completion order is not guaranteed.
func splitBatches(docs []*entity.Document, size int) [][]*entity.Document {
	if size <= 0 {
		size = 100
	}
	var batches [][]*entity.Document
	for start := 0; start < len(docs); start += size {
		end := start + size
		if end > len(docs) {
			end = len(docs)
		}
		batches = append(batches, docs[start:end])
	}
	return batches
}
