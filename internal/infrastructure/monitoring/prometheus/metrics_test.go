package prometheus

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewAppMetrics_RecordsDomainMetrics(t *testing.T) {
	c := newTestCollector(t)
	m := NewAppMetrics(c)

	RecordExpansion(m, "interior_only", 4, 2*time.Millisecond)
	RecordExpansion(m, "interior_only", 2, time.Millisecond)
	RecordTableLoad(m, "configs/substituents.txt", 17, nil)
	RecordTableLoad(m, "missing.txt", 0, errors.New("boom"))
	RecordArtifactWrite(m, "local", "smi", nil)
	RecordArtifactWrite(m, "minio", "mol", errors.New("denied"))
	RecordCacheAccess(m, "expansion", true)
	RecordCacheAccess(m, "expansion", false)
	RecordEventPublished(m, "derivatives", nil)
	RecordHTTPRequest(m, "POST", "/v1/derivatives/expand", 200, 5*time.Millisecond)
	RecordError(m, "service", "SUB_001")

	out := scrapeMetrics(t, c)
	assert.Contains(t, out, `test_unit_derivatives_generated_total{pattern="interior_only"} 6`)
	assert.Contains(t, out, `test_unit_expansion_duration_seconds_count{pattern="interior_only"} 2`)
	assert.Contains(t, out, `test_unit_substituent_table_loads_total{status="success"} 1`)
	assert.Contains(t, out, `test_unit_substituent_table_loads_total{status="failure"} 1`)
	assert.Contains(t, out, `test_unit_substituent_table_entries{source="configs/substituents.txt"} 17`)
	assert.Contains(t, out, `test_unit_artifact_writes_total{format="smi",sink="local"} 1`)
	assert.Contains(t, out, `test_unit_artifact_write_errors_total{format="mol",sink="minio"} 1`)
	assert.Contains(t, out, `test_unit_cache_hits_total{cache="expansion"} 1`)
	assert.Contains(t, out, `test_unit_cache_misses_total{cache="expansion"} 1`)
	assert.Contains(t, out, `test_unit_events_published_total{status="success",topic="derivatives"} 1`)
	assert.Contains(t, out, `test_unit_http_requests_total{method="POST",path="/v1/derivatives/expand",status_code="200"} 1`)
	assert.Contains(t, out, `test_unit_errors_total{code="SUB_001",component="service"} 1`)
}

func TestNewNoopAppMetrics(t *testing.T) {
	m := NewNoopAppMetrics()
	assert.NotPanics(t, func() {
		RecordExpansion(m, "leading_only", 1, time.Millisecond)
		RecordArtifactWrite(m, "local", "smi", nil)
	})
}

//Personal.AI order the ending
