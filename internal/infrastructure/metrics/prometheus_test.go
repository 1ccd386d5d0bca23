package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Materiales-api/internal/application/inventory"
	"github.com/jhoicas/Materiales-api/internal/infrastructure/metrics"
)

func TestObserveBatch(t *testing.T) {
	m := metrics.NewBatchMetrics("materiales")

	m.ObserveBatch(inventory.OperationRestock, inventory.OutcomeCommitted, 2, 10*time.Millisecond)
	m.ObserveBatch(inventory.OperationRestock, inventory.OutcomeCommitted, 3, 5*time.Millisecond)
	m.ObserveBatch(inventory.OperationSale, inventory.OutcomeRejected, 1, time.Millisecond)

	families, err := m.Registry().Gather()
	require.NoError(t, err)

	series := map[string]int{}
	var committedLines float64
	for _, f := range families {
		series[f.GetName()] = len(f.GetMetric())
		if f.GetName() != "materiales_inventory_batch_lines_total" {
			continue
		}
		for _, metric := range f.GetMetric() {
			for _, l := range metric.GetLabel() {
				if l.GetName() == "outcome" && l.GetValue() == inventory.OutcomeCommitted {
					committedLines = metric.GetCounter().GetValue()
				}
			}
		}
	}
	assert.Equal(t, 2, series["materiales_inventory_batches_total"], "una serie por (operación, resultado)")
	assert.Equal(t, 2, series["materiales_inventory_batch_duration_seconds"])
	assert.Equal(t, float64(5), committedLines)
}

func TestHandler(t *testing.T) {
	m := metrics.NewBatchMetrics("materiales")
	m.ObserveBatch(inventory.OperationSale, inventory.OutcomeConflict, 4, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `materiales_inventory_batches_total{operation="sale",outcome="conflict"} 1`))
}
