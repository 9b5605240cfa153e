package ingest

import (
	"context"
	"strings"
	"testing"

	"github.com/andresuchdata/stocksim/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngestDatasetUnknownDataset(t *testing.T) {
	svc := NewService(nil)

	_, err := svc.IngestDataset(context.Background(), "widgets", strings.NewReader("a,b\n1,2\n"))
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestIngestDatasetMissingColumn(t *testing.T) {
	svc := NewService(nil)

	body := "supplier_id,MOQ,cost,lead_time\nSUP-1,100,4.0,5\n"
	_, err := svc.IngestDataset(context.Background(), DatasetSuppliers, strings.NewReader(body))
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	assert.Contains(t, err.Error(), "reliability")
}

func TestIngestDatasetEmptyBody(t *testing.T) {
	svc := NewService(nil)

	_, err := svc.IngestDataset(context.Background(), DatasetPolicies, strings.NewReader(""))
	require.Error(t, err)
}

func TestIngestDatasetRejectsInvalidRows(t *testing.T) {
	svc := NewService(nil)

	t.Run("policy with zero eoq", func(t *testing.T) {
		body := "product_id,supplier_id,eoq,reorder_point,safety_stock,unit_cost\n" +
			"P1,SUP-1,0,50,10,4.5\n"
		_, err := svc.IngestDataset(context.Background(), DatasetPolicies, strings.NewReader(body))
		require.Error(t, err)
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("negative forecast quantity", func(t *testing.T) {
		body := "date,product_id,predicted_units\n2025-03-01,P1,-5\n"
		_, err := svc.IngestDataset(context.Background(), DatasetForecast, strings.NewReader(body))
		require.Error(t, err)
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("malformed forecast date", func(t *testing.T) {
		body := "date,product_id,predicted_units\n03/01/2025,P1,5\n"
		_, err := svc.IngestDataset(context.Background(), DatasetForecast, strings.NewReader(body))
		require.Error(t, err)
	})
}
