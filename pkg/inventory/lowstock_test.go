package inventory

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opskit/stockroom/pkg/observability"
	"github.com/opskit/stockroom/pkg/storage"
)

// explodingGateway panics on List to simulate a bug in the scan path.
type explodingGateway struct {
	memGateway
}

func (g *explodingGateway) List(ctx context.Context, table string) ([]storage.Record, error) {
	panic("gateway corrupted")
}

func TestSweepLogsLowStockItems(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	oak, err := svc.CreateProduct(ctx, Fields{"product_name": "oak plank", "reorder_level": float64(10)})
	require.NoError(t, err)
	_, err = svc.CreateTransaction(ctx, 1, Fields{
		"product_id": oak.Int64("product_id"), "transaction_type": TransactionIn, "quantity": float64(4),
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)
	log.SetFormatter(&logrus.JSONFormatter{})

	sweeper := NewSweeper(svc, log)
	sweeper.sweep()

	assert.Contains(t, buf.String(), "Low stock: oak plank")
}

func TestSweepRecoversFromPanic(t *testing.T) {
	logger := observability.NewLogger(observability.ErrorLevel, io.Discard)
	svc := NewService(&explodingGateway{}, logger)

	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)
	log.SetFormatter(&logrus.JSONFormatter{})

	sweeper := NewSweeper(svc, log)
	require.NotPanics(t, sweeper.sweep)

	assert.Contains(t, buf.String(), "Low-stock sweep panicked")
	assert.Contains(t, buf.String(), "gateway corrupted")
}

func TestSweeperStartRejectsBadSchedule(t *testing.T) {
	svc, _ := testService(t)
	sweeper := NewSweeper(svc, nil)

	err := sweeper.Start("not a schedule")
	assert.Error(t, err)
}
