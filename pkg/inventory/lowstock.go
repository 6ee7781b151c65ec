package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/opskit/stockroom/pkg/observability"
)

// LowStockItem is a product whose on-hand quantity has fallen below its
// reorder level.
type LowStockItem struct {
	ProductID    int64  `json:"product_id"`
	ProductName  string `json:"product_name"`
	OnHand       int64  `json:"on_hand"`
	ReorderLevel int64  `json:"reorder_level"`
}

// Sweeper periodically scans products and logs the ones that need
// reordering. It only reads; replenishment is up to the operators
// watching the logs.
type Sweeper struct {
	service *Service
	cron    *cron.Cron
	log     *logrus.Logger
	timeout time.Duration
}

// NewSweeper creates a low-stock sweeper
func NewSweeper(service *Service, log *logrus.Logger) *Sweeper {
	if log == nil {
		log = logrus.New()
	}
	return &Sweeper{
		service: service,
		cron:    cron.New(),
		log:     log,
		timeout: time.Minute,
	}
}

// Start schedules the sweep and starts the cron runner
func (s *Sweeper) Start(schedule string) error {
	if _, err := s.cron.AddFunc(schedule, s.sweep); err != nil {
		return fmt.Errorf("failed to schedule low-stock sweep: %w", err)
	}

	s.cron.Start()
	return nil
}

// sweep runs one scan. A panicking scan must not take down the cron runner.
func (s *Sweeper) sweep() {
	defer func() {
		if err := observability.MustRecover(recover()); err != nil {
			s.log.WithError(err).Error("Low-stock sweep panicked")
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	items, err := s.service.LowStock(ctx)
	if err != nil {
		s.log.Warnf("Low-stock sweep failed: %v", err)
		return
	}
	for _, item := range items {
		s.log.Warnf("Low stock: %s (product %d) on hand %d, reorder level %d",
			item.ProductName, item.ProductID, item.OnHand, item.ReorderLevel)
	}
	s.log.Debugf("Low-stock sweep finished: %d products below reorder level", len(items))
}

// Stop stops the cron runner and waits for a running sweep to finish
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
}

// LowStock computes on-hand quantities from the transaction ledger and
// returns active products sitting below their reorder level.
func (s *Service) LowStock(ctx context.Context) ([]LowStockItem, error) {
	products, err := s.gateway.List(ctx, "products")
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	transactions, err := s.gateway.List(ctx, "inventory_transactions")
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	onHand := make(map[int64]int64, len(products))
	for _, tx := range transactions {
		productID := tx.Int64("product_id")
		qty := tx.Int64("quantity")
		switch tx.String("transaction_type") {
		case TransactionIn:
			onHand[productID] += qty
		case TransactionOut:
			onHand[productID] -= qty
		}
	}

	var items []LowStockItem
	for _, p := range products {
		if p.String("status") != DefaultStatus {
			continue
		}
		id := p.Int64("product_id")
		level := p.Int64("reorder_level")
		if onHand[id] >= level {
			continue
		}
		items = append(items, LowStockItem{
			ProductID:    id,
			ProductName:  p.String("product_name"),
			OnHand:       onHand[id],
			ReorderLevel: level,
		})
	}
	return items, nil
}
