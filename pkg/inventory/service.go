package inventory

import (
	"context"

	"github.com/opskit/stockroom/pkg/observability"
	"github.com/opskit/stockroom/pkg/storage"
)

// Service implements the inventory operations over the storage gateway.
// It owns validation and defaulting; the gateway owns SQL.
type Service struct {
	gateway storage.Gateway
	logger  *observability.Logger
}

// NewService creates an inventory service
func NewService(gateway storage.Gateway, logger *observability.Logger) *Service {
	return &Service{
		gateway: gateway,
		logger:  logger.WithField("component", "inventory"),
	}
}

// Products

func (s *Service) CreateProduct(ctx context.Context, fields Fields) (storage.Record, error) {
	t := storage.Tables["products"]
	if err := checkColumns(fields, t.Insertable); err != nil {
		return nil, err
	}
	if err := requireString(fields, "product_name"); err != nil {
		return nil, err
	}
	if price, ok := float64Field(fields, "unit_price"); ok && price < 0 {
		return nil, validationErr("unit_price must not be negative")
	}
	if level, ok := int64Field(fields, "reorder_level"); ok && level < 0 {
		return nil, validationErr("reorder_level must not be negative")
	}
	if _, ok := fields["reorder_level"]; !ok {
		fields["reorder_level"] = DefaultReorderLevel
	}
	if _, ok := fields["status"]; !ok {
		fields["status"] = DefaultStatus
	}
	return s.gateway.Insert(ctx, "products", fields)
}

func (s *Service) UpdateProduct(ctx context.Context, id int64, fields Fields) (storage.Record, error) {
	t := storage.Tables["products"]
	if err := checkColumns(fields, t.Updatable); err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, validationErr("no fields to update")
	}
	if price, ok := float64Field(fields, "unit_price"); ok && price < 0 {
		return nil, validationErr("unit_price must not be negative")
	}
	if level, ok := int64Field(fields, "reorder_level"); ok && level < 0 {
		return nil, validationErr("reorder_level must not be negative")
	}
	return s.gateway.Update(ctx, "products", id, fields)
}

func (s *Service) GetProduct(ctx context.Context, id int64) (storage.Record, error) {
	return s.gateway.Get(ctx, "products", id)
}

func (s *Service) ListProducts(ctx context.Context) ([]storage.Record, error) {
	return s.gateway.List(ctx, "products")
}

func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	return s.gateway.Delete(ctx, "products", id)
}

// Suppliers

func (s *Service) CreateSupplier(ctx context.Context, fields Fields) (storage.Record, error) {
	t := storage.Tables["suppliers"]
	if err := checkColumns(fields, t.Insertable); err != nil {
		return nil, err
	}
	if err := requireString(fields, "supplier_name"); err != nil {
		return nil, err
	}
	return s.gateway.Insert(ctx, "suppliers", fields)
}

func (s *Service) UpdateSupplier(ctx context.Context, id int64, fields Fields) (storage.Record, error) {
	t := storage.Tables["suppliers"]
	if err := checkColumns(fields, t.Updatable); err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, validationErr("no fields to update")
	}
	return s.gateway.Update(ctx, "suppliers", id, fields)
}

func (s *Service) GetSupplier(ctx context.Context, id int64) (storage.Record, error) {
	return s.gateway.Get(ctx, "suppliers", id)
}

func (s *Service) ListSuppliers(ctx context.Context) ([]storage.Record, error) {
	return s.gateway.List(ctx, "suppliers")
}

func (s *Service) DeleteSupplier(ctx context.Context, id int64) error {
	return s.gateway.Delete(ctx, "suppliers", id)
}

// Customers

func (s *Service) CreateCustomer(ctx context.Context, fields Fields) (storage.Record, error) {
	t := storage.Tables["customers"]
	if err := checkColumns(fields, t.Insertable); err != nil {
		return nil, err
	}
	if err := requireString(fields, "customer_name"); err != nil {
		return nil, err
	}
	return s.gateway.Insert(ctx, "customers", fields)
}

func (s *Service) UpdateCustomer(ctx context.Context, id int64, fields Fields) (storage.Record, error) {
	t := storage.Tables["customers"]
	if err := checkColumns(fields, t.Updatable); err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, validationErr("no fields to update")
	}
	return s.gateway.Update(ctx, "customers", id, fields)
}

func (s *Service) GetCustomer(ctx context.Context, id int64) (storage.Record, error) {
	return s.gateway.Get(ctx, "customers", id)
}

func (s *Service) ListCustomers(ctx context.Context) ([]storage.Record, error) {
	return s.gateway.List(ctx, "customers")
}

func (s *Service) DeleteCustomer(ctx context.Context, id int64) error {
	return s.gateway.Delete(ctx, "customers", id)
}

// Transactions

// CreateTransaction records a stock movement. callerID fills user_id when
// the client leaves it out.
func (s *Service) CreateTransaction(ctx context.Context, callerID int64, fields Fields) (storage.Record, error) {
	t := storage.Tables["inventory_transactions"]
	if err := checkColumns(fields, t.Insertable); err != nil {
		return nil, err
	}
	if _, ok := int64Field(fields, "product_id"); !ok {
		return nil, validationErr("product_id is required")
	}
	if _, ok := fields["transaction_type"]; !ok {
		return nil, validationErr("transaction_type is required")
	}
	if _, ok := fields["quantity"]; !ok {
		return nil, validationErr("quantity is required")
	}
	if err := validateTransactionFields(fields); err != nil {
		return nil, err
	}
	if _, ok := fields["user_id"]; !ok {
		fields["user_id"] = callerID
	}
	return s.gateway.Insert(ctx, "inventory_transactions", fields)
}

func (s *Service) UpdateTransaction(ctx context.Context, id int64, fields Fields) (storage.Record, error) {
	t := storage.Tables["inventory_transactions"]
	if err := checkColumns(fields, t.Updatable); err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, validationErr("no fields to update")
	}
	if err := validateTransactionFields(fields); err != nil {
		return nil, err
	}
	return s.gateway.Update(ctx, "inventory_transactions", id, fields)
}

func (s *Service) GetTransaction(ctx context.Context, id int64) (storage.Record, error) {
	return s.gateway.Get(ctx, "inventory_transactions", id)
}

func (s *Service) ListTransactions(ctx context.Context) ([]storage.Record, error) {
	return s.gateway.List(ctx, "inventory_transactions")
}

func (s *Service) DeleteTransaction(ctx context.Context, id int64) error {
	return s.gateway.Delete(ctx, "inventory_transactions", id)
}

// validateTransactionFields checks values when present. Presence rules
// differ between insert and update and live with the callers.
func validateTransactionFields(fields Fields) error {
	if v, ok := fields["transaction_type"]; ok {
		typ, isStr := v.(string)
		if !isStr || (typ != TransactionIn && typ != TransactionOut) {
			return validationErr("transaction_type must be %q or %q", TransactionIn, TransactionOut)
		}
	}
	if _, ok := fields["quantity"]; ok {
		qty, isNum := float64Field(fields, "quantity")
		if !isNum || qty <= 0 {
			return validationErr("quantity must be a positive number")
		}
	}
	return nil
}
