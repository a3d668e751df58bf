// Package crm tracks customers and egg sales for basic sales reporting.
package crm

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/coopledger/coopledger/internal/domain/models"
	"github.com/coopledger/coopledger/internal/gateway"
	"github.com/coopledger/coopledger/internal/period"
)

// API is the slice of the data API this service needs.
type API interface {
	FetchAll(ctx context.Context) (models.Snapshot, error)
	SaveCustomers(ctx context.Context, customers []models.Customer) error
	DeleteCustomer(ctx context.Context, id string) error
	SaveSales(ctx context.Context, sales []models.Sale) error
	DeleteSale(ctx context.Context, id string) error
}

// Cache is the slice of the cache provider this service needs.
type Cache interface {
	Snapshot() (models.Snapshot, bool)
	Refresh(ctx context.Context) error
}

// Service composes the cache and the data API into CRM operations.
type Service struct {
	api    API
	cache  Cache
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a CRM service instance.
func NewService(api API, cache Cache, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{api: api, cache: cache, logger: logger, now: time.Now}
}

// Customers returns the customer collection, cache snapshot first (empty
// included), direct fetch only when no snapshot has loaded.
func (s *Service) Customers(ctx context.Context) ([]models.Customer, error) {
	if s.cache != nil {
		if snap, ok := s.cache.Snapshot(); ok {
			return snap.Customers, nil
		}
	}
	s.logger.Debug("cache unavailable, fetching customers directly")
	snap, err := s.api.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Customers, nil
}

// Sales returns the sale collection with the same precedence rule.
func (s *Service) Sales(ctx context.Context) ([]models.Sale, error) {
	if s.cache != nil {
		if snap, ok := s.cache.Snapshot(); ok {
			return snap.Sales, nil
		}
	}
	s.logger.Debug("cache unavailable, fetching sales directly")
	snap, err := s.api.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Sales, nil
}

// NewCustomer is the caller-supplied portion of a customer record.
type NewCustomer struct {
	Name  string
	Phone string
	Notes string
}

// AddCustomer persists a new customer under a temporary id and refreshes.
func (s *Service) AddCustomer(ctx context.Context, customer NewCustomer) error {
	if customer.Name == "" {
		return &gateway.ValidationError{Field: "name", Message: "must not be empty"}
	}

	record := models.Customer{
		ID:    models.NewTempID(),
		Name:  customer.Name,
		Phone: customer.Phone,
		Notes: customer.Notes,
	}
	if err := s.api.SaveCustomers(ctx, []models.Customer{record}); err != nil {
		return err
	}
	return s.refresh(ctx)
}

// CustomerPatch is a partial update; nil fields are left unchanged.
type CustomerPatch struct {
	Name  *string
	Phone *string
	Notes *string
}

// UpdateCustomer merges the patch into the full record and saves it.
func (s *Service) UpdateCustomer(ctx context.Context, id string, patch CustomerPatch) error {
	customers, err := s.Customers(ctx)
	if err != nil {
		return err
	}

	merged, found := models.Customer{}, false
	for _, c := range customers {
		if c.ID == id {
			merged, found = c, true
			break
		}
	}
	if !found {
		return fmt.Errorf("customer %s: %w", id, gateway.ErrNotFound)
	}

	if patch.Name != nil {
		if *patch.Name == "" {
			return &gateway.ValidationError{Field: "name", Message: "must not be empty"}
		}
		merged.Name = *patch.Name
	}
	if patch.Phone != nil {
		merged.Phone = *patch.Phone
	}
	if patch.Notes != nil {
		merged.Notes = *patch.Notes
	}

	if err := s.api.SaveCustomers(ctx, []models.Customer{merged}); err != nil {
		return err
	}
	return s.refresh(ctx)
}

// DeleteCustomer removes a customer via the dedicated delete endpoint. Sales
// referencing the customer are left in place; reporting tolerates orphans.
func (s *Service) DeleteCustomer(ctx context.Context, id string) error {
	customers, err := s.Customers(ctx)
	if err != nil {
		return err
	}
	found := false
	for _, c := range customers {
		if c.ID == id {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("customer %s: %w", id, gateway.ErrNotFound)
	}

	if err := s.api.DeleteCustomer(ctx, id); err != nil {
		return err
	}
	return s.refresh(ctx)
}

// NewSale is the caller-supplied portion of a sale record.
type NewSale struct {
	CustomerID      string
	SaleDate        string
	DozenCount      int
	IndividualCount int
	TotalAmount     float64
	Notes           string
}

// AddSale persists a new sale under a temporary id and refreshes. The
// customer must exist.
func (s *Service) AddSale(ctx context.Context, sale NewSale) error {
	if _, err := period.ParseDate(sale.SaleDate); err != nil {
		return &gateway.ValidationError{Field: "sale_date", Message: "must be YYYY-MM-DD"}
	}
	if sale.DozenCount < 0 || sale.IndividualCount < 0 {
		return &gateway.ValidationError{Field: "counts", Message: "must not be negative"}
	}
	if sale.TotalAmount < 0 {
		return &gateway.ValidationError{Field: "total_amount", Message: "must not be negative"}
	}

	customers, err := s.Customers(ctx)
	if err != nil {
		return err
	}
	known := false
	for _, c := range customers {
		if c.ID == sale.CustomerID {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("customer %s: %w", sale.CustomerID, gateway.ErrNotFound)
	}

	record := models.Sale{
		ID:              models.NewTempID(),
		CustomerID:      sale.CustomerID,
		SaleDate:        sale.SaleDate,
		DozenCount:      sale.DozenCount,
		IndividualCount: sale.IndividualCount,
		TotalAmount:     sale.TotalAmount,
		Notes:           sale.Notes,
	}
	if err := s.api.SaveSales(ctx, []models.Sale{record}); err != nil {
		return err
	}
	return s.refresh(ctx)
}

// DeleteSale removes a sale via the dedicated delete endpoint.
func (s *Service) DeleteSale(ctx context.Context, id string) error {
	sales, err := s.Sales(ctx)
	if err != nil {
		return err
	}
	found := false
	for _, sale := range sales {
		if sale.ID == id {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("sale %s: %w", id, gateway.ErrNotFound)
	}

	if err := s.api.DeleteSale(ctx, id); err != nil {
		return err
	}
	return s.refresh(ctx)
}

// Stats computes the derived sales statistics.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	sales, err := s.Sales(ctx)
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(sales, s.now()), nil
}

func (s *Service) refresh(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Refresh(ctx)
}
