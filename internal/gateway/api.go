package gateway

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/coopledger/coopledger/internal/domain/models"
)

// Collection names used on the crud endpoint.
const (
	opEggs         = "eggs"
	opExpenses     = "expenses"
	opFeed         = "feed"
	opFlockProfile = "flockProfile"
	opFlockEvents  = "flockEvents"
	opCustomers    = "customers"
	opSales        = "sales"
)

// DataAPI is the typed surface over the gateway client: one method per domain
// verb, each translating to exactly one HTTP call.
type DataAPI struct {
	client *Client
	logger *zap.Logger
}

// NewDataAPI wraps a gateway client with typed collection operations.
func NewDataAPI(client *Client, logger *zap.Logger) *DataAPI {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DataAPI{client: client, logger: logger}
}

// FetchAll retrieves every collection in one pass.
func (a *DataAPI) FetchAll(ctx context.Context) (models.Snapshot, error) {
	var snap models.Snapshot
	if err := a.fetch(ctx, "/api/data?type=all", &snap); err != nil {
		return models.Snapshot{}, err
	}
	return snap, nil
}

// productionPayload is the partial snapshot served by type=production.
type productionPayload struct {
	EggEntries    []models.EggEntry  `json:"eggEntries"`
	FeedInventory []models.FeedEntry `json:"feedInventory"`
}

// FetchEggEntries retrieves only the egg collection. Used as the fallback
// path when no cache snapshot is available.
func (a *DataAPI) FetchEggEntries(ctx context.Context) ([]models.EggEntry, error) {
	var payload productionPayload
	if err := a.fetch(ctx, "/api/data?type=production", &payload); err != nil {
		return nil, err
	}
	return payload.EggEntries, nil
}

// FetchFeedInventory retrieves only the feed collection.
func (a *DataAPI) FetchFeedInventory(ctx context.Context) ([]models.FeedEntry, error) {
	var payload productionPayload
	if err := a.fetch(ctx, "/api/data?type=production", &payload); err != nil {
		return nil, err
	}
	return payload.FeedInventory, nil
}

// FetchExpenses retrieves only the expense collection.
func (a *DataAPI) FetchExpenses(ctx context.Context) ([]models.Expense, error) {
	var payload struct {
		Expenses []models.Expense `json:"expenses"`
	}
	if err := a.fetch(ctx, "/api/data?type=expenses", &payload); err != nil {
		return nil, err
	}
	return payload.Expenses, nil
}

// SaveEggEntries upserts the given egg records.
func (a *DataAPI) SaveEggEntries(ctx context.Context, entries []models.EggEntry) error {
	return a.save(ctx, opEggs, entries)
}

// DeleteEggEntry deletes one egg record by id.
func (a *DataAPI) DeleteEggEntry(ctx context.Context, id string) error {
	return a.remove(ctx, opEggs, id)
}

// SaveExpenses upserts the given expense records.
func (a *DataAPI) SaveExpenses(ctx context.Context, expenses []models.Expense) error {
	return a.save(ctx, opExpenses, expenses)
}

// DeleteExpense deletes one expense by id.
func (a *DataAPI) DeleteExpense(ctx context.Context, id string) error {
	return a.remove(ctx, opExpenses, id)
}

// SaveFeedEntries upserts the given feed records.
func (a *DataAPI) SaveFeedEntries(ctx context.Context, entries []models.FeedEntry) error {
	return a.save(ctx, opFeed, entries)
}

// DeleteFeedEntry deletes one feed record by id.
func (a *DataAPI) DeleteFeedEntry(ctx context.Context, id string) error {
	return a.remove(ctx, opFeed, id)
}

// SaveFlockProfile replaces the singleton flock profile.
func (a *DataAPI) SaveFlockProfile(ctx context.Context, profile models.FlockProfile) error {
	env, err := a.client.Put(ctx, "/api/crud?operation="+opFlockProfile, profile)
	if err != nil {
		return err
	}
	return checkEnvelope(env)
}

// SaveFlockEvents upserts the given flock timeline events.
func (a *DataAPI) SaveFlockEvents(ctx context.Context, events []models.FlockEvent) error {
	return a.save(ctx, opFlockEvents, events)
}

// DeleteFlockEvent deletes one flock event by id.
func (a *DataAPI) DeleteFlockEvent(ctx context.Context, id string) error {
	return a.remove(ctx, opFlockEvents, id)
}

// SaveCustomers upserts the given customer records.
func (a *DataAPI) SaveCustomers(ctx context.Context, customers []models.Customer) error {
	return a.save(ctx, opCustomers, customers)
}

// DeleteCustomer deletes one customer by id.
func (a *DataAPI) DeleteCustomer(ctx context.Context, id string) error {
	return a.remove(ctx, opCustomers, id)
}

// SaveSales upserts the given sale records.
func (a *DataAPI) SaveSales(ctx context.Context, sales []models.Sale) error {
	return a.save(ctx, opSales, sales)
}

// DeleteSale deletes one sale by id.
func (a *DataAPI) DeleteSale(ctx context.Context, id string) error {
	return a.remove(ctx, opSales, id)
}

func (a *DataAPI) fetch(ctx context.Context, endpoint string, dest any) error {
	env, err := a.client.Get(ctx, endpoint)
	if err != nil {
		return err
	}
	if err := checkEnvelope(env); err != nil {
		return err
	}
	if len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, dest); err != nil {
		a.logger.Debug("undecodable data payload", zap.String("endpoint", endpoint), zap.Error(err))
		return &ServerError{Message: "invalid response format"}
	}
	return nil
}

func (a *DataAPI) save(ctx context.Context, operation string, payload any) error {
	env, err := a.client.Post(ctx, "/api/crud?operation="+operation, payload)
	if err != nil {
		return err
	}
	return checkEnvelope(env)
}

func (a *DataAPI) remove(ctx context.Context, operation, id string) error {
	env, err := a.client.Delete(ctx, "/api/crud?operation="+operation, map[string]string{"id": id})
	if err != nil {
		return err
	}
	return checkEnvelope(env)
}

func checkEnvelope(env Envelope) error {
	if env.Success {
		return nil
	}
	message := env.Message
	if message == "" {
		message = "request rejected"
	}
	return &ServerError{Message: message}
}
