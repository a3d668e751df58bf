package feed

import (
	"context"
	"errors"
	"testing"

	"github.com/coopledger/coopledger/internal/domain/models"
	"github.com/coopledger/coopledger/internal/gateway"
	"github.com/coopledger/coopledger/internal/service/expenses"
)

type fakeAPI struct {
	entries []models.FeedEntry
	saved   [][]models.FeedEntry
	deleted []string
}

func (f *fakeAPI) FetchFeedInventory(context.Context) ([]models.FeedEntry, error) {
	return f.entries, nil
}

func (f *fakeAPI) SaveFeedEntries(_ context.Context, entries []models.FeedEntry) error {
	f.saved = append(f.saved, entries)
	return nil
}

func (f *fakeAPI) DeleteFeedEntry(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeCache struct {
	snap      models.Snapshot
	loaded    bool
	refreshes int
}

func (f *fakeCache) Snapshot() (models.Snapshot, bool) { return f.snap, f.loaded }

func (f *fakeCache) Refresh(context.Context) error {
	f.refreshes++
	return nil
}

type fakeExpenseLogger struct {
	added []expenses.NewExpense
	err   error
}

func (f *fakeExpenseLogger) Add(_ context.Context, expense expenses.NewExpense) error {
	if f.err != nil {
		return f.err
	}
	f.added = append(f.added, expense)
	return nil
}

func validEntry() NewEntry {
	return NewEntry{
		Brand:        "Purina",
		Type:         "layer",
		Quantity:     25,
		Unit:         models.UnitKg,
		OpenedDate:   "2025-06-01",
		PricePerUnit: 1.2,
	}
}

func TestAdd_WritesFeedAndExpense(t *testing.T) {
	api := &fakeAPI{}
	cache := &fakeCache{loaded: true}
	expenseLog := &fakeExpenseLogger{}
	service := NewService(api, cache, expenseLog, nil)

	if err := service.Add(context.Background(), validEntry()); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if len(api.saved) != 1 || !models.IsTempID(api.saved[0][0].ID) {
		t.Fatalf("saved = %#v, want one temp-id record", api.saved)
	}
	if len(expenseLog.added) != 1 {
		t.Fatalf("expenses = %#v, want one matching expense", expenseLog.added)
	}
	expense := expenseLog.added[0]
	if expense.Category != "feed" || expense.Amount != 30 || expense.Date != "2025-06-01" {
		t.Fatalf("expense = %+v, want feed category, amount 30, purchase date", expense)
	}
	if cache.refreshes != 1 {
		t.Fatalf("refreshes = %d, want 1", cache.refreshes)
	}
}

func TestAdd_ExpenseFailureKeepsFeedEntry(t *testing.T) {
	api := &fakeAPI{}
	cache := &fakeCache{loaded: true}
	service := NewService(api, cache, &fakeExpenseLogger{err: errors.New("gateway down")}, nil)

	if err := service.Add(context.Background(), validEntry()); err != nil {
		t.Fatalf("Add = %v, want success despite the expense failure", err)
	}
	if len(api.saved) != 1 {
		t.Fatalf("saved = %#v, want the feed entry kept", api.saved)
	}
	if cache.refreshes != 1 {
		t.Fatalf("refreshes = %d, want 1", cache.refreshes)
	}
}

func TestAdd_Validation(t *testing.T) {
	service := NewService(&fakeAPI{}, &fakeCache{loaded: true}, nil, nil)

	var valErr *gateway.ValidationError
	entry := validEntry()
	entry.Unit = "bags"
	if err := service.Add(context.Background(), entry); !errors.As(err, &valErr) || valErr.Field != "unit" {
		t.Fatalf("error = %v, want unit validation error", err)
	}

	entry = validEntry()
	entry.Quantity = 0
	if err := service.Add(context.Background(), entry); !errors.As(err, &valErr) || valErr.Field != "quantity" {
		t.Fatalf("error = %v, want quantity validation error", err)
	}
}

func TestDeplete_SetsDateOnce(t *testing.T) {
	cache := &fakeCache{
		snap: models.Snapshot{FeedInventory: []models.FeedEntry{
			{ID: "f1", Quantity: 25, Unit: models.UnitKg, OpenedDate: "2025-06-01"},
		}},
		loaded: true,
	}
	api := &fakeAPI{}
	service := NewService(api, cache, nil, nil)

	if err := service.Deplete(context.Background(), "f1", "2025-06-20"); err != nil {
		t.Fatalf("Deplete returned error: %v", err)
	}
	if got := api.saved[0][0].DepletedDate; got != "2025-06-20" {
		t.Fatalf("depletedDate = %q, want 2025-06-20", got)
	}
}

func TestDeplete_AlreadyDepletedIsRejected(t *testing.T) {
	cache := &fakeCache{
		snap: models.Snapshot{FeedInventory: []models.FeedEntry{
			{ID: "f1", OpenedDate: "2025-06-01", DepletedDate: "2025-06-20"},
		}},
		loaded: true,
	}
	service := NewService(&fakeAPI{}, cache, nil, nil)

	err := service.Deplete(context.Background(), "f1", "2025-06-25")
	var valErr *gateway.ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("error = %v, want validation error for a second depletion", err)
	}
}

func TestDeplete_DateBeforeOpenedIsRejected(t *testing.T) {
	cache := &fakeCache{
		snap: models.Snapshot{FeedInventory: []models.FeedEntry{
			{ID: "f1", OpenedDate: "2025-06-10"},
		}},
		loaded: true,
	}
	service := NewService(&fakeAPI{}, cache, nil, nil)

	err := service.Deplete(context.Background(), "f1", "2025-06-05")
	var valErr *gateway.ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("error = %v, want validation error for a backwards date", err)
	}
}

func TestUpdate_MissingEntryIsNotFound(t *testing.T) {
	cache := &fakeCache{snap: models.Snapshot{FeedInventory: []models.FeedEntry{}}, loaded: true}
	service := NewService(&fakeAPI{}, cache, nil, nil)

	brand := "Purina"
	if err := service.Update(context.Background(), "ghost", Patch{Brand: &brand}); !errors.Is(err, gateway.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	cache := &fakeCache{
		snap:   models.Snapshot{FeedInventory: []models.FeedEntry{{ID: "f1"}}},
		loaded: true,
	}
	api := &fakeAPI{}
	service := NewService(api, cache, nil, nil)

	if err := service.Delete(context.Background(), "f1"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if len(api.deleted) != 1 || api.deleted[0] != "f1" {
		t.Fatalf("deleted = %#v, want [f1]", api.deleted)
	}
}
