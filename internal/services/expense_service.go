package services

import (
	"context"
	"strings"

	"expensetracker/internal/core"
	applog "expensetracker/internal/log"
	"expensetracker/internal/storage"
)

// ExpenseInput carries the mutable fields of an expense. Updates are
// replace-style: every field overwrites the stored value.
type ExpenseInput struct {
	Amount     core.Money
	Date       core.Date
	Note       string
	CategoryID int64
}

// ExpenseService wraps expense persistence with validation and not-found
// mapping. All reads resolve the category eagerly.
type ExpenseService struct {
	storage *storage.Repository
	events  EventPublisher
	logger  *applog.Logger
}

func NewExpenseService(storage *storage.Repository, events EventPublisher, logger *applog.Logger) *ExpenseService {
	return &ExpenseService{
		storage: storage,
		events:  events,
		logger:  logger.WithComponent(applog.ComponentExpense),
	}
}

// Create persists a new expense and returns it with the assigned id and
// resolved category name. The referenced category must exist.
func (s *ExpenseService) Create(ctx context.Context, in ExpenseInput) (core.Expense, error) {
	e := core.Expense{
		Amount:     in.Amount,
		Date:       in.Date,
		Note:       strings.TrimSpace(in.Note),
		CategoryID: in.CategoryID,
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	if _, err := s.storage.GetCategoryByID(ctx, e.CategoryID); err != nil {
		return core.Expense{}, err
	}

	id, err := s.storage.CreateExpense(ctx, e)
	if err != nil {
		return core.Expense{}, err
	}

	created, err := s.storage.GetExpenseByID(ctx, id)
	if err != nil {
		return core.Expense{}, err
	}

	s.logger.InfoContext(ctx, "expense created",
		"id", created.ID, "amount_cents", created.Amount.Cents, "category_id", created.CategoryID)
	s.publish(ctx, applog.OpCreate, created.ID)
	return created, nil
}

func (s *ExpenseService) GetByID(ctx context.Context, id int64) (core.Expense, error) {
	return s.storage.GetExpenseByID(ctx, id)
}

// GetByIDWithCategory returns the expense with its category resolved. Reads
// are always eager here, so this is the same lookup as GetByID; it exists so
// callers can state the guarantee they rely on.
func (s *ExpenseService) GetByIDWithCategory(ctx context.Context, id int64) (core.Expense, error) {
	return s.storage.GetExpenseByID(ctx, id)
}

// ListAll returns every expense ordered by date descending.
func (s *ExpenseService) ListAll(ctx context.Context) ([]core.Expense, error) {
	return s.storage.ListExpenses(ctx, storage.ExpenseFilter{}, nil)
}

// ListPage returns one page of the filtered listing plus paging metadata.
func (s *ExpenseService) ListPage(ctx context.Context, f storage.ExpenseFilter, page core.PageRequest) (core.ExpensePage, error) {
	page = page.Normalize()

	items, err := s.storage.ListExpenses(ctx, f, &page)
	if err != nil {
		return core.ExpensePage{}, err
	}
	total, err := s.storage.CountExpenses(ctx, f)
	if err != nil {
		return core.ExpensePage{}, err
	}
	return core.NewExpensePage(items, page, total), nil
}

// ByCategory returns all expenses in one category.
func (s *ExpenseService) ByCategory(ctx context.Context, categoryID int64) ([]core.Expense, error) {
	return s.storage.ListExpenses(ctx, storage.ExpenseFilter{CategoryID: categoryID}, nil)
}

// ByDateRange returns all expenses with date in [start, end].
func (s *ExpenseService) ByDateRange(ctx context.Context, start, end core.Date) ([]core.Expense, error) {
	return s.storage.ListExpenses(ctx, storage.ExpenseFilter{StartDate: start, EndDate: end}, nil)
}

// ByCategoryAndDateRange combines both filters.
func (s *ExpenseService) ByCategoryAndDateRange(ctx context.Context, categoryID int64, start, end core.Date) ([]core.Expense, error) {
	return s.storage.ListExpenses(ctx, storage.ExpenseFilter{CategoryID: categoryID, StartDate: start, EndDate: end}, nil)
}

// SearchByNote returns expenses whose note contains the given text, ignoring
// case. Search results are never paginated.
func (s *ExpenseService) SearchByNote(ctx context.Context, note string) ([]core.Expense, error) {
	return s.storage.ListExpenses(ctx, storage.ExpenseFilter{Note: strings.TrimSpace(note)}, nil)
}

// Update replaces amount, date, note and category of an existing expense
// wholesale; no previous field value survives.
func (s *ExpenseService) Update(ctx context.Context, id int64, in ExpenseInput) (core.Expense, error) {
	e := core.Expense{
		ID:         id,
		Amount:     in.Amount,
		Date:       in.Date,
		Note:       strings.TrimSpace(in.Note),
		CategoryID: in.CategoryID,
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	if _, err := s.storage.GetCategoryByID(ctx, e.CategoryID); err != nil {
		return core.Expense{}, err
	}

	if err := s.storage.UpdateExpense(ctx, e); err != nil {
		return core.Expense{}, err
	}

	updated, err := s.storage.GetExpenseByID(ctx, id)
	if err != nil {
		return core.Expense{}, err
	}

	s.logger.InfoContext(ctx, "expense updated", "id", id, "amount_cents", updated.Amount.Cents)
	s.publish(ctx, applog.OpUpdate, id)
	return updated, nil
}

func (s *ExpenseService) Delete(ctx context.Context, id int64) error {
	if err := s.storage.DeleteExpense(ctx, id); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "expense deleted", "id", id)
	s.publish(ctx, applog.OpDelete, id)
	return nil
}

func (s *ExpenseService) publish(ctx context.Context, action string, id int64) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishEntityEvent(ctx, "expense", action, id); err != nil {
		s.logger.ErrorContext(ctx, "publish expense event failed", "action", action, "id", id, "error", err)
	}
}
