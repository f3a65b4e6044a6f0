package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// DateLayout is the wire and storage format for calendar dates.
const DateLayout = "2006-01-02"

var (
	ErrCategoryNotFound      = errors.New("category not found")
	ErrExpenseNotFound       = errors.New("expense not found")
	ErrDuplicateCategoryName = errors.New("category with this name already exists")
)

// ValidationError reports a field constraint violation detected before any
// persistence attempt.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

type (
	// Date is a calendar date with no time component. The zero value means
	// "no date".
	Date struct {
		time.Time
	}

	// Category is a named grouping for expenses.
	Category struct {
		ID          int64  `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description"`
	}

	// Expense is a single dated monetary transaction belonging to exactly one
	// category. CategoryName is always resolved by the query layer; an expense
	// read from the store never carries an unresolved category reference.
	Expense struct {
		ID           int64  `json:"id"`
		Amount       Money  `json:"amount"`
		Date         Date   `json:"date"`
		Note         string `json:"note"`
		CategoryID   int64  `json:"categoryId"`
		CategoryName string `json:"categoryName"`
	}
)

// NewDate creates a Date from year, month, day in UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current calendar date, truncated to midnight UTC.
func Today() Date {
	now := time.Now().UTC()
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

// ParseDate parses a date in YYYY-MM-DD format.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(DateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

const (
	CategoryNameMinLen        = 2
	CategoryNameMaxLen        = 50
	CategoryDescriptionMaxLen = 200
)

func (c Category) Validate() error {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return &ValidationError{Field: "name", Reason: "must not be blank"}
	}
	if n := utf8.RuneCountInString(name); n < CategoryNameMinLen || n > CategoryNameMaxLen {
		return &ValidationError{
			Field:  "name",
			Reason: fmt.Sprintf("must be between %d and %d characters", CategoryNameMinLen, CategoryNameMaxLen),
		}
	}
	if utf8.RuneCountInString(c.Description) > CategoryDescriptionMaxLen {
		return &ValidationError{
			Field:  "description",
			Reason: fmt.Sprintf("must not exceed %d characters", CategoryDescriptionMaxLen),
		}
	}
	return nil
}

func (e Expense) Validate() error {
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if e.Date.IsZero() {
		return &ValidationError{Field: "date", Reason: "is required"}
	}
	if e.CategoryID <= 0 {
		return &ValidationError{Field: "categoryId", Reason: "is required"}
	}
	return nil
}
