// Money parsing and aggregation.
//
// Amounts are held as integer cents. Text and JSON numbers go through
// shopspring/decimal, so no binary floating point sits between the user's
// input and the stored value.

package core

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Money is an amount in cents.
type Money struct {
	Cents int64
}

var maxCents = decimal.NewFromInt(math.MaxInt64)

// ParseAmount converts user text to a positive amount.
//
// It accepts both dot (12.34) and comma (12,34) separators and rounds half-up
// to cents:
//
//	ParseAmount("12.34")  -> 1234
//	ParseAmount("12,345") -> 1235
//	ParseAmount("0.004")  -> error (rounds to zero)
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" || strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		return Money{}, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	m, err := fromDecimal(d)
	if err != nil {
		return Money{}, err
	}
	if err := m.Validate(); err != nil {
		return Money{}, err
	}
	return m, nil
}

func fromDecimal(d decimal.Decimal) (Money, error) {
	cents := d.Round(2).Shift(2)
	if cents.Abs().GreaterThan(maxCents) {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: cents.IntPart()}, nil
}

func (m Money) dec() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// Validate requires a strictly positive amount.
func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// String formats the amount with two decimals, e.g. "12.50".
func (m Money) String() string {
	return m.dec().StringFixed(2)
}

// Add returns m + o.
func (m Money) Add(o Money) Money { return Money{Cents: m.Cents + o.Cents} }

// Sub returns m - o.
func (m Money) Sub(o Money) Money { return Money{Cents: m.Cents - o.Cents} }

// MarshalJSON writes the amount as a plain JSON number in currency units.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.dec().String()), nil
}

// UnmarshalJSON accepts a number or a numeric string.
func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if string(data) == "null" {
		*m = Money{}
		return nil
	}
	s := strings.Trim(string(data), `"`)
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, data)
	}
	v, err := fromDecimal(d)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Category groups money transactions.
type Category string

const (
	CategoryFood      Category = "food"
	CategoryAcademics Category = "academics"
	CategoryClothes   Category = "clothes"
	CategoryTravel    Category = "travel"
	CategoryOthers    Category = "others"
)

// Categories lists the valid categories in display order.
func Categories() []Category {
	return []Category{CategoryFood, CategoryAcademics, CategoryClothes, CategoryTravel, CategoryOthers}
}

func (c Category) Valid() bool {
	switch c {
	case CategoryFood, CategoryAcademics, CategoryClothes, CategoryTravel, CategoryOthers:
		return true
	}
	return false
}

// Kind is the direction of a transaction.
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
	KindLoan    Kind = "loan"
)

func (k Kind) Valid() bool {
	switch k {
	case KindIncome, KindExpense, KindLoan:
		return true
	}
	return false
}

// Transaction is one money entry.
type Transaction struct {
	ID       ID        `json:"id"`
	Title    string    `json:"title"`
	Amount   Money     `json:"amount"`
	Category Category  `json:"category"`
	Kind     Kind      `json:"type"`
	Date     time.Time `json:"date"`
}

func (t Transaction) Identity() ID { return t.ID }

// TransactionInput carries user supplied fields for add and edit.
type TransactionInput struct {
	Title    string
	Amount   Money
	Category Category
	Kind     Kind
}

// Apply validates in and copies it onto t.
func (t Transaction) Apply(in TransactionInput) (Transaction, error) {
	title, err := cleanTitle(in.Title, MaxTransactionTitle)
	if err != nil {
		return t, err
	}
	if err := in.Amount.Validate(); err != nil {
		return t, err
	}
	if in.Category == "" {
		in.Category = CategoryOthers
	}
	if !in.Category.Valid() {
		return t, fmt.Errorf("%w: %q", ErrInvalidCategory, in.Category)
	}
	if !in.Kind.Valid() {
		return t, fmt.Errorf("%w: %q", ErrInvalidKind, in.Kind)
	}
	t.Title = title
	t.Amount = in.Amount
	t.Category = in.Category
	t.Kind = in.Kind
	return t, nil
}

func (t Transaction) Validate() error {
	_, err := t.Apply(TransactionInput{Title: t.Title, Amount: t.Amount, Category: t.Category, Kind: t.Kind})
	if err != nil {
		return fmt.Errorf("transaction %s: %w", t.ID, err)
	}
	return nil
}

// Totals aggregates transactions by kind.
type Totals struct {
	Income  Money `json:"income"`
	Expense Money `json:"expense"`
	Loan    Money `json:"loan"`
	Balance Money `json:"balance"`
}

// Summarize computes income, expense, loan and balance = income - expense - loan.
func Summarize(txs []Transaction) Totals {
	var t Totals
	for _, tx := range txs {
		switch tx.Kind {
		case KindIncome:
			t.Income = t.Income.Add(tx.Amount)
		case KindExpense:
			t.Expense = t.Expense.Add(tx.Amount)
		case KindLoan:
			t.Loan = t.Loan.Add(tx.Amount)
		}
	}
	t.Balance = t.Income.Sub(t.Expense).Sub(t.Loan)
	return t
}

// FilterByCategory returns the transactions in c. An empty category matches
// everything.
func FilterByCategory(txs []Transaction, c Category) []Transaction {
	if c == "" {
		return append([]Transaction(nil), txs...)
	}
	out := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		if tx.Category == c {
			out = append(out, tx)
		}
	}
	return out
}
