package services

import (
	"context"

	"lifelog/internal/core"
	"lifelog/internal/document"
	"lifelog/internal/log"
)

// MoneyService manages the transaction ledger.
type MoneyService struct {
	session *Session
}

func (s *Session) Money() *MoneyService {
	return &MoneyService{session: s}
}

// List returns the transactions in category, or all of them when category
// is empty.
func (svc *MoneyService) List(category core.Category) []core.Transaction {
	return core.FilterByCategory(svc.session.Snapshot().Money, category)
}

func (svc *MoneyService) Get(id core.ID) (core.Transaction, error) {
	tx, ok := core.Find(svc.session.Snapshot().Money, id)
	if !ok {
		return core.Transaction{}, core.ErrNotFound
	}
	return tx, nil
}

func (svc *MoneyService) Totals() core.Totals {
	return core.Summarize(svc.session.Snapshot().Money)
}

// Add records a transaction dated now.
func (svc *MoneyService) Add(ctx context.Context, in core.TransactionInput) (core.Transaction, error) {
	var created core.Transaction
	err := svc.session.commit(ctx, TrackerMoney, log.OpCreate, func(d *document.Document) (string, error) {
		tx, err := core.Transaction{ID: core.NextID(d.Money), Date: svc.session.Now()}.Apply(in)
		if err != nil {
			return "", err
		}
		d.Money = append(append(make([]core.Transaction, 0, len(d.Money)+1), d.Money...), tx)
		created = tx
		return tx.ID.String(), nil
	})
	if err == nil {
		svc.session.logger.DebugContext(ctx, "Transaction added",
			log.FieldRecordID, created.ID.String(),
			log.FieldAmountCents, created.Amount.Cents)
	}
	return created, err
}

// Edit replaces the user supplied fields. The date is kept.
func (svc *MoneyService) Edit(ctx context.Context, id core.ID, in core.TransactionInput) (core.Transaction, error) {
	var updated core.Transaction
	err := svc.session.commit(ctx, TrackerMoney, log.OpUpdate, func(d *document.Document) (string, error) {
		money, tx, err := core.Replace(d.Money, id, func(tx core.Transaction) (core.Transaction, error) {
			return tx.Apply(in)
		})
		if err != nil {
			return "", err
		}
		d.Money = money
		updated = tx
		return id.String(), nil
	})
	return updated, err
}

func (svc *MoneyService) Delete(ctx context.Context, id core.ID) error {
	return svc.session.commit(ctx, TrackerMoney, log.OpDelete, func(d *document.Document) (string, error) {
		money, err := core.Remove(d.Money, id)
		if err != nil {
			return "", err
		}
		d.Money = money
		return id.String(), nil
	})
}
