package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"construction_inventory_backend/internal/models"
)

func TestRecordTransactionDoesNotMoveStock(t *testing.T) {
	svc := newTestServices()
	_, _, m := seedCement(t, svc)
	ctx := context.Background()

	tx, err := svc.transactions.RecordTransaction(ctx, RecordTransactionRequest{
		MaterialID:      m.ID,
		TransactionType: "in",
		Quantity:        dec("100"),
		UnitPrice:       dec("350.00"),
		Reference:       " PO-1 ",
	}, int64Ptr(7))
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if tx.TransactionType != models.TransactionIn {
		t.Fatalf("type = %q, want IN", tx.TransactionType)
	}
	if !tx.Amount().Equal(*dec("35000.00")) {
		t.Fatalf("amount = %s, want 35000.00", tx.Amount())
	}
	if tx.Reference != "PO-1" {
		t.Fatalf("reference = %q", tx.Reference)
	}
	if tx.CreatedAt != nil {
		t.Fatalf("created_at should stay unset, got %v", tx.CreatedAt)
	}
	if tx.CreatedBy == nil || *tx.CreatedBy != 7 {
		t.Fatalf("created_by = %v", tx.CreatedBy)
	}

	after, err := svc.materials.GetMaterial(ctx, m.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !after.CurrentQuantity.IsZero() {
		t.Fatalf("current_quantity = %s, recording must not change it", after.CurrentQuantity)
	}
	if !after.IsLowStock() {
		t.Fatal("material should still be low stock")
	}
}

func TestRecordTransactionKeepsSuppliedTimestamp(t *testing.T) {
	svc := newTestServices()
	_, _, m := seedCement(t, svc)
	when := time.Date(2024, 5, 2, 14, 30, 0, 0, time.UTC)

	tx, err := svc.transactions.RecordTransaction(context.Background(), RecordTransactionRequest{
		MaterialID:      m.ID,
		TransactionType: models.TransactionOut,
		Quantity:        dec("3"),
		UnitPrice:       dec("350"),
		CreatedAt:       &when,
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if tx.CreatedAt == nil || !tx.CreatedAt.Equal(when) {
		t.Fatalf("created_at = %v, want %v", tx.CreatedAt, when)
	}
}

func TestRecordTransactionValidation(t *testing.T) {
	svc := newTestServices()
	_, _, m := seedCement(t, svc)
	ctx := context.Background()

	valid := func() RecordTransactionRequest {
		return RecordTransactionRequest{
			MaterialID:      m.ID,
			TransactionType: models.TransactionIn,
			Quantity:        dec("1"),
			UnitPrice:       dec("1"),
		}
	}
	tests := []struct {
		name  string
		edit  func(*RecordTransactionRequest)
		field string
	}{
		{"unknown type", func(r *RecordTransactionRequest) { r.TransactionType = "MOVE" }, "transaction_type"},
		{"zero IN", func(r *RecordTransactionRequest) { r.Quantity = dec("0") }, "quantity"},
		{"zero OUT", func(r *RecordTransactionRequest) {
			r.TransactionType = models.TransactionOut
			r.Quantity = dec("0")
		}, "quantity"},
		{"negative IN", func(r *RecordTransactionRequest) { r.Quantity = dec("-1") }, "quantity"},
		{"negative OUT", func(r *RecordTransactionRequest) {
			r.TransactionType = models.TransactionOut
			r.Quantity = dec("-1")
		}, "quantity"},
		{"missing quantity", func(r *RecordTransactionRequest) { r.Quantity = nil }, "quantity"},
		{"negative price", func(r *RecordTransactionRequest) { r.UnitPrice = dec("-0.50") }, "unit_price"},
		{"price precision", func(r *RecordTransactionRequest) { r.UnitPrice = dec("0.001") }, "unit_price"},
		{"long reference", func(r *RecordTransactionRequest) { r.Reference = strings.Repeat("r", 101) }, "reference"},
		{"missing material", func(r *RecordTransactionRequest) { r.MaterialID = 999 }, "material_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.edit(&req)
			_, err := svc.transactions.RecordTransaction(ctx, req, nil)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err = %v, want *ValidationError", err)
			}
			if !verr.HasField(tt.field) {
				t.Fatalf("fields = %+v, want %s", verr.Fields, tt.field)
			}
		})
	}

	if n, _ := svc.store.CountForMaterial(ctx, nil, m.ID); n != 0 {
		t.Fatalf("rejected transactions must not persist, count = %d", n)
	}
}

func TestAdjustAllowsNegativeQuantity(t *testing.T) {
	svc := newTestServices()
	_, _, m := seedCement(t, svc)

	tx, err := svc.transactions.RecordTransaction(context.Background(), RecordTransactionRequest{
		MaterialID:      m.ID,
		TransactionType: models.TransactionAdjust,
		Quantity:        dec("-2"),
		UnitPrice:       dec("350"),
	}, nil)
	if err != nil {
		t.Fatalf("record adjust: %v", err)
	}
	if !tx.Amount().Equal(*dec("-700")) {
		t.Fatalf("amount = %s, want -700", tx.Amount())
	}
}

func TestAdjustAllowsZeroQuantity(t *testing.T) {
	svc := newTestServices()
	_, _, m := seedCement(t, svc)

	tx, err := svc.transactions.RecordTransaction(context.Background(), RecordTransactionRequest{
		MaterialID:      m.ID,
		TransactionType: "adjust",
		Quantity:        dec("0"),
		UnitPrice:       dec("350"),
		Reference:       "stock count, no change",
	}, nil)
	if err != nil {
		t.Fatalf("record zero adjust: %v", err)
	}
	if !tx.Amount().IsZero() {
		t.Fatalf("amount = %s, want 0", tx.Amount())
	}
}

func TestListTransactionsNewestFirst(t *testing.T) {
	svc := newTestServices()
	_, _, m := seedCement(t, svc)
	ctx := context.Background()

	for _, typ := range []models.TransactionType{models.TransactionIn, models.TransactionOut, models.TransactionIn} {
		if _, err := svc.transactions.RecordTransaction(ctx, RecordTransactionRequest{
			MaterialID: m.ID, TransactionType: typ, Quantity: dec("1"), UnitPrice: dec("2"),
		}, nil); err != nil {
			t.Fatal(err)
		}
	}

	all, total, err := svc.transactions.ListTransactions(ctx, models.TransactionFilter{}, 1, 0)
	if err != nil {
		t.Fatal(err)
	}
	if total != 3 || len(all) != 3 {
		t.Fatalf("total = %d len = %d", total, len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].ID < all[i].ID {
			t.Fatalf("not newest first: %d before %d", all[i-1].ID, all[i].ID)
		}
	}
	if all[0].Material == nil || all[0].Material.Name != "Portland Cement" {
		t.Fatalf("material not joined: %+v", all[0].Material)
	}

	in := models.TransactionIn
	ins, total, err := svc.transactions.ListTransactions(ctx, models.TransactionFilter{Type: &in}, 1, 20)
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 || len(ins) != 2 {
		t.Fatalf("IN filter total = %d", total)
	}

	bogus := models.TransactionType("MOVE")
	if _, _, err := svc.transactions.ListTransactions(ctx, models.TransactionFilter{Type: &bogus}, 1, 20); !errors.Is(err, ErrValidation) {
		t.Fatalf("bogus type err = %v", err)
	}

	forMaterial, err := svc.transactions.ListTransactionsForMaterial(ctx, m.ID, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(forMaterial) != 2 || forMaterial[0].ID != all[0].ID {
		t.Fatalf("for material = %+v", forMaterial)
	}
}

func TestGetTransactionNotFound(t *testing.T) {
	svc := newTestServices()
	_, err := svc.transactions.GetTransaction(context.Background(), 1)
	if !errors.Is(err, ErrTransactionNotFound) || !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
}
