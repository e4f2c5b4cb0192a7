package repository

import "testing"

func TestDebitStockRejectsWhenInsufficient(t *testing.T) {
	db := setupRepositoryTestDB(t)
	_, variant := createTestVariant(t, db, "TSHIRT", 3)
	repo := NewProductVariantRepository(db)

	affected, err := repo.DebitStock(variant.ID, 2)
	if err != nil {
		t.Fatalf("debit failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("debit should affect 1 row, got %d", affected)
	}

	affected, err = repo.DebitStock(variant.ID, 2)
	if err != nil {
		t.Fatalf("second debit failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("second debit should be rejected, got %d", affected)
	}

	stock, err := repo.CurrentStock(variant.ID)
	if err != nil {
		t.Fatalf("read stock failed: %v", err)
	}
	if stock != 1 {
		t.Fatalf("stock want 1 got %d", stock)
	}
}

func TestCreditStockAddsQuantity(t *testing.T) {
	db := setupRepositoryTestDB(t)
	_, variant := createTestVariant(t, db, "PANTS", 0)
	repo := NewProductVariantRepository(db)

	if _, err := repo.CreditStock(variant.ID, 5); err != nil {
		t.Fatalf("credit failed: %v", err)
	}
	if affected, _ := repo.CreditStock(variant.ID, 0); affected != 0 {
		t.Fatalf("zero credit should be a no-op")
	}
	stock, _ := repo.CurrentStock(variant.ID)
	if stock != 5 {
		t.Fatalf("stock want 5 got %d", stock)
	}
}

func TestSoldCountNeverNegative(t *testing.T) {
	db := setupRepositoryTestDB(t)
	product, _ := createTestVariant(t, db, "CAP", 1)
	repo := NewProductRepository(db)

	if err := repo.IncrementSoldCount(product.ID, 2); err != nil {
		t.Fatalf("increment failed: %v", err)
	}
	if err := repo.DecrementSoldCount(product.ID, 5); err != nil {
		t.Fatalf("decrement failed: %v", err)
	}
	reloaded, err := repo.GetByID(product.ID)
	if err != nil || reloaded == nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if reloaded.SoldCount != 0 {
		t.Fatalf("sold count want 0 got %d", reloaded.SoldCount)
	}
}
