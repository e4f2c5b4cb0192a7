package repository

import (
	"testing"

	"github.com/bazaar-next/internal/constants"
	"github.com/bazaar-next/internal/models"
)

func TestIncrementUsedCountRespectsUsageLimit(t *testing.T) {
	db := setupRepositoryTestDB(t)
	limit := 1
	discount := &models.DiscountCode{
		Code:       "once",
		Type:       constants.DiscountTypeFixed,
		Value:      models.MustMoney("50"),
		UsageLimit: &limit,
		IsActive:   true,
	}
	repo := NewDiscountCodeRepository(db)
	if err := repo.Create(discount); err != nil {
		t.Fatalf("create discount failed: %v", err)
	}

	found, err := repo.GetByCode(" ONCE ")
	if err != nil || found == nil {
		t.Fatalf("lookup by code failed: %v", err)
	}

	affected, err := repo.IncrementUsedCount(discount.ID)
	if err != nil || affected != 1 {
		t.Fatalf("first increment should succeed, affected=%d err=%v", affected, err)
	}
	affected, err = repo.IncrementUsedCount(discount.ID)
	if err != nil {
		t.Fatalf("second increment failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("second increment should be rejected by usage limit")
	}
}

func TestIncrementUsedCountUnlimited(t *testing.T) {
	db := setupRepositoryTestDB(t)
	discount := &models.DiscountCode{Code: "FREE", Type: constants.DiscountTypeFixed, Value: models.MustMoney("10"), IsActive: true}
	repo := NewDiscountCodeRepository(db)
	if err := repo.Create(discount); err != nil {
		t.Fatalf("create discount failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		if affected, err := repo.IncrementUsedCount(discount.ID); err != nil || affected != 1 {
			t.Fatalf("increment %d should succeed, affected=%d err=%v", i, affected, err)
		}
	}
	reloaded, _ := repo.GetByID(discount.ID)
	if reloaded.UsedCount != 3 {
		t.Fatalf("used count want 3 got %d", reloaded.UsedCount)
	}
}

func TestDiscountUsageAcquireAndRelease(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewDiscountUsageRepository(db)

	affected, err := repo.Acquire("disc-1", "user-1", 1)
	if err != nil || affected != 1 {
		t.Fatalf("first acquire should succeed, affected=%d err=%v", affected, err)
	}
	affected, err = repo.Acquire("disc-1", "user-1", 1)
	if err != nil {
		t.Fatalf("second acquire failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("second acquire should hit per-user limit")
	}
	if affected, _ := repo.Acquire("disc-1", "user-2", 1); affected != 1 {
		t.Fatalf("other user should not be limited")
	}

	if err := repo.Release("disc-1", "user-1"); err != nil {
		t.Fatalf("release failed: %v", err)
	}
	used, err := repo.UsedCount("disc-1", "user-1")
	if err != nil || used != 0 {
		t.Fatalf("used count want 0 got %d err=%v", used, err)
	}
	if err := repo.Release("disc-1", "user-1"); err != nil {
		t.Fatalf("release below zero should be a no-op: %v", err)
	}
	if affected, _ := repo.Acquire("disc-1", "user-1", 1); affected != 1 {
		t.Fatalf("acquire after release should succeed")
	}
}
