package service

import (
	"testing"

	"aboutwebsite-backend/internal/models"
)

func TestSetSubscription_FlipsFlag(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := NewAdminService(userRepo, newFakeWebsiteRepo())
	user := seedUser(t, userRepo, false)

	updated, err := svc.SetSubscription(user.ID, true)
	if err != nil {
		t.Fatalf("set subscription: %v", err)
	}
	if !updated.Subscribed {
		t.Fatalf("flag not set")
	}

	stored, _ := userRepo.GetByID(user.ID)
	if !stored.Subscribed {
		t.Fatalf("flag not persisted")
	}

	updated, err = svc.SetSubscription(user.ID, false)
	if err != nil {
		t.Fatalf("clear subscription: %v", err)
	}
	if updated.Subscribed {
		t.Fatalf("flag not cleared")
	}
}

func TestSetSubscription_UnknownUser(t *testing.T) {
	svc := NewAdminService(newFakeUserRepo(), newFakeWebsiteRepo())

	if _, err := svc.SetSubscription(42, true); err != ErrUserNotFound {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}
}

func TestAdminLists(t *testing.T) {
	userRepo := newFakeUserRepo()
	websiteRepo := newFakeWebsiteRepo()
	svc := NewAdminService(userRepo, websiteRepo)
	user := seedUser(t, userRepo, false)

	if err := websiteRepo.Create(&models.Website{UserID: user.ID, Name: "a", Subdomain: "asha"}); err != nil {
		t.Fatalf("seed website: %v", err)
	}

	users, err := svc.ListUsers()
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(users) != 1 || users[0].ID != user.ID {
		t.Fatalf("unexpected users: %+v", users)
	}

	websites, err := svc.ListWebsites()
	if err != nil {
		t.Fatalf("list websites: %v", err)
	}
	if len(websites) != 1 || websites[0].Subdomain != "asha" {
		t.Fatalf("unexpected websites: %+v", websites)
	}
}
