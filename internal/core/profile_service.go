package core

import (
	"fmt"

	"cookcraft.app/server/internal/store"
)

type ProfileService struct {
	dbStore *store.SQLiteStore
}

func NewProfileService(db *store.SQLiteStore) *ProfileService {
	return &ProfileService{dbStore: db}
}

func (s *ProfileService) Get(userID int64) (*store.Profile, error) {
	return s.dbStore.GetProfile(userID)
}

func (s *ProfileService) Update(userID int64, updates store.UpdateProfileInput) (*store.Profile, error) {
	if updates.DefaultServingSize != nil && *updates.DefaultServingSize < 1 {
		return nil, fmt.Errorf("default serving size must be at least 1")
	}
	return s.dbStore.UpdateProfile(userID, updates)
}
