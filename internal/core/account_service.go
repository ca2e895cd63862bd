package core

import "cookcraft.app/server/internal/store"

// AccountService resolves bearer identities to user records.
type AccountService struct {
	dbStore *store.SQLiteStore
}

func NewAccountService(db *store.SQLiteStore) *AccountService {
	return &AccountService{dbStore: db}
}

func (s *AccountService) GetUserByExternalID(externalUserID string) (*store.User, error) {
	return s.dbStore.GetUserByExternalID(externalUserID)
}

// CreateUser registers a user; the store creates the default profile row
// alongside it.
func (s *AccountService) CreateUser(externalUserID, passwordHash string) (*store.User, error) {
	return s.dbStore.CreateUser(externalUserID, passwordHash)
}
