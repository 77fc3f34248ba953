package service

import (
	"context"
	"fmt"
	"time"

	"gyro-ledger/internal/core/domain"
	"gyro-ledger/internal/core/ports"
	"gyro-ledger/pkg/apperror"
)

// SessionServiceImpl implements ports.SessionService. Sessions are issued
// to accounts that already passed HMAC request authentication; the token
// covers only read endpoints.
type SessionServiceImpl struct {
	registryRepo ports.RegistryRepository
	tokenSvc     ports.TokenService
}

// NewSessionService creates a new SessionServiceImpl.
func NewSessionService(registryRepo ports.RegistryRepository, tokenSvc ports.TokenService) *SessionServiceImpl {
	return &SessionServiceImpl{
		registryRepo: registryRepo,
		tokenSvc:     tokenSvc,
	}
}

// Issue returns a session JWT for a registered account.
func (s *SessionServiceImpl) Issue(ctx context.Context, account domain.Address) (string, time.Time, error) {
	acct, err := s.registryRepo.Get(ctx, account)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("get account: %w", err))
	}
	if acct == nil {
		return "", time.Time{}, apperror.ErrNotRegistered()
	}

	token, expiry, err := s.tokenSvc.Generate(account)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("generate token: %w", err))
	}

	return token, expiry, nil
}
