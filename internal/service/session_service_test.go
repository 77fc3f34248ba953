package service

import (
	"context"
	"testing"
	"time"

	"gyro-ledger/internal/core/domain"
	"gyro-ledger/internal/core/ports/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestSessionService_Issue_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	registryRepo := mocks.NewMockRegistryRepository(ctrl)
	tokenSvc := mocks.NewMockTokenService(ctrl)
	svc := NewSessionService(registryRepo, tokenSvc)

	ctx := context.Background()
	expiry := time.Now().Add(time.Hour)
	registryRepo.EXPECT().Get(ctx, addrAlice).
		Return(&domain.Account{Address: addrAlice, Role: domain.RoleUser}, nil)
	tokenSvc.EXPECT().Generate(addrAlice).Return("tok", expiry, nil)

	token, expiresAt, err := svc.Issue(ctx, addrAlice)
	require.NoError(t, err)
	assert.Equal(t, "tok", token)
	assert.Equal(t, expiry, expiresAt)
}

func TestSessionService_Issue_NotRegistered(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	registryRepo := mocks.NewMockRegistryRepository(ctrl)
	tokenSvc := mocks.NewMockTokenService(ctrl)
	svc := NewSessionService(registryRepo, tokenSvc)

	ctx := context.Background()
	registryRepo.EXPECT().Get(ctx, addrAlice).Return(nil, nil)

	_, _, err := svc.Issue(ctx, addrAlice)
	assertAppError(t, err, "REG_003")
}
