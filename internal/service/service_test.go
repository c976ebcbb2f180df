package service

import (
	"context"
	"testing"
	"time"

	"pollos-admin/internal/model"
	"pollos-admin/internal/repository"
	"pollos-admin/internal/testdb"
	"pollos-admin/pkg/config"
	apperrors "pollos-admin/pkg/errors"
	"pollos-admin/pkg/jwt"
	"pollos-admin/pkg/session"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var admin = Actor{UserID: 1, Username: "admin", Role: model.RoleAdministrator}
var cashier = Actor{UserID: 2, Username: "caja", Role: model.RoleCashier}

type fixture struct {
	db       *gorm.DB
	store    *repository.Store
	catalog  CatalogService
	pricing  PricingService
	auth     AuthService
	registry *session.Registry
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testdb.New(t)

	signer, err := jwt.NewSigner(config.SessionConfig{Secret: "test-secret", Issuer: "pollos-admin", TTL: time.Hour})
	require.NoError(t, err)
	registry, err := session.NewRegistry(session.NewMemoryStore(), time.Hour)
	require.NoError(t, err)

	return &fixture{
		db:       db,
		store:    repository.NewStore(db),
		catalog:  NewCatalogService(db, nil, nil),
		pricing:  NewPricingService(db, nil, nil),
		auth:     NewAuthService(db, signer, registry, nil, nil),
		registry: registry,
	}
}

func requireCode(t *testing.T, err error, code apperrors.Code) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, code, apperrors.CodeOf(err), "unexpected error: %v", err)
}

func productInput(code, name string) ProductInput {
	return ProductInput{
		Code: code,
		ProductFields: ProductFields{
			Name:     name,
			Category: "Pollo Crudo",
			Active:   true,
		},
	}
}

func count(t *testing.T, fn func(context.Context) (int64, error)) int64 {
	t.Helper()
	n, err := fn(context.Background())
	require.NoError(t, err)
	return n
}
