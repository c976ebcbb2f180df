package service

import (
	"context"
	"testing"
	"time"

	"pollos-admin/internal/model"
	apperrors "pollos-admin/pkg/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pech = model.ProductTarget{Code: "PECH"}

func seedPech(t *testing.T, f *fixture) {
	t.Helper()
	_, err := f.catalog.CreateProduct(context.Background(), admin, productInput("PECH", "Pechuga de Pollo"))
	require.NoError(t, err)
}

func TestResolvePriceTierScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedPech(t, f)

	_, err := f.pricing.CreatePrice(ctx, admin, pech, PriceInput{ClientType: "PUBLICO", PricePerKg: "120", Active: true})
	require.NoError(t, err)
	_, err = f.pricing.CreatePrice(ctx, admin, pech, PriceInput{ClientType: "publico", PricePerKg: "100", MinQtyKg: "10", Active: true})
	require.NoError(t, err)

	cases := map[string]string{"5": "120", "10": "100", "12": "100"}
	for qty, want := range cases {
		p, err := f.pricing.ResolvePrice(ctx, admin, model.ProductTarget{Code: "pech"}, model.ClientPublic, decimal.RequireFromString(qty), time.Now())
		require.NoError(t, err, "qty %s", qty)
		assert.True(t, p.PricePerKg.Equal(decimal.RequireFromString(want)), "qty %s resolved %s, want %s", qty, p.PricePerKg, want)
	}

	_, err = f.pricing.ResolvePrice(ctx, admin, pech, model.ClientWholesale, decimal.NewFromInt(50), time.Now())
	requireCode(t, err, apperrors.CodeNoPriceAvailable)
}

func TestCreatePriceDuplicateTier(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedPech(t, f)

	_, err := f.pricing.CreatePrice(ctx, admin, pech, PriceInput{ClientType: "MAYOREO", PricePerKg: "100", MinQtyKg: "10", Active: true})
	require.NoError(t, err)

	_, err = f.pricing.CreatePrice(ctx, admin, pech, PriceInput{ClientType: "MAYOREO", PricePerKg: "95", MinQtyKg: "10.0", Active: true})
	requireCode(t, err, apperrors.CodeDuplicateCode)
	assert.EqualValues(t, 1, count(t, f.store.Prices.Count))

	// same tier on a different client type is fine
	_, err = f.pricing.CreatePrice(ctx, admin, pech, PriceInput{ClientType: "COCINA", PricePerKg: "95", MinQtyKg: "10", Active: true})
	require.NoError(t, err)
}

func TestCreatePriceValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedPech(t, f)

	_, err := f.pricing.CreatePrice(ctx, admin, pech, PriceInput{
		ClientType: "PUBLICO",
		PricePerKg: "-1",
		MinQtyKg:   "abc",
		ValidFrom:  "2025-05-10",
		ValidUntil: "2025-05-01",
	})
	requireCode(t, err, apperrors.CodeValidation)
	details := apperrors.As(err).Details()
	assert.Contains(t, details, "precio_kg")
	assert.Contains(t, details, "cantidad_minima_kg")
	assert.Contains(t, details, "fecha_fin_vigencia")

	_, err = f.pricing.CreatePrice(ctx, admin, pech, PriceInput{ClientType: "PUBLICO", PricePerKg: "120.555", MinQtyKg: "1.0005"})
	requireCode(t, err, apperrors.CodeValidation)
	details = apperrors.As(err).Details()
	assert.Equal(t, "Usa como máximo 2 decimales.", details["precio_kg"])
	assert.Equal(t, "Usa como máximo 3 decimales.", details["cantidad_minima_kg"])

	_, err = f.pricing.CreatePrice(ctx, admin, pech, PriceInput{ClientType: "PUBLICO", PricePerKg: "1000000000"})
	requireCode(t, err, apperrors.CodeValidation)
	assert.Equal(t, "Debe ser menor que 100000000.", apperrors.As(err).Details()["precio_kg"])

	_, err = f.pricing.CreatePrice(ctx, admin, pech, PriceInput{ClientType: "VIP", PricePerKg: "1"})
	requireCode(t, err, apperrors.CodeValidation)

	_, err = f.pricing.CreatePrice(ctx, admin, nil, PriceInput{ClientType: "PUBLICO", PricePerKg: "1"})
	requireCode(t, err, apperrors.CodeValidation)

	_, err = f.pricing.CreatePrice(ctx, admin, model.SubproductTarget{ID: 42}, PriceInput{ClientType: "PUBLICO", PricePerKg: "1"})
	requireCode(t, err, apperrors.CodeNotFound)

	assert.Zero(t, count(t, f.store.Prices.Count))
}

func TestPricesForSubproduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedPech(t, f)
	sub, err := f.catalog.CreateSubproduct(ctx, admin, "PECH", SubproductInput{Code: "PP", SubproductFields: SubproductFields{Name: "Pulpa de Pechuga", Active: true}})
	require.NoError(t, err)
	target := model.SubproductTarget{ID: sub.ID}

	_, err = f.pricing.CreatePrice(ctx, admin, target, PriceInput{ClientType: "COCINA", PricePerKg: "165", Active: true})
	require.NoError(t, err)
	_, err = f.pricing.CreatePrice(ctx, admin, target, PriceInput{ClientType: "PUBLICO", PricePerKg: "185", Active: true})
	require.NoError(t, err)
	// same tier key as the subproduct's, but on the parent: a different target
	_, err = f.pricing.CreatePrice(ctx, admin, pech, PriceInput{ClientType: "PUBLICO", PricePerKg: "120", Active: true})
	require.NoError(t, err)

	prices, err := f.pricing.ListPrices(ctx, admin, target)
	require.NoError(t, err)
	require.Len(t, prices, 2)
	assert.Equal(t, model.ClientPublic, prices[0].ClientType, "ordered by client type rank")

	p, err := f.pricing.ResolvePrice(ctx, admin, target, model.ClientPublic, decimal.NewFromInt(1), time.Now())
	require.NoError(t, err)
	assert.True(t, p.PricePerKg.Equal(decimal.NewFromInt(185)))
}

func TestUpdatePriceRechecksTier(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedPech(t, f)

	base, err := f.pricing.CreatePrice(ctx, admin, pech, PriceInput{ClientType: "PUBLICO", PricePerKg: "120", Active: true})
	require.NoError(t, err)
	bulk, err := f.pricing.CreatePrice(ctx, admin, pech, PriceInput{ClientType: "PUBLICO", PricePerKg: "100", MinQtyKg: "10", Active: true})
	require.NoError(t, err)

	_, err = f.pricing.UpdatePrice(ctx, admin, bulk.ID, PriceInput{ClientType: "PUBLICO", PricePerKg: "100", MinQtyKg: "0", Active: true})
	requireCode(t, err, apperrors.CodeDuplicateCode)

	updated, err := f.pricing.UpdatePrice(ctx, admin, base.ID, PriceInput{ClientType: "PUBLICO", PricePerKg: "118", PromoLabel: "Oferta", Active: true})
	require.NoError(t, err)
	assert.True(t, updated.PricePerKg.Equal(decimal.NewFromInt(118)))
	assert.True(t, updated.HasPromo())

	target, err := updated.Target()
	require.NoError(t, err)
	assert.Equal(t, pech, target)
}

func TestResolvePriceRespectsInactiveAndWindow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedPech(t, f)

	_, err := f.pricing.CreatePrice(ctx, admin, pech, PriceInput{ClientType: "LEAL", PricePerKg: "110", Active: false})
	require.NoError(t, err)
	_, err = f.pricing.CreatePrice(ctx, admin, pech, PriceInput{ClientType: "LEAL", PricePerKg: "99", MinQtyKg: "1", ValidFrom: "2025-01-01", ValidUntil: "2025-01-31", Active: true})
	require.NoError(t, err)

	_, err = f.pricing.ResolvePrice(ctx, admin, pech, model.ClientLoyal, decimal.NewFromInt(2), time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC))
	requireCode(t, err, apperrors.CodeNoPriceAvailable)

	p, err := f.pricing.ResolvePrice(ctx, admin, pech, model.ClientLoyal, decimal.NewFromInt(2), time.Date(2025, 1, 31, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, p.PricePerKg.Equal(decimal.NewFromInt(99)))

	_, err = f.pricing.ResolvePrice(ctx, admin, pech, model.ClientLoyal, decimal.NewFromInt(-2), time.Now())
	requireCode(t, err, apperrors.CodeValidation)

	_, err = f.pricing.ResolvePrice(ctx, cashier, pech, model.ClientLoyal, decimal.NewFromInt(2), time.Now())
	requireCode(t, err, apperrors.CodeForbidden)
}
