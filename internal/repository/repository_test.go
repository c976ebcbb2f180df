package repository_test

import (
	"context"
	"testing"

	"pollos-admin/internal/model"
	"pollos-admin/internal/repository"
	"pollos-admin/internal/testdb"
	"pollos-admin/pkg/database"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedProduct(t *testing.T, store *repository.Store, code, name string) *model.Product {
	t.Helper()
	p := &model.Product{ID: code, Name: name, Category: "Pollo Crudo", Active: true}
	require.NoError(t, store.Products.Create(context.Background(), p))
	return p
}

func TestProductUpdateKeepsCode(t *testing.T) {
	ctx := context.Background()
	store := repository.NewStore(testdb.New(t))
	p := seedProduct(t, store, "PECH", "Pechuga de Pollo")

	p.Name = "Pechuga Entera"
	p.Active = false
	require.NoError(t, store.Products.Update(ctx, p))

	got, err := store.Products.FindByID(ctx, "PECH")
	require.NoError(t, err)
	assert.Equal(t, "Pechuga Entera", got.Name)
	assert.False(t, got.Active, "false must be written, not skipped as a zero value")
}

func TestProductDuplicateNameIsUniqueViolation(t *testing.T) {
	store := repository.NewStore(testdb.New(t))
	seedProduct(t, store, "PECH", "Pechuga de Pollo")

	err := store.Products.Create(context.Background(), &model.Product{ID: "PECH2", Name: "Pechuga de Pollo", Category: "Pollo Crudo"})
	assert.True(t, database.IsUniqueViolation(err), "got %v", err)
}

func TestPriceTierIsUnique(t *testing.T) {
	ctx := context.Background()
	store := repository.NewStore(testdb.New(t))
	seedProduct(t, store, "PECH", "Pechuga de Pollo")

	newPrice := func(min string) *model.Price {
		p := &model.Price{
			ClientType: model.ClientPublic,
			PricePerKg: decimal.NewFromInt(120),
			MinQtyKg:   decimal.RequireFromString(min),
			Active:     true,
		}
		p.SetTarget(model.ProductTarget{Code: "PECH"})
		return p
	}

	require.NoError(t, store.Prices.Create(ctx, newPrice("0")))
	require.NoError(t, store.Prices.Create(ctx, newPrice("10")))

	err := store.Prices.Create(ctx, newPrice("10"))
	assert.True(t, database.IsUniqueViolation(err), "got %v", err)

	n, err := store.Prices.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	tier, err := store.Prices.FindTier(ctx, model.ProductTarget{Code: "PECH"}, model.ClientPublic, decimal.NewFromInt(10))
	require.NoError(t, err)
	assert.True(t, tier.MinQtyKg.Equal(decimal.NewFromInt(10)))
}

func TestPriceTargetCheckConstraint(t *testing.T) {
	ctx := context.Background()
	db := testdb.New(t)
	store := repository.NewStore(db)
	p := seedProduct(t, store, "RTZ", "Retazo de Pollo")
	sub := &model.Subproduct{ProductID: p.ID, Code: "CD", Name: "Cadera", Active: true}
	require.NoError(t, store.Subproducts.Create(ctx, sub))

	both := &model.Price{ClientType: model.ClientPublic, PricePerKg: decimal.NewFromInt(40), Active: true}
	code := "RTZ"
	both.ProductID, both.SubproductID = &code, &sub.ID
	assert.Error(t, store.Prices.Create(ctx, both), "hook rejects both targets")

	// The store rejects it as well when the hook is bypassed.
	err := db.Exec(
		"INSERT INTO precios (producto_id, subproducto_id, tipo_cliente, precio_kg, cantidad_minima_kg, activo) VALUES (?, ?, ?, ?, ?, ?)",
		"RTZ", sub.ID, "PUBLICO", 40, 0, true,
	).Error
	assert.Error(t, err)
	err = db.Exec(
		"INSERT INTO precios (producto_id, subproducto_id, tipo_cliente, precio_kg, cantidad_minima_kg, activo) VALUES (NULL, NULL, ?, ?, ?, ?)",
		"PUBLICO", 40, 0, true,
	).Error
	assert.Error(t, err)

	n, err := store.Prices.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPriceAmountCheckConstraints(t *testing.T) {
	ctx := context.Background()
	db := testdb.New(t)
	store := repository.NewStore(db)
	seedProduct(t, store, "PECH", "Pechuga de Pollo")

	negative := &model.Price{ClientType: model.ClientPublic, PricePerKg: decimal.NewFromInt(-120), Active: true}
	negative.SetTarget(model.ProductTarget{Code: "PECH"})
	assert.Error(t, store.Prices.Create(ctx, negative), "hook rejects a negative price")

	insert := "INSERT INTO precios (producto_id, tipo_cliente, precio_kg, cantidad_minima_kg, activo) VALUES (?, ?, ?, ?, ?)"
	assert.Error(t, db.Exec(insert, "PECH", "PUBLICO", -120, 0, true).Error)
	assert.Error(t, db.Exec(insert, "PECH", "PUBLICO", 120, -5, true).Error)
	require.NoError(t, db.Exec(insert, "PECH", "PUBLICO", 120, 0, true).Error)

	n, err := store.Prices.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestPricesBySubproductDoNotLeakIntoProduct(t *testing.T) {
	ctx := context.Background()
	store := repository.NewStore(testdb.New(t))
	p := seedProduct(t, store, "PECH", "Pechuga de Pollo")
	sub := &model.Subproduct{ProductID: p.ID, Code: "PP", Name: "Pulpa de Pechuga", Active: true}
	require.NoError(t, store.Subproducts.Create(ctx, sub))

	for _, target := range []model.PriceTarget{model.ProductTarget{Code: "PECH"}, model.SubproductTarget{ID: sub.ID}} {
		price := &model.Price{ClientType: model.ClientPublic, PricePerKg: decimal.NewFromInt(120), Active: true}
		price.SetTarget(target)
		require.NoError(t, store.Prices.Create(ctx, price))
	}

	byProduct, err := store.Prices.FindByTarget(ctx, model.ProductTarget{Code: "PECH"})
	require.NoError(t, err)
	require.Len(t, byProduct, 1)
	assert.NotNil(t, byProduct[0].ProductID)

	bySub, err := store.Prices.FindByTarget(ctx, model.SubproductTarget{ID: sub.ID})
	require.NoError(t, err)
	require.Len(t, bySub, 1)
	assert.NotNil(t, bySub[0].SubproductID)
}

func TestAssociationAddIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := repository.NewStore(testdb.New(t))
	seedProduct(t, store, "PECH", "Pechuga de Pollo")
	mod := &model.Modification{Code: "FILETE", Name: "Fileteado", Active: true}
	require.NoError(t, store.Modifications.Create(ctx, mod))

	added, err := store.ProductModifications.Add(ctx, "PECH", mod.ID)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = store.ProductModifications.Add(ctx, "PECH", mod.ID)
	require.NoError(t, err)
	assert.False(t, added)

	n, err := store.ProductModifications.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	mods, err := store.ProductModifications.List(ctx, "PECH")
	require.NoError(t, err)
	require.Len(t, mods, 1)
	assert.Equal(t, "FILETE", mods[0].Code)

	removed, err := store.ProductModifications.Remove(ctx, "PECH", mod.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = store.ProductModifications.Remove(ctx, "PECH", mod.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestSubproductAssociationsAreSeparate(t *testing.T) {
	ctx := context.Background()
	store := repository.NewStore(testdb.New(t))
	p := seedProduct(t, store, "PM", "Perniles")
	sub := &model.Subproduct{ProductID: p.ID, Code: "PG", Name: "Pierna", Active: true}
	require.NoError(t, store.Subproducts.Create(ctx, sub))
	mod := &model.Modification{Code: "ASAR", Name: "Para Asar", Active: true}
	require.NoError(t, store.Modifications.Create(ctx, mod))

	_, err := store.SubproductModifications.Add(ctx, sub.ID, mod.ID)
	require.NoError(t, err)

	subMods, err := store.SubproductModifications.List(ctx, sub.ID)
	require.NoError(t, err)
	require.Len(t, subMods, 1)
	assert.Equal(t, "ASAR", subMods[0].Code)

	productMods, err := store.ProductModifications.List(ctx, "PM")
	require.NoError(t, err)
	assert.Empty(t, productMods)

	subs, err := store.Subproducts.FindByProduct(ctx, "PM")
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "PG", subs[0].Code)
}

func TestUserLookups(t *testing.T) {
	ctx := context.Background()
	store := repository.NewStore(testdb.New(t))

	u := &model.User{Username: "admin", Name: "Administrador", Role: model.RoleAdministrator, Active: true}
	require.NoError(t, u.SetPassword("secreto"))
	require.NoError(t, store.Users.Create(ctx, u))
	assert.False(t, u.CreatedAt.IsZero())

	require.NoError(t, store.Users.SetActive(ctx, u.ID, false))
	got, err := store.Users.FindByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.False(t, got.Active)
	assert.Nil(t, got.LastLogin)

	_, err = store.Users.FindByUsername(ctx, "ADMIN")
	assert.True(t, database.IsNotFound(err), "usernames match exactly")
}
