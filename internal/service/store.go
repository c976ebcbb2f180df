package service

import (
	"context"

	"pollos-admin/internal/repository"
	"pollos-admin/pkg/database"
	apperrors "pollos-admin/pkg/errors"

	"gorm.io/gorm"
)

// unitOfWork runs fn against repositories bound to one transaction. Any error
// rolls the whole transaction back.
type unitOfWork struct {
	db *gorm.DB
}

func (u unitOfWork) run(ctx context.Context, fn func(store *repository.Store) error) error {
	return database.WithTx(ctx, u.db, func(tx *gorm.DB) error {
		return fn(repository.NewStore(tx))
	})
}

func (u unitOfWork) read() *repository.Store {
	return repository.NewStore(u.db)
}

// storeError turns a repository failure into a typed error. Typed errors pass
// through untouched; a unique violation becomes DUPLICATE_CODE on field.
func storeError(err error, field, duplicateMsg string) error {
	if err == nil {
		return nil
	}
	if typed := apperrors.As(err); typed != nil {
		return typed
	}
	if database.IsUniqueViolation(err) {
		dup := apperrors.Wrap(apperrors.CodeDuplicateCode, err, duplicateMsg)
		if field != "" {
			dup = dup.WithDetails(map[string]string{field: duplicateMsg})
		}
		return dup
	}
	if database.IsNotFound(err) {
		return apperrors.Wrap(apperrors.CodeNotFound, err, "registro no encontrado")
	}
	return apperrors.Wrap(apperrors.CodePersistence, err, "error al guardar")
}

// lookupError maps a failed lookup to NOT_FOUND with the given message.
func lookupError(err error, notFoundMsg string) error {
	if database.IsNotFound(err) {
		return apperrors.Wrap(apperrors.CodeNotFound, err, notFoundMsg)
	}
	return apperrors.Wrap(apperrors.CodePersistence, err, "error al consultar")
}

func duplicate(field, msg string) error {
	return apperrors.Field(apperrors.CodeDuplicateCode, field, msg)
}
