package validator

import (
	"testing"

	apperrors "pollos-admin/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type productForm struct {
	Code     string `form:"codigo" validate:"notblank,runesmax=10"`
	Name     string `form:"nombre" validate:"notblank,runesmin=3,runesmax=100"`
	Category string `form:"categoria" validate:"notblank,runesmax=50"`
	Role     string `form:"rol" validate:"omitempty,oneof=ADMINISTRADOR CAJERO"`
}

func TestValidateStructOK(t *testing.T) {
	err := ValidateStruct(productForm{Code: "MHG", Name: "Molleja con Hígado", Category: "Menudencia"})
	assert.NoError(t, err)
}

func TestValidateStructDetailsUseFormNames(t *testing.T) {
	err := ValidateStruct(productForm{Code: "   ", Name: "ab", Category: "Pollo", Role: "GERENTE"})
	require.Error(t, err)

	typed := apperrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, apperrors.CodeValidation, typed.Code())

	details := typed.Details()
	assert.Equal(t, "Este campo es obligatorio.", details["codigo"])
	assert.Equal(t, "Debe tener al menos 3 caracteres.", details["nombre"])
	assert.Contains(t, details["rol"], "ADMINISTRADOR CAJERO")
	assert.NotContains(t, details, "categoria")
}

func TestRunesMaxCountsCharacters(t *testing.T) {
	// ten characters, twelve bytes
	err := ValidateStruct(productForm{Code: "ÑÑABCDEFGH", Name: "Pollo", Category: "Pollo"})
	assert.NoError(t, err)

	err = ValidateStruct(productForm{Code: "ABCDEFGHIJK", Name: "Pollo", Category: "Pollo"})
	require.Error(t, err)
	assert.Equal(t, "Debe tener como máximo 10 caracteres.", apperrors.As(err).Details()["codigo"])
}
