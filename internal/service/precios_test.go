package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPilaDescuentosMultiplicativa(t *testing.T) {
	// 100 USD con 10% y luego 5%: 100 * 0.9 * 0.95 = 85.50, no 85.00
	precio, err := PrecioUnitario(
		decimal.NewFromInt(100),
		decimal.NewFromInt(36),
		[]decimal.Decimal{decimal.NewFromInt(10), decimal.NewFromInt(5)},
	)
	require.NoError(t, err)
	assert.Equal(t, "85.5", precio.USD.String())
	assert.Equal(t, "3078", precio.VES.String()) // 85.50 * 36
}

func TestPrecioSinDescuentos(t *testing.T) {
	precio, err := PrecioUnitario(decimal.NewFromFloat(12.34), decimal.NewFromInt(40), nil)
	require.NoError(t, err)
	assert.Equal(t, "12.34", precio.USD.String())
	assert.Equal(t, "493.6", precio.VES.String())
}

func TestPrecioVESConTasaCero(t *testing.T) {
	// Tasa 0: el precio VES queda en 0 por política, nunca un error
	precio, err := PrecioUnitario(decimal.NewFromInt(50), decimal.Zero, nil)
	require.NoError(t, err)
	assert.Equal(t, "50", precio.USD.String())
	assert.True(t, precio.VES.IsZero())
}

func TestDescuentoNegativoRechazado(t *testing.T) {
	_, err := PrecioUnitario(
		decimal.NewFromInt(100),
		decimal.NewFromInt(36),
		[]decimal.Decimal{decimal.NewFromInt(-5)},
	)
	assert.ErrorContains(t, err, "negativo")
}

func TestDescuentoCientoPorCientoRechazado(t *testing.T) {
	err := ValidarDescuento(decimal.NewFromInt(100))
	assert.ErrorContains(t, err, "menor a 100")

	err = ValidarDescuento(decimal.NewFromFloat(99.99))
	assert.NoError(t, err)
}

func TestClampDescuento(t *testing.T) {
	// El clamp solo aplica al tope; los negativos pasan y fallan en la validación
	assert.Equal(t, "99.99", ClampDescuento(decimal.NewFromInt(150)).String())
	assert.Equal(t, "30", ClampDescuento(decimal.NewFromInt(30)).String())
	assert.Equal(t, "-5", ClampDescuento(decimal.NewFromInt(-5)).String())
}

func TestSumaDescuentosEsSoloDisplay(t *testing.T) {
	stack := []decimal.Decimal{decimal.NewFromInt(10), decimal.NewFromInt(5)}
	assert.Equal(t, "15", SumaDescuentos(stack).String())

	// La suma nunca coincide con el efecto multiplicativo real
	precio, err := PrecioUnitario(decimal.NewFromInt(100), decimal.Zero, stack)
	require.NoError(t, err)
	assert.NotEqual(t, "85", precio.USD.String())
}

func TestPrecioBaseNegativoRechazado(t *testing.T) {
	_, err := PrecioUnitario(decimal.NewFromInt(-1), decimal.NewFromInt(36), nil)
	assert.Error(t, err)
}
