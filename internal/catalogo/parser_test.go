package catalogo

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParseCSV_PuntoYComa(t *testing.T) {
	csv := strings.Join([]string{
		"Producto;Proveedor;Unidades x Caja;Costo Caja;D1 %;D2 %;% Incremento;Cod Barras",
		"Paracetamol 500;INTI;10;50,00;6;7;25;7750001111111",
		"Ibuprofeno 400;BAGO;10;80;10;;30;7790002222222",
		";SIN NOMBRE;1;10;;;;",
	}, "\n")

	productos, err := ParseCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, productos, 2, "the nameless row is dropped")

	p := productos[0]
	assert.Equal(t, "7750001111111", p.ID, "barcode wins as id")
	assert.Equal(t, "Paracetamol 500", p.Nombre)
	assert.Equal(t, "INTI", p.Proveedor)
	assert.Equal(t, 10, p.UnidadesPorCaja)
	assert.True(t, p.CostoCaja.Equal(decimal.NewFromInt(50)))
	assert.True(t, p.Desc1Pct.Equal(decimal.NewFromFloat(0.06)))
	assert.True(t, p.Desc2Pct.Equal(decimal.NewFromFloat(0.07)))
	assert.True(t, p.IncrementoPct.Equal(decimal.NewFromFloat(0.25)))

	assert.True(t, productos[1].Desc2Pct.IsZero(), "empty percent defaults to zero")
}

func TestParseCSV_CostoUnitarioDerivaCaja(t *testing.T) {
	csv := "Producto,Costo Unit,Unidades x Caja\nAmoxicilina,5,12\n"
	productos, err := ParseCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, productos, 1)
	assert.True(t, productos[0].CostoCaja.Equal(decimal.NewFromInt(60)), "unit cost x upc")
}

func TestParseCSV_CostoPlanoComoRespaldo(t *testing.T) {
	csv := "Producto,precio costo\nAspirina,42\n"
	productos, err := ParseCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, productos, 1)
	assert.True(t, productos[0].CostoCaja.Equal(decimal.NewFromInt(42)))
	assert.Equal(t, 1, productos[0].UnidadesPorCaja, "missing upc defaults to 1")
}

func TestParseCSV_IDGeneradoSinCodigos(t *testing.T) {
	csv := "Producto,Costo Caja\nGenérico,10\n"
	productos, err := ParseCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, productos, 1)
	assert.True(t, strings.HasPrefix(productos[0].ID, "tmp-"), "id %q", productos[0].ID)
	assert.Nil(t, productos[0].CodigoBarras)
}

func TestParseCSV_MarcaRespaldaLinea(t *testing.T) {
	csv := "Producto,Marca,Costo Caja\nCrema X,Bayer,15\n"
	productos, err := ParseCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, productos, 1)
	assert.Equal(t, "Bayer", productos[0].Linea)
	assert.Equal(t, "Bayer", productos[0].Marca)
}

func TestParseCSV_BOMYVacio(t *testing.T) {
	productos, err := ParseCSV(strings.NewReader("\ufeffProducto,Costo Caja\nVitamina C,20\n"))
	require.NoError(t, err)
	require.Len(t, productos, 1)
	assert.Equal(t, "Vitamina C", productos[0].Nombre)

	productos, err = ParseCSV(strings.NewReader("Producto,Costo Caja\n"))
	require.NoError(t, err)
	assert.Empty(t, productos, "header-only file yields nothing")
}

func TestParseXLSX(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1",
		&[]interface{}{"Producto", "Proveedor", "Unidades x Caja", "Costo Caja", "D1 %", "% Incremento"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2",
		&[]interface{}{"Paracetamol 500", "INTI", 10, 50, 6, 25}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	productos, err := Parse("lista_inti.xlsx", buf.Bytes())
	require.NoError(t, err)
	require.Len(t, productos, 1)
	assert.Equal(t, "Paracetamol 500", productos[0].Nombre)
	assert.Equal(t, 10, productos[0].UnidadesPorCaja)
	assert.True(t, productos[0].Desc1Pct.Equal(decimal.NewFromFloat(0.06)))
}

func TestParse_DispatchPorExtension(t *testing.T) {
	csv := "Producto,Costo Caja\nJarabe,30\n"
	productos, err := Parse("lista.csv", []byte(csv))
	require.NoError(t, err)
	assert.Len(t, productos, 1)

	_, err = Parse("lista.xlsx", []byte(csv))
	assert.Error(t, err, "CSV bytes are not a workbook")
}

func TestDemo(t *testing.T) {
	productos := Demo()
	require.Len(t, productos, 2)
	assert.Equal(t, "7750001111111", productos[0].ID)
	assert.Equal(t, "INTI-P500-10", *productos[0].CodRef)
	assert.True(t, productos[1].Desc1Pct.Equal(decimal.NewFromFloat(0.1)))
}
