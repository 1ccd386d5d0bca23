package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

const catalogoXML = `<?xml version="1.0" encoding="UTF-8"?>
<catalogo>
  <material nombre="Harina" precio="1.25"/>
  <material nombre="Azúcar" precio="2.1"/>
  <producto nombre="Pan de O'Brien">
    <ingrediente material="Harina" cantidad="2"/>
    <ingrediente material="Azúcar" cantidad="1"/>
  </producto>
</catalogo>`

func TestParseCatalog(t *testing.T) {
	cat, err := parseCatalog(strings.NewReader(catalogoXML))
	require.NoError(t, err)

	require.Len(t, cat.materials, 2)
	assert.Equal(t, "Azúcar", cat.materials[0].name, "orden estable por nombre")
	assert.Equal(t, "2.10", cat.materials[0].price.StringFixed(2))
	require.Len(t, cat.products, 1)
	assert.Equal(t, []ingredient{{"Harina", 2}, {"Azúcar", 1}}, cat.products[0].recipe)
}

func TestParseCatalog_ISO88591(t *testing.T) {
	latin, err := charmap.ISO8859_1.NewEncoder().String(strings.Replace(catalogoXML, "UTF-8", "ISO-8859-1", 1))
	require.NoError(t, err)

	cat, err := parseCatalog(strings.NewReader(latin))
	require.NoError(t, err)
	assert.Equal(t, "Azúcar", cat.materials[0].name)
}

func TestParseCatalog_Invalidos(t *testing.T) {
	cases := map[string]string{
		"precio con tres decimales": `<catalogo><material nombre="A" precio="1.005"/></catalogo>`,
		"precio negativo":           `<catalogo><material nombre="A" precio="-1"/></catalogo>`,
		"material repetido":         `<catalogo><material nombre="A" precio="1"/><material nombre="A" precio="2"/></catalogo>`,
		"ingrediente no declarado":  `<catalogo><producto nombre="P"><ingrediente material="X" cantidad="1"/></producto></catalogo>`,
		"cantidad cero":             `<catalogo><material nombre="A" precio="1"/><producto nombre="P"><ingrediente material="A" cantidad="0"/></producto></catalogo>`,
	}
	for name, xmlDoc := range cases {
		_, err := parseCatalog(strings.NewReader(xmlDoc))
		assert.Error(t, err, name)
	}
}

func TestWriteSQL(t *testing.T) {
	cat, err := parseCatalog(strings.NewReader(catalogoXML))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeSQL(&buf, cat))
	sql := buf.String()

	assert.Contains(t, sql, "  ('Azúcar', 2.10),\n  ('Harina', 1.25)\n")
	assert.Contains(t, sql, "INSERT INTO products (name) VALUES ('Pan de O''Brien')")
	assert.Contains(t, sql, "WHERE p.name = 'Pan de O''Brien' AND m.name = 'Harina'")
	assert.Equal(t, 2, strings.Count(sql, "INSERT INTO material_quantities"))
}
