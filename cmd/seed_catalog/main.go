// seed_catalog genera un script SQL para poblar materiales, productos y recetas
// a partir de un catálogo XML (UTF-8 o ISO-8859-1).
//
// Uso: go run ./cmd/seed_catalog [ruta/catalogo.xml] [salida.sql]
// Por defecto lee catalogo.xml del directorio actual y escribe seeds/catalog.sql en la raíz del módulo.
//
// Formato:
//
//	<catalogo>
//	  <material nombre="Harina" precio="1.25"/>
//	  <producto nombre="Pan">
//	    <ingrediente material="Harina" cantidad="2"/>
//	  </producto>
//	</catalogo>
package main

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

type catalogo struct {
	Materiales []materialXML `xml:"material"`
	Productos  []productoXML `xml:"producto"`
}

type materialXML struct {
	Nombre string `xml:"nombre,attr"`
	Precio string `xml:"precio,attr"`
}

type productoXML struct {
	Nombre       string `xml:"nombre,attr"`
	Ingredientes []struct {
		Material string `xml:"material,attr"`
		Cantidad int64  `xml:"cantidad,attr"`
	} `xml:"ingrediente"`
}

type material struct {
	name  string
	price decimal.Decimal
}

type ingredient struct {
	material string
	quantity int64
}

type product struct {
	name   string
	recipe []ingredient
}

type catalog struct {
	materials []material
	products  []product
}

func main() {
	xmlPath := "catalogo.xml"
	if len(os.Args) > 1 {
		xmlPath = os.Args[1]
	}
	outPath := filepath.Join(findModuleRoot(), "seeds", "catalog.sql")
	if len(os.Args) > 2 {
		outPath = os.Args[2]
	}

	f, err := os.Open(xmlPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir XML: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	cat, err := parseCatalog(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Catálogo inválido: %v\n", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Crear directorio: %v\n", err)
		os.Exit(1)
	}
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := writeSQL(out, cat); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: %d materiales, %d productos\n", outPath, len(cat.materials), len(cat.products))
}

// parseCatalog decodifica y valida el catálogo: precios con a lo sumo dos decimales,
// cantidades positivas e ingredientes que referencian materiales declarados.
func parseCatalog(r io.Reader) (*catalog, error) {
	var raw catalogo
	dec := xml.NewDecoder(r)
	dec.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		if strings.EqualFold(charset, "ISO-8859-1") || strings.EqualFold(charset, "ISO8859-1") || strings.EqualFold(charset, "latin1") {
			return transform.NewReader(input, charmap.ISO8859_1.NewDecoder()), nil
		}
		return input, nil
	}
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decodificar XML: %w", err)
	}

	cat := &catalog{}
	known := make(map[string]bool, len(raw.Materiales))
	for _, m := range raw.Materiales {
		name := strings.TrimSpace(m.Nombre)
		if name == "" {
			continue
		}
		price, err := decimal.NewFromString(strings.TrimSpace(m.Precio))
		if err != nil {
			return nil, fmt.Errorf("material %q: precio %q inválido", name, m.Precio)
		}
		if price.IsNegative() || !price.Equal(price.Round(2)) {
			return nil, fmt.Errorf("material %q: precio %s fuera de rango", name, price)
		}
		if known[name] {
			return nil, fmt.Errorf("material %q repetido", name)
		}
		known[name] = true
		cat.materials = append(cat.materials, material{name: name, price: price})
	}

	for _, p := range raw.Productos {
		name := strings.TrimSpace(p.Nombre)
		if name == "" {
			continue
		}
		prod := product{name: name}
		for _, ing := range p.Ingredientes {
			matName := strings.TrimSpace(ing.Material)
			if !known[matName] {
				return nil, fmt.Errorf("producto %q: material %q no declarado", name, matName)
			}
			if ing.Cantidad <= 0 {
				return nil, fmt.Errorf("producto %q: cantidad de %q debe ser positiva", name, matName)
			}
			prod.recipe = append(prod.recipe, ingredient{material: matName, quantity: ing.Cantidad})
		}
		cat.products = append(cat.products, prod)
	}

	// Salida estable
	sort.Slice(cat.materials, func(i, j int) bool { return cat.materials[i].name < cat.materials[j].name })
	sort.Slice(cat.products, func(i, j int) bool { return cat.products[i].name < cat.products[j].name })
	return cat, nil
}

func writeSQL(w io.Writer, cat *catalog) error {
	var b strings.Builder
	b.WriteString("-- Catálogo de materiales, productos y recetas\n")
	b.WriteString("-- Generado por cmd/seed_catalog\n\n")

	if len(cat.materials) > 0 {
		b.WriteString("-- 1. Materiales\n")
		b.WriteString("INSERT INTO materials (name, price) VALUES\n")
		for i, m := range cat.materials {
			sep := ","
			if i == len(cat.materials)-1 {
				sep = ""
			}
			fmt.Fprintf(&b, "  ('%s', %s)%s\n", escapeSQL(m.name), m.price.StringFixed(2), sep)
		}
		b.WriteString("ON CONFLICT (name) DO UPDATE SET price = EXCLUDED.price, updated_at = now();\n\n")
	}

	if len(cat.products) > 0 {
		b.WriteString("-- 2. Productos\n")
		for _, p := range cat.products {
			fmt.Fprintf(&b, "INSERT INTO products (name) VALUES ('%s') ON CONFLICT (name) DO NOTHING;\n", escapeSQL(p.name))
		}
		b.WriteString("\n-- 3. Recetas (subquery por nombre)\n")
		for _, p := range cat.products {
			for _, ing := range p.recipe {
				b.WriteString("INSERT INTO material_quantities (product_id, material_id, quantity)\n")
				fmt.Fprintf(&b, "SELECT p.id, m.id, %d FROM products p, materials m WHERE p.name = '%s' AND m.name = '%s'\n",
					ing.quantity, escapeSQL(p.name), escapeSQL(ing.material))
				b.WriteString("ON CONFLICT (product_id, material_id) DO UPDATE SET quantity = EXCLUDED.quantity;\n")
			}
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
