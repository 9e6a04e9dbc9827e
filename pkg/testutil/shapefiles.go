// Package testutil builds small shapefile ZIP fixtures for tests. The
// archives are written with the same library the gis package reads them
// with, into per-test temp directories.
package testutil

import (
	"archive/zip"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	shp "github.com/jonas-p/go-shp"
)

// dbfFloat renders v as the full 16-byte numeric field body, right
// justified and space padded. Passing a bare float64 to WriteAttribute
// leaves the field's trailing bytes as the NUL record padding go-shp
// writes, and those NULs survive the reader's space-only trim.
func dbfFloat(v float64) string {
	return fmt.Sprintf("%16.6f", v)
}

// NodeFixture is one record of a node layer.
type NodeFixture struct {
	X, Y    float64
	Cota    float64
	Demanda float64
}

// LinkFixture is one record of a link layer.
type LinkFixture struct {
	Points     [][2]float64
	Diametro   float64
	Extensao   float64
	Rugosidade float64
}

// NodesZip writes a point shapefile with the given records and returns the
// path of a ZIP archive containing it.
func NodesZip(t testing.TB, nodes []NodeFixture) string {
	t.Helper()

	dir := t.TempDir()
	base := filepath.Join(dir, "nodes")

	writer, err := shp.Create(base+".shp", shp.POINT)
	if err != nil {
		t.Fatalf("failed to create node shapefile: %v", err)
	}
	writer.SetFields([]shp.Field{
		shp.FloatField("Cota", 16, 6),
		shp.FloatField("Demanda", 16, 6),
	})

	for idx, node := range nodes {
		writer.Write(&shp.Point{X: node.X, Y: node.Y})
		if err := writer.WriteAttribute(idx, 0, dbfFloat(node.Cota)); err != nil {
			t.Fatalf("failed to write node attribute: %v", err)
		}
		if err := writer.WriteAttribute(idx, 1, dbfFloat(node.Demanda)); err != nil {
			t.Fatalf("failed to write node attribute: %v", err)
		}
	}
	writer.Close()

	return zipShapefile(t, base)
}

// LinksZip writes a polyline shapefile with the given records and returns
// the path of a ZIP archive containing it.
func LinksZip(t testing.TB, links []LinkFixture) string {
	t.Helper()

	dir := t.TempDir()
	base := filepath.Join(dir, "links")

	writer, err := shp.Create(base+".shp", shp.POLYLINE)
	if err != nil {
		t.Fatalf("failed to create link shapefile: %v", err)
	}
	writer.SetFields([]shp.Field{
		shp.FloatField("Diametro", 16, 6),
		shp.FloatField("Extensao", 16, 6),
		shp.FloatField("Rugosidade", 16, 6),
	})

	for idx, link := range links {
		points := make([]shp.Point, len(link.Points))
		for i, p := range link.Points {
			points[i] = shp.Point{X: p[0], Y: p[1]}
		}
		writer.Write(shp.NewPolyLine([][]shp.Point{points}))

		if err := writer.WriteAttribute(idx, 0, dbfFloat(link.Diametro)); err != nil {
			t.Fatalf("failed to write link attribute: %v", err)
		}
		if err := writer.WriteAttribute(idx, 1, dbfFloat(link.Extensao)); err != nil {
			t.Fatalf("failed to write link attribute: %v", err)
		}
		if err := writer.WriteAttribute(idx, 2, dbfFloat(link.Rugosidade)); err != nil {
			t.Fatalf("failed to write link attribute: %v", err)
		}
	}
	writer.Close()

	return zipShapefile(t, base)
}

// EmptyZip returns a ZIP archive without any shapefile in it.
func EmptyZip(t testing.TB) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "empty.zip")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", path, err)
	}

	zw := zip.NewWriter(f)
	w, err := zw.Create("readme.txt")
	if err != nil {
		t.Fatalf("failed to add archive entry: %v", err)
	}
	if _, err := w.Write([]byte("nothing to see here")); err != nil {
		t.Fatalf("failed to write archive entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to finish archive: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("failed to close archive: %v", err)
	}

	return path
}

// zipShapefile packs base.shp/.shx/.dbf into base.zip.
func zipShapefile(t testing.TB, base string) string {
	t.Helper()

	zipPath := base + ".zip"
	f, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("failed to create %s: %v", zipPath, err)
	}

	zw := zip.NewWriter(f)
	for _, ext := range []string{".shp", ".shx", ".dbf"} {
		data, err := os.ReadFile(base + ext)
		if err != nil {
			t.Fatalf("failed to read %s%s: %v", base, ext, err)
		}

		w, err := zw.Create(filepath.Base(base) + ext)
		if err != nil {
			t.Fatalf("failed to add archive entry: %v", err)
		}
		if _, err := w.Write(data); err != nil {
			t.Fatalf("failed to write archive entry: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to finish archive: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("failed to close archive: %v", err)
	}

	return zipPath
}
