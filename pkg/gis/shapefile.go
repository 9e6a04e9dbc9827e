// Package gis reads point and polyline layers from zipped ESRI shapefiles.
// Uploads arrive as ZIP archives containing the usual .shp/.shx/.dbf
// triplet; only the geometry and the DBF attribute table are used.
package gis

import (
	"strings"

	shp "github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
)

// Point is a 2D coordinate. Z and M values of 3D shape types are dropped.
type Point struct {
	X float64
	Y float64
}

// PointRecord is a single record of a point layer together with its DBF
// attributes (raw strings, keyed by column name).
type PointRecord struct {
	Point Point
	Attrs map[string]string
}

// LineRecord is a single record of a polyline layer. Only the first and last
// vertex are retained since that is all the network builder needs.
type LineRecord struct {
	First Point
	Last  Point
	Attrs map[string]string
}

// openFirstShape returns a reader for the first .shp file found in the
// archive; additional layers in the same archive are ignored.
func openFirstShape(zipPath string) (*shp.ZipReader, error) {
	names, err := shp.ShapesInZip(zipPath)
	if err != nil {
		return nil, eris.Wrap(err, "Não foi possível abrir o arquivo ZIP")
	}
	if len(names) == 0 {
		return nil, eris.New("Não foi possível encontrar o arquivo .shp dentro do arquivo ZIP")
	}

	reader, err := shp.OpenShapeFromZip(zipPath, names[0])
	if err != nil {
		return nil, eris.Wrapf(err, "Não foi possível ler o shapefile %s", names[0])
	}
	return reader, nil
}

func readAttrs(r shp.SequentialReader) map[string]string {
	fields := r.Fields()
	attrs := make(map[string]string, len(fields))
	for idx, field := range fields {
		attrs[field.String()] = strings.TrimSpace(r.Attribute(idx))
	}
	return attrs
}

// ReadPointsFromZip reads all point records from the first shapefile in the
// given ZIP archive.
func ReadPointsFromZip(zipPath string) ([]PointRecord, error) {
	reader, err := openFirstShape(zipPath)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	var records []PointRecord
	for reader.Next() {
		_, shape := reader.Shape()

		var pt Point
		switch s := shape.(type) {
		case *shp.Point:
			pt = Point{X: s.X, Y: s.Y}
		case *shp.PointZ:
			pt = Point{X: s.X, Y: s.Y}
		case *shp.PointM:
			pt = Point{X: s.X, Y: s.Y}
		default:
			return nil, eris.Errorf("Esperava uma camada de pontos, geometria encontrada: %T", shape)
		}

		records = append(records, PointRecord{Point: pt, Attrs: readAttrs(reader)})
	}
	if err := reader.Err(); err != nil {
		return nil, eris.Wrap(err, "Não foi possível ler o shapefile de pontos")
	}

	return records, nil
}

// ReadLinesFromZip reads all polyline records from the first shapefile in the
// given ZIP archive.
func ReadLinesFromZip(zipPath string) ([]LineRecord, error) {
	reader, err := openFirstShape(zipPath)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	var records []LineRecord
	for reader.Next() {
		_, shape := reader.Shape()

		var points []shp.Point
		switch s := shape.(type) {
		case *shp.PolyLine:
			points = s.Points
		case *shp.PolyLineZ:
			points = s.Points
		case *shp.PolyLineM:
			points = s.Points
		default:
			return nil, eris.Errorf("Esperava uma camada de linhas, geometria encontrada: %T", shape)
		}
		if len(points) < 2 {
			return nil, eris.New("Trecho com menos de dois vértices")
		}

		records = append(records, LineRecord{
			First: Point{X: points[0].X, Y: points[0].Y},
			Last:  Point{X: points[len(points)-1].X, Y: points[len(points)-1].Y},
			Attrs: readAttrs(reader),
		})
	}
	if err := reader.Err(); err != nil {
		return nil, eris.Wrap(err, "Não foi possível ler o shapefile de linhas")
	}

	return records, nil
}

// LayerInfo describes one shapefile inside a ZIP archive.
type LayerInfo struct {
	Name    string
	Columns []string
	Records int
}

// DescribeZip lists every shapefile in the archive with its attribute
// columns and record count. Used by the inspect command.
func DescribeZip(zipPath string) ([]LayerInfo, error) {
	names, err := shp.ShapesInZip(zipPath)
	if err != nil {
		return nil, eris.Wrap(err, "Não foi possível abrir o arquivo ZIP")
	}
	if len(names) == 0 {
		return nil, eris.New("Não foi possível encontrar o arquivo .shp dentro do arquivo ZIP")
	}

	infos := make([]LayerInfo, 0, len(names))
	for _, name := range names {
		reader, err := shp.OpenShapeFromZip(zipPath, name)
		if err != nil {
			return nil, eris.Wrapf(err, "Não foi possível ler o shapefile %s", name)
		}

		info := LayerInfo{Name: name}
		for _, field := range reader.Fields() {
			info.Columns = append(info.Columns, field.String())
		}
		for reader.Next() {
			info.Records++
		}
		err = reader.Err()
		reader.Close()
		if err != nil {
			return nil, eris.Wrapf(err, "Não foi possível ler o shapefile %s", name)
		}

		infos = append(infos, info)
	}

	return infos, nil
}
