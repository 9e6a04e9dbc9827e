// Package convert builds an EPANET network model from a pair of shapefile
// layers: a point layer describing the nodes of a water distribution network
// and a polyline layer describing its pipes.
package convert

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/kaioribeiro97/simulacao-shp/pkg/epanet"
	"github.com/kaioribeiro97/simulacao-shp/pkg/gis"
)

// Attribute columns the input layers have to carry. Elevation (Cota) is in
// feet, demand (Demanda) in GPM, diameter (Diametro) in inches, length
// (Extensao) in feet; Rugosidade is a Hazen-Williams coefficient.
var (
	requiredNodeColumns = []string{"Cota", "Demanda"}
	requiredLinkColumns = []string{"Diametro", "Extensao", "Rugosidade"}
)

// Endpoint coordinates from the link layer and point coordinates from the
// node layer rarely match bit for bit, so both are keyed on coordinates
// rounded to 6 decimal places.
type coordKey struct {
	x float64
	y float64
}

func keyFor(p gis.Point) coordKey {
	return coordKey{x: round6(p.X), y: round6(p.Y)}
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

// Error messages from this package end up on the upload page, so they are
// worded in Portuguese like the rest of the user-facing surface.
func checkColumns(attrs map[string]string, required []string, layer string) error {
	for _, col := range required {
		if _, ok := attrs[col]; !ok {
			return eris.Errorf("O shapefile de %s deve conter as colunas: %s",
				layer, strings.Join(required, ", "))
		}
	}
	return nil
}

func attrFloat(attrs map[string]string, col string) (float64, error) {
	raw := attrs[col]
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, eris.Errorf("A coluna %s contém um valor não numérico: %q", col, raw)
	}
	return v, nil
}

// Build constructs the network model. Junctions are created from the
// endpoints of every link record in first-seen order; node records are then
// matched against those junctions by coordinate and contribute elevation and
// base demand. Node records that match no junction are ignored.
func Build(nodes []gis.PointRecord, links []gis.LineRecord) (*epanet.Network, error) {
	wn := epanet.NewNetwork("Generated from shapefile layers")
	junctions := map[coordKey]string{}

	addEndpoint := func(p gis.Point) (string, error) {
		key := keyFor(p)
		if id, ok := junctions[key]; ok {
			return id, nil
		}

		id := fmt.Sprintf("N%d", len(junctions)+1)
		junctions[key] = id
		_, err := wn.AddJunction(epanet.Junction{ID: id, X: key.x, Y: key.y})
		return id, err
	}

	for _, link := range links {
		if _, err := addEndpoint(link.First); err != nil {
			return nil, err
		}
		if _, err := addEndpoint(link.Last); err != nil {
			return nil, err
		}
	}

	for _, node := range nodes {
		if err := checkColumns(node.Attrs, requiredNodeColumns, "nós"); err != nil {
			return nil, err
		}

		id, ok := junctions[keyFor(node.Point)]
		if !ok {
			continue
		}
		junction, _ := wn.Junction(id)

		elevation, err := attrFloat(node.Attrs, "Cota")
		if err != nil {
			return nil, err
		}
		demand, err := attrFloat(node.Attrs, "Demanda")
		if err != nil {
			return nil, err
		}

		junction.Elevation = elevation / feetPerMeterElevation
		junction.BaseDemand = demand / gpmPerCubicMeterSec
	}

	for _, link := range links {
		if err := checkColumns(link.Attrs, requiredLinkColumns, "trechos"); err != nil {
			return nil, err
		}

		diameter, err := attrFloat(link.Attrs, "Diametro")
		if err != nil {
			return nil, err
		}
		length, err := attrFloat(link.Attrs, "Extensao")
		if err != nil {
			return nil, err
		}
		roughness, err := attrFloat(link.Attrs, "Rugosidade")
		if err != nil {
			return nil, err
		}

		_, err = wn.AddPipe(epanet.Pipe{
			ID:        fmt.Sprintf("P%d", wn.PipeCount()+1),
			Node1:     junctions[keyFor(link.First)],
			Node2:     junctions[keyFor(link.Last)],
			Length:    length / feetPerMeterLength,
			Diameter:  diameter / inchesPerMeter,
			Roughness: roughness,
			MinorLoss: 0.0,
		})
		if err != nil {
			return nil, err
		}
	}

	return wn, nil
}

// FromZips runs the full conversion for two uploaded ZIP archives and
// returns the resulting network model.
func FromZips(nodesZip, linksZip string) (*epanet.Network, error) {
	nodes, err := gis.ReadPointsFromZip(nodesZip)
	if err != nil {
		return nil, eris.Wrap(err, "Falha ao ler o arquivo de nós")
	}

	links, err := gis.ReadLinesFromZip(linksZip)
	if err != nil {
		return nil, eris.Wrap(err, "Falha ao ler o arquivo de trechos")
	}

	return Build(nodes, links)
}
