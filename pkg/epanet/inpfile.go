package epanet

import (
	"bufio"
	"fmt"
	"io"

	"github.com/rotisserie/eris"
)

// The model is kept in SI units internally. EPANET expects junction demands
// in the configured flow units and pipe diameters in millimeters when a
// metric unit set is active, so the writer converts on the way out.
const (
	litersPerCubicMeter = 1000.0
	millimetersPerMeter = 1000.0
)

// WriteInp renders the network as an EPANET input file. The unit system is
// fixed to LPS with Hazen-Williams headloss which matches the unit
// conversions applied while the model is built.
func (n *Network) WriteInp(w io.Writer) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "[TITLE]")
	if n.Title != "" {
		fmt.Fprintln(bw, n.Title)
	}
	fmt.Fprintln(bw)

	fmt.Fprintln(bw, "[JUNCTIONS]")
	fmt.Fprintln(bw, ";ID                  Elevation           Demand              Pattern")
	for _, j := range n.junctions {
		fmt.Fprintf(bw, " %-19s %-19.6f %-19.6f ;\n",
			j.ID, j.Elevation, j.BaseDemand*litersPerCubicMeter)
	}
	fmt.Fprintln(bw)

	fmt.Fprintln(bw, "[RESERVOIRS]")
	fmt.Fprintln(bw, ";ID                  Head                Pattern")
	fmt.Fprintln(bw)

	fmt.Fprintln(bw, "[TANKS]")
	fmt.Fprintln(bw, ";ID                  Elevation           InitLevel           MinLevel            MaxLevel            Diameter            MinVol              VolCurve")
	fmt.Fprintln(bw)

	fmt.Fprintln(bw, "[PIPES]")
	fmt.Fprintln(bw, ";ID                  Node1               Node2               Length              Diameter            Roughness           MinorLoss           Status")
	for _, p := range n.pipes {
		fmt.Fprintf(bw, " %-19s %-19s %-19s %-19.6f %-19.6f %-19.6f %-19.6f %s\n",
			p.ID, p.Node1, p.Node2, p.Length, p.Diameter*millimetersPerMeter,
			p.Roughness, p.MinorLoss, "Open")
	}
	fmt.Fprintln(bw)

	fmt.Fprintln(bw, "[PUMPS]")
	fmt.Fprintln(bw, ";ID                  Node1               Node2               Properties")
	fmt.Fprintln(bw)

	fmt.Fprintln(bw, "[VALVES]")
	fmt.Fprintln(bw, ";ID                  Node1               Node2               Diameter            Type                Setting             MinorLoss")
	fmt.Fprintln(bw)

	fmt.Fprintln(bw, "[OPTIONS]")
	fmt.Fprintln(bw, "Units               LPS")
	fmt.Fprintln(bw, "FlowUnits           LPS")
	fmt.Fprintln(bw, "Headloss            H-W")
	fmt.Fprintln(bw, "Specific Gravity    1.0")
	fmt.Fprintln(bw, "Viscosity           1.0")
	fmt.Fprintln(bw, "Trials              40")
	fmt.Fprintln(bw, "Accuracy            0.001")
	fmt.Fprintln(bw, "Unbalanced          Continue 10")
	fmt.Fprintln(bw, "Demand Multiplier   1.0")
	fmt.Fprintln(bw)

	fmt.Fprintln(bw, "[TIMES]")
	fmt.Fprintln(bw, "Duration            0:00:00")
	fmt.Fprintln(bw, "Hydraulic Timestep  1:00:00")
	fmt.Fprintln(bw, "Pattern Timestep    1:00:00")
	fmt.Fprintln(bw, "Report Timestep     1:00:00")
	fmt.Fprintln(bw)

	fmt.Fprintln(bw, "[COORDINATES]")
	fmt.Fprintln(bw, ";Node                X-Coord             Y-Coord")
	for _, j := range n.junctions {
		fmt.Fprintf(bw, " %-19s %-19.6f %-19.6f\n", j.ID, j.X, j.Y)
	}
	fmt.Fprintln(bw)

	fmt.Fprintln(bw, "[END]")

	if err := bw.Flush(); err != nil {
		return eris.Wrap(err, "failed to write INP file")
	}
	return nil
}
