package epanet

import (
	"github.com/rotisserie/eris"
)

// Junction is a demand node in the network. Elevation is stored in meters,
// BaseDemand in m³/s; unit conversion to the configured flow units happens
// when the model is written out.
type Junction struct {
	ID         string
	Elevation  float64
	BaseDemand float64
	X          float64
	Y          float64
}

// Pipe connects two junctions. Length and Diameter are stored in meters,
// Roughness is a Hazen-Williams coefficient.
type Pipe struct {
	ID        string
	Node1     string
	Node2     string
	Length    float64
	Diameter  float64
	Roughness float64
	MinorLoss float64
}

// Network is an EPANET water network model. Junctions and pipes keep their
// insertion order which is also the order they appear in the written model.
type Network struct {
	Title string

	junctions []*Junction
	juncIndex map[string]*Junction
	pipes     []*Pipe
	pipeIndex map[string]*Pipe
}

func NewNetwork(title string) *Network {
	return &Network{
		Title:     title,
		juncIndex: map[string]*Junction{},
		pipeIndex: map[string]*Pipe{},
	}
}

// AddJunction registers a new junction and returns a pointer to the stored
// copy so callers can update elevation and demand later.
func (n *Network) AddJunction(j Junction) (*Junction, error) {
	if j.ID == "" {
		return nil, eris.New("junction ID must not be empty")
	}
	if _, ok := n.juncIndex[j.ID]; ok {
		return nil, eris.Errorf("duplicate junction ID %s", j.ID)
	}

	stored := j
	n.junctions = append(n.junctions, &stored)
	n.juncIndex[j.ID] = &stored
	return &stored, nil
}

// AddPipe registers a new pipe. Both endpoints have to exist.
func (n *Network) AddPipe(p Pipe) (*Pipe, error) {
	if p.ID == "" {
		return nil, eris.New("pipe ID must not be empty")
	}
	if _, ok := n.pipeIndex[p.ID]; ok {
		return nil, eris.Errorf("duplicate pipe ID %s", p.ID)
	}
	if _, ok := n.juncIndex[p.Node1]; !ok {
		return nil, eris.Errorf("pipe %s references unknown node %s", p.ID, p.Node1)
	}
	if _, ok := n.juncIndex[p.Node2]; !ok {
		return nil, eris.Errorf("pipe %s references unknown node %s", p.ID, p.Node2)
	}

	stored := p
	n.pipes = append(n.pipes, &stored)
	n.pipeIndex[p.ID] = &stored
	return &stored, nil
}

// Junction looks up a junction by ID.
func (n *Network) Junction(id string) (*Junction, bool) {
	j, ok := n.juncIndex[id]
	return j, ok
}

// Junctions returns all junctions in insertion order. The returned slice must
// not be modified.
func (n *Network) Junctions() []*Junction {
	return n.junctions
}

// Pipes returns all pipes in insertion order. The returned slice must not be
// modified.
func (n *Network) Pipes() []*Pipe {
	return n.pipes
}

func (n *Network) JunctionCount() int { return len(n.junctions) }
func (n *Network) PipeCount() int     { return len(n.pipes) }
