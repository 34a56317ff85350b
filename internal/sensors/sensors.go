// Package sensors models the noisy, lossy measurement fleet overlaying the
// farm. Nodes drain battery, fail spontaneously, and are occasionally
// restored by maintenance; missing readings are tolerated by aggregating
// whatever arrived, defaulting to zero. That lossy-aggregation policy is
// deliberate: it models real sensor-network unreliability, not an error.
package sensors

import (
	"log/slog"
	"math"
	"math/rand"

	"github.com/google/uuid"

	"github.com/verdantworks/agrosim/internal/farm"
)

// Kind identifies what a sensor node measures.
type Kind uint8

const (
	KindSoilMoisture Kind = iota
	KindNutrient
	KindPest
)

// Name returns the human-readable kind name.
func (k Kind) Name() string {
	switch k {
	case KindSoilMoisture:
		return "soil_moisture"
	case KindNutrient:
		return "nutrient"
	case KindPest:
		return "pest"
	}
	return "unknown"
}

// Position locates a node in the field. Depth is in meters.
type Position struct {
	X, Y, Depth float64
}

// Node is a single measurement device.
type Node struct {
	ID          string
	Kind        Kind
	Position    Position
	Battery     float64 // 0..100, decreasing between maintenance visits.
	Operational bool
}

// Observation is the aggregate sensor picture for one tick. Fields default
// to zero when no readings of that kind were collected.
type Observation struct {
	SoilMoistureAvg float64
	SoilMoistureVar float64
	SoilN           float64
	PestPressure    float64 // Back on the [0,1] scale.
}

// Node failure and recovery rates, per measurement / per tick.
const (
	faultProb       = 0.005
	maintenanceProb = 0.05
)

var nodeDepths = []float64{0.1, 0.3, 0.6}

// Network owns the node fleet. It holds a non-owning reference to the farm
// state it overlays; the network never outlives its farm.
type Network struct {
	rng   *rand.Rand
	state *farm.State
	nodes []*Node
}

// NewNetwork deploys round(size × 1.5) nodes (at least one), cycling sensor
// kinds round-robin, each at a random position with a depth from the fixed
// deployment set.
func NewNetwork(rng *rand.Rand, state *farm.State) *Network {
	count := int(math.Round(state.Size * 1.5))
	if count < 1 {
		count = 1
	}

	span := math.Sqrt(state.Size)
	nodes := make([]*Node, count)
	for i := range nodes {
		nodes[i] = &Node{
			ID:   uuid.New().String(),
			Kind: Kind(i % 3),
			Position: Position{
				X:     rng.Float64() * span,
				Y:     rng.Float64() * span,
				Depth: nodeDepths[rng.Intn(len(nodeDepths))],
			},
			Battery:     100,
			Operational: true,
		}
	}

	return &Network{rng: rng, state: state, nodes: nodes}
}

// Nodes returns the fleet for inspection.
func (n *Network) Nodes() []*Node { return n.nodes }

// measure reads one node against the true farm state. Returns false when no
// reading was produced: the node was down, its battery ran out, or it failed
// mid-measurement.
func (n *Network) measure(node *Node) (float64, bool) {
	if !node.Operational {
		return 0, false
	}

	node.Battery -= 0.1 + n.rng.Float64()*0.4
	if node.Battery <= 0 {
		node.Battery = 0
		node.Operational = false
		slog.Debug("sensor battery depleted", "node", node.ID, "kind", node.Kind.Name())
		return 0, false
	}

	if n.rng.Float64() < faultProb {
		node.Operational = false
		slog.Debug("sensor fault", "node", node.ID, "kind", node.Kind.Name())
		return 0, false
	}

	switch node.Kind {
	case KindSoilMoisture:
		band := bandForDepth(node.Position.Depth)
		v := n.state.SoilMoisture[band] + n.rng.NormFloat64()*0.8
		return math.Max(0, v), true
	case KindNutrient:
		v := n.state.Nutrients.N + n.rng.NormFloat64()*1.2
		return math.Max(0, v), true
	case KindPest:
		v := n.state.PestPressure*100 + n.rng.NormFloat64()*3
		return math.Min(100, math.Max(0, v)), true
	}
	return 0, false
}

// bandForDepth maps a deployment depth to its soil moisture band.
func bandForDepth(depth float64) int {
	for i, d := range nodeDepths {
		if depth <= d {
			return i
		}
	}
	return len(nodeDepths) - 1
}

// Collect measures every node and aggregates the readings per kind. Downed
// nodes get an independent chance of a maintenance visit that restores them
// with a fresh battery.
func (n *Network) Collect() Observation {
	var moisture, nutrient, pest []float64

	for _, node := range n.nodes {
		if v, ok := n.measure(node); ok {
			switch node.Kind {
			case KindSoilMoisture:
				moisture = append(moisture, v)
			case KindNutrient:
				nutrient = append(nutrient, v)
			case KindPest:
				pest = append(pest, v)
			}
		}
		if !node.Operational && n.rng.Float64() < maintenanceProb {
			node.Operational = true
			node.Battery = 100
		}
	}

	return Observation{
		SoilMoistureAvg: mean(moisture),
		SoilMoistureVar: variance(moisture),
		SoilN:           mean(nutrient),
		PestPressure:    mean(pest) / 100,
	}
}

// Uptime returns the fraction of operational nodes as a percentage.
func (n *Network) Uptime() float64 {
	if len(n.nodes) == 0 {
		return 0
	}
	up := 0
	for _, node := range n.nodes {
		if node.Operational {
			up++
		}
	}
	return float64(up) / float64(len(n.nodes)) * 100
}

func mean(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}

// variance is the population variance, zero for empty or single-element sets.
func variance(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	m := mean(vs)
	sum := 0.0
	for _, v := range vs {
		sum += (v - m) * (v - m)
	}
	return sum / float64(len(vs))
}
