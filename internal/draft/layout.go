// ABOUTME: Node placement for the decision canvas: grid, dependency layers and a repulsion-only force layout
// ABOUTME: Every layout is a pure function of the visible steps, so filtering re-places only what is shown
package draft

import (
	"math"
	"math/rand/v2"

	"github.com/tripnara/tripnara-go/internal/models"
)

type LayoutType string

const (
	LayoutGrid         LayoutType = "grid"
	LayoutHierarchical LayoutType = "hierarchical"
	LayoutForce        LayoutType = "force"
)

// ParseLayoutType maps a name to a layout, falling back to grid.
func ParseLayoutType(s string) (LayoutType, bool) {
	switch lt := LayoutType(s); lt {
	case LayoutGrid, LayoutHierarchical, LayoutForce:
		return lt, true
	}
	return LayoutGrid, false
}

// Position is the top-left corner of a node in canvas units.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type LayoutOptions struct {
	NodeWidth  float64
	NodeHeight float64
	Spacing    float64
	// Seed drives the force layout's initial radii.
	Seed uint64
}

func DefaultLayoutOptions() LayoutOptions {
	return LayoutOptions{NodeWidth: 240, NodeHeight: 180, Spacing: 50, Seed: 1}
}

const (
	layerSpacingX = 300
	layerSpacingY = 200
	layerMargin   = 100

	forceIterations = 100
	forceDamping    = 0.1
	forceStrength   = 1000
	forceCenterX    = 400
	forceCenterY    = 300
	forceRadius     = 200
	forceJitter     = 100
)

// Layout places steps with the given algorithm. Unknown types use grid.
func Layout(steps []models.DecisionStep, lt LayoutType, opts LayoutOptions) map[string]Position {
	def := DefaultLayoutOptions()
	if opts.NodeWidth <= 0 {
		opts.NodeWidth = def.NodeWidth
	}
	if opts.NodeHeight <= 0 {
		opts.NodeHeight = def.NodeHeight
	}
	if opts.Spacing <= 0 {
		opts.Spacing = def.Spacing
	}
	switch lt {
	case LayoutHierarchical:
		return hierarchical(steps)
	case LayoutForce:
		return force(steps, opts.Seed)
	default:
		return grid(steps, opts)
	}
}

func grid(steps []models.DecisionStep, opts LayoutOptions) map[string]Position {
	out := make(map[string]Position, len(steps))
	if len(steps) == 0 {
		return out
	}
	cols := int(math.Ceil(math.Sqrt(float64(len(steps)))))
	for i, s := range steps {
		row, col := i/cols, i%cols
		out[s.ID] = Position{
			X: float64(col)*(opts.NodeWidth+opts.Spacing) + opts.Spacing,
			Y: float64(row)*(opts.NodeHeight+opts.Spacing) + opts.Spacing,
		}
	}
	return out
}

// hierarchical layers steps by dependency: an edge runs from the step producing an output
// to every step consuming an input of the same name. A cycle collapses the rest into one layer.
func hierarchical(steps []models.DecisionStep) map[string]Position {
	producer := make(map[string]int)
	for i, s := range steps {
		for _, o := range s.Outputs {
			if _, seen := producer[o.Name]; !seen {
				producer[o.Name] = i
			}
		}
	}

	edges := make([][]int, len(steps))
	inDegree := make([]int, len(steps))
	for i, s := range steps {
		for _, in := range s.Inputs {
			src, found := producer[in.Name]
			if !found || src == i {
				continue
			}
			edges[src] = append(edges[src], i)
			inDegree[i]++
		}
	}

	placed := make([]bool, len(steps))
	var layers [][]int
	for remaining := len(steps); remaining > 0; {
		var layer []int
		for i := range steps {
			if !placed[i] && inDegree[i] == 0 {
				layer = append(layer, i)
			}
		}
		if len(layer) == 0 {
			for i := range steps {
				if !placed[i] {
					layer = append(layer, i)
				}
			}
		}
		for _, i := range layer {
			placed[i] = true
			for _, dst := range edges[i] {
				inDegree[dst]--
			}
		}
		remaining -= len(layer)
		layers = append(layers, layer)
	}

	out := make(map[string]Position, len(steps))
	for depth, layer := range layers {
		for j, i := range layer {
			out[steps[i].ID] = Position{
				X: layerMargin + float64(j)*layerSpacingX,
				Y: layerMargin + float64(depth)*layerSpacingY,
			}
		}
	}
	return out
}

func force(steps []models.DecisionStep, seed uint64) map[string]Position {
	n := len(steps)
	pos := make([]Position, n)
	rng := rand.New(rand.NewPCG(seed, seed))
	for i := range steps {
		angle := float64(i) / float64(n) * 2 * math.Pi
		r := forceRadius + rng.Float64()*forceJitter
		pos[i] = Position{X: forceCenterX + r*math.Cos(angle), Y: forceCenterY + r*math.Sin(angle)}
	}

	fx := make([]float64, n)
	fy := make([]float64, n)
	for range forceIterations {
		clear(fx)
		clear(fy)
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				dx := pos[j].X - pos[i].X
				dy := pos[j].Y - pos[i].Y
				dist := math.Hypot(dx, dy)
				if dist == 0 {
					dist = 1
				}
				f := forceStrength / (dist * dist)
				ux, uy := dx/dist*f, dy/dist*f
				fx[i] -= ux
				fy[i] -= uy
				fx[j] += ux
				fy[j] += uy
			}
		}
		for i := range pos {
			pos[i].X += fx[i] * forceDamping
			pos[i].Y += fy[i] * forceDamping
		}
	}

	out := make(map[string]Position, n)
	for i, s := range steps {
		out[s.ID] = pos[i]
	}
	return out
}

// View is the canvas state: which steps are visible and how they are placed.
type View struct {
	Filter  Filter
	Layout  LayoutType
	Options LayoutOptions
}

// Canvas is a rendered view.
type Canvas struct {
	Steps     []models.DecisionStep
	Positions map[string]Position
	// Hidden counts steps removed by the filter.
	Hidden int
}

// Render filters the draft and lays out the visible steps only.
func (v View) Render(d *models.DecisionDraft) Canvas {
	if d == nil {
		return Canvas{Positions: map[string]Position{}}
	}
	visible := v.Filter.Apply(d.DecisionSteps)
	return Canvas{
		Steps:     visible,
		Positions: Layout(visible, v.Layout, v.Options),
		Hidden:    len(d.DecisionSteps) - len(visible),
	}
}
