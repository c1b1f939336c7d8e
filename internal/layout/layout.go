package layout

import (
	"fmt"
	"math"
	"sort"
)

// Strategy names an algorithm for assigning canvas positions to a set of units.
type Strategy string

const (
	StrategyGrid      Strategy = "grid"
	StrategyHierarchy Strategy = "hierarchy"
	StrategyWorkflow  Strategy = "workflow"
	StrategyCluster   Strategy = "cluster"
)

const uncategorizedBucket = "Uncategorized"

// Point is a canvas coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// UnitTask is a checklist entry carried by a content unit before synthesis.
type UnitTask struct {
	Text string
	Done bool
}

// ContentUnit is one note-to-be: a main item plus optional section sub-items.
// Units live only for the duration of a dictation or import session.
type ContentUnit struct {
	Title     string
	Category  string
	Body      string
	Sections  []string
	Tasks     []UnitTask
	Reasoning string
}

// PlacedUnit is a ContentUnit with an assigned position. ChildPositions holds
// one coordinate per section, in section order.
type PlacedUnit struct {
	ContentUnit
	Position       Point
	ChildPositions []Point
}

// Config carries the nominal note box and spacing constants. Placement math is
// approximate grid arithmetic, not a hard packing guarantee.
type Config struct {
	NoteWidth     float64
	NoteHeight    float64
	Spacing       float64
	ClusterRadius float64
	ChildDistance float64
}

// DefaultConfig returns the canvas constants used by the board UI.
func DefaultConfig() Config {
	return Config{
		NoteWidth:     280,
		NoteHeight:    220,
		Spacing:       40,
		ClusterRadius: 560,
		ChildDistance: 320,
	}
}

// Engine computes deterministic 2D placements for content units.
type Engine struct {
	cfg Config
}

// NewEngine validates the box constants and returns a ready engine.
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.NoteWidth <= 0 || cfg.NoteHeight <= 0 {
		return nil, fmt.Errorf("layout: note box must have positive dimensions, got %gx%g", cfg.NoteWidth, cfg.NoteHeight)
	}
	if cfg.Spacing <= 0 {
		return nil, fmt.Errorf("layout: spacing must be positive, got %g", cfg.Spacing)
	}
	if cfg.ClusterRadius <= 0 {
		cfg.ClusterRadius = DefaultConfig().ClusterRadius
	}
	if cfg.ChildDistance <= 0 {
		cfg.ChildDistance = DefaultConfig().ChildDistance
	}
	return &Engine{cfg: cfg}, nil
}

// Layout assigns a position to every unit. The result is deterministic given
// the same unit order and strategy. Zero units yield an empty slice.
// A NaN anchor is a caller bug and panics rather than producing NaN positions.
func (e *Engine) Layout(units []ContentUnit, strategy Strategy, anchor Point) []PlacedUnit {
	if math.IsNaN(anchor.X) || math.IsNaN(anchor.Y) {
		panic("layout: anchor must not be NaN")
	}
	if len(units) == 0 {
		return []PlacedUnit{}
	}

	var placed []PlacedUnit
	switch strategy {
	case StrategyHierarchy:
		placed = e.layoutHierarchy(units, anchor)
	case StrategyWorkflow:
		placed = e.layoutWorkflow(units, anchor)
	case StrategyCluster:
		placed = e.layoutCluster(units, anchor)
	default:
		placed = e.layoutGrid(units, anchor)
	}
	return e.separateCoincident(placed)
}

// layoutGrid places units row-major in ceil(sqrt(n)) columns centered on the
// anchor. Sections cascade below their parent so they stay visually attached.
func (e *Engine) layoutGrid(units []ContentUnit, anchor Point) []PlacedUnit {
	cols := int(math.Ceil(math.Sqrt(float64(len(units)))))
	cellW := e.cfg.NoteWidth + e.cfg.Spacing
	cellH := e.cfg.NoteHeight + e.cfg.Spacing
	originX := anchor.X - float64(cols-1)*cellW/2

	placed := make([]PlacedUnit, 0, len(units))
	for i, unit := range units {
		row := i / cols
		col := i % cols
		pos := Point{
			X: originX + float64(col)*cellW,
			Y: anchor.Y + float64(row)*cellH,
		}
		placed = append(placed, PlacedUnit{
			ContentUnit:    unit,
			Position:       pos,
			ChildPositions: cascadeChildren(pos, len(unit.Sections)),
		})
	}
	return placed
}

// layoutHierarchy stacks main units in one column; each unit's sections sit
// below it in sub-rows of three, and the column advances past them.
func (e *Engine) layoutHierarchy(units []ContentUnit, anchor Point) []PlacedUnit {
	const childrenPerRow = 3
	cellH := e.cfg.NoteHeight + e.cfg.Spacing
	childW := e.cfg.NoteWidth*0.8 + e.cfg.Spacing

	placed := make([]PlacedUnit, 0, len(units))
	y := anchor.Y
	for _, unit := range units {
		pos := Point{X: anchor.X, Y: y}
		children := make([]Point, 0, len(unit.Sections))
		for c := range unit.Sections {
			row := c / childrenPerRow
			col := c % childrenPerRow
			children = append(children, Point{
				X: anchor.X + e.cfg.Spacing + float64(col)*childW,
				Y: y + cellH + float64(row)*cellH,
			})
		}
		placed = append(placed, PlacedUnit{ContentUnit: unit, Position: pos, ChildPositions: children})

		childRows := (len(unit.Sections) + childrenPerRow - 1) / childrenPerRow
		y += cellH + float64(childRows)*cellH
	}
	return placed
}

// layoutWorkflow lays main units left-to-right with wide gaps, sections in a
// two-column sub-grid beneath each stage.
func (e *Engine) layoutWorkflow(units []ContentUnit, anchor Point) []PlacedUnit {
	stageW := e.cfg.NoteWidth + 3*e.cfg.Spacing
	cellH := e.cfg.NoteHeight + e.cfg.Spacing
	childW := (e.cfg.NoteWidth + e.cfg.Spacing) / 2

	placed := make([]PlacedUnit, 0, len(units))
	for i, unit := range units {
		pos := Point{X: anchor.X + float64(i)*stageW, Y: anchor.Y}
		children := make([]Point, 0, len(unit.Sections))
		for c := range unit.Sections {
			children = append(children, Point{
				X: pos.X + float64(c%2)*childW,
				Y: pos.Y + cellH + float64(c/2)*cellH,
			})
		}
		placed = append(placed, PlacedUnit{ContentUnit: unit, Position: pos, ChildPositions: children})
	}
	return placed
}

// layoutCluster groups units by category around a circle. Each bucket gets an
// angular slot; units inside a bucket form a small two-column grid; sections
// radiate around their parent at a constant distance.
func (e *Engine) layoutCluster(units []ContentUnit, anchor Point) []PlacedUnit {
	buckets := map[string][]int{}
	for i, unit := range units {
		key := unit.Category
		if key == "" {
			key = uncategorizedBucket
		}
		buckets[key] = append(buckets[key], i)
	}
	names := make([]string, 0, len(buckets))
	for name := range buckets {
		names = append(names, name)
	}
	sort.Strings(names)

	cellW := e.cfg.NoteWidth + e.cfg.Spacing
	cellH := e.cfg.NoteHeight + e.cfg.Spacing

	// Grow the circle until neighboring bucket centers sit at least one full
	// column pair apart, otherwise crowded boards fold buckets into each other.
	radius := e.cfg.ClusterRadius
	if n := len(names); n > 1 {
		if min := cellW / math.Sin(math.Pi/float64(n)); min > radius {
			radius = min
		}
	}

	placed := make([]PlacedUnit, len(units))
	for b, name := range names {
		angle := 2 * math.Pi * float64(b) / float64(len(names))
		center := Point{
			X: anchor.X + radius*math.Cos(angle),
			Y: anchor.Y + radius*math.Sin(angle),
		}
		for j, idx := range buckets[name] {
			unit := units[idx]
			pos := Point{
				X: center.X + (float64(j%2)-0.5)*cellW,
				Y: center.Y + float64(j/2)*cellH,
			}
			placed[idx] = PlacedUnit{
				ContentUnit:    unit,
				Position:       pos,
				ChildPositions: e.radialChildren(pos, len(unit.Sections)),
			}
		}
	}
	return placed
}

func (e *Engine) radialChildren(parent Point, count int) []Point {
	children := make([]Point, 0, count)
	for c := 0; c < count; c++ {
		angle := -math.Pi/2 + float64(c)*(math.Pi/4)
		children = append(children, Point{
			X: parent.X + e.cfg.ChildDistance*math.Cos(angle),
			Y: parent.Y + e.cfg.ChildDistance*math.Sin(angle),
		})
	}
	return children
}

func cascadeChildren(parent Point, count int) []Point {
	children := make([]Point, 0, count)
	for c := 0; c < count; c++ {
		offset := float64(c+1) * 28
		children = append(children, Point{X: parent.X + offset, Y: parent.Y + offset})
	}
	return children
}

// separateCoincident nudges any unit whose position collides with an earlier
// one. Degenerate inputs (single category, identical content) must still get
// distinct main positions.
func (e *Engine) separateCoincident(placed []PlacedUnit) []PlacedUnit {
	seen := make(map[Point]struct{}, len(placed))
	for i := range placed {
		pos := placed[i].Position
		for {
			if _, taken := seen[pos]; !taken {
				break
			}
			pos.X += e.cfg.Spacing / 2
			pos.Y += e.cfg.Spacing / 2
		}
		seen[pos] = struct{}{}
		placed[i].Position = pos
	}
	return placed
}

// Overlaps reports whether the nominal bounding boxes of two placements
// intersect. Used by tests to validate the layout invariant.
func (e *Engine) Overlaps(a, b PlacedUnit) bool {
	return math.Abs(a.Position.X-b.Position.X) < e.cfg.NoteWidth &&
		math.Abs(a.Position.Y-b.Position.Y) < e.cfg.NoteHeight
}
