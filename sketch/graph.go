package sketch

import (
	"fmt"

	"github.com/katalvlaran/lvlath/bfs"
	"github.com/katalvlaran/lvlath/core"
)

// pointNodeId maps a PointId onto the string-keyed vertex space
// lvlath's core.Graph expects.
func pointNodeId(id PointId) string { return fmt.Sprintf("p%d", id) }

// Component is one connected subset of a sketch's point/constraint
// graph: spec §4.4 "partition into connected components via the graph
// of points (nodes) and constraints (edges); solve each component
// independently."
type Component struct {
	Points      []PointId
	Constraints []Constraint
}

// Partition builds the point/constraint graph (points as nodes,
// constraints as edges linking every pair of points a constraint
// touches) and returns its connected components via repeated BFS, the
// same node/edge shape _examples/katalvlaran-lvlath/bfs's traversal
// examples build with core.NewGraph + core.AddEdge.
func Partition(s *Sketch) []Component {
	g := core.NewGraph()
	for id := range s.Points {
		g.AddVertex(pointNodeId(id))
	}

	constraintsByPoint := make(map[PointId][]Constraint)
	for _, c := range s.Constraints {
		pts := c.Points()
		for _, p := range pts {
			constraintsByPoint[p] = append(constraintsByPoint[p], c)
		}
		for i := 1; i < len(pts); i++ {
			g.AddEdge(pointNodeId(pts[0]), pointNodeId(pts[i]), 1)
		}
	}

	visited := make(map[string]bool)
	var components []Component
	for id := range s.Points {
		start := pointNodeId(id)
		if visited[start] {
			continue
		}
		res, err := bfs.BFS(g, start)
		if err != nil {
			// An isolated point with no edges still forms its own
			// component; BFS over a disconnected graph only reaches what
			// the start vertex connects to, so a lookup failure here
			// means the vertex exists but BFS found it already handled.
			visited[start] = true
			components = append(components, Component{Points: []PointId{id}})
			continue
		}
		comp := Component{}
		seenConstraints := make(map[Constraint]bool)
		for _, nodeId := range res.Order {
			visited[nodeId] = true
			pid := nodeIdToPoint(nodeId)
			comp.Points = append(comp.Points, pid)
			for _, c := range constraintsByPoint[pid] {
				if !seenConstraints[c] {
					seenConstraints[c] = true
					comp.Constraints = append(comp.Constraints, c)
				}
			}
		}
		components = append(components, comp)
	}
	return components
}

func nodeIdToPoint(nodeId string) PointId {
	var id PointId
	fmt.Sscanf(nodeId, "p%d", &id)
	return id
}
