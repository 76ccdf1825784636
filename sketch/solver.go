package sketch

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// lmLambda0, lmNu, lmMaxIter are the Levenberg-Marquardt defaults spec
// §4.4 names: "lambda0 = 1e-3, nu = 10, max_iter = 100".
const (
	lmLambda0  = 1e-3
	lmNu       = 10.0
	lmMaxIter  = 100
	lengthTol  = 1e-6
	jacobianEps = 1e-6
)

// ComponentStatus is the per-component outcome of a solve.
type ComponentStatus int

const (
	ComponentConverged ComponentStatus = iota
	ComponentOverconstrained
	ComponentDiverged
)

func (s ComponentStatus) String() string {
	switch s {
	case ComponentConverged:
		return "converged"
	case ComponentOverconstrained:
		return "overconstrained"
	default:
		return "diverged"
	}
}

// DOFReport is the degrees-of-freedom audit of one component, per spec
// §4.4: "DOF = 2*freePoints - sum(residuals) per component."
type DOFReport struct {
	FreePoints int
	Residuals  int
	DOF        int
}

// ComponentResult is one connected component's solve outcome.
type ComponentResult struct {
	Points       []PointId
	Status       ComponentStatus
	Iterations   int
	ResidualNorm float64
	DOF          DOFReport
	Conflicting  []Constraint
	Redundant    []Constraint
}

// SolveStatus is the overall outcome across every component.
type SolveStatus int

const (
	SolveConverged SolveStatus = iota
	SolvePartial
	SolveOverconstrained
	SolveDiverged
)

func (s SolveStatus) String() string {
	switch s {
	case SolveConverged:
		return "converged"
	case SolvePartial:
		return "partial"
	case SolveOverconstrained:
		return "overconstrained"
	default:
		return "diverged"
	}
}

// SolveResult is spec §4.4's "SolveResult = {status, iterations,
// residualNorm, componentResults[]}".
type SolveResult struct {
	Status       SolveStatus
	Iterations   int
	ResidualNorm float64
	Components   []ComponentResult
}

// Solve partitions the sketch into connected components and solves each
// independently via Levenberg-Marquardt, per spec §4.4. A component
// whose DOF is negative is flagged overconstrained without attempting a
// solve, with its conflicting/redundant residuals classified by a
// Jacobian-rank test.
func Solve(s *Sketch) SolveResult {
	components := Partition(s)

	pos := make(posMap, len(s.Points))
	for id, p := range s.Points {
		pos[id] = p.Pos
	}

	result := SolveResult{Status: SolveConverged}
	sawConverged, sawNotConverged := false, false

	for _, comp := range components {
		cr := solveComponent(s, comp, pos)
		result.Components = append(result.Components, cr)
		result.Iterations += cr.Iterations
		result.ResidualNorm = math.Max(result.ResidualNorm, cr.ResidualNorm)
		if cr.Status == ComponentConverged {
			sawConverged = true
		} else {
			sawNotConverged = true
		}
	}

	switch {
	case sawConverged && sawNotConverged:
		result.Status = SolvePartial
	case !sawConverged && sawNotConverged:
		result.Status = allOverconstrained(result.Components)
	}

	for id, v := range pos {
		if p, ok := s.Points[id]; ok && !p.Fixed {
			p.Pos = v
		}
	}
	return result
}

func allOverconstrained(comps []ComponentResult) SolveStatus {
	for _, c := range comps {
		if c.Status == ComponentDiverged {
			return SolveDiverged
		}
	}
	return SolveOverconstrained
}

func solveComponent(s *Sketch, comp Component, pos posMap) ComponentResult {
	free := freePointsOf(s, comp.Points)
	sort.Slice(free, func(i, j int) bool { return free[i] < free[j] })

	nResiduals := 0
	for _, c := range comp.Constraints {
		nResiduals += c.NumResiduals()
	}
	dof := DOFReport{FreePoints: len(free), Residuals: nResiduals, DOF: 2*len(free) - nResiduals}

	cr := ComponentResult{Points: comp.Points, DOF: dof}

	if dof.DOF < 0 {
		cr.Status = ComponentOverconstrained
		cr.Conflicting, cr.Redundant = classifyResiduals(comp.Constraints, pos)
		return cr
	}
	if len(free) == 0 || len(comp.Constraints) == 0 {
		cr.Status = ComponentConverged
		return cr
	}

	n := 2 * len(free)
	r := evalResiduals(comp.Constraints, pos)
	lambda := lmLambda0
	cost := normSq(r)

	iter := 0
	converged := false
	for ; iter < lmMaxIter; iter++ {
		if infNorm(r) < lengthTol {
			converged = true
			break
		}
		J := jacobian(comp.Constraints, free, pos, len(r))

		Jt := mat.NewDense(n, len(r), nil)
		Jt.CloneFrom(J.T())
		JtJ := mat.NewDense(n, n, nil)
		JtJ.Mul(Jt, J)
		for i := 0; i < n; i++ {
			JtJ.Set(i, i, JtJ.At(i, i)+lambda)
		}
		rVec := mat.NewVecDense(len(r), r)
		Jtr := mat.NewVecDense(n, nil)
		Jtr.MulVec(Jt, rVec)
		negJtr := mat.NewVecDense(n, nil)
		negJtr.ScaleVec(-1, Jtr)

		var delta mat.VecDense
		if err := delta.SolveVec(JtJ, negJtr); err != nil {
			lambda *= lmNu
			if lambda > 1e12 {
				cr.Status = ComponentDiverged
				cr.Iterations = iter
				cr.ResidualNorm = math.Sqrt(cost)
				return cr
			}
			continue
		}

		candidate := applyDelta(pos, free, &delta)
		r2 := evalResiduals(comp.Constraints, candidate)
		cost2 := normSq(r2)

		if cost2 < cost {
			for _, id := range free {
				pos[id] = candidate[id]
			}
			r = r2
			cost = cost2
			lambda /= lmNu
			if deltaNorm(&delta) < lengthTol {
				converged = true
				iter++
				break
			}
		} else {
			lambda *= lmNu
			if lambda > 1e12 {
				cr.Status = ComponentDiverged
				cr.Iterations = iter
				cr.ResidualNorm = math.Sqrt(cost)
				return cr
			}
		}
	}

	cr.Iterations = iter
	cr.ResidualNorm = math.Sqrt(cost)
	if converged {
		cr.Status = ComponentConverged
	} else if infNorm(r) < lengthTol*10 {
		cr.Status = ComponentConverged
	} else {
		cr.Status = ComponentDiverged
	}
	return cr
}

func freePointsOf(s *Sketch, pts []PointId) []PointId {
	var out []PointId
	for _, id := range pts {
		if p, ok := s.Points[id]; ok && !p.Fixed {
			out = append(out, id)
		}
	}
	return out
}

// evalResiduals concatenates every constraint's residuals, each scaled
// by sqrt(weight) so minimizing sum(r^2) over the scaled vector is
// equivalent to minimizing the weighted sum spec §4.4's driven-point
// "infinite weight" residual needs.
func evalResiduals(cs []Constraint, pos posMap) []float64 {
	var out []float64
	for _, c := range cs {
		w := math.Sqrt(c.Weight())
		for _, v := range c.Residuals(pos) {
			out = append(out, v*w)
		}
	}
	return out
}

// jacobian builds the residual-by-free-coordinate Jacobian via central
// finite differences. Every constraint here reduces to closed-form
// point-coordinate algebra (see constraints.go), so a numerical Jacobian
// costs only 2*len(free) extra residual evaluations per LM iteration
// and avoids a hand-derived partial-derivative formula per constraint
// kind - the same tradeoff many interactive geometric solvers make.
func jacobian(cs []Constraint, free []PointId, pos posMap, m int) *mat.Dense {
	n := 2 * len(free)
	J := mat.NewDense(m, n, nil)
	for i, id := range free {
		for axis := 0; axis < 2; axis++ {
			perturbed := clonePos(pos)
			v := perturbed[id]
			if axis == 0 {
				v.X += jacobianEps
			} else {
				v.Y += jacobianEps
			}
			perturbed[id] = v
			rPlus := evalResiduals(cs, perturbed)

			v = perturbed[id]
			if axis == 0 {
				v.X -= 2 * jacobianEps
			} else {
				v.Y -= 2 * jacobianEps
			}
			perturbed[id] = v
			rMinus := evalResiduals(cs, perturbed)

			col := 2*i + axis
			for row := 0; row < m; row++ {
				J.Set(row, col, (rPlus[row]-rMinus[row])/(2*jacobianEps))
			}
		}
	}
	return J
}

func clonePos(pos posMap) posMap {
	out := make(posMap, len(pos))
	for k, v := range pos {
		out[k] = v
	}
	return out
}

func applyDelta(pos posMap, free []PointId, delta *mat.VecDense) posMap {
	out := clonePos(pos)
	for i, id := range free {
		v := out[id]
		v.X += delta.AtVec(2 * i)
		v.Y += delta.AtVec(2*i + 1)
		out[id] = v
	}
	return out
}

func normSq(r []float64) float64 {
	var s float64
	for _, v := range r {
		s += v * v
	}
	return s
}

func infNorm(r []float64) float64 {
	var m float64
	for _, v := range r {
		if a := math.Abs(v); a > m {
			m = a
		}
	}
	return m
}

func deltaNorm(d *mat.VecDense) float64 {
	var s float64
	for i := 0; i < d.Len(); i++ {
		s += d.AtVec(i) * d.AtVec(i)
	}
	return math.Sqrt(s)
}

// classifyResiduals implements the overconstrained-component diagnostic
// spec §4.4 asks for: "a residual is redundant if removing it leaves the
// same Jacobian rank [as the full set]; otherwise it is conflicting."
// Rank is estimated via the Jacobian's singular values, counting those
// above a relative tolerance of the largest.
func classifyResiduals(cs []Constraint, pos posMap) (conflicting, redundant []Constraint) {
	var free []PointId
	seen := make(map[PointId]bool)
	for _, c := range cs {
		for _, p := range c.Points() {
			if !seen[p] {
				seen[p] = true
				free = append(free, p)
			}
		}
	}
	sort.Slice(free, func(i, j int) bool { return free[i] < free[j] })

	m := 0
	for _, c := range cs {
		m += c.NumResiduals()
	}
	full := jacobian(cs, free, pos, m)
	fullRank := matrixRank(full)

	// Re-evaluate rank with each single constraint's rows dropped.
	row := 0
	rows := make([]int, len(cs))
	for i, c := range cs {
		rows[i] = row
		row += c.NumResiduals()
	}
	for i, c := range cs {
		without := dropConstraint(cs, i)
		withoutJ := jacobian(without, free, pos, m-c.NumResiduals())
		if matrixRank(withoutJ) == fullRank {
			redundant = append(redundant, c)
		} else {
			conflicting = append(conflicting, c)
		}
	}
	return conflicting, redundant
}

func dropConstraint(cs []Constraint, idx int) []Constraint {
	out := make([]Constraint, 0, len(cs)-1)
	for i, c := range cs {
		if i != idx {
			out = append(out, c)
		}
	}
	return out
}

// matrixRank counts singular values above a relative tolerance of the
// largest, the standard numerical-rank estimate for an ill-conditioned
// Jacobian.
func matrixRank(m *mat.Dense) int {
	var svd mat.SVD
	if !svd.Factorize(m, mat.SVDNone) {
		return 0
	}
	values := svd.Values(nil)
	if len(values) == 0 {
		return 0
	}
	tol := values[0] * 1e-9
	rank := 0
	for _, v := range values {
		if v > tol {
			rank++
		}
	}
	return rank
}
