// Package varying provides radii expressed as linear functions of
// simulation time.
//
// A growth region's radius is not stored as a scalar. It is stored as the
// function value(t) = intercept + slope*t, where t is the global simulation
// time of the flood-fill. Future collision times can then be solved in
// closed form (intersection of two lines) instead of by stepping the
// simulation, and event ordering stays exact because all arithmetic is
// integer arithmetic.
//
// Slopes are restricted to -1 (shrinking), 0 (frozen) and +1 (growing).
// This keeps every intersection solvable without rationals: the combined
// slope of two radii is in [-2, 2], and with all edge weights doubled by
// the graph builder every intersection lands on an integer time.
//
// The zero value of Varying is a frozen radius of zero and is valid.
package varying

// Slope values for a Varying.
const (
	SlopeShrinking = -1
	SlopeFrozen    = 0
	SlopeGrowing   = 1
)

// Varying is a radius that varies linearly with simulation time:
// value(t) = intercept + slope*t.
type Varying struct {
	intercept int64
	slope     int64
}

// Frozen returns a radius frozen at value, independent of time.
func Frozen(value int64) Varying {
	return Varying{intercept: value}
}

// GrowingAt returns a radius that equals value at time now and grows at +1.
func GrowingAt(now, value int64) Varying {
	return Varying{intercept: value - now, slope: SlopeGrowing}
}

// ShrinkingAt returns a radius that equals value at time now and shrinks at -1.
func ShrinkingAt(now, value int64) Varying {
	return Varying{intercept: value + now, slope: SlopeShrinking}
}

// ValueAt evaluates the radius at time t.
func (v Varying) ValueAt(t int64) int64 {
	return v.intercept + v.slope*t
}

// Slope returns the growth rate: -1, 0 or +1.
func (v Varying) Slope() int64 { return v.slope }

// Intercept returns the value the radius had (or would have had) at time 0.
func (v Varying) Intercept() int64 { return v.intercept }

// IsGrowing reports whether the radius grows with time.
func (v Varying) IsGrowing() bool { return v.slope > 0 }

// IsShrinking reports whether the radius shrinks with time.
func (v Varying) IsShrinking() bool { return v.slope < 0 }

// IsFrozen reports whether the radius is constant.
func (v Varying) IsFrozen() bool { return v.slope == 0 }

// ThenFrozenAt returns the radius frozen at its value at time now.
func (v Varying) ThenFrozenAt(now int64) Varying {
	return Frozen(v.ValueAt(now))
}

// ThenGrowingAt returns the radius continuing from its value at time now
// with slope +1.
func (v Varying) ThenGrowingAt(now int64) Varying {
	return GrowingAt(now, v.ValueAt(now))
}

// ThenShrinkingAt returns the radius continuing from its value at time now
// with slope -1.
func (v Varying) ThenShrinkingAt(now int64) Varying {
	return ShrinkingAt(now, v.ValueAt(now))
}

// Add returns the pointwise sum of two varying radii. The result's slope
// may fall outside the canonical set; Add is used only for intersection
// solving, never stored on a region.
func (v Varying) Add(o Varying) Varying {
	return Varying{intercept: v.intercept + o.intercept, slope: v.slope + o.slope}
}

// AddConst returns the radius shifted by a constant offset.
func (v Varying) AddConst(c int64) Varying {
	return Varying{intercept: v.intercept + c, slope: v.slope}
}

// TimeOfValue solves value(t) == target for t. ok is false when the radius
// never reaches target at or after the reference solution (slope zero, or
// the solution is not integral).
func (v Varying) TimeOfValue(target int64) (t int64, ok bool) {
	if v.slope == 0 {
		return 0, false
	}
	num := target - v.intercept
	if num%v.slope != 0 {
		return 0, false
	}
	return num / v.slope, true
}

// TimeOfIntersection solves value(t) == o.value(t) for t. ok is false when
// the two lines are parallel or cross at a non-integral time.
func (v Varying) TimeOfIntersection(o Varying) (t int64, ok bool) {
	ds := v.slope - o.slope
	if ds == 0 {
		return 0, false
	}
	num := o.intercept - v.intercept
	if num%ds != 0 {
		return 0, false
	}
	return num / ds, true
}

// TimeOfZero solves value(t) == 0 for t.
func (v Varying) TimeOfZero() (t int64, ok bool) {
	return v.TimeOfValue(0)
}
