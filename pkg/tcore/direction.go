package tcore

// Direction selects forward ("leave at t") or reverse ("arrive by t")
// search. It flips which end of a query is fixed and which timetable lookup
// (next-departure vs previous-arrival) the cost calculator uses.
type Direction int

const (
	Forward Direction = iota
	Reverse
)

// Criterion selects the scalar a query minimises: elapsed minutes or metres
// travelled. Exactly one criterion applies per query; anything else is
// rejected with ErrUnsupportedCriteria.
type Criterion int

const (
	CriterionTime Criterion = iota
	CriterionDistance
)
