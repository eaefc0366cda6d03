package domain

// Signal is the output of a strategy evaluation for one cycle.
// It is derived, stateless and never persisted.
type Signal struct {
	ShouldBuy        bool    // Both conditions below hold
	NearSupport      bool    // Close at or below long EMA * support threshold
	PositiveMomentum bool    // Short EMA at or above long EMA
	ReferencePrice   float64 // Latest close used for the evaluation
	ShortAverage     float64 // Latest short-period EMA
	LongAverage      float64 // Latest long-period EMA
}
