package ticks

import (
	"fmt"

	"github.com/solve-so/solve-core/pkg/record"
	"github.com/solve-so/solve-core/pkg/solveerr"
)

// SparseSwapTickSequence composes up to three real tick arrays for a single
// swap, plus an unbounded supplemental set, letting the swap engine march
// across ticks without the caller materializing every shard up front
// (spec §4.2, design note "sparse tick arrays").
type SparseSwapTickSequence struct {
	tickSpacing uint16
	aToB        bool
	span        int32

	// supplied maps an array's start_tick_index to the array the caller
	// actually loaded; any start not present here is treated as a Zeroed
	// placeholder, satisfying the same capability set with no allocation.
	supplied map[int32]Array

	// order is the list of start indices already resolved for this swap,
	// extended lazily as the swap marches past the initially expected three.
	order []int32
	pos   int
}

// NewSparseSwapTickSequence builds the sequence for a swap starting at
// tickCurrentIndex, resolving the initial three expected arrays per the
// ordering rules in spec §4.2. supplied holds the real arrays the caller
// loaded, keyed by their start_tick_index.
func NewSparseSwapTickSequence(tickCurrentIndex int32, tickSpacing uint16, aToB bool, supplied map[int32]Array) (*SparseSwapTickSequence, error) {
	span := int32(record.TickArraySize) * int32(tickSpacing)
	base := StartIndexForTick(tickCurrentIndex, tickSpacing)

	var order []int32
	if aToB {
		order = []int32{base, base - span, base - 2*span}
	} else if onNextArrayBoundary(tickCurrentIndex, tickSpacing, base, span) {
		order = []int32{base + span, base + 2*span, base + 3*span}
	} else {
		order = []int32{base, base + span, base + 2*span}
	}

	if _, ok := supplied[base]; !ok {
		return nil, fmt.Errorf("base array at %d not supplied: %w", base, solveerr.ErrInvalidTickArraySequence)
	}

	return &SparseSwapTickSequence{
		tickSpacing: tickSpacing,
		aToB:        aToB,
		span:        span,
		supplied:    supplied,
		order:       order,
	}, nil
}

// onNextArrayBoundary reports whether tickCurrentIndex + tickSpacing falls
// in the array immediately after base: the pool sits exactly on a boundary
// and a b_to_a swap's search window starts one array ahead.
func onNextArrayBoundary(tickCurrentIndex int32, tickSpacing uint16, base, span int32) bool {
	return tickCurrentIndex+int32(tickSpacing) >= base+span
}

// arrayAt returns the Array for the given start index, defaulting to a
// Zeroed placeholder when the caller did not supply one.
func (s *SparseSwapTickSequence) arrayAt(start int32) Array {
	if a, ok := s.supplied[start]; ok {
		return a
	}
	return &ZeroedArray{Start: start}
}

// extend appends the next expected array start beyond the current order,
// stepping one array-span further in the swap direction.
func (s *SparseSwapTickSequence) extend() {
	last := s.order[len(s.order)-1]
	if s.aToB {
		s.order = append(s.order, last-s.span)
	} else {
		s.order = append(s.order, last+s.span)
	}
}

// GetNextInitTickIndex searches for the next initialized tick starting from
// fromTick (inclusive for a_to_b, exclusive otherwise — per the individual
// array's own GetNextInitTickIndex contract), advancing across array
// boundaries as needed. Returns (tickIndex, arrayStart, found).
func (s *SparseSwapTickSequence) GetNextInitTickIndex(fromTick int32) (int32, int32, bool) {
	const maxArraysSearched = 4096 // generous bound; real swaps never approach this
	searchFrom := fromTick
	for i := 0; i < maxArraysSearched; i++ {
		if s.pos >= len(s.order) {
			s.extend()
		}
		start := s.order[s.pos]
		arr := s.arrayAt(start)
		if idx, ok := arr.GetNextInitTickIndex(searchFrom, s.tickSpacing, s.aToB); ok {
			return idx, start, true
		}

		lo, hi := ArrayBounds(start, s.tickSpacing)
		if s.aToB {
			searchFrom = lo - int32(s.tickSpacing)
		} else {
			searchFrom = hi
		}
		if searchFrom < -record.TickArraySize*int32(s.tickSpacing)*1000 || searchFrom > record.TickArraySize*int32(s.tickSpacing)*1000 {
			return 0, 0, false
		}
		s.pos++
	}
	return 0, 0, false
}

// GetTick loads a tick from the array covering arrayStart.
func (s *SparseSwapTickSequence) GetTick(arrayStart, tickIndex int32) (record.Tick, error) {
	return s.arrayAt(arrayStart).GetTick(tickIndex, s.tickSpacing)
}

// UpdateTick applies an update to a tick in the array covering arrayStart.
// Writes against an unsupplied (Zeroed) placeholder fail: the caller never
// has a real initialized tick to cross there, so reaching this path
// indicates a sequencing bug rather than a legitimate zero-liquidity region.
func (s *SparseSwapTickSequence) UpdateTick(arrayStart, tickIndex int32, update TickUpdate) error {
	return s.arrayAt(arrayStart).UpdateTick(tickIndex, s.tickSpacing, update)
}
