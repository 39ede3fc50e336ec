package planner

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func resultWithID(id string) *ExecutionResult {
	return &ExecutionResult{PlanID: id}
}

func TestHistoryRing_PushAndOrder(t *testing.T) {
	h := newHistoryRing(3)
	assert.Equal(t, 0, h.len())

	h.push(resultWithID("a"))
	h.push(resultWithID("b"))

	got := h.list(0)
	assert.Equal(t, "b", got[0].PlanID)
	assert.Equal(t, "a", got[1].PlanID)
}

func TestHistoryRing_Eviction(t *testing.T) {
	h := newHistoryRing(3)
	for i := 0; i < 5; i++ {
		h.push(resultWithID(fmt.Sprintf("r%d", i)))
	}

	assert.Equal(t, 3, h.len())
	got := h.list(10)
	assert.Len(t, got, 3)
	assert.Equal(t, "r4", got[0].PlanID)
	assert.Equal(t, "r2", got[2].PlanID)
}

func TestHistoryRing_Limit(t *testing.T) {
	h := newHistoryRing(10)
	for i := 0; i < 6; i++ {
		h.push(resultWithID(fmt.Sprintf("r%d", i)))
	}

	got := h.list(2)
	assert.Len(t, got, 2)
	assert.Equal(t, "r5", got[0].PlanID)
	assert.Equal(t, "r4", got[1].PlanID)
}

func TestHistoryRing_DefaultCapacity(t *testing.T) {
	h := newHistoryRing(0)
	assert.Equal(t, defaultHistoryCapacity, len(h.buf))
}
