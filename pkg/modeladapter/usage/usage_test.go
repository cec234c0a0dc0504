package usage_test

import (
	"sync"
	"testing"

	"github.com/deskwise/ticketrouter/pkg/modeladapter/usage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotalOfTokenCount(t *testing.T) {
	tc := usage.TokenCount{InputTokens: 10, OutputTokens: 5}
	assert.Equal(t, 15, tc.Total())
}

func TestTrackerEmpty(t *testing.T) {
	var tr usage.Tracker

	_, ok := tr.Last()
	assert.False(t, ok)
	assert.Equal(t, 0, tr.Count())
	assert.Equal(t, usage.TokenCount{}, tr.Total())
}

func TestTrackerAddAndTotals(t *testing.T) {
	var tr usage.Tracker
	tr.Add(usage.TokenCount{InputTokens: 10, OutputTokens: 5})
	tr.Add(usage.TokenCount{InputTokens: 3, OutputTokens: 2})

	assert.Equal(t, 2, tr.Count())

	last, ok := tr.Last()
	require.True(t, ok)
	assert.Equal(t, 3, last.InputTokens)

	total := tr.Total()
	assert.Equal(t, 13, total.InputTokens)
	assert.Equal(t, 7, total.OutputTokens)
}

func TestTrackerConcurrentAdd(t *testing.T) {
	var tr usage.Tracker
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tr.Add(usage.TokenCount{InputTokens: 1})
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, tr.Count())
	assert.Equal(t, 50, tr.Total().InputTokens)
}
