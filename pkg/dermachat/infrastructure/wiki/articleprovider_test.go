package wiki

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArticleProvider_CachesSummaries(t *testing.T) {
	var searches int32
	provider := newArticleProvider(2,
		func(query string, maxResults int) ([]string, error) {
			atomic.AddInt32(&searches, 1)
			assert.Equal(t, 1, maxResults)
			return []string{query + " (disease)"}, nil
		},
		func(articleName string, sentenceCount int) (string, error) {
			assert.Equal(t, 2, sentenceCount)
			return "Summary of " + articleName, nil
		},
	)

	for i := 0; i < 3; i++ {
		summary, err := provider.GetConditionSummary("Eczema")
		require.NoError(t, err)
		assert.Equal(t, "Summary of Eczema (disease)", summary)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&searches))
}

func TestArticleProvider_SharesConcurrentLookups(t *testing.T) {
	var searches int32
	release := make(chan struct{})
	provider := newArticleProvider(1,
		func(query string, maxResults int) ([]string, error) {
			atomic.AddInt32(&searches, 1)
			<-release
			return []string{query}, nil
		},
		func(articleName string, sentenceCount int) (string, error) {
			return articleName, nil
		},
	)

	var waitGroup sync.WaitGroup
	for i := 0; i < 5; i++ {
		waitGroup.Add(1)
		go func() {
			defer waitGroup.Done()
			_, _ = provider.GetConditionSummary("Acne")
		}()
	}
	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&searches) == 1
	}, timeout, tick)
	close(release)
	waitGroup.Wait()
	assert.LessOrEqual(t, atomic.LoadInt32(&searches), int32(5))
	summary, err := provider.GetConditionSummary("Acne")
	require.NoError(t, err)
	assert.Equal(t, "Acne", summary)
}

func TestArticleProvider_NotFoundIsNotCached(t *testing.T) {
	results := [][]string{nil, {"Melanoma"}}
	call := 0
	provider := newArticleProvider(1,
		func(query string, maxResults int) ([]string, error) {
			result := results[call]
			call++
			return result, nil
		},
		func(articleName string, sentenceCount int) (string, error) {
			return "found", nil
		},
	)

	_, err := provider.GetConditionSummary("Melanoma")
	assert.ErrorIs(t, err, ErrArticleNotFound)

	summary, err := provider.GetConditionSummary("Melanoma")
	require.NoError(t, err)
	assert.Equal(t, "found", summary)
}

func TestArticleProvider_SearchError(t *testing.T) {
	provider := newArticleProvider(1,
		func(query string, maxResults int) ([]string, error) {
			return nil, errors.New("offline")
		},
		nil,
	)
	_, err := provider.GetConditionSummary("Acne")
	assert.EqualError(t, err, "offline")
}
