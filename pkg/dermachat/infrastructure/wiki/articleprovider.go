package wiki

import (
	"errors"
	"fmt"
	"sync"

	gowiki "github.com/trietmn/go-wiki"
	"golang.org/x/sync/singleflight"

	"kgeyst.com/dermachat/pkg/common"
	"kgeyst.com/dermachat/pkg/dermachat/domain"
)

var ErrArticleNotFound = errors.New("no article found")

type searchFunc func(query string, maxResults int) ([]string, error)

type summaryFunc func(articleName string, sentenceCount int) (string, error)

// ArticleProvider looks detected conditions up on Wikipedia. Summaries are cached for the lifetime of the process
// and concurrent lookups of the same condition share one request.
type ArticleProvider struct {
	mutex         sync.Mutex
	summaryCache  map[string]string
	group         singleflight.Group
	sentenceCount int
	search        searchFunc
	summary       summaryFunc
}

func NewArticleProvider(config *common.Config) *ArticleProvider {
	return newArticleProvider(
		config.GetIntOrDefault(domain.ConfigKeyWikiSentenceCount, 3),
		func(query string, maxResults int) ([]string, error) {
			articleNames, _, err := gowiki.Search(query, maxResults, true)
			return articleNames, err
		},
		func(articleName string, sentenceCount int) (string, error) {
			return gowiki.Summary(articleName, sentenceCount, -1, false, true)
		},
	)
}

func newArticleProvider(sentenceCount int, search searchFunc, summary summaryFunc) *ArticleProvider {
	return &ArticleProvider{
		summaryCache:  make(map[string]string),
		sentenceCount: sentenceCount,
		search:        search,
		summary:       summary,
	}
}

func (a *ArticleProvider) GetConditionSummary(conditionLabel string) (string, error) {
	if cached, ok := a.getSummaryInCache(conditionLabel); ok {
		return cached, nil
	}
	result, err, _ := a.group.Do(conditionLabel, func() (any, error) {
		articleNames, err := a.search(conditionLabel, 1)
		if err != nil {
			return "", err
		}
		if len(articleNames) == 0 {
			return "", fmt.Errorf("%s: %w", conditionLabel, ErrArticleNotFound)
		}
		summary, err := a.summary(articleNames[0], a.sentenceCount)
		if err != nil {
			return "", err
		}
		a.cacheSummary(conditionLabel, summary)
		return summary, nil
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

func (a *ArticleProvider) getSummaryInCache(conditionLabel string) (string, bool) {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	summary, ok := a.summaryCache[conditionLabel]
	return summary, ok
}

func (a *ArticleProvider) cacheSummary(conditionLabel, summary string) {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	a.summaryCache[conditionLabel] = summary
}
