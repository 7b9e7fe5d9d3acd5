package web

import "github.com/mvdan/xurls"

type URLFinder struct{}

func NewURLFinder() *URLFinder {
	return &URLFinder{}
}

// FindURLs returns http(s) URLs mentioned in the text, in order of appearance.
func (u *URLFinder) FindURLs(str string) []string {
	return xurls.Strict.FindAllString(str, -1)
}
