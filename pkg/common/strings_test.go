package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsImageURL(t *testing.T) {
	assert.True(t, IsImageURL("https://example.com/rash.JPG"))
	assert.True(t, IsImageURL("https://example.com/a/b.webp?size=large#top"))
	assert.False(t, IsImageURL("https://example.com/article.html"))
	assert.False(t, IsImageURL("https://example.com/"))
	assert.False(t, IsImageURL("://bad"))
}

func TestRemoveQuotesIfAny(t *testing.T) {
	assert.Equal(t, "my photo.jpg", RemoveQuotesIfAny(`"my photo.jpg"`))
	assert.Equal(t, "my photo.jpg", RemoveQuotesIfAny(`'my photo.jpg'`))
	assert.Equal(t, "", RemoveQuotesIfAny(`""`))
	assert.Equal(t, `"half`, RemoveQuotesIfAny(`"half`))
	assert.Equal(t, `'mixed"`, RemoveQuotesIfAny(`'mixed"`))
	assert.Equal(t, `"`, RemoveQuotesIfAny(`"`))
}

func TestIsStringInSlice(t *testing.T) {
	assert.True(t, IsStringInSlice(".png", imageExtensions))
	assert.False(t, IsStringInSlice(".bmp", imageExtensions))
}
