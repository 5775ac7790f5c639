package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// QuizKey returns the cache key for a course's quiz as fetched under one
// credential scope
func (r *CacheKeyStruct) QuizKey(courseID, scope string) string {
	return fmt.Sprintf("course:%s:quiz:%s", courseID, scope)
}

// QuizScopesKey returns the set of scopes holding a cached copy of a course's quiz
func (r *CacheKeyStruct) QuizScopesKey(courseID string) string {
	return fmt.Sprintf("course:%s:quiz-scopes", courseID)
}

var CacheKey = NewCacheKeyStruct()
