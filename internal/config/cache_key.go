package config

import (
	"fmt"
	"strings"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// TestDefinitionKey returns the cache key for a test header (name, duration, question refs).
func (r *CacheKeyStruct) TestDefinitionKey(testID string) string {
	return fmt.Sprintf("test:%s:definition", testID)
}

// QuestionKey returns the cache key for a resolved question with its test cases.
func (r *CacheKeyStruct) QuestionKey(questionID string) string {
	return fmt.Sprintf("question:%s", questionID)
}

// CandidateStreamLockKey guards a candidate to a single live stream per test.
func (r *CacheKeyStruct) CandidateStreamLockKey(testID, email string) string {
	return fmt.Sprintf("candidate:%s:test:%s:stream", strings.ToLower(email), testID)
}

// RateLimitKey returns the fixed-window counter key for a client and route.
func (r *CacheKeyStruct) RateLimitKey(route, client string, window int64) string {
	return fmt.Sprintf("ratelimit:%s:%s:%d", route, client, window)
}

// TestMonitorChannel returns the Redis PubSub channel name for a test's live monitor.
func (r *CacheKeyStruct) TestMonitorChannel(testID string) string {
	return fmt.Sprintf("test:%s:monitor", testID)
}

var CacheKey = NewCacheKeyStruct()
