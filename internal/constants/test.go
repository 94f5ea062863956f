package constants

import "time"

// Test Constants
//
// IMPORTANT: These constants are for testing only. DO NOT use in production code.

// Timeout Constants
const (
	// TestBatchTimeout bounds a batch analysis run in tests
	TestBatchTimeout = 10 * time.Second
)

// Concurrency Test Constants
const (
	// TestConcurrentDecrypts is the number of goroutines sharing one decryptor
	TestConcurrentDecrypts = 16

	// TestConcurrentLogins is the number of LOGIN_REQUEST packets handled in parallel
	TestConcurrentLogins = 8
)

// Property Test Constants
const (
	// TestRandomBuffers is the number of random buffers fed to the decoder
	TestRandomBuffers = 2000

	// TestRandomPayloads is the number of random payloads fed to the field walker
	TestRandomPayloads = 500
)
