package services

import "context"

// PasswordHasher defines an interface for hashing and verifying passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hashedPassword, password string) error
}

// ContentGenerator forwards a synthesized system instruction and user
// prompt to an external text-generation service. Implementations make a
// single attempt; callers decide what a failure means.
type ContentGenerator interface {
	Generate(ctx context.Context, systemInstruction, userPrompt string, maxTokens int, temperature float32) (string, error)
}
