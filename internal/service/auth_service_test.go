package service

import (
	"testing"
	"time"
)

func TestCandidateTokenRoundTrip(t *testing.T) {
	s := NewAuthService("secret", time.Hour)

	tok, err := s.GenerateCandidateToken("  Ada@Example.com ")
	if err != nil {
		t.Fatalf("GenerateCandidateToken: %v", err)
	}
	claims, err := s.ValidateToken(tok)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.TokenType != TokenTypeCandidate || claims.Email != "ada@example.com" {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestValidateTokenRejectsOtherSecret(t *testing.T) {
	tok, _ := NewAuthService("a", time.Hour).GenerateAdminToken("root", []string{"tests:manage"})
	if _, err := NewAuthService("b", time.Hour).ValidateToken(tok); err == nil {
		t.Fatal("token signed with another secret accepted")
	}
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	s := NewAuthService("secret", -time.Minute)
	tok, _ := s.GenerateCandidateToken("ada@example.com")
	if _, err := s.ValidateToken(tok); err == nil {
		t.Fatal("expired token accepted")
	}
}
