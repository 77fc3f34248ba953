package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// HMACSignatureService authenticates write requests against the API secret
// issued to an account at registration. A request proves control of the
// account by signing a canonical rendering of itself with that secret.
type HMACSignatureService struct{}

func NewHMACSignatureService() *HMACSignatureService {
	return &HMACSignatureService{}
}

// Sign computes the lowercase hex HMAC-SHA256 of the canonical string under
// the account's API secret.
func (s *HMACSignatureService) Sign(accountSecret string, canonical string) string {
	mac := hmac.New(sha256.New, []byte(accountSecret))
	mac.Write([]byte(canonical))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify checks a presented signature against the account's secret in
// constant time.
func (s *HMACSignatureService) Verify(accountSecret string, canonical string, signature string) bool {
	expected := s.Sign(accountSecret, canonical)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// BuildCanonicalString renders the signable form of a request as
// METHOD|PATH|TIMESTAMP|NONCE|BODY. The timestamp bounds replay drift and
// the nonce is burned after first use, so two ledger submissions never
// share a canonical string.
func (s *HMACSignatureService) BuildCanonicalString(method, path string, timestamp int64, nonce string, body string) string {
	return fmt.Sprintf("%s|%s|%d|%s|%s", method, path, timestamp, nonce, body)
}
