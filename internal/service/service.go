package service

import (
	"context"
	"errors"
	"fmt"

	"urlmapper/internal/database"
	"urlmapper/internal/metrics"
	"urlmapper/internal/models"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// codeAlphabet is the 62-symbol alphanumeric alphabet codes are drawn from.
const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// maxAttempts bounds the retry loop for generating a code that isn't
// already taken. Collisions are retried, not assumed impossible.
const maxAttempts = 10

// ErrCodeSpaceExhausted is returned when no unique short code could be
// allocated within the bounded number of attempts.
var ErrCodeSpaceExhausted = errors.New("could not allocate unique code")

// URLRepository defines the interface for working with mappings at the
// business logic layer.
type URLRepository interface {
	// Create inserts a new mapping into the repository.
	// Returns the created mapping or an error if the operation fails.
	Create(ctx context.Context, code, targetURL string) (*models.URLMapping, error)

	// GetByTargetURL retrieves a mapping by exact target URL match.
	// Returns the mapping if found or an error if not found.
	GetByTargetURL(ctx context.Context, targetURL string) (*models.URLMapping, error)

	// Visit atomically increments the visit counter for a code and
	// returns the updated mapping.
	Visit(ctx context.Context, code string) (*models.URLMapping, error)

	// GetByCode retrieves a mapping by its short code without changing it.
	GetByCode(ctx context.Context, code string) (*models.URLMapping, error)
}

// MappingService provides the create-or-fetch, redirect and stats
// operations over a URLRepository.
type MappingService struct {
	repo       URLRepository
	codeLength int
}

// NewMappingService creates a new MappingService with the provided
// repository and short code length.
func NewMappingService(repo URLRepository, codeLength int) *MappingService {
	return &MappingService{
		repo:       repo,
		codeLength: codeLength,
	}
}

// generateCandidate returns a fixed-length random code drawn uniformly
// from the alphanumeric alphabet using a cryptographically secure source.
func (s *MappingService) generateCandidate() (string, error) {
	return gonanoid.Generate(codeAlphabet, s.codeLength)
}

// ShortenURL returns the mapping for the given target URL, creating one if
// the URL has never been seen. Shortening the same URL twice returns the
// same mapping without mutation. A fresh mapping starts with zero visits.
func (s *MappingService) ShortenURL(ctx context.Context, targetURL string) (*models.URLMapping, error) {
	const op = "service.MappingService.ShortenURL"

	m, err := s.repo.GetByTargetURL(ctx, targetURL)
	if err == nil {
		return m, nil
	}
	if !errors.Is(err, database.ErrURLNotFound) {
		return nil, fmt.Errorf("%s: failed to look up target url: %w", op, err)
	}

	for i := 0; i < maxAttempts; i++ {
		code, err := s.generateCandidate()
		if err != nil {
			return nil, fmt.Errorf("%s: failed to generate code: %w", op, err)
		}

		m, err := s.repo.Create(ctx, code, targetURL)
		if err != nil {
			if errors.Is(err, database.ErrCodeExists) {
				continue
			}

			return nil, fmt.Errorf("%s: failed to shorten url: %w", op, err)
		}

		metrics.RecordMappingCreated()

		return m, nil
	}

	return nil, fmt.Errorf("%s: %w", op, ErrCodeSpaceExhausted)
}

// ResolveCode retrieves the mapping for the provided code and records the
// visit. The counter update is durable before the mapping is returned.
func (s *MappingService) ResolveCode(ctx context.Context, code string) (*models.URLMapping, error) {
	const op = "service.MappingService.ResolveCode"

	m, err := s.repo.Visit(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to resolve code: %w", op, err)
	}

	metrics.RecordRedirect()

	return m, nil
}

// GetURLStats retrieves the mapping for the provided code without
// recording a visit.
func (s *MappingService) GetURLStats(ctx context.Context, code string) (*models.URLMapping, error) {
	const op = "service.MappingService.GetURLStats"

	m, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get url stats: %w", op, err)
	}

	return m, nil
}
