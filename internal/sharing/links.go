package sharing

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"birthdays/internal/config"
	"birthdays/internal/db"
	"birthdays/internal/logger"
	"birthdays/internal/metrics"
	"birthdays/internal/models"
	"birthdays/internal/validation"
)

const maxTokenAttempts = 3

// LinkService issues, resolves and revokes sharing links.
type LinkService struct {
	links    LinkStore
	policy   config.Policy
	generate func() (string, error)
	now      func() time.Time
}

// NewLinkService creates a link service using the expiration rules in policy.
func NewLinkService(links LinkStore, policy config.Policy) *LinkService {
	return &LinkService{
		links:    links,
		policy:   policy,
		generate: GenerateToken,
		now:      time.Now,
	}
}

// Create issues a new link for ownerID. expirationHours defaults to the
// policy default and must be one of the allowed windows.
func (s *LinkService) Create(ctx context.Context, ownerID uuid.UUID, description *string, expirationHours *int) (*models.SharingLink, error) {
	if ownerID == uuid.Nil {
		return nil, ErrForbidden
	}

	desc, errs := validation.ValidateDescription(description)

	hours := s.policy.DefaultExpirationHours
	if expirationHours != nil {
		hours = *expirationHours
	}
	if !s.policy.AllowsExpiration(hours) {
		errs = append(errs, validation.FieldError{
			Field:   "expirationHours",
			Message: "expirationHours must be one of " + joinHours(s.policy.AllowedExpirationHours),
		})
	}
	if len(errs) > 0 {
		return nil, Validation(errs)
	}

	// Postgres keeps microseconds; truncating keeps ExpiresAt-CreatedAt exact
	// after a round trip.
	createdAt := s.now().UTC().Truncate(time.Microsecond)
	link := &models.SharingLink{
		OwnerID:     ownerID,
		Description: desc,
		CreatedAt:   createdAt,
		ExpiresAt:   createdAt.Add(time.Duration(hours) * time.Hour),
	}

	for range maxTokenAttempts {
		token, err := s.generate()
		if err != nil {
			return nil, Internal("generate token", err)
		}
		link.Token = token

		err = s.links.CreateSharingLink(ctx, link)
		if errors.Is(err, db.ErrDuplicateToken) {
			logger.Warn("sharing token collision, regenerating", zap.String("owner_id", ownerID.String()))
			continue
		}
		if err != nil {
			return nil, Internal("create sharing link", err)
		}

		metrics.RecordLinkEvent("created", 1)
		return link, nil
	}

	return nil, Internal("create sharing link", fmt.Errorf("token collided %d times", maxTokenAttempts))
}

// Revoke deactivates an owner's link. Revoking an inactive link returns it
// unchanged.
func (s *LinkService) Revoke(ctx context.Context, ownerID, linkID uuid.UUID) (*models.SharingLink, error) {
	link, err := s.links.GetSharingLinkByID(ctx, linkID)
	if errors.Is(err, db.ErrSharingLinkNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, Internal("get sharing link", err)
	}
	if ownerID == uuid.Nil || link.OwnerID != ownerID {
		return nil, ErrForbidden
	}
	if !link.IsActive {
		return link, nil
	}

	revoked, err := s.links.DeactivateSharingLink(ctx, linkID)
	if err != nil {
		return nil, Internal("revoke sharing link", err)
	}
	metrics.RecordLinkEvent("revoked", 1)
	return revoked, nil
}

// ListForOwner returns the owner's links, newest first.
func (s *LinkService) ListForOwner(ctx context.Context, ownerID uuid.UUID) ([]models.SharingLink, error) {
	if ownerID == uuid.Nil {
		return nil, ErrForbidden
	}
	links, err := s.links.ListSharingLinksByOwner(ctx, ownerID)
	if err != nil {
		return nil, Internal("list sharing links", err)
	}
	return links, nil
}

// ResolveActive returns the link for token if it currently accepts
// submissions. Malformed, unknown, revoked and expired tokens all fail with
// ErrExpiredOrInvalid so callers cannot tell them apart.
func (s *LinkService) ResolveActive(ctx context.Context, token string) (*models.SharingLink, error) {
	if !WellFormedToken(token) {
		return nil, ErrExpiredOrInvalid
	}

	link, err := s.links.GetSharingLinkByToken(ctx, token)
	if errors.Is(err, db.ErrSharingLinkNotFound) {
		return nil, ErrExpiredOrInvalid
	}
	if err != nil {
		return nil, Internal("resolve sharing link", err)
	}
	if !link.AcceptsSubmissions(s.now()) {
		return nil, ErrExpiredOrInvalid
	}
	return link, nil
}

// Lookup returns the link for token whatever its state.
func (s *LinkService) Lookup(ctx context.Context, token string) (*models.SharingLink, error) {
	if !WellFormedToken(token) {
		return nil, ErrNotFound
	}
	link, err := s.links.GetSharingLinkByToken(ctx, token)
	if errors.Is(err, db.ErrSharingLinkNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, Internal("lookup sharing link", err)
	}
	return link, nil
}

// AllowedExpirationHours returns the windows an owner may choose from.
func (s *LinkService) AllowedExpirationHours() []int {
	return slices.Clone(s.policy.AllowedExpirationHours)
}

func joinHours(hours []int) string {
	parts := make([]string, len(hours))
	for i, h := range hours {
		parts[i] = strconv.Itoa(h)
	}
	return strings.Join(parts, ", ")
}
