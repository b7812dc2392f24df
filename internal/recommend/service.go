// Package recommend scores abo boxes against a user's category
// preferences.
//
// The weighting is additive across two joins: a preference level applies
// to every product in that category, and a product's weight applies to
// every box containing it. A box with no preferred products scores zero
// but is still returned, so the caller always sees the full catalog.
package recommend

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"github.com/abokiste/abokiste/internal/catalog"
	"github.com/abokiste/abokiste/internal/user"
)

// UserSource resolves users and their preferences.
type UserSource interface {
	Get(ctx context.Context, id string) (*user.User, error)
}

// CatalogSource provides read-only catalog views.
type CatalogSource interface {
	ListProducts(ctx context.Context) ([]catalog.ProductDetail, error)
	AboBoxesWithProducts(ctx context.Context) ([]catalog.AboBoxDetail, error)
}

// RankedBox is an abo box annotated with its preference weight.
type RankedBox struct {
	catalog.AboBoxDetail

	Weight int
}

// Service is the abo box recommendation engine. It is stateless; every
// call works from freshly fetched data.
type Service struct {
	users   UserSource
	catalog CatalogSource
	logger  zerolog.Logger
}

// NewService creates a new recommendation service.
func NewService(users UserSource, cat CatalogSource, logger zerolog.Logger) *Service {
	return &Service{users: users, catalog: cat, logger: logger}
}

// Recommend returns every abo box ranked by how well its constituent
// products match the user's category preferences, highest weight first.
// Ties keep catalog order, so repeated calls over unchanged data return
// the same ranking. A user without preferences gets the catalog in its
// original order, all boxes at weight zero.
func (s *Service) Recommend(ctx context.Context, userID string) ([]RankedBox, error) {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Preference weights keyed by category. A category listed twice keeps
	// the last entry.
	preferenceWeight := make(map[string]int, len(u.Preferences))
	for _, pref := range u.Preferences {
		preferenceWeight[pref.CategoryID] = pref.Level
	}

	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	// Product weight is the sum of preference weights over its categories.
	// Unpreferred categories contribute zero; products stay in the map so
	// boxes can still resolve them.
	productWeight := make(map[string]int, len(products))
	for _, product := range products {
		weight := 0
		for _, categoryID := range product.CategoryIDs {
			weight += preferenceWeight[categoryID]
		}
		productWeight[product.ID] = weight
	}

	boxes, err := s.catalog.AboBoxesWithProducts(ctx)
	if err != nil {
		return nil, err
	}

	ranked := make([]RankedBox, 0, len(boxes))
	for _, box := range boxes {
		weight := 0
		for _, productID := range box.ProductIDs {
			// A product deleted from the catalog contributes zero.
			weight += productWeight[productID]
		}
		ranked = append(ranked, RankedBox{AboBoxDetail: box, Weight: weight})
	}

	// Stable: equal weights keep catalog order.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Weight > ranked[j].Weight
	})

	s.logger.Debug().
		Str("user_id", userID).
		Int("boxes", len(ranked)).
		Int("preferences", len(u.Preferences)).
		Msg("recommendation computed")

	return ranked, nil
}
