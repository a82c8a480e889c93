package service

import (
	"context"
	"fmt"
	"sort"

	"marketplace-server/config"
	"marketplace-server/internal/model"
	"marketplace-server/internal/ports"
	"marketplace-server/internal/security"
	"marketplace-server/internal/util"

	"github.com/google/uuid"
)

// Веса линейной формулы близости товара к ISO-заявке
const (
	categoryWeight = 0.5
	regionWeight   = 0.3
	budgetWeight   = 0.2

	isoCandidateLimit = 200
)

type ISOService struct {
	isoRepository     ports.ISORepository
	productRepository ports.ProductRepository
}

func NewISOService(isoRepository ports.ISORepository, productRepository ports.ProductRepository) *ISOService {
	return &ISOService{
		isoRepository:     isoRepository,
		productRepository: productRepository,
	}
}

// CreateISO : публикует заявку покупателя на доске
func (s *ISOService) CreateISO(ctx context.Context, iso *model.ISORequest) error {
	db, ok := ctx.Value("db").(*config.Database)
	if !ok {
		return fmt.Errorf("[ISOService] database connection не найден в context")
	}

	principal, err := security.GetPrincipalFromContext(ctx)
	if err != nil || principal == nil {
		return fmt.Errorf("[ISOService] пользователь не авторизован")
	}

	if iso.Title == "" || iso.Category == "" {
		return fmt.Errorf("[ISOService] название и категория обязательны")
	}
	if iso.BudgetCents <= 0 {
		return fmt.Errorf("[ISOService] бюджет должен быть положительным")
	}
	if iso.Quantity <= 0 {
		iso.Quantity = 1
	}

	iso.UUID = uuid.New().String()
	iso.BuyerUUID = principal.UserUUID

	return s.isoRepository.Create(ctx, db, iso)
}

func (s *ISOService) GetISO(ctx context.Context, isoUUID string) (*model.ISORequest, error) {
	db, ok := ctx.Value("db").(*config.Database)
	if !ok {
		return nil, fmt.Errorf("[ISOService] database connection не найден в context")
	}

	return s.isoRepository.GetByUUID(ctx, db, isoUUID)
}

func (s *ISOService) ListISOs(ctx context.Context, category, region, cursor string, limit int) ([]model.ISORequest, string, error) {
	db, ok := ctx.Value("db").(*config.Database)
	if !ok {
		return nil, "", fmt.Errorf("[ISOService] database connection не найден в context")
	}

	if limit <= 0 || limit > 100 {
		limit = 20
	}

	return s.isoRepository.List(ctx, db, category, region, cursor, limit)
}

// MatchProducts : подбирает товары к заявке и ранжирует их по линейной близости.
// Кандидаты берутся широкой выборкой (совпадение категории или региона),
// точный скоринг и сортировка выполняются в памяти.
func (s *ISOService) MatchProducts(ctx context.Context, isoUUID string, limit int) ([]model.ISOMatch, error) {
	db, ok := ctx.Value("db").(*config.Database)
	if !ok {
		return nil, fmt.Errorf("[ISOService] database connection не найден в context")
	}

	iso, err := s.isoRepository.GetByUUID(ctx, db, isoUUID)
	if err != nil {
		return nil, err
	}

	candidates, err := s.productRepository.ListCandidatesForISO(ctx, db, iso.Category, iso.Region, isoCandidateLimit)
	if err != nil {
		return nil, util.LogError("[ISOService] не удалось получить кандидатов", err)
	}

	matches := make([]model.ISOMatch, 0, len(candidates))
	for i := range candidates {
		product := &candidates[i]
		score := ProximityScore(iso, product)
		if score <= 0 {
			continue
		}
		matches = append(matches, model.ISOMatch{
			Product: product,
			Score:   score,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if len(matches) > limit {
		matches = matches[:limit]
	}

	return matches, nil
}

// ProximityScore : линейная формула близости товара к заявке.
// score = 0.5*категория + 0.3*регион + 0.2*близость цены к бюджету,
// где близость цены = max(0, 1 - |цена - бюджет| / бюджет).
func ProximityScore(iso *model.ISORequest, product *model.Product) float64 {
	var score float64

	if product.Category == iso.Category {
		score += categoryWeight
	}
	if product.Region == iso.Region {
		score += regionWeight
	}

	if iso.BudgetCents > 0 {
		diff := float64(product.PriceCents - iso.BudgetCents)
		if diff < 0 {
			diff = -diff
		}
		closeness := 1 - diff/float64(iso.BudgetCents)
		if closeness > 0 {
			score += budgetWeight * closeness
		}
	}

	return score
}

// CloseISO : закрывает заявку автора
func (s *ISOService) CloseISO(ctx context.Context, isoUUID string) error {
	db, ok := ctx.Value("db").(*config.Database)
	if !ok {
		return fmt.Errorf("[ISOService] database connection не найден в context")
	}

	principal, err := security.GetPrincipalFromContext(ctx)
	if err != nil || principal == nil {
		return fmt.Errorf("[ISOService] пользователь не авторизован")
	}

	return s.isoRepository.Close(ctx, db, isoUUID, principal.UserUUID)
}

// DeleteISO : удаляет заявку автора
func (s *ISOService) DeleteISO(ctx context.Context, isoUUID string) error {
	db, ok := ctx.Value("db").(*config.Database)
	if !ok {
		return fmt.Errorf("[ISOService] database connection не найден в context")
	}

	principal, err := security.GetPrincipalFromContext(ctx)
	if err != nil || principal == nil {
		return fmt.Errorf("[ISOService] пользователь не авторизован")
	}

	return s.isoRepository.Delete(ctx, db, isoUUID, principal.UserUUID)
}
