package services

import (
	"context"
	"errors"
	"strings"

	"github.com/yeremiapane/hellodine/models"
	"gorm.io/gorm"
)

// MenuPageSize caps how many rows a single chat list can show.
const MenuPageSize = 10

// MenuService reads the branch catalog for the chat menus.
type MenuService struct {
	db *gorm.DB
}

func NewMenuService(db *gorm.DB) *MenuService {
	return &MenuService{db: db}
}

func (s *MenuService) Categories(ctx context.Context, branchID uint) ([]models.MenuCategory, error) {
	var categories []models.MenuCategory
	err := s.db.WithContext(ctx).
		Where("branch_id = ? AND is_active = ?", branchID, true).
		Order("sort_order, id").
		Limit(MenuPageSize).
		Find(&categories).Error
	return categories, err
}

func (s *MenuService) ItemsByCategory(ctx context.Context, branchID, categoryID uint) ([]models.MenuItem, error) {
	return s.availableItems(ctx, branchID, "category_id = ?", categoryID)
}

func (s *MenuService) ItemsByDiet(ctx context.Context, branchID uint, veg bool) ([]models.MenuItem, error) {
	return s.availableItems(ctx, branchID, "is_veg = ?", veg)
}

// Search matches available items whose name contains the query, case-insensitively.
func (s *MenuService) Search(ctx context.Context, branchID uint, query string) ([]models.MenuItem, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, nil
	}
	return s.availableItems(ctx, branchID, "LOWER(name) LIKE ?", "%"+q+"%")
}

// Available lists the first page of available items of the branch.
func (s *MenuService) Available(ctx context.Context, branchID uint) ([]models.MenuItem, error) {
	return s.availableItems(ctx, branchID, "1 = 1")
}

// Item loads one item of the branch with its available variants and modifiers.
func (s *MenuService) Item(ctx context.Context, branchID, itemID uint) (*models.MenuItem, error) {
	var item models.MenuItem
	err := s.db.WithContext(ctx).
		Preload("Variants", "is_available = ?", true).
		Preload("Modifiers", "is_available = ?", true).
		Where("id = ? AND branch_id = ?", itemID, branchID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// FindByName resolves a spoken item name. An exact name wins even when the item
// is off the menu, so the customer hears it is unavailable instead of getting
// something else. Partial matches must point at a single item.
func (s *MenuService) FindByName(ctx context.Context, branchID uint, name string) (*models.MenuItem, error) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return nil, ErrItemNotFound
	}

	var exact models.MenuItem
	err := s.db.WithContext(ctx).
		Where("branch_id = ? AND LOWER(name) = ?", branchID, needle).
		Order("id").
		First(&exact).Error
	switch {
	case err == nil:
		return availableOrError(&exact)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	items, err := s.Search(ctx, branchID, needle)
	if err != nil {
		return nil, err
	}
	if len(items) > 0 {
		return &items[0], nil
	}
	return s.findByWords(ctx, branchID, needle)
}

// findByWords scores every item of the branch by how many words of name it
// contains, e.g. "paneer tikkas" still finds "Paneer Tikka". A tie means the
// name is ambiguous and nothing is picked.
func (s *MenuService) findByWords(ctx context.Context, branchID uint, name string) (*models.MenuItem, error) {
	scores := map[uint]int{}
	byID := map[uint]models.MenuItem{}
	for _, word := range strings.Fields(name) {
		if len(word) < 4 {
			continue
		}
		candidate := word
		if trimmed := strings.TrimSuffix(word, "s"); len(trimmed) >= 4 {
			candidate = trimmed
		}
		var items []models.MenuItem
		if err := s.db.WithContext(ctx).
			Where("branch_id = ? AND LOWER(name) LIKE ?", branchID, "%"+candidate+"%").
			Find(&items).Error; err != nil {
			return nil, err
		}
		for _, item := range items {
			scores[item.ID]++
			byID[item.ID] = item
		}
	}

	var best *models.MenuItem
	top, tied := 0, false
	for id, score := range scores {
		item := byID[id]
		switch {
		case score > top:
			best, top, tied = &item, score, false
		case score == top:
			tied = true
		}
	}
	if best == nil || tied {
		return nil, ErrItemNotFound
	}
	return availableOrError(best)
}

func availableOrError(item *models.MenuItem) (*models.MenuItem, error) {
	if !item.IsAvailable {
		return nil, &ItemUnavailableError{Item: item.Name}
	}
	return item, nil
}

func (s *MenuService) availableItems(ctx context.Context, branchID uint, query string, args ...interface{}) ([]models.MenuItem, error) {
	var items []models.MenuItem
	err := s.db.WithContext(ctx).
		Where("branch_id = ? AND is_available = ?", branchID, true).
		Where(query, args...).
		Order("id").
		Limit(MenuPageSize).
		Find(&items).Error
	return items, err
}
