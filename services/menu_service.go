package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/yeremiapane/restaurant-guest/models"
)

// MenuService membungkus menu/category read API publik.
type MenuService struct {
	API *APIClient
}

func NewMenuService(api *APIClient) *MenuService {
	return &MenuService{API: api}
}

// MenuQuery adalah filter opsional untuk list menu publik.
type MenuQuery struct {
	Page       int
	Size       int
	Search     string
	CategoryID uint
}

func (q MenuQuery) encode() string {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Size > 0 {
		v.Set("size", strconv.Itoa(q.Size))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.CategoryID != 0 {
		v.Set("categoryId", strconv.FormatUint(uint64(q.CategoryID), 10))
	}
	if encoded := v.Encode(); encoded != "" {
		return "?" + encoded
	}
	return ""
}

func (s *MenuService) GetPublicMenus(ctx context.Context, q MenuQuery) (models.PagedResponse[models.Menu], error) {
	var page models.PagedResponse[models.Menu]
	err := s.API.do(ctx, http.MethodGet, "/menus/public"+q.encode(), nil, &page)
	return page, err
}

func (s *MenuService) GetMenuDetail(ctx context.Context, menuID uint) (models.Menu, error) {
	var menu models.Menu
	err := s.API.do(ctx, http.MethodGet, fmt.Sprintf("/menus/%d", menuID), nil, &menu)
	return menu, err
}

func (s *MenuService) GetCategories(ctx context.Context) (models.PagedResponse[models.MenuCategory], error) {
	var page models.PagedResponse[models.MenuCategory]
	err := s.API.do(ctx, http.MethodGet, "/categories", nil, &page)
	return page, err
}

func (s *MenuService) GetMenusByCategory(ctx context.Context, categoryID uint, q MenuQuery) (models.PagedResponse[models.Menu], error) {
	var page models.PagedResponse[models.Menu]
	err := s.API.do(ctx, http.MethodGet, fmt.Sprintf("/menus/category/%d", categoryID)+q.encode(), nil, &page)
	return page, err
}
