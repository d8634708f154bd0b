package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/yeremiapane/restaurant-guest/models"
)

// TableService membungkus table-info service dan open-table request service.
type TableService struct {
	API *APIClient
}

func NewTableService(api *APIClient) *TableService {
	return &TableService{API: api}
}

// GetTableInfo mengambil data meja (nama human-readable dipakai reconciler).
func (s *TableService) GetTableInfo(ctx context.Context, tableID uint) (models.TableInfo, error) {
	var info models.TableInfo
	err := s.API.do(ctx, http.MethodGet, fmt.Sprintf("/tables/%d", tableID), nil, &info)
	return info, err
}

// RequestOpenTable mengirim permintaan buka meja. Respons hanya sukses/gagal;
// approval sesungguhnya datang belakangan lewat push channel.
func (s *TableService) RequestOpenTable(ctx context.Context, tableID uint) error {
	return s.API.do(ctx, http.MethodPost, fmt.Sprintf("/tables/%d/request-open", tableID), nil, nil)
}
