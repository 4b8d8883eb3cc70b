package attraction_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"sizopi/infras/otel/mocks"
	attractionMocks "sizopi/internal/domains/attraction/mocks"
	"sizopi/internal/domains/attraction/model/dto"
	"sizopi/internal/handlers/attraction"
	gDto "sizopi/shared/dto"
	"sizopi/shared/failure"
)

func newRouter(t *testing.T) (http.Handler, *attractionMocks.MockAttractionService) {
	t.Helper()

	svc := attractionMocks.NewMockAttractionService(gomock.NewController(t))
	handler := attraction.New(svc, mocks.NewOtel())

	router := chi.NewRouter()
	handler.Router(router)

	return router, svc
}

func serve(router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, target, strings.NewReader(body))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	return recorder
}

func TestHandler_CreateAttraction(t *testing.T) {
	const valid = `{"nama_atraksi":"Pertunjukan Lumba-lumba","lokasi":"Area Barat","jadwal":"2024-06-01T10:00:00",` +
		`"kapasitas_max":100,"pelatih":"budi_lh","hewan":["5b0f7f0e-3c1e-4f0a-9d55-1d2f1c8a7e01"]}`

	tests := []struct {
		name     string
		body     string
		setup    func(svc *attractionMocks.MockAttractionService)
		wantCode int
	}{
		{
			name: "created",
			body: valid,
			setup: func(svc *attractionMocks.MockAttractionService) {
				svc.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, req dto.CreateAttractionRequest) (dto.AttractionResponse, error) {
						assert.Equal(t, "budi_lh", req.Trainer)
						assert.Len(t, req.AnimalIDs, 1)

						return dto.AttractionResponse{Name: req.Name}, nil
					})
			},
			wantCode: http.StatusOK,
		},
		{
			name:     "animal id must be a uuid",
			body:     `{"nama_atraksi":"A","lokasi":"B","jadwal":"2024-06-01T10:00:00","kapasitas_max":1,"pelatih":"c","hewan":["gajah"]}`,
			setup:    func(*attractionMocks.MockAttractionService) {},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "schedule must parse",
			body:     `{"nama_atraksi":"A","lokasi":"B","jadwal":"pagi","kapasitas_max":1,"pelatih":"c"}`,
			setup:    func(*attractionMocks.MockAttractionService) {},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "capacity must be positive",
			body:     `{"nama_atraksi":"A","lokasi":"B","jadwal":"2024-06-01T10:00:00","kapasitas_max":-1,"pelatih":"c"}`,
			setup:    func(*attractionMocks.MockAttractionService) {},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "duplicate name",
			body: valid,
			setup: func(svc *attractionMocks.MockAttractionService) {
				svc.EXPECT().Create(gomock.Any(), gomock.Any()).Return(dto.AttractionResponse{}, failure.Conflict("failed to create attraction: record already exists"))
			},
			wantCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, svc := newRouter(t)
			tt.setup(svc)

			recorder := serve(router, http.MethodPost, "/atraksi/create", tt.body)

			assert.Equal(t, tt.wantCode, recorder.Code)
		})
	}
}

func TestHandler_GetAttractions(t *testing.T) {
	router, svc := newRouter(t)

	svc.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (dto.GetAttractionsResponse, error) {
			assert.Equal(t, 5, params.Limit)

			where, args := filter.GetWhereClause()
			assert.Contains(t, where, "atraksi.lokasi")
			assert.Equal(t, "%Barat%", args["lokasi"])

			return dto.GetAttractionsResponse{TotalPage: 1}, nil
		})

	recorder := serve(router, http.MethodGet, "/atraksi?limit=5&lokasi=Barat", "")

	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestHandler_GetAttraction(t *testing.T) {
	router, svc := newRouter(t)

	svc.EXPECT().Get(gomock.Any(), "Kolam Paus").Return(dto.AttractionResponse{}, failure.NotFound("attraction not found"))

	recorder := serve(router, http.MethodGet, "/atraksi/Kolam%20Paus", "")

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestHandler_UpdateAttraction(t *testing.T) {
	router, svc := newRouter(t)

	svc.EXPECT().
		Update(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req dto.UpdateAttractionRequest) error {
			require.NotNil(t, req.AnimalIDs)
			assert.Empty(t, *req.AnimalIDs)
			assert.Nil(t, req.Location)

			return nil
		})

	recorder := serve(router, http.MethodPut, "/atraksi", `{"nama_atraksi":"Kolam Paus","hewan":[]}`)

	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestHandler_DeleteAttraction(t *testing.T) {
	t.Run("active reservations", func(t *testing.T) {
		router, svc := newRouter(t)

		svc.EXPECT().Delete(gomock.Any(), "Kolam Paus").Return(failure.Conflict("facility still has 2 active reservations"))

		recorder := serve(router, http.MethodDelete, "/atraksi", `{"nama_atraksi":"Kolam Paus"}`)

		assert.Equal(t, http.StatusConflict, recorder.Code)
	})

	t.Run("name required", func(t *testing.T) {
		router, _ := newRouter(t)

		recorder := serve(router, http.MethodDelete, "/atraksi", `{}`)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}
