package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"sizopi/config"
	"sizopi/infras/otel/mocks"
	accountMocks "sizopi/internal/domains/account/mocks"
	"sizopi/internal/domains/account/service"
	cacheMocks "sizopi/shared/cache/mocks"
	"sizopi/shared/constant"
	"sizopi/shared/failure"
)

func TestAccountService_Role(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(repo *accountMocks.MockAccount, cache *cacheMocks.MockRedisCache)
		want     string
		wantCode int
	}{
		{
			name: "cache hit",
			setup: func(_ *accountMocks.MockAccount, cache *cacheMocks.MockRedisCache) {
				cache.EXPECT().
					Get(gomock.Any(), "account:role:ani", gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, value any) error {
						*value.(*string) = constant.RolePengunjung

						return nil
					})
			},
			want: constant.RolePengunjung,
		},
		{
			name: "resolved from the role tables",
			setup: func(repo *accountMocks.MockAccount, cache *cacheMocks.MockRedisCache) {
				cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
				cache.EXPECT().Save(gomock.Any(), "account:role:ani", constant.RoleStafAdmin, 60).Return(nil).AnyTimes()
				repo.EXPECT().GetRole(gomock.Any(), "ani").Return(constant.RoleStafAdmin, nil)
			},
			want: constant.RoleStafAdmin,
		},
		{
			name: "no role",
			setup: func(repo *accountMocks.MockAccount, cache *cacheMocks.MockRedisCache) {
				cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
				repo.EXPECT().GetRole(gomock.Any(), "ani").Return("", nil)
			},
			want: "",
		},
		{
			name: "repository error",
			setup: func(repo *accountMocks.MockAccount, cache *cacheMocks.MockRedisCache) {
				cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
				repo.EXPECT().GetRole(gomock.Any(), "ani").Return("", errors.New("connection refused"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := accountMocks.NewMockAccount(ctrl)
			cache := cacheMocks.NewMockRedisCache(ctrl)
			tt.setup(repo, cache)

			cfg := &config.Config{}
			cfg.Cache.TTL = 60

			role, err := service.New(repo, cfg, cache, mocks.NewOtel()).Role(context.Background(), "ani")

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, role)
		})
	}
}
