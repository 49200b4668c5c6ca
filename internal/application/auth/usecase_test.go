package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/storeflow-api/internal/application/apptest"
	"github.com/jhoicas/storeflow-api/internal/application/auth"
	"github.com/jhoicas/storeflow-api/internal/application/dto"
	"github.com/jhoicas/storeflow-api/internal/domain"
	"github.com/jhoicas/storeflow-api/internal/domain/entity"
	"github.com/jhoicas/storeflow-api/pkg/jwt"
)

var jwtCfg = auth.JWTConfig{Secret: "secreto-de-test", ExpMinutes: 60, Issuer: "storeflow-test"}

func newAuthEnv(t *testing.T) *auth.AuthUseCase {
	t.Helper()
	brands := apptest.NewBrandRepo()
	brands.SeedBrand(1, "ACME")
	stores := apptest.NewStoreRepo()
	stores.SeedStore(1, 1, "T01")
	return auth.NewAuthUseCase(apptest.NewUserRepo(), brands, stores, jwtCfg)
}

func int64Ptr(n int64) *int64 { return &n }

func TestRegisterUser_TiendaRequiereStoreID(t *testing.T) {
	uc := newAuthEnv(t)

	_, err := uc.RegisterUser(dto.RegisterRequest{
		BrandID: 1, Email: "v@acme.cl", Password: "secreto", Role: entity.RoleTienda,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	resp, err := uc.RegisterUser(dto.RegisterRequest{
		BrandID: 1, StoreID: int64Ptr(1), Email: "v@acme.cl", Password: "secreto", Role: entity.RoleTienda,
	})
	require.NoError(t, err)
	require.NotNil(t, resp.StoreID)
	assert.Equal(t, int64(1), *resp.StoreID)
}

func TestRegisterUser_CentralNoLlevaTienda(t *testing.T) {
	uc := newAuthEnv(t)

	_, err := uc.RegisterUser(dto.RegisterRequest{
		BrandID: 1, StoreID: int64Ptr(1), Email: "hq@acme.cl", Password: "secreto", Role: entity.RoleCentral,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	resp, err := uc.RegisterUser(dto.RegisterRequest{
		BrandID: 1, Email: "hq@acme.cl", Password: "secreto", Role: entity.RoleCentral,
	})
	require.NoError(t, err)
	assert.Nil(t, resp.StoreID)
	assert.Equal(t, entity.RoleCentral, resp.Role)
}

func TestRegisterUser_EmailDuplicadoEnMarca(t *testing.T) {
	uc := newAuthEnv(t)

	_, err := uc.RegisterUser(dto.RegisterRequest{
		BrandID: 1, StoreID: int64Ptr(1), Email: "v@acme.cl", Password: "secreto",
	})
	require.NoError(t, err)

	_, err = uc.RegisterUser(dto.RegisterRequest{
		BrandID: 1, StoreID: int64Ptr(1), Email: "v@acme.cl", Password: "otro",
	})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestLogin_TokenConIdentidadCompleta(t *testing.T) {
	uc := newAuthEnv(t)

	_, err := uc.RegisterUser(dto.RegisterRequest{
		BrandID: 1, StoreID: int64Ptr(1), Email: "v@acme.cl", Password: "secreto", Role: entity.RoleTienda,
	})
	require.NoError(t, err)

	resp, err := uc.Login(dto.LoginRequest{Email: "v@acme.cl", Password: "secreto"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)

	claims, err := jwt.Parse(jwtCfg.Secret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, int64(1), claims.BrandID)
	assert.Equal(t, int64(1), claims.StoreID)
	assert.Equal(t, entity.RoleTienda, claims.Role)
}

func TestLogin_CentralTokenSinTienda(t *testing.T) {
	uc := newAuthEnv(t)

	_, err := uc.RegisterUser(dto.RegisterRequest{
		BrandID: 1, Email: "hq@acme.cl", Password: "secreto", Role: entity.RoleCentral,
	})
	require.NoError(t, err)

	resp, err := uc.Login(dto.LoginRequest{Email: "hq@acme.cl", Password: "secreto"})
	require.NoError(t, err)

	claims, err := jwt.Parse(jwtCfg.Secret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(0), claims.StoreID)
	assert.Equal(t, entity.RoleCentral, claims.Role)
}

func TestLogin_PasswordIncorrecta(t *testing.T) {
	uc := newAuthEnv(t)

	_, err := uc.RegisterUser(dto.RegisterRequest{
		BrandID: 1, StoreID: int64Ptr(1), Email: "v@acme.cl", Password: "secreto",
	})
	require.NoError(t, err)

	_, err = uc.Login(dto.LoginRequest{Email: "v@acme.cl", Password: "equivocada"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(dto.LoginRequest{Email: "nadie@acme.cl", Password: "secreto"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
