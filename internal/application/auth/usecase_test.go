package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dquispe/tienda-pos/internal/application/auth"
	"github.com/dquispe/tienda-pos/internal/application/dto"
	"github.com/dquispe/tienda-pos/internal/domain"
	"github.com/dquispe/tienda-pos/internal/domain/entity"
	"github.com/dquispe/tienda-pos/internal/infrastructure/memory"
	"github.com/dquispe/tienda-pos/pkg/jwt"
)

const testStoreID = "store-1"

func newAuthUC(t *testing.T) (*auth.UseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	require.NoError(t, store.Stores().Create(&entity.Store{
		ID:        testStoreID,
		Nombre:    "Bodega Central",
		CreatedAt: time.Now(),
	}))
	uc := auth.NewUseCase(store.Users(), store.Stores(), auth.JWTConfig{
		Secret:     "secreto-de-prueba",
		ExpMinutes: 5,
		Issuer:     "tienda-pos",
	})
	return uc, store
}

func TestRegisterLogin_CicloCompleto(t *testing.T) {
	uc, _ := newAuthUC(t)

	user, err := uc.Register(dto.RegisterRequest{
		StoreID:  testStoreID,
		Email:    "maria@bodega.pe",
		Password: "clave123",
		Nombre:   "María",
		Role:     entity.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, user.Role)
	assert.Equal(t, "active", user.Status)

	out, err := uc.Login(dto.LoginRequest{Email: "maria@bodega.pe", Password: "clave123"})
	require.NoError(t, err)
	require.NotEmpty(t, out.Token)

	// El token emitido lleva la identidad completa para el middleware
	userID, storeID, role, err := jwt.Parse("secreto-de-prueba", out.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
	assert.Equal(t, testStoreID, storeID)
	assert.Equal(t, entity.RoleAdmin, role)
}

func TestRegister_EmailDuplicado(t *testing.T) {
	uc, _ := newAuthUC(t)

	_, err := uc.Register(dto.RegisterRequest{StoreID: testStoreID, Email: "maria@bodega.pe", Password: "clave123"})
	require.NoError(t, err)
	_, err = uc.Register(dto.RegisterRequest{StoreID: testStoreID, Email: "maria@bodega.pe", Password: "otra"})
	require.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestRegister_TiendaInexistente(t *testing.T) {
	uc, _ := newAuthUC(t)
	_, err := uc.Register(dto.RegisterRequest{StoreID: "no-existe", Email: "x@y.pe", Password: "clave123"})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRegister_RolPorDefectoEsVendedor(t *testing.T) {
	uc, _ := newAuthUC(t)
	user, err := uc.Register(dto.RegisterRequest{StoreID: testStoreID, Email: "x@y.pe", Password: "clave123"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleVendedor, user.Role)
}

func TestLogin_PasswordIncorrecto(t *testing.T) {
	uc, _ := newAuthUC(t)
	_, err := uc.Register(dto.RegisterRequest{StoreID: testStoreID, Email: "maria@bodega.pe", Password: "clave123"})
	require.NoError(t, err)

	_, err = uc.Login(dto.LoginRequest{Email: "maria@bodega.pe", Password: "incorrecta"})
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_UsuarioInexistente(t *testing.T) {
	uc, _ := newAuthUC(t)
	_, err := uc.Login(dto.LoginRequest{Email: "nadie@bodega.pe", Password: "clave123"})
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}
