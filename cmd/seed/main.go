// seed crea los datos mínimos para operar un entorno nuevo: una marca, la
// casa matriz aprobada y un usuario central.
//
// Uso: go run ./cmd/seed -brand "Mi Marca" -code MIMARCA -email admin@mimarca.cl -password secreto
// La conexión a PostgreSQL sale de las mismas variables de entorno que el API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/storeflow-api/internal/domain/entity"
	"github.com/jhoicas/storeflow-api/internal/infrastructure/postgres"
	"github.com/jhoicas/storeflow-api/pkg/config"
)

func main() {
	brandName := flag.String("brand", "", "nombre de la marca")
	brandCode := flag.String("code", "", "código único de la marca")
	email := flag.String("email", "", "email del usuario central")
	password := flag.String("password", "", "password del usuario central")
	flag.Parse()

	if *brandName == "" || *brandCode == "" || *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "uso: seed -brand <nombre> -code <código> -email <email> -password <password>")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fail("cargar configuración", err)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fail("conexión a PostgreSQL", err)
	}
	defer pool.Close()

	brandRepo := postgres.NewBrandRepository(pool)
	userRepo := postgres.NewUserRepository(pool)

	existing, err := brandRepo.GetByCode(*brandCode)
	if err != nil {
		fail("buscar marca", err)
	}
	if existing != nil {
		fmt.Fprintf(os.Stderr, "la marca %q ya existe (id %d)\n", *brandCode, existing.ID)
		os.Exit(1)
	}

	now := time.Now()
	brand := &entity.Brand{
		Name:      *brandName,
		Code:      *brandCode,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := brandRepo.Create(brand); err != nil {
		fail("crear marca", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		fail("hashear password", err)
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		BrandID:      brand.ID,
		Email:        *email,
		PasswordHash: string(hash),
		Name:         "Administrador",
		Role:         entity.RoleCentral,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := userRepo.Create(user); err != nil {
		fail("crear usuario central", err)
	}

	fmt.Printf("marca %q creada (id %d), usuario central %s listo\n", brand.Name, brand.ID, user.Email)
}

func fail(op string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", op, err)
	os.Exit(1)
}
