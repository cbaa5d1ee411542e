package handlers

import (
	"github.com/jmoiron/sqlx"

	"userapi/internal/config"
	"userapi/internal/repos"
	"userapi/internal/services"
	"userapi/internal/validate"
)

type Deps struct {
	UserHandler   *UserHandler
	IndexHandler  *IndexHandler
	HealthHandler *HealthHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config) (*Deps, error) {
	patterns, err := validate.Compile(cfg.EmailPattern, cfg.PasswordPattern)
	if err != nil {
		return nil, err
	}
	userRepo := repos.NewUserRepo(db, cfg.DBQueryTimeout)
	userSvc := services.NewUserService(userRepo, cfg.BcryptCost)

	return &Deps{
		UserHandler:   &UserHandler{Users: userSvc, Patterns: patterns, Strict: cfg.StrictNotFound},
		IndexHandler:  &IndexHandler{},
		HealthHandler: &HealthHandler{DB: db, Timeout: cfg.DBQueryTimeout},
	}, nil
}
