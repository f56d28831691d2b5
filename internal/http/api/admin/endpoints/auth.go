package endpoints

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/Beamline-Tech/beamline/internal/db"
	"github.com/Beamline-Tech/beamline/internal/http/api"
	"github.com/Beamline-Tech/beamline/internal/http/api/admin/packets"
	"github.com/Beamline-Tech/beamline/internal/http/middleware"
)

type AuthController struct {
	secret string
	store  db.Store
}

// AuthModule mounts the public register/login endpoints.
func AuthModule(secret string, store db.Store) api.Module {
	ctl := &AuthController{secret: secret, store: store}
	return api.ModuleFunc(func(c *api.Controller) {
		c.PublicPOST("/auth/register", ctl.register)
		c.PublicPOST("/auth/login", ctl.login)
	})
}

func (a *AuthController) register(ctx *gin.Context) (any, *api.APIError) {
	var req packets.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	if _, err := a.store.GetUserByEmail(req.Email); err == nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "user already exists"}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not hash password"}
	}

	user, err := a.store.CreateUser(req.Email, string(hashed), req.FirstName, req.LastName, req.Role)
	if err != nil {
		log.Error().Err(err).Str("email", req.Email).Msg("failed to register user")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create user"}
	}

	token, err := middleware.GenerateJWT(user.ID, a.secret)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not issue token"}
	}
	return packets.TokenResponse{Token: token, User: user}, nil
}

func (a *AuthController) login(ctx *gin.Context) (any, *api.APIError) {
	var req packets.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	user, err := a.store.GetUserByEmail(req.Email)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusUnauthorized, Message: "invalid credentials"}
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, &api.APIError{Code: http.StatusUnauthorized, Message: "invalid credentials"}
	}

	token, err := middleware.GenerateJWT(user.ID, a.secret)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not issue token"}
	}
	return packets.TokenResponse{Token: token, User: user}, nil
}
