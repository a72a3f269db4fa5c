package main

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/abastio/abasto/internal/httpx"
	"github.com/abastio/abasto/internal/user"
)

const ctxUserKey = "authUser"

// authenticate resolves the bearer token and stores the user on the
// context. Anything invalid is a 401; the client reacts by purging its
// cached tokens.
func (app *application) authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, httpx.Error("missing bearer token"))
			return
		}

		u, err := app.users.Authenticate(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, httpx.Error("invalid or expired token"))
			return
		}
		c.Set(ctxUserKey, u)
		c.Next()
	}
}

func (app *application) requireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentUser(c).Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, httpx.Error("forbidden for this role"))
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) *user.User {
	u, _ := c.Get(ctxUserKey)
	return u.(*user.User)
}

// loginRequest is the credentials payload.
// swagger:model
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginResponse struct {
	AccessToken  string     `json:"accessToken"`
	RefreshToken string     `json:"refreshToken"`
	User         *user.User `json:"user"`
}

// loginHandler godoc
// @Summary  Exchange email, password and role for a token pair
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    credentials body loginRequest true "credentials"
// @Success  200 {object} loginResponse
// @Failure  401 {object} httpx.FieldErrors
// @Router   /auth/login [post]
func (app *application) loginHandler(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpx.Error("invalid JSON body"))
		return
	}

	fieldErrs := httpx.FieldErrors{}
	if req.Email == "" {
		fieldErrs["email"] = []string{"este campo es requerido"}
	}
	if req.Password == "" {
		fieldErrs["password"] = []string{"este campo es requerido"}
	}
	if !user.ValidRole(req.Role) {
		fieldErrs["role"] = []string{"rol desconocido"}
	}
	if len(fieldErrs) > 0 {
		c.JSON(http.StatusBadRequest, fieldErrs)
		return
	}

	u, sess, err := app.users.Login(c.Request.Context(), req.Email, req.Password, req.Role)
	if err != nil {
		c.JSON(http.StatusUnauthorized, httpx.FieldErrors{
			"detail": []string{"credenciales inválidas"},
		})
		return
	}

	c.JSON(http.StatusOK, loginResponse{
		AccessToken:  sess.AccessToken,
		RefreshToken: sess.RefreshToken,
		User:         u,
	})
}

// registerHandler godoc
// @Summary  Register a restaurant or provider account
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    account body user.RegisterRequest true "account"
// @Success  201 {object} user.User
// @Failure  409 {object} httpx.HTTPError
// @Router   /auth/register [post]
func (app *application) registerHandler(c *gin.Context) {
	var req user.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpx.Error("invalid JSON body"))
		return
	}

	u, err := app.users.Register(c.Request.Context(), req)
	switch {
	case errors.Is(err, user.ErrAlreadyExist):
		c.JSON(http.StatusConflict, httpx.FieldErrors{
			"email": []string{"ya existe una cuenta con este correo"},
		})
	case errors.Is(err, user.ErrBadRole), errors.Is(err, user.ErrMissingFields):
		c.JSON(http.StatusBadRequest, httpx.Error(err.Error()))
	case err != nil:
		c.JSON(http.StatusInternalServerError, httpx.Error("could not register"))
	default:
		c.JSON(http.StatusCreated, u)
	}
}

func (app *application) getProfileHandler(c *gin.Context) {
	c.JSON(http.StatusOK, currentUser(c))
}

func (app *application) updateProfileHandler(c *gin.Context) {
	var req user.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpx.Error("invalid JSON body"))
		return
	}

	u, err := app.users.UpdateProfile(c.Request.Context(), currentUser(c).ID, req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, httpx.Error("could not update profile"))
		return
	}
	c.JSON(http.StatusOK, u)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (app *application) changePasswordHandler(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpx.Error("invalid JSON body"))
		return
	}

	err := app.users.ChangePassword(c.Request.Context(), currentUser(c).ID, req.CurrentPassword, req.NewPassword)
	switch {
	case errors.Is(err, user.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, httpx.FieldErrors{
			"currentPassword": []string{"la contraseña actual no es correcta"},
		})
	case errors.Is(err, user.ErrMissingFields):
		c.JSON(http.StatusBadRequest, httpx.Error("new password is required"))
	case err != nil:
		c.JSON(http.StatusInternalServerError, httpx.Error("could not change password"))
	default:
		c.JSON(http.StatusOK, gin.H{"changed": true})
	}
}
