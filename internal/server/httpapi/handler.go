package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/viktorkr/authapp/internal/common"
	"github.com/viktorkr/authapp/internal/server/models"
	"github.com/viktorkr/authapp/internal/server/users"
)

// errorBody is the wire shape of every failure response.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// writeError maps a service error onto the HTTP taxonomy. Internal detail
// never reaches the response body; only taxonomy kinds and their
// user-displayable messages do.
func writeError(c *gin.Context, err error) {
	var kindErr *common.KindError
	message := err.Error()
	if errors.As(err, &kindErr) {
		message = kindErr.Message
	}

	switch {
	case errors.Is(err, common.ErrValidation):
		c.JSON(http.StatusBadRequest, errorBody{Error: "Bad Request", Message: message})
	case errors.Is(err, common.ErrEmailTaken):
		c.JSON(http.StatusConflict, errorBody{Error: "Conflict", Message: "User with this email already exists"})
	case errors.Is(err, common.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, errorBody{Error: "Unauthorized", Message: "Invalid email or password"})
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		c.JSON(http.StatusUnauthorized, errorBody{Error: "Unauthorized", Message: "Invalid or expired token"})
	case errors.Is(err, common.ErrStoreUnavailable):
		c.JSON(http.StatusServiceUnavailable, errorBody{Error: "Service Unavailable", Message: "Temporary storage failure, please retry"})
	default:
		c.JSON(http.StatusInternalServerError, errorBody{Error: "Internal Server Error", Message: "Something went wrong"})
	}
}

func (s *Server) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

// SignUp handles POST /auth/signup.
func (s *Server) SignUp(c *gin.Context) {
	var req users.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Error: "Bad Request", Message: "Invalid request body"})
		return
	}

	result, err := s.users.Register(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	s.logger.Info(c.Request.Context(), "signup", "userID", result.User.ID)
	c.JSON(http.StatusOK, result)
}

// SignIn handles POST /auth/signin.
func (s *Server) SignIn(c *gin.Context) {
	var req users.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Error: "Bad Request", Message: "Invalid request body"})
		return
	}

	result, err := s.users.Login(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// SignOut handles POST /auth/signout. With stateless tokens there is
// nothing to invalidate server-side; the endpoint exists so clients have a
// confirmation hook. The real forgetting happens in the client session store.
func (s *Server) SignOut(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Successfully signed out"})
}

// Me handles GET /api/me (and its /auth/me alias).
func (s *Server) Me(c *gin.Context) {
	userID := c.GetString(ContextUserIDKey)

	user, err := s.users.GetProfile(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// updateProfileRequest uses pointers so an omitted field can be told apart
// from a blank one.
type updateProfileRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
}

// UpdateMe handles PUT/PATCH /api/me.
func (s *Server) UpdateMe(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Error: "Bad Request", Message: "Invalid request body"})
		return
	}

	userID := c.GetString(ContextUserIDKey)

	user, err := s.users.UpdateProfile(c.Request.Context(), userID, models.ProfileUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
