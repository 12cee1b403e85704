package handler

import (
	"github.com/gin-gonic/gin"
	identityapp "github.com/shopapi/backend/internal/application/identity"
)

// UserHandler serves the caller's profile and the admin user management API
type UserHandler struct {
	BaseHandler
	userService *identityapp.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *identityapp.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetProfile godoc
// @Summary      Get own profile
// @Tags         users
// @Security     BearerAuth
// @Produce      json
// @Success      200 {object} dto.Response{data=identityapp.UserResponse}
// @Router       /users/me [get]
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	user, err := h.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// UpdateProfile godoc
// @Summary      Update own profile
// @Tags         users
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body identityapp.UpdateProfileRequest true "Profile"
// @Success      200 {object} dto.Response{data=identityapp.UserResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /users/me [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}
	var req identityapp.UpdateProfileRequest
	if !h.BindJSON(c, &req) {
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// ChangePassword godoc
// @Summary      Change own password
// @Tags         users
// @Security     BearerAuth
// @Accept       json
// @Param        request body identityapp.ChangePasswordRequest true "Passwords"
// @Success      204
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /users/me/password [put]
func (h *UserHandler) ChangePassword(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}
	var req identityapp.ChangePasswordRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.userService.ChangePassword(c.Request.Context(), userID, req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// List godoc
// @Summary      List users
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        search query string false "Username or email"
// @Param        role query string false "customer or admin"
// @Param        page query int false "Page"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]identityapp.AdminUserResponse}
// @Router       /admin/users [get]
func (h *UserHandler) List(c *gin.Context) {
	var query identityapp.UserListQuery
	if !h.BindQuery(c, &query) {
		return
	}

	users, total, err := h.userService.List(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, users, total, query.Page, query.PageSize)
}

// Get godoc
// @Summary      Get a user
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200 {object} dto.Response{data=identityapp.AdminUserResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /admin/users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// ChangeRole godoc
// @Summary      Change a user's role
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id path string true "User ID"
// @Param        request body identityapp.ChangeRoleRequest true "Role"
// @Success      200 {object} dto.Response{data=identityapp.AdminUserResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /admin/users/{id}/role [put]
func (h *UserHandler) ChangeRole(c *gin.Context) {
	actor, ok := h.adminActor(c)
	if !ok {
		return
	}
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req identityapp.ChangeRoleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	user, err := h.userService.ChangeRole(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// Delete godoc
// @Summary      Delete a user
// @Tags         admin
// @Security     BearerAuth
// @Param        id path string true "User ID"
// @Success      204
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /admin/users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	actor, ok := h.adminActor(c)
	if !ok {
		return
	}
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}

	if err := h.userService.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Unlock godoc
// @Summary      Unlock a user account
// @Description  Clears a temporary or permanent login lock. The action is audit-logged.
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200 {object} dto.Response{data=identityapp.UnlockResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /admin/users/{id}/unlock [post]
func (h *UserHandler) Unlock(c *gin.Context) {
	actor, ok := h.adminActor(c)
	if !ok {
		return
	}
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}

	result, err := h.userService.Unlock(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

func (h *UserHandler) adminActor(c *gin.Context) (identityapp.AdminActor, bool) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return identityapp.AdminActor{}, false
	}
	return identityapp.AdminActor{UserID: userID, ClientIP: c.ClientIP()}, true
}
