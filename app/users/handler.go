package users

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mytheresa/go-catalog-mappings/app/api"
	"github.com/mytheresa/go-catalog-mappings/models"
)

type AddressResponse struct {
	ID      uint          `json:"id"`
	Name    string        `json:"name"`
	Zipcode string        `json:"zipcode"`
	State   string        `json:"state"`
	User    *UserResponse `json:"user,omitempty"`
}

type DetailsResponse struct {
	Name     string `json:"name"`
	Lastname string `json:"lastname"`
	Email    string `json:"email"`
}

// UserResponse never carries the password.
type UserResponse struct {
	ID       uint             `json:"id"`
	Username string           `json:"username"`
	Address  *AddressResponse `json:"address,omitempty"`
	Details  *DetailsResponse `json:"details,omitempty"`
}

type UserProvider interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByIDEager(ctx context.Context, id uint) (*models.User, error)
	Persist(ctx context.Context, u *models.User) error
	Merge(ctx context.Context, u *models.User) error
	Refresh(ctx context.Context, u *models.User) error
	RemoveByID(ctx context.Context, id uint) (bool, error)
}

type UserHandler struct {
	repo UserProvider
}

func NewUserHandler(r UserProvider) *UserHandler {
	return &UserHandler{repo: r}
}

type addressInput struct {
	Name    string `json:"name"`
	Zipcode string `json:"zipcode"`
	State   string `json:"state"`
}

type detailsInput struct {
	Name     string `json:"name"`
	Lastname string `json:"lastname"`
	Email    string `json:"email"`
}

type userInput struct {
	Username string        `json:"username"`
	Password string        `json:"password"`
	Address  *addressInput `json:"address"`
	Details  *detailsInput `json:"details"`
}

func toAddressResponse(a *models.Address) *AddressResponse {
	if a == nil {
		return nil
	}
	resp := &AddressResponse{ID: a.ID, Name: a.Name, Zipcode: a.Zipcode, State: a.State}
	if a.User != nil {
		user := toUserResponse(a.User)
		resp.User = &user
	}
	return resp
}

func toUserResponse(u *models.User) UserResponse {
	resp := UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Address:  toAddressResponse(u.Address),
	}
	if u.Details != nil {
		resp.Details = &DetailsResponse{
			Name:     u.Details.Name,
			Lastname: u.Details.Lastname,
			Email:    u.Details.Email,
		}
	}
	return resp
}

// apply copies the input onto u, reusing the stored associations so that a
// merge updates them instead of inserting new rows.
func (in userInput) apply(u *models.User) {
	u.Username = in.Username
	if in.Password != "" {
		u.Password = in.Password
	}
	if in.Address != nil {
		if u.Address == nil {
			u.Address = &models.Address{}
		}
		u.Address.Name = in.Address.Name
		u.Address.Zipcode = in.Address.Zipcode
		u.Address.State = in.Address.State
	}
	if in.Details != nil {
		if u.Details == nil {
			u.Details = &models.UserDetails{UserID: u.ID}
		}
		u.Details.Name = in.Details.Name
		u.Details.Lastname = in.Details.Lastname
		u.Details.Email = in.Details.Email
	}
}

// HandleGet returns a user; ?eager=true includes the address and details.
func (h *UserHandler) HandleGet(c *gin.Context) {
	id, ok := api.ParseID(c)
	if !ok {
		return
	}
	find := h.repo.GetByID
	if api.Eager(c) {
		find = h.repo.GetByIDEager
	}
	user, err := find(c.Request.Context(), id)
	if err != nil {
		api.Error(c, err, "Failed to retrieve user")
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

func (h *UserHandler) HandleCreate(c *gin.Context) {
	var input userInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	user := &models.User{}
	input.apply(user)
	if err := h.repo.Persist(c.Request.Context(), user); err != nil {
		api.Error(c, err, "Failed to create user")
		return
	}
	c.JSON(http.StatusCreated, toUserResponse(user))
}

// HandleUpdate merges the input into the stored user and answers with the
// refreshed state.
func (h *UserHandler) HandleUpdate(c *gin.Context) {
	id, ok := api.ParseID(c)
	if !ok {
		return
	}
	var input userInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	ctx := c.Request.Context()
	user, err := h.repo.GetByIDEager(ctx, id)
	if err != nil {
		api.Error(c, err, "Failed to retrieve user")
		return
	}
	input.apply(user)
	if err := h.repo.Merge(ctx, user); err != nil {
		api.Error(c, err, "Failed to update user")
		return
	}
	if err := h.repo.Refresh(ctx, user); err != nil {
		api.Error(c, err, "Failed to reload user")
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

func (h *UserHandler) HandleDelete(c *gin.Context) {
	id, ok := api.ParseID(c)
	if !ok {
		return
	}
	removed, err := h.repo.RemoveByID(c.Request.Context(), id)
	if err != nil {
		api.Error(c, err, "Failed to delete user")
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": models.ErrUserNotFound.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
