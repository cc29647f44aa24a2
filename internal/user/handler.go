package user

import (
	"net/http"

	"go.uber.org/zap"

	"socialapp/internal/common"
	"socialapp/internal/config"
)

// Handler exposes the account, profile and follow endpoints.
type Handler struct {
	users     UserService
	follows   FollowService
	maxUpload int64
	log       *zap.Logger
}

func NewHandler(users UserService, follows FollowService, cfg *config.Config, log *zap.Logger) *Handler {
	return &Handler{
		users:     users,
		follows:   follows,
		maxUpload: cfg.Media.MaxUploadBytes,
		log:       log.Named("user.http"),
	}
}

type registerRequest struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required"`
	Phone     string `json:"phone"`
	Username  string `json:"username" validate:"required"`
	Password  string `json:"password" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type updateProfileRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Bio      string `json:"bio"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string   `json:"token"`
	User  *Profile `json:"user"`
}

type followResponse struct {
	Following bool `json:"following"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	common.WriteError(w, r, h.log, err)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	user, err := h.users.Register(r.Context(), RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Username:  req.Username,
		Password:  req.Password,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusCreated, NewProfile(user))
}

// Login answers 401 for both unknown email and wrong password.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	user, token, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if common.IsKind(err, common.KindNotFound) || common.IsKind(err, common.KindAuth) {
			err = common.NewAuthError("invalid credentials")
		}
		h.fail(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, authResponse{Token: token, User: NewProfile(user)})
}

// Logout only acknowledges; tokens expire on their own.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	common.WriteJSON(w, http.StatusOK, messageResponse{Message: "logged out"})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetProfile(r.Context(), common.ViewerID(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, NewProfile(user))
}

func (h *Handler) MyStats(w http.ResponseWriter, r *http.Request) {
	h.writeStats(w, r, common.ViewerID(r.Context()))
}

func (h *Handler) UserStats(w http.ResponseWriter, r *http.Request) {
	id, err := common.PathID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeStats(w, r, id)
}

func (h *Handler) writeStats(w http.ResponseWriter, r *http.Request, userID uint64) {
	stats, err := h.users.GetStats(r.Context(), userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, stats)
}

// UpdateProfile takes JSON, or multipart when a profilePicture file is sent.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var in UpdateProfileInput

	if common.IsMultipart(r) {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
		if err := r.ParseMultipartForm(h.maxUpload); err != nil {
			h.fail(w, r, common.NewValidationError("invalid multipart form"))
			return
		}
		upload, closeUpload, err := common.FormUpload(r, "profilePicture")
		if err != nil {
			h.fail(w, r, err)
			return
		}
		defer closeUpload()

		in = UpdateProfileInput{
			Username:       r.FormValue("username"),
			Email:          r.FormValue("email"),
			Bio:            r.FormValue("bio"),
			Password:       r.FormValue("password"),
			ProfilePicture: upload,
		}
	} else {
		var req updateProfileRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			h.fail(w, r, err)
			return
		}
		in = UpdateProfileInput{Username: req.Username, Email: req.Email, Bio: req.Bio, Password: req.Password}
	}

	user, err := h.users.UpdateProfile(r.Context(), common.ViewerID(r.Context()), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, NewProfile(user))
}

func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := h.users.DeleteAccount(r.Context(), common.ViewerID(r.Context())); err != nil {
		h.fail(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, messageResponse{Message: "account deleted"})
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := common.PathID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	profile, err := h.users.GetPublicProfile(r.Context(), common.ViewerID(r.Context()), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, profile)
}

func (h *Handler) SearchUsers(w http.ResponseWriter, r *http.Request) {
	h.search(w, r, SearchByName)
}

// SearchContacts backs the message composer lookup.
func (h *Handler) SearchContacts(w http.ResponseWriter, r *http.Request) {
	h.search(w, r, SearchByContact)
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request, mode SearchMode) {
	users, err := h.users.SearchUsers(r.Context(), r.URL.Query().Get("query"), mode)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, users)
}

func (h *Handler) ToggleFollow(w http.ResponseWriter, r *http.Request) {
	id, err := common.PathID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	following, err := h.follows.ToggleFollow(r.Context(), common.ViewerID(r.Context()), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, followResponse{Following: following})
}

func (h *Handler) Followers(w http.ResponseWriter, r *http.Request) {
	id, err := common.PathID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	users, err := h.follows.ListFollowers(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, users)
}

func (h *Handler) Following(w http.ResponseWriter, r *http.Request) {
	id, err := common.PathID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	users, err := h.follows.ListFollowing(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, users)
}
