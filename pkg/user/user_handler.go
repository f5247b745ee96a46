package user

import (
	"encoding/json"
	"net/http"
)

type UserDTO struct {
	Uid         string      `json:"uid"`
	Email       string      `json:"email"`
	DisplayName string      `json:"displayName"`
	Settings    SettingsDTO `json:"settings"`
}

type SettingsDTO struct {
	Timezone           string `json:"timezone"`
	ReceiveWeekReport  bool   `json:"receiveWeekReport"`
	ReceiveMonthReport bool   `json:"receiveMonthReport"`
}

type Handler struct {
	userService Service
}

func NewHandler(userService Service) *Handler {
	return &Handler{
		userService: userService,
	}
}

// CurrentUser godoc
// @Summary Get current user
// @Description Returns the user identified by the X-User-Id header
// @Tags User
// @Produce json
// @Success 200 {object} UserDTO
// @Failure 403 {string} string "User not found"
// @Router /api/user/current [get]
func (h *Handler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	current, err := CurrentUser(r.Context())
	if err != nil {
		http.Error(w, "user not found", http.StatusForbidden)
		return
	}

	dto := UserDTO{
		Uid:         current.Uid,
		Email:       current.Email,
		DisplayName: current.DisplayName,
		Settings: SettingsDTO{
			Timezone:           current.Settings.Timezone,
			ReceiveWeekReport:  current.Settings.ReceiveWeekReport,
			ReceiveMonthReport: current.Settings.ReceiveMonthReport,
		},
	}
	if err := json.NewEncoder(w).Encode(dto); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
