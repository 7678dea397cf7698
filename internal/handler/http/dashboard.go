package http

import (
	"net/http"

	"github.com/schoolroll/attendance-backend-go/internal/domain/dashboard"
	"github.com/schoolroll/attendance-backend-go/internal/handler/http/response"
)

type DashboardHandler interface {
	// GetLiveDashboard returns the live attendance summary of the session's school
	GetLiveDashboard(w http.ResponseWriter, r *http.Request)
}

type dashboardHandlerImpl struct {
	dashboardService dashboard.DashboardService
}

func NewDashboardHandler(dashboardService dashboard.DashboardService) DashboardHandler {
	return &dashboardHandlerImpl{dashboardService: dashboardService}
}

// GetLiveDashboard handles GET /dashboard/live
func (h *dashboardHandlerImpl) GetLiveDashboard(w http.ResponseWriter, r *http.Request) {
	result, err := h.dashboardService.GetLiveDashboard(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")
	response.JSON(w, http.StatusOK, result)
}
