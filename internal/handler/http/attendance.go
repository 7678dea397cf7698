package http

import (
	"log/slog"
	"net/http"

	"github.com/schoolroll/attendance-backend-go/internal/domain/attendance"
	"github.com/schoolroll/attendance-backend-go/internal/handler/http/response"
)

type AttendanceHandler interface {
	Export(w http.ResponseWriter, r *http.Request)
	ListSubstitutes(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// Export handles GET /attendance/export
func (h *attendanceHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	file, err := h.attendanceService.ExportCSV(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("Attendance export downloaded", "filename", file.Filename, "bytes", len(file.Content))
	response.Attachment(w, "text/csv; charset=utf-8", file.Filename, file.Content)
}

// ListSubstitutes handles GET /substitutes
func (h *attendanceHandlerImpl) ListSubstitutes(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.ListSubstitutes(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
