package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/tracklog/tracklog/internal/rest"
	"github.com/tracklog/tracklog/pkg/user"
)

// The JSON layout below is a compatibility contract with existing clients:
// key names, nesting, and the project-order of the sums/totals objects must
// not change.

type ReportDTO struct {
	Projects       []ProjectDTO       `json:"projects"`
	Labels         []string           `json:"labels"`
	Sums           SumsDTO            `json:"sums"`
	Totals         TotalsDTO          `json:"totals"`
	ActivityGroups []ActivityGroupDTO `json:"activity_groups"`
}

type ProjectDTO struct {
	ID     int    `json:"id"`
	Color  string `json:"color"`
	Name   string `json:"name"`
	UserID int    `json:"user_id"`
}

type ActivityGroupDTO struct {
	Description string           `json:"description"`
	Duration    int64            `json:"duration"`
	Project     *GroupProjectDTO `json:"project"`
}

// GroupProjectDTO carries the display fields only; the grouped payload
// historically omits the project id.
type GroupProjectDTO struct {
	Color  string `json:"color"`
	Name   string `json:"name"`
	UserID int    `json:"user_id"`
}

type sumsEntry struct {
	projectId int
	seconds   []int64
}

// SumsDTO serializes as a JSON object keyed by project id, keys emitted in
// project-list order. encoding/json would randomize map key order, so the
// object is written by hand.
type SumsDTO []sumsEntry

func (s SumsDTO) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(strconv.Itoa(entry.projectId)))
		buf.WriteByte(':')
		values, err := json.Marshal(entry.seconds)
		if err != nil {
			return nil, err
		}
		buf.Write(values)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

type totalsEntry struct {
	projectId int
	seconds   int64
}

type TotalsDTO []totalsEntry

func (t TotalsDTO) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range t {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(strconv.Itoa(entry.projectId)))
		buf.WriteByte(':')
		buf.WriteString(strconv.FormatInt(entry.seconds, 10))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

type Handler struct {
	reportService Service
}

func NewHandler(reportService Service) *Handler {
	return &Handler{reportService: reportService}
}

// GetReport godoc
// @Summary Build a report over an explicit time range
// @Description Aggregates the current user's activities into per-bucket and per-project durations
// @Tags Report
// @Produce json
// @Param start query string true "Range start (RFC3339)"
// @Param end query string true "Range end (RFC3339, exclusive)"
// @Param period query string true "week or month"
// @Param time_zone query string false "IANA timezone, defaults to UTC"
// @Success 200 {object} ReportDTO
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/report [get]
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	userId, err := user.CurrentId(r.Context())
	if err != nil {
		http.Error(w, "user not found", http.StatusForbidden)
		return
	}

	start, err := time.Parse(time.RFC3339, r.URL.Query().Get("start"))
	if err != nil {
		writeBadRequest(w, "Invalid start format", "start must be in RFC3339 format")
		return
	}
	end, err := time.Parse(time.RFC3339, r.URL.Query().Get("end"))
	if err != nil {
		writeBadRequest(w, "Invalid end format", "end must be in RFC3339 format")
		return
	}
	period, err := ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		writeBadRequest(w, "Invalid period", "period must be \"week\" or \"month\"")
		return
	}
	timezone := r.URL.Query().Get("time_zone")

	report, err := h.reportService.BuildForRange(r.Context(), userId, start, end, period, timezone)
	if err != nil {
		if errors.Is(err, ErrInvalidReportInput) || errors.Is(err, ErrInvalidPeriod) {
			writeBadRequest(w, err.Error(), "")
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(toReportDTO(report)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeBadRequest(w http.ResponseWriter, message string, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
		Error:   message,
		Details: details,
	})
	if encodeErr != nil {
		http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
	}
}

func toReportDTO(report Report) ReportDTO {
	projects := make([]ProjectDTO, 0, len(report.Projects))
	for _, p := range report.Projects {
		projects = append(projects, ProjectDTO{
			ID:     p.ID,
			Color:  p.Color,
			Name:   p.Name,
			UserID: p.UserID,
		})
	}

	// Project-list order first, the "no project" key last when present.
	keys := make([]int, 0, len(report.Sums))
	for _, p := range report.Projects {
		keys = append(keys, p.ID)
	}
	if _, ok := report.Sums[NoProjectID]; ok {
		keys = append(keys, NoProjectID)
	}

	sums := make(SumsDTO, 0, len(keys))
	totals := make(TotalsDTO, 0, len(keys))
	for _, key := range keys {
		series := report.Sums[key]
		seconds := make([]int64, 0, len(series))
		for _, d := range series {
			seconds = append(seconds, int64(d.Seconds()))
		}
		sums = append(sums, sumsEntry{projectId: key, seconds: seconds})
		totals = append(totals, totalsEntry{projectId: key, seconds: int64(report.Totals[key].Seconds())})
	}

	groups := make([]ActivityGroupDTO, 0, len(report.ActivityGroups))
	for _, g := range report.ActivityGroups {
		dto := ActivityGroupDTO{
			Description: g.Description,
			Duration:    int64(g.Duration.Seconds()),
		}
		if g.Project != nil {
			dto.Project = &GroupProjectDTO{
				Color:  g.Project.Color,
				Name:   g.Project.Name,
				UserID: g.Project.UserID,
			}
		}
		groups = append(groups, dto)
	}

	return ReportDTO{
		Projects:       projects,
		Labels:         report.Labels,
		Sums:           sums,
		Totals:         totals,
		ActivityGroups: groups,
	}
}
