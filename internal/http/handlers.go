package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"masarif/internal/core"
	"masarif/internal/ledger"
)

type createEntryRequest struct {
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	Amount       float64 `json:"amount"`
	Currency     string  `json:"currency"`
	Frequency    string  `json:"frequency"`
	Date         string  `json:"date"`
	Notes        string  `json:"notes"`
	Notification string  `json:"notification"`
	ScheduleDate string  `json:"schedule_date"`
}

type createEntryResponse struct {
	Entry   core.Entry `json:"entry"`
	Durable bool       `json:"durable"`
	Warning string     `json:"warning,omitempty"`
}

type entriesResponse struct {
	Entries []core.Entry `json:"entries"`
}

// summaryResponse feeds the chart consumer: ordered labels with matching
// totals, rounded to whole units at this boundary only.
type summaryResponse struct {
	Labels     []string `json:"labels"`
	Totals     []int64  `json:"totals"`
	TotalDaily int64    `json:"total_daily"`
}

type profitResponse struct {
	NetProfitDaily     int64 `json:"net_profit_daily"`
	TotalDailyExpenses int64 `json:"total_daily_expenses"`
}

func (req createEntryRequest) toDraft() (core.Draft, error) {
	date, err := core.ParseDate(req.Date)
	if err != nil {
		return core.Draft{}, err
	}

	var schedule core.Date
	if req.ScheduleDate != "" {
		if schedule, err = core.ParseDate(req.ScheduleDate); err != nil {
			return core.Draft{}, err
		}
	}

	return core.Draft{
		Name:         sanitizeInput(req.Name),
		Category:     sanitizeInput(req.Category),
		Notes:        sanitizeInput(req.Notes),
		Amount:       req.Amount,
		Currency:     req.Currency,
		Frequency:    core.Frequency(req.Frequency),
		Date:         date,
		Notification: core.NotificationMode(req.Notification),
		ScheduleDate: schedule,
	}, nil
}

// decodeCreateRequest accepts either a JSON body or a form post.
func decodeCreateRequest(r *http.Request) (createEntryRequest, error) {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "application/x-www-form-urlencoded") || strings.HasPrefix(ct, "multipart/form-data") {
		if err := r.ParseForm(); err != nil {
			return createEntryRequest{}, err
		}
		req := createEntryRequest{
			Name:         r.FormValue("name"),
			Category:     r.FormValue("category"),
			Currency:     r.FormValue("currency"),
			Frequency:    r.FormValue("frequency"),
			Date:         r.FormValue("date"),
			Notes:        r.FormValue("notes"),
			Notification: r.FormValue("notification"),
			ScheduleDate: r.FormValue("schedule_date"),
		}
		if raw := strings.TrimSpace(r.FormValue("amount")); raw != "" {
			amount, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return createEntryRequest{}, err
			}
			req.Amount = amount
		}
		return req, nil
	}

	var req createEntryRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	return req, err
}

func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCreateRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	draft, err := req.toDraft()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	entry, err := s.entries.Create(r.Context(), draft)
	switch {
	case errors.Is(err, ledger.ErrPersistence):
		// The entry is live for this session but may not survive a restart.
		s.summaryCache.Delete(summaryCacheKey)
		writeJSON(w, http.StatusCreated, createEntryResponse{
			Entry:   entry,
			Durable: false,
			Warning: "entry saved in memory only; the latest change may not survive a restart",
		})
	case err != nil:
		slog.ErrorContext(r.Context(), "Entry creation rejected", "error", err)
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.summaryCache.Delete(summaryCacheKey)
		writeJSON(w, http.StatusCreated, createEntryResponse{Entry: entry, Durable: true})
	}
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid entry id")
		return
	}

	if err := s.entries.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ledger.ErrPersistence) {
			s.summaryCache.Delete(summaryCacheKey)
			writeError(w, http.StatusInternalServerError, "entry removed in memory only; the latest change may not survive a restart")
			return
		}
		slog.ErrorContext(r.Context(), "Delete failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "delete failed")
		return
	}

	s.summaryCache.Delete(summaryCacheKey)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	entries := s.entries.Entries()
	if entries == nil {
		entries = []core.Entry{}
	}
	writeJSON(w, http.StatusOK, entriesResponse{Entries: entries})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if cached, ok := s.summaryCache.Get(summaryCacheKey); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	entries := s.entries.Entries()
	totals := core.AggregateByCategory(entries)

	resp := summaryResponse{
		Labels:     make([]string, len(totals)),
		Totals:     make([]int64, len(totals)),
		TotalDaily: roundWhole(core.Total(entries)),
	}
	for i, ct := range totals {
		resp.Labels[i] = ct.Category
		resp.Totals[i] = roundWhole(ct.Total)
	}

	s.summaryCache.Set(summaryCacheKey, resp)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleProfit(w http.ResponseWriter, r *http.Request) {
	dailySales := parseFloatParam(r, "daily_sales")
	dailyProfit := parseFloatParam(r, "daily_profit")

	total := core.Total(s.entries.Entries())
	net := core.NetProfit(dailySales, dailyProfit, total)

	writeJSON(w, http.StatusOK, profitResponse{
		NetProfitDaily:     roundWhole(net),
		TotalDailyExpenses: roundWhole(total),
	})
}
