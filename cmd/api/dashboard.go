package main

import (
	"net/http"
	"strconv"

	"github.com/go-gota/gota/dataframe"

	"github.com/haldies/olist-dashboard/internal/dashboard"
	"github.com/haldies/olist-dashboard/internal/dataset"
)

const (
	topStatesLimit    = 10
	categoryListLimit = 5

	maxOrderLimit = 1000
)

func selectionFromRequest(r *http.Request) dashboard.Selection {
	sel := dashboard.DefaultSelection()
	q := r.URL.Query()
	if v := q.Get("year"); v != "" {
		sel.Year = v
	}
	if v := q.Get("category"); v != "" {
		sel.Category = v
	}
	if v := q.Get("state"); v != "" {
		sel.State = v
	}
	if v := q.Get("status"); v != "" {
		sel.Status = v
	}
	return sel
}

// filteredFrame resolves the memoized table and applies the request's filter
// tuple. Data-source exhaustion becomes the empty dashboard state: a 503 the
// UI presents as "no data available".
func (app *application) filteredFrame(w http.ResponseWriter, r *http.Request) (dataframe.DataFrame, bool) {
	res, err := app.cache.Get()
	if err != nil {
		writeJSONError(w, http.StatusServiceUnavailable, "no data available")
		return dataframe.DataFrame{}, false
	}
	return dashboard.Apply(res.Frame, selectionFromRequest(r)), true
}

func (app *application) handleGetOptions(w http.ResponseWriter, r *http.Request) {
	res, err := app.cache.Get()
	if err != nil {
		writeJSONError(w, http.StatusServiceUnavailable, "no data available")
		return
	}

	// Selector domains always come from the unfiltered table.
	if err := writeJSON(w, http.StatusOK, dashboard.SelectorOptions(res.Frame)); err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
	}
}

func (app *application) handleGetKPIs(w http.ResponseWriter, r *http.Request) {
	df, ok := app.filteredFrame(w, r)
	if !ok {
		return
	}

	if err := writeJSON(w, http.StatusOK, dashboard.ComputeKPIs(df)); err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
	}
}

func (app *application) handleGetOrders(w http.ResponseWriter, r *http.Request) {
	df, ok := app.filteredFrame(w, r)
	if !ok {
		return
	}

	limit := app.config.orderLimit
	if limit < 1 {
		limit = 100
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			writeJSONError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}
	if limit > maxOrderLimit {
		limit = maxOrderLimit
	}

	if err := writeJSON(w, http.StatusOK, dataset.OrderLines(df, limit)); err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
	}
}

func (app *application) handleGetMonthlySales(w http.ResponseWriter, r *http.Request) {
	df, ok := app.filteredFrame(w, r)
	if !ok {
		return
	}

	if err := writeJSON(w, http.StatusOK, dashboard.MonthlySales(df)); err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
	}
}

func (app *application) handleGetTopStates(w http.ResponseWriter, r *http.Request) {
	df, ok := app.filteredFrame(w, r)
	if !ok {
		return
	}

	if err := writeJSON(w, http.StatusOK, dashboard.TopStates(df, topStatesLimit)); err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
	}
}

func (app *application) handleGetCategoryRatings(w http.ResponseWriter, r *http.Request) {
	df, ok := app.filteredFrame(w, r)
	if !ok {
		return
	}

	top, bottom := dashboard.CategoryRatings(df, categoryListLimit)
	data := map[string]any{
		"top_rated":    top,
		"bottom_rated": bottom,
	}

	if err := writeJSON(w, http.StatusOK, data); err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
	}
}

func (app *application) handleGetCategorySales(w http.ResponseWriter, r *http.Request) {
	df, ok := app.filteredFrame(w, r)
	if !ok {
		return
	}

	if err := writeJSON(w, http.StatusOK, dashboard.SalesByCategory(df, categoryListLimit)); err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
	}
}

func (app *application) handleGetRFM(w http.ResponseWriter, r *http.Request) {
	df, ok := app.filteredFrame(w, r)
	if !ok {
		return
	}

	policy, err := dashboard.ParseRecencyPolicy(r.URL.Query().Get("recency_policy"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	records, err := dashboard.ComputeRFM(df, policy)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, records); err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
	}
}

func (app *application) handleGetSegments(w http.ResponseWriter, r *http.Request) {
	df, ok := app.filteredFrame(w, r)
	if !ok {
		return
	}

	policy, err := dashboard.ParseRecencyPolicy(r.URL.Query().Get("recency_policy"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	records, err := dashboard.ComputeRFM(df, policy)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	counts := dashboard.SegmentCounts(records)
	data := map[string]any{
		"counts":        counts,
		"display_order": dashboard.SegmentCountsForDisplay(counts),
	}

	if err := writeJSON(w, http.StatusOK, data); err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
	}
}

func (app *application) handleGetStats(w http.ResponseWriter, r *http.Request) {
	res, err := app.cache.Get()
	if err != nil {
		writeJSONError(w, http.StatusServiceUnavailable, "no data available")
		return
	}

	data := map[string]any{
		"rows":      res.Frame.Nrow(),
		"source":    res.Source,
		"loaded_at": res.LoadedAt,
	}

	if err := writeJSON(w, http.StatusOK, data); err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
	}
}
