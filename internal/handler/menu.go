package handler

import (
	"net/http"
	"strings"

	"github.com/go-faster/jx"

	"github.com/xenking/hotpot/internal/domain/menu"
	"github.com/xenking/hotpot/internal/domain/price"
)

// ListMenu serves GET /api/menu with an optional ?category= filter.
func (h *Handler) ListMenu(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		items []menu.Item
		err   error
	)
	if q := strings.TrimSpace(r.URL.Query().Get("category")); q != "" {
		category, ok := parseCategory(q)
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown category "+q)
			return
		}
		items, err = h.menu.ListByCategory(ctx, category)
	} else {
		items, err = h.menu.List(ctx)
	}
	if err != nil {
		internalError(ctx, w, "List menu", err)
		return
	}

	var e jx.Encoder
	e.ArrStart()
	for _, item := range items {
		encodeItem(&e, item)
	}
	e.ArrEnd()
	writeJSON(w, http.StatusOK, &e)
}

func parseCategory(s string) (menu.Category, bool) {
	for _, c := range menu.Categories {
		if strings.EqualFold(string(c), s) {
			return c, true
		}
	}
	return "", false
}

func encodeItem(e *jx.Encoder, item menu.Item) {
	e.ObjStart()
	e.FieldStart("id")
	e.Int(item.ID)
	e.FieldStart("name")
	e.Str(item.Name)
	e.FieldStart("category")
	e.Str(string(item.Category))
	e.FieldStart("description")
	e.Str(item.Description)
	e.FieldStart("price")
	e.Str(item.Price)
	e.FieldStart("amount")
	e.Int64(price.Parse(item.Price))
	e.FieldStart("image")
	e.Str(item.Image)
	e.FieldStart("popular")
	e.Bool(item.Popular)
	e.FieldStart("spicy")
	e.Bool(item.Spicy)
	e.FieldStart("vegetarian")
	e.Bool(item.Vegetarian)
	e.ObjEnd()
}
