package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-faster/jx"

	"github.com/xenking/hotpot/internal/domain/price"
	"github.com/xenking/hotpot/internal/domain/shop"
)

// ShopStatus serves GET /api/shop/status.
func (h *Handler) ShopStatus(w http.ResponseWriter, _ *http.Request) {
	st := shop.StatusAt(h.cfg.Now())

	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("open")
	e.Bool(st.Open)
	e.FieldStart("message")
	e.Str(st.Message)
	e.ObjEnd()
	writeJSON(w, http.StatusOK, &e)
}

// DeliveryFee serves GET /api/shop/delivery-fee?total=&area=.
func (h *Handler) DeliveryFee(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	total, err := strconv.ParseInt(strings.TrimSpace(q.Get("total")), 10, 64)
	if err != nil || total < 0 {
		writeError(w, http.StatusBadRequest, "total must be a non-negative integer")
		return
	}
	area := q.Get("area")
	fee := h.cfg.Delivery.Fee(total, area)

	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("total")
	e.Int64(total)
	e.FieldStart("area")
	e.Str(area)
	e.FieldStart("fee")
	e.Int64(fee)
	e.FieldStart("display")
	e.Str(price.Format(fee))
	e.FieldStart("free")
	e.Bool(fee == 0)
	e.ObjEnd()
	writeJSON(w, http.StatusOK, &e)
}
