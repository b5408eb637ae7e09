package handler

import (
	"io"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/xenking/hotpot/internal/domain/order"
)

// PlaceOrder serves POST /api/orders.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	lines, err := decodeOrderRequest(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	o, err := h.orders.Checkout(ctx, lines)
	if err != nil {
		if status, msg, ok := mapOrderError(err); ok {
			writeError(w, status, msg)
			return
		}
		internalError(ctx, w, "Place order", err)
		return
	}

	link := order.WhatsAppLink(h.cfg.WhatsApp, order.Message(*o, h.cfg.ShopName))

	var e jx.Encoder
	encodeOrder(&e, *o, func(e *jx.Encoder) {
		e.FieldStart("whatsappLink")
		e.Str(link)
	})
	writeJSON(w, http.StatusCreated, &e)
}

// GetOrder serves GET /api/orders/{code}.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	o, found, err := h.lookup.FindByCode(ctx, r.PathValue("code"))
	if err != nil {
		internalError(ctx, w, "Find order", err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}

	var e jx.Encoder
	encodeOrder(&e, o, nil)
	writeJSON(w, http.StatusOK, &e)
}

// mapOrderError converts checkout errors to client-facing statuses. ok is
// false for errors that are not the caller's fault.
func mapOrderError(err error) (status int, msg string, ok bool) {
	if errors.Is(err, order.ErrEmptyCart) {
		return http.StatusBadRequest, err.Error(), true
	}

	var iqErr *order.InvalidQuantityError
	if errors.As(err, &iqErr) {
		return http.StatusUnprocessableEntity, iqErr.Error(), true
	}

	var nfErr *order.ItemNotFoundError
	if errors.As(err, &nfErr) {
		return http.StatusUnprocessableEntity, nfErr.Error(), true
	}

	if errors.Is(err, order.ErrCodeCollision) {
		return http.StatusServiceUnavailable, err.Error(), true
	}

	return 0, "", false
}

// decodeOrderRequest parses {"items":[{"id":1,"quantity":2}]}.
func decodeOrderRequest(data []byte) ([]order.LineRequest, error) {
	var lines []order.LineRequest
	err := jx.DecodeBytes(data).Obj(func(d *jx.Decoder, key string) error {
		if key != "items" {
			return d.Skip()
		}
		return d.Arr(func(d *jx.Decoder) error {
			var l order.LineRequest
			if err := d.Obj(func(d *jx.Decoder, key string) error {
				var err error
				switch key {
				case "id":
					l.ItemID, err = d.Int()
				case "quantity":
					l.Quantity, err = d.Int()
				default:
					err = d.Skip()
				}
				return err
			}); err != nil {
				return err
			}
			lines = append(lines, l)
			return nil
		})
	})
	if err != nil {
		return nil, errors.Wrap(err, "decode order request")
	}
	return lines, nil
}

func encodeOrder(e *jx.Encoder, o order.Order, extra func(e *jx.Encoder)) {
	e.ObjStart()
	e.FieldStart("code")
	e.Str(o.Code)
	e.FieldStart("items")
	e.ArrStart()
	for _, l := range o.Items {
		e.ObjStart()
		e.FieldStart("id")
		e.Int(l.ID)
		e.FieldStart("name")
		e.Str(l.Name)
		e.FieldStart("price")
		e.Str(l.Price)
		e.FieldStart("quantity")
		e.Int(l.Quantity)
		e.ObjEnd()
	}
	e.ArrEnd()
	e.FieldStart("total")
	e.Int64(o.Total)
	e.FieldStart("timestamp")
	e.Str(o.Timestamp)
	if extra != nil {
		extra(e)
	}
	e.ObjEnd()
}
