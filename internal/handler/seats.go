package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/train-seat-booking/internal/allocator"
	"github.com/iliyamo/train-seat-booking/internal/booking"
	"github.com/iliyamo/train-seat-booking/internal/queue"
	"github.com/iliyamo/train-seat-booking/internal/repository"
	queue_publisher "github.com/iliyamo/train-seat-booking/internal/service"
)

// BookingHandler serves the seat map and the book/reset operations.  The
// coordinator does all seat-state decisions; the handler only translates
// HTTP to core calls and errors to status codes.  JWT middleware has
// already run for the protected routes, so the user ID comes from the
// request context, never from ambient session state.
type BookingHandler struct {
	Coordinator *booking.Coordinator
	SeatRepo    *repository.SeatRepo
}

// NewBookingHandler constructs a BookingHandler.  Both dependencies must
// be non-nil.
func NewBookingHandler(coord *booking.Coordinator, seatRepo *repository.SeatRepo) *BookingHandler {
	if coord == nil || seatRepo == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{Coordinator: coord, SeatRepo: seatRepo}
}

type seatView struct {
	Number int  `json:"seat_number"`
	Row    int  `json:"row_number"`
	Booked bool `json:"booked"`
}

type bookReq struct {
	Seats int `json:"seats"`
}

// GetSeatMap handles GET /v1/seats.  It returns the full coach layout
// with per-seat availability.  The route sits behind the Redis response
// cache, so the JSON shape must stay stable across identical requests.
func (h *BookingHandler) GetSeatMap(c echo.Context) error {
	ctx := c.Request().Context()
	seats, err := h.SeatRepo.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load seats"})
	}
	views := make([]seatView, 0, len(seats))
	booked := 0
	for _, s := range seats {
		if s.Held() {
			booked++
		}
		views = append(views, seatView{Number: s.Number, Row: s.Row, Booked: s.Held()})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"seats":     views,
		"total":     len(views),
		"booked":    booked,
		"available": len(views) - booked,
	})
}

// Book handles POST /v1/seats/book.  The body carries the requested seat
// count; the seats themselves are chosen by the allocator.  Responses:
// 201 with the booking on success, 400 for an invalid count or when not
// enough seats are free anywhere, 409 when a concurrent booking took the
// selected seats first (the client may retry).
func (h *BookingHandler) Book(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req bookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx := c.Request().Context()
	b, err := h.Coordinator.Book(ctx, userID, req.Seats)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrInvalidRequest):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat count must be between 1 and a full row"})
		case errors.Is(err, allocator.ErrInfeasible):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "not enough seats available"})
		case errors.Is(err, booking.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "seats were just taken, please retry"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking failed"})
	}

	// Fire-and-forget event; a publish failure never fails the booking.
	go func(ev queue.BookingCreatedEvent) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := queue_publisher.PublishBookingCreated(ctx, ev); err != nil {
			log.Printf("booking event publish failed: %v", err)
		}
	}(queue.BookingCreatedEvent{
		BookingRef: b.Ref,
		UserID:     b.UserID,
		Seats:      b.Seats,
		SeatCount:  len(b.Seats),
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, echo.Map{
		"booking_ref": b.Ref,
		"seats":       b.Seats,
	})
}

// Reset handles POST /v1/seats/reset.  It releases every seat held by
// the caller and reports how many were freed.  Calling it with nothing
// held is a no-op returning zero.
func (h *BookingHandler) Reset(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()
	released, err := h.Coordinator.Reset(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reset failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"released": released,
	})
}

// MyBooking handles GET /v1/my-booking.  It lists the seats currently
// held by the caller together with their booking references.
func (h *BookingHandler) MyBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()
	seats, err := h.SeatRepo.ListByUser(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load seats"})
	}
	type heldSeat struct {
		Number     int    `json:"seat_number"`
		Row        int    `json:"row_number"`
		BookingRef string `json:"booking_ref"`
	}
	items := make([]heldSeat, 0, len(seats))
	for _, s := range seats {
		ref := ""
		if s.BookingRef != nil {
			ref = *s.BookingRef
		}
		items = append(items, heldSeat{Number: s.Number, Row: s.Row, BookingRef: ref})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items": items,
	})
}
