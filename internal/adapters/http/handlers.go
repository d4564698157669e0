package http

import (
	"encoding/json"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/samirrijal/mygeo/internal/core/domain"
)

// TapRequest is the body of POST /v1/map/tap.
type TapRequest struct {
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}

// ManualEntryRequest is the body of POST /v1/points. Coordinates may be sent
// as strings or numbers; both are validated as typed text.
type ManualEntryRequest struct {
	Name      string         `json:"name"`
	Latitude  coordinateText `json:"latitude"`
	Longitude coordinateText `json:"longitude"`
}

type coordinateText string

// UnmarshalJSON keeps the literal text of any non-string value so that
// validation, not decoding, rejects it.
func (t *coordinateText) UnmarshalJSON(b []byte) error {
	switch {
	case string(b) == "null":
		*t = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = coordinateText(s)
	default:
		*t = coordinateText(b)
	}
	return nil
}

// DraftNameRequest is the body of PUT /v1/draft.
type DraftNameRequest struct {
	Name string `json:"name"`
}

// MapHandler returns the current render model.
func MapHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		view, err := deps.Map.View(c.UserContext())
		if err != nil {
			return errInternal(c, err.Error())
		}
		return c.JSON(view)
	}
}

// LocationHandler returns the tracker state.
func LocationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(deps.Tracker.State())
	}
}

// StartTrackingHandler asks for location permission and starts the position stream.
func StartTrackingHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := deps.Tracker.Start(c.UserContext()); err != nil {
			return domainError(c, "start tracking", fiber.StatusServiceUnavailable, err)
		}
		return c.JSON(deps.Tracker.State())
	}
}

// StopTrackingHandler releases the position stream.
func StopTrackingHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		deps.Tracker.Stop()
		return c.JSON(deps.Tracker.State())
	}
}

// ListPointsHandler returns points of interest in insertion order.
func ListPointsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		points, err := deps.Points.List(c.UserContext())
		if err != nil {
			return errInternal(c, err.Error())
		}

		page, pg := paginate(c, points)
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: page, Pagination: pg})
	}
}

// NearbyPointsHandler returns points within a radius, closest first.
func NearbyPointsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lat, err := strconv.ParseFloat(c.Query("lat"), 64)
		if err != nil {
			return errBadRequest(c, "lat is required and must be a number")
		}
		lon, err := strconv.ParseFloat(c.Query("lon"), 64)
		if err != nil {
			return errBadRequest(c, "lon is required and must be a number")
		}
		radius := c.QueryFloat("radius", 500)
		limit := c.QueryInt("limit", 20)

		points, err := deps.Points.Nearby(c.UserContext(), domain.GeoPoint{Lat: lat, Lon: lon}, radius, limit)
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		return c.JSON(points)
	}
}

// CreatePointHandler saves a point from the manual coordinate entry form.
func CreatePointHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req ManualEntryRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		p, err := deps.Points.SubmitManual(c.UserContext(), domain.ManualEntry{
			Name:      req.Name,
			Latitude:  string(req.Latitude),
			Longitude: string(req.Longitude),
		})
		if err != nil {
			return domainError(c, "save manual point", fiber.StatusInternalServerError, err)
		}
		return c.Status(fiber.StatusCreated).JSON(p)
	}
}

// TapHandler opens (or retargets) the pending point at a tapped coordinate.
func TapHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req TapRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if req.Lat == nil || req.Lon == nil {
			return errBadRequest(c, "lat and lon are required")
		}
		draft, err := deps.Map.Tap(domain.GeoPoint{Lat: *req.Lat, Lon: *req.Lon})
		if err != nil {
			return domainError(c, "open draft", fiber.StatusInternalServerError, err)
		}
		return c.JSON(draft)
	}
}

// GetDraftHandler returns the pending point.
func GetDraftHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		draft := deps.Points.Draft()
		if draft == nil {
			return errNotFound(c, domain.ErrNoDraft.Error())
		}
		return c.JSON(draft)
	}
}

// UpdateDraftHandler sets the name typed into the prompt.
func UpdateDraftHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req DraftNameRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		draft, err := deps.Points.SetDraftName(req.Name)
		if err != nil {
			return domainError(c, "set draft name", fiber.StatusInternalServerError, err)
		}
		return c.JSON(draft)
	}
}

// CommitDraftHandler saves the pending point.
func CommitDraftHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := deps.Points.CommitDraft(c.UserContext())
		if err != nil {
			return domainError(c, "commit draft", fiber.StatusInternalServerError, err)
		}
		return c.Status(fiber.StatusCreated).JSON(p)
	}
}

// CancelDraftHandler discards the pending point.
func CancelDraftHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		deps.Points.CancelDraft()
		return c.SendStatus(fiber.StatusNoContent)
	}
}
