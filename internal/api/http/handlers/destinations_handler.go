package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/wanderlust-labs/destination-portal/internal/api/dto"
	"github.com/wanderlust-labs/destination-portal/internal/service"
	apperrors "github.com/wanderlust-labs/destination-portal/pkg/util/errorutil"
)

// DestinationsHandler serves the destination pages.
type DestinationsHandler struct {
	destinations *service.DestinationService
}

// NewDestinationsHandler constructs handler.
func NewDestinationsHandler(destinations *service.DestinationService) *DestinationsHandler {
	return &DestinationsHandler{destinations: destinations}
}

// Home handles GET / with an optional ?q= search.
func (h *DestinationsHandler) Home(c *fiber.Ctx) error {
	ctx := c.UserContext()
	query := c.Query("q")
	data := viewData{"title": "Destinations", "query": query}

	list, err := h.destinations.Search(ctx, query)
	if err != nil {
		return pageFailure(c, "home", data, err)
	}
	data["destinations"] = list

	if query == "" {
		top, err := h.destinations.Top(ctx)
		if err != nil {
			return pageFailure(c, "home", data, err)
		}
		data["top"] = top
	}
	return render(c, http.StatusOK, "home", data)
}

// Detail handles GET /destination/:id.
func (h *DestinationsHandler) Detail(c *fiber.Ctx) error {
	id, err := destinationID(c)
	if err != nil {
		return err
	}
	dest, err := h.destinations.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, "detail", viewData{"title": dest.Name, "destination": dest})
}

// NewForm handles GET /add-destination.
func (h *DestinationsHandler) NewForm(c *fiber.Ctx) error {
	return render(c, http.StatusOK, "destination_form", createData(dto.DestinationForm{}))
}

// Create handles POST /add-destination.
func (h *DestinationsHandler) Create(c *fiber.Ctx) error {
	var form dto.DestinationForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid form")
	}
	data := createData(form)

	input, err := form.Input()
	if err != nil {
		return formFailure(c, "destination_form", data, err)
	}
	if _, err := h.destinations.Create(c.UserContext(), input); err != nil {
		return formFailure(c, "destination_form", data, err)
	}
	return c.Redirect("/", http.StatusSeeOther)
}

// EditForm handles GET /destination/:id/edit.
func (h *DestinationsHandler) EditForm(c *fiber.Ctx) error {
	id, err := destinationID(c)
	if err != nil {
		return err
	}
	dest, err := h.destinations.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, "destination_form", editData(id, dto.FormFromDestination(*dest)))
}

// Update handles POST /destination/:id/edit.
func (h *DestinationsHandler) Update(c *fiber.Ctx) error {
	id, err := destinationID(c)
	if err != nil {
		return err
	}
	var form dto.DestinationForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid form")
	}
	data := editData(id, form)

	input, err := form.Input()
	if err != nil {
		return formFailure(c, "destination_form", data, err)
	}
	if _, err := h.destinations.Update(c.UserContext(), id, input); err != nil {
		return formFailure(c, "destination_form", data, err)
	}
	return c.Redirect(detailPath(id), http.StatusSeeOther)
}

// Delete handles POST /destination/:id/delete.
func (h *DestinationsHandler) Delete(c *fiber.Ctx) error {
	id, err := destinationID(c)
	if err != nil {
		return err
	}
	if err := h.destinations.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.Redirect("/", http.StatusSeeOther)
}

// pageFailure shows a network failure on the page that triggered it.
func pageFailure(c *fiber.Ctx, page string, data viewData, err error) error {
	if !apperrors.HasCode(err, apperrors.CodeNetwork) {
		return err
	}
	data["error"] = networkMessage
	return render(c, http.StatusBadGateway, page, data)
}

func createData(form dto.DestinationForm) viewData {
	return viewData{
		"title":  "Add destination",
		"action": "/add-destination",
		"form":   form,
	}
}

func editData(id int64, form dto.DestinationForm) viewData {
	return viewData{
		"title":   "Edit destination",
		"action":  detailPath(id) + "/edit",
		"editing": true,
		"form":    form,
	}
}

func detailPath(id int64) string {
	return fmt.Sprintf("/destination/%d", id)
}

func destinationID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewNotFound("destination", map[string]any{"id": c.Params("id")})
	}
	return id, nil
}
