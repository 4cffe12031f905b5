package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/csemotors/dealership/internal/api/metrics"
	"github.com/csemotors/dealership/internal/api/view"
	"github.com/csemotors/dealership/internal/core/domain"
	"github.com/csemotors/dealership/internal/core/ports"
)

const (
	inventoryHome = "/inv/"

	noticeClassificationAdded  = "Your classification '%s' has been added to the system."
	noticeClassificationFailed = "The classification '%s' could not be added. Please try again later."
	noticeVehicleAdded         = "The %s %s %s %s has been added successfully to inventory system."
	noticeVehicleAddFailed     = "The %s %s %s %s could not be added due to a database error. Please try again later."
	noticeVehicleUpdated       = "The %s %s was successfully updated."
	noticeVehicleDeleted       = "The %s %s was successfully deleted."
	noticeDeleteFailed         = "Sorry, the deletion failed."

	msgClassificationExists = "Classification already exists. Please enter a different classification name."
)

type InventoryHandler struct {
	*Pages
	inventory ports.InventoryService
	comments  ports.CommentService
	log       zerolog.Logger
}

func NewInventoryHandler(pages *Pages, inventory ports.InventoryService, comments ports.CommentService, log zerolog.Logger) *InventoryHandler {
	return &InventoryHandler{Pages: pages, inventory: inventory, comments: comments, log: log}
}

// ByClassification lists the vehicles of one classification. An empty or
// unknown classification still renders with status 200; the template shows
// the "no matching vehicles" notice.
func (h *InventoryHandler) ByClassification(c echo.Context) error {
	id, err := paramID(c, "classificationId")
	if err != nil {
		return err
	}
	vehicles, err := h.inventory.VehiclesByClassification(c.Request().Context(), id)
	if err != nil {
		return err
	}

	page := h.Page(c, "Vehicles")
	if len(vehicles) > 0 {
		page.Title = vehicles[0].ClassificationName + " vehicles"
	} else {
		for _, cl := range page.Nav {
			if cl.ID == id {
				page.Title = cl.Name + " vehicles"
			}
		}
	}
	page.Data = vehicles
	return h.Render(c, http.StatusOK, "inventory/classification", page)
}

func (h *InventoryHandler) Detail(c echo.Context) error {
	id, err := paramID(c, "invId")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	v, err := h.inventory.Vehicle(ctx, id)
	if err != nil {
		return err
	}
	comments, err := h.comments.ForVehicle(ctx, id)
	if err != nil {
		return err
	}

	page := h.Page(c, fmt.Sprintf("%s %s %s", v.Year, v.Make, v.Model))
	page.Data = view.VehicleDetail{Vehicle: v, Comments: comments}
	return h.Render(c, http.StatusOK, "inventory/detail", page)
}

// InventoryJSON returns the vehicles of a classification.
//
// @Summary      List vehicles by classification
// @Description  Feeds the inventory management table.
// @Tags         inventory
// @Produce      json
// @Param        classificationId  path      int  true  "Classification ID"
// @Success      200  {array}   domain.Vehicle
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /inv/getInventory/{classificationId} [get]
func (h *InventoryHandler) InventoryJSON(c echo.Context) error {
	id, err := paramID(c, "classificationId")
	if err != nil {
		return err
	}
	vehicles, err := h.inventory.VehiclesByClassification(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if len(vehicles) == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "No data returned"})
	}
	return c.JSON(http.StatusOK, vehicles)
}

func (h *InventoryHandler) Management(c echo.Context) error {
	page := h.Page(c, "Vehicle Management")
	page.Data = view.ClassificationSelect{Options: page.Nav}
	return h.Render(c, http.StatusOK, "inventory/management", page)
}

func (h *InventoryHandler) AddClassificationPage(c echo.Context) error {
	return h.Render(c, http.StatusOK, "inventory/add-classification", h.Page(c, "Add New Classification"))
}

func (h *InventoryHandler) AddClassification(c echo.Context) error {
	var form classificationForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	form.Name = strings.TrimSpace(form.Name)

	renderForm := func(code int, errs ValidationErrors, notices ...string) error {
		page := h.Page(c, "Add New Classification")
		page.Form = form
		page.Errors = errs
		page.Notices = append(page.Notices, notices...)
		return h.Render(c, code, "inventory/add-classification", page)
	}

	if err := c.Validate(&form); err != nil {
		ve, ok := formErrors(err)
		if !ok {
			return err
		}
		return renderForm(http.StatusBadRequest, ve)
	}

	cl, err := h.inventory.AddClassification(c.Request().Context(), form.Name)
	if err != nil {
		if errors.Is(err, domain.ErrClassificationExists) {
			return renderForm(http.StatusBadRequest, ValidationErrors{"classification_name": msgClassificationExists})
		}
		h.log.Error().Err(err).Str("classification", form.Name).Msg("add classification failed")
		return renderForm(http.StatusInternalServerError, nil, fmt.Sprintf(noticeClassificationFailed, form.Name))
	}

	metrics.InventoryChangesTotal.WithLabelValues("add_classification").Inc()
	page := h.Page(c, "Vehicle Management")
	page.Data = view.ClassificationSelect{Options: page.Nav}
	page.Notices = append(page.Notices, fmt.Sprintf(noticeClassificationAdded, cl.Name))
	return h.Render(c, http.StatusCreated, "inventory/management", page)
}

func (h *InventoryHandler) AddVehiclePage(c echo.Context) error {
	page := h.Page(c, "Add New Inventory")
	page.Data = view.VehicleForm{Select: view.ClassificationSelect{Options: page.Nav}, Form: vehicleForm{}}
	return h.Render(c, http.StatusOK, "inventory/add-inventory", page)
}

func (h *InventoryHandler) AddVehicle(c echo.Context) error {
	var form vehicleForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	form.trim()
	form.ID = 0

	renderForm := func(code int, errs ValidationErrors, notices ...string) error {
		page := h.Page(c, "Add New Inventory")
		page.Data = view.VehicleForm{
			Select: view.ClassificationSelect{Options: page.Nav, Selected: form.classificationID()},
			Form:   form,
		}
		page.Errors = errs
		page.Notices = append(page.Notices, notices...)
		return h.Render(c, code, "inventory/add-inventory", page)
	}

	if err := c.Validate(&form); err != nil {
		ve, ok := formErrors(err)
		if !ok {
			return err
		}
		return renderForm(http.StatusBadRequest, ve)
	}
	v, err := form.vehicle()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if _, err := h.inventory.AddVehicle(c.Request().Context(), v); err != nil {
		h.log.Error().Err(err).Str("make", v.Make).Str("model", v.Model).Msg("add vehicle failed")
		return renderForm(http.StatusInternalServerError, nil,
			fmt.Sprintf(noticeVehicleAddFailed, v.Color, v.Year, v.Make, v.Model))
	}

	metrics.InventoryChangesTotal.WithLabelValues("add_vehicle").Inc()
	page := h.Page(c, "Vehicle Management")
	page.Data = view.ClassificationSelect{Options: page.Nav, Selected: v.ClassificationID}
	page.Notices = append(page.Notices, fmt.Sprintf(noticeVehicleAdded, v.Color, v.Year, v.Make, v.Model))
	return h.Render(c, http.StatusCreated, "inventory/management", page)
}

func (h *InventoryHandler) EditPage(c echo.Context) error {
	id, err := paramID(c, "invId")
	if err != nil {
		return err
	}
	v, err := h.inventory.Vehicle(c.Request().Context(), id)
	if err != nil {
		return err
	}
	page := h.Page(c, fmt.Sprintf("Edit %s %s", v.Make, v.Model))
	page.Data = view.VehicleForm{
		Select: view.ClassificationSelect{Options: page.Nav, Selected: v.ClassificationID},
		Form:   newVehicleForm(*v),
	}
	return h.Render(c, http.StatusOK, "inventory/edit-inventory", page)
}

func (h *InventoryHandler) Update(c echo.Context) error {
	var form vehicleForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	form.trim()
	if form.ID <= 0 {
		return echo.ErrNotFound
	}

	renderForm := func(code int, errs ValidationErrors, notices ...string) error {
		page := h.Page(c, fmt.Sprintf("Edit %s %s", form.Make, form.Model))
		page.Data = view.VehicleForm{
			Select: view.ClassificationSelect{Options: page.Nav, Selected: form.classificationID()},
			Form:   form,
		}
		page.Errors = errs
		page.Notices = append(page.Notices, notices...)
		return h.Render(c, code, "inventory/edit-inventory", page)
	}

	if err := c.Validate(&form); err != nil {
		ve, ok := formErrors(err)
		if !ok {
			return err
		}
		return renderForm(http.StatusBadRequest, ve)
	}
	v, err := form.vehicle()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	updated, err := h.inventory.UpdateVehicle(c.Request().Context(), v)
	if err != nil {
		if errors.Is(err, domain.ErrVehicleNotFound) {
			return err
		}
		h.log.Error().Err(err).Int64("inv_id", v.ID).Msg("update vehicle failed")
		return renderForm(http.StatusInternalServerError, nil, noticeUpdateFailed)
	}

	metrics.InventoryChangesTotal.WithLabelValues("update_vehicle").Inc()
	h.Flash(c, fmt.Sprintf(noticeVehicleUpdated, updated.Make, updated.Model))
	return c.Redirect(http.StatusSeeOther, inventoryHome)
}

func (h *InventoryHandler) DeletePage(c echo.Context) error {
	id, err := paramID(c, "invId")
	if err != nil {
		return err
	}
	v, err := h.inventory.Vehicle(c.Request().Context(), id)
	if err != nil {
		return err
	}
	page := h.Page(c, fmt.Sprintf("Delete %s %s", v.Make, v.Model))
	page.Data = v
	return h.Render(c, http.StatusOK, "inventory/delete-confirm", page)
}

func (h *InventoryHandler) Delete(c echo.Context) error {
	var form struct {
		ID int64 `form:"inv_id"`
	}
	if err := c.Bind(&form); err != nil || form.ID <= 0 {
		return echo.ErrNotFound
	}

	ctx := c.Request().Context()
	v, err := h.inventory.Vehicle(ctx, form.ID)
	if err != nil {
		return err
	}
	if err := h.inventory.DeleteVehicle(ctx, form.ID); err != nil {
		if errors.Is(err, domain.ErrVehicleNotFound) {
			return err
		}
		h.log.Error().Err(err).Int64("inv_id", form.ID).Msg("delete vehicle failed")
		h.Flash(c, noticeDeleteFailed)
		return c.Redirect(http.StatusSeeOther, fmt.Sprintf("/inv/delete/%d", form.ID))
	}

	metrics.InventoryChangesTotal.WithLabelValues("delete_vehicle").Inc()
	h.Flash(c, fmt.Sprintf(noticeVehicleDeleted, v.Make, v.Model))
	return c.Redirect(http.StatusSeeOther, inventoryHome)
}
