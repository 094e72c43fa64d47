package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"simple-crud/logging"
	"simple-crud/models"
	"simple-crud/store"
)

const msgItemNotFound = "Item not found"

// ItemController serves /items and /items/{id}.
type ItemController struct {
	store  store.ItemStore
	logger *logging.Logger
}

func NewItemController(s store.ItemStore, logger *logging.Logger) *ItemController {
	return &ItemController{store: s, logger: logger}
}

func (c *ItemController) GetAllItems(w http.ResponseWriter, r *http.Request) {
	items, err := c.store.List(r.Context())
	if err != nil {
		c.internalError(w, "listing items", err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (c *ItemController) GetItem(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(r)
	if !ok {
		writeError(w, http.StatusNotFound, msgItemNotFound)
		return
	}

	item, err := c.store.Get(r.Context(), id)
	if err != nil {
		c.storeError(w, "getting item", err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (c *ItemController) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req models.ItemRequest
	if !decodeBody(w, r, &req) {
		return
	}

	item, err := c.store.Create(r.Context(), req.Name)
	if err != nil {
		c.internalError(w, "creating item", err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/items/%d", item.ID))
	writeJSON(w, http.StatusCreated, item)
}

func (c *ItemController) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(r)
	if !ok {
		writeError(w, http.StatusNotFound, msgItemNotFound)
		return
	}

	var req models.ItemRequest
	if !decodeBody(w, r, &req) {
		return
	}

	item, err := c.store.Update(r.Context(), id, req.Name)
	if err != nil {
		c.storeError(w, "updating item", err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (c *ItemController) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(r)
	if !ok {
		writeError(w, http.StatusNotFound, msgItemNotFound)
		return
	}

	if err := c.store.Delete(r.Context(), id); err != nil {
		c.storeError(w, "deleting item", err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// itemID parses the {id} path variable. A non-numeric id names no item.
func itemID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id, err == nil
}

func (c *ItemController) storeError(w http.ResponseWriter, action string, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, msgItemNotFound)
		return
	}
	c.internalError(w, action, err)
}

func (c *ItemController) internalError(w http.ResponseWriter, action string, err error) {
	c.logger.Error("store operation failed", "action", action, "error", err)
	writeError(w, http.StatusInternalServerError, "Internal server error")
}
