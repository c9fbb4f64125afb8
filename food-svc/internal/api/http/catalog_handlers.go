package httpapi

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"foodhub/food-svc/internal/domain"
)

const maxUploadBytes = 10 << 20

// Staff callers can ask for hidden entries with ?includeInactive=true.
func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	includeInactive := principal(r).IsStaff() && queryBool(r, "includeInactive")
	categories, err := h.Catalog.ListCategories(r.Context(), includeInactive)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	lang := language(r)
	views := make([]domain.CategoryView, 0, len(categories))
	for i := range categories {
		views = append(views, categories[i].Localize(lang))
	}
	writeOK(w, http.StatusOK, "", envelope{"count": len(views), "categories": views})
}

func (h *Handler) getCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	c, err := h.Catalog.GetCategory(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "", envelope{"category": c.Localize(language(r))})
}

func (h *Handler) createCategory(w http.ResponseWriter, r *http.Request) {
	var c domain.Category
	if err := decodeJSON(w, r, &c); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.Catalog.CreateCategory(r.Context(), &c); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusCreated, "Category created", envelope{"category": c})
}

func (h *Handler) updateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var c domain.Category
	if err := decodeJSON(w, r, &c); err != nil {
		h.writeError(w, r, err)
		return
	}
	c.ID = id
	if err := h.Catalog.UpdateCategory(r.Context(), &c); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Category updated", envelope{"category": c})
}

func (h *Handler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.Catalog.DeleteCategory(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Category deleted", nil)
}

func (h *Handler) uploadCategoryImage(w http.ResponseWriter, r *http.Request) {
	h.uploadImage(w, r, h.Catalog.UploadCategoryImage)
}

func (h *Handler) listFoods(w http.ResponseWriter, r *http.Request) {
	page, err := pageFromQuery(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	filter := domain.ItemFilter{
		AvailableOnly: queryBool(r, "available"),
		IncludeHidden: principal(r).IsStaff() && queryBool(r, "includeInactive"),
		Search:        q.Get("search"),
		Page:          page,
	}
	if s := q.Get("category"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil || id <= 0 {
			h.writeError(w, r, domain.NewValidationError("category", "must be a positive integer"))
			return
		}
		filter.CategoryID = id
	}

	items, total, err := h.Catalog.ListItems(r.Context(), filter)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	lang := language(r)
	views := make([]domain.FoodItemView, 0, len(items))
	for i := range items {
		views = append(views, items[i].Localize(lang))
	}
	writeOK(w, http.StatusOK, "", listPayload("foods", views, len(views), total, page))
}

func (h *Handler) getFood(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	item, err := h.Catalog.GetItem(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "", envelope{"food": item.Localize(language(r))})
}

func (h *Handler) createFood(w http.ResponseWriter, r *http.Request) {
	var item domain.FoodItem
	if err := decodeJSON(w, r, &item); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.Catalog.CreateItem(r.Context(), &item); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusCreated, "Food item created", envelope{"food": item})
}

func (h *Handler) updateFood(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var item domain.FoodItem
	if err := decodeJSON(w, r, &item); err != nil {
		h.writeError(w, r, err)
		return
	}
	item.ID = id
	if err := h.Catalog.UpdateItem(r.Context(), &item); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Food item updated", envelope{"food": item})
}

func (h *Handler) deleteFood(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.Catalog.DeleteItem(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Food item deleted", nil)
}

func (h *Handler) uploadFoodImage(w http.ResponseWriter, r *http.Request) {
	h.uploadImage(w, r, h.Catalog.UploadItemImage)
}

func (h *Handler) lowStock(w http.ResponseWriter, r *http.Request) {
	items, err := h.Catalog.LowStock(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "", envelope{"count": len(items), "foods": items})
}

type uploadFunc func(ctx context.Context, id int64, filename, contentType string, r io.Reader) (string, error)

func (h *Handler) uploadImage(w http.ResponseWriter, r *http.Request, upload uploadFunc) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.writeError(w, r, domain.NewValidationError("image", "file too large or malformed upload"))
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		h.writeError(w, r, domain.NewValidationError("image", "is required"))
		return
	}
	defer file.Close()

	url, err := upload(r.Context(), id, header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Image uploaded", envelope{"image": url})
}
