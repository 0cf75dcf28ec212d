package handlers

import (
	"strconv"

	"shelterfund/internal/models"
	"shelterfund/internal/services"
	"shelterfund/internal/utils"
	"shelterfund/pkg/logger"

	"github.com/gin-gonic/gin"
)

type ShelterHandler struct {
	shelterService services.ShelterService
	logger         *logger.Logger
}

func NewShelterHandler(shelterService services.ShelterService, logger *logger.Logger) *ShelterHandler {
	return &ShelterHandler{
		shelterService: shelterService,
		logger:         logger,
	}
}

func (h *ShelterHandler) ListCities(c *gin.Context) {
	cities, err := h.shelterService.ListCities(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.ListResponse(c, "Cities retrieved", cities, len(cities))
}

// ListShelters returns the shelters of ?city, up to ?limit.
func (h *ShelterHandler) ListShelters(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			utils.BadRequestResponse(c, "Invalid limit")
			return
		}
		limit = n
	}

	shelters, err := h.shelterService.ListShelters(c.Request.Context(), c.Query("city"), limit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.ListResponse(c, "Shelters retrieved", shelters, len(shelters))
}

func (h *ShelterHandler) GetShelter(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	shelter, err := h.shelterService.GetShelter(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, "Shelter retrieved", shelter)
}

func (h *ShelterHandler) ListAnimalTypes(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	types, err := h.shelterService.ListAnimalTypes(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.ListResponse(c, "Animal types retrieved", types, len(types))
}

// ListAnimals supports ?type, ?sort=name|age and ?search.
func (h *ShelterHandler) ListAnimals(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	animals, err := h.shelterService.ListAnimals(c.Request.Context(), &services.AnimalQuery{
		ShelterID: id,
		Type:      c.Query("type"),
		Sort:      models.AnimalSort(c.Query("sort")),
		Search:    c.Query("search"),
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.ListResponse(c, "Animals retrieved", animals, len(animals))
}

func (h *ShelterHandler) GetAnimal(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	animalID, ok := pathID(c, "id")
	if !ok {
		return
	}

	detail, err := h.shelterService.GetAnimalDetail(c.Request.Context(), userID, animalID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, "Animal retrieved", detail)
}
