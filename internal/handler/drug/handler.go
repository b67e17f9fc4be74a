package drug

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/medinfo/medinfo-api/internal/engine"
	"github.com/medinfo/medinfo-api/internal/model"
	"github.com/medinfo/medinfo-api/internal/service/drug"
	apperrors "github.com/medinfo/medinfo-api/pkg/errors"
	"github.com/medinfo/medinfo-api/pkg/httputil"
)

// maxImageSize caps photo uploads at 10 MiB.
const maxImageSize = 10 << 20

type Handler struct {
	service drug.DrugService
}

func NewHandler(service drug.DrugService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	drugs := r.Group("/drugs")
	{
		drugs.POST("", h.CreateDrug)
		drugs.GET("", h.ListDrugs)
		drugs.POST("/search", h.Search)
		drugs.GET("/search/history", h.SearchHistory)
		drugs.GET("/symptoms", h.Symptoms)
		drugs.GET("/symptoms/:symptom", h.DrugsBySymptom)
		drugs.POST("/photo", h.IdentifyByPhoto)
	}
}

func (h *Handler) CreateDrug(c *gin.Context) {
	var req model.CreateDrugRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.InvalidInput(err.Error()))
		return
	}

	record, err := h.service.CreateDrug(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, httputil.Response{Success: true, Data: record})
}

func (h *Handler) ListDrugs(c *gin.Context) {
	query := c.Query("search")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	result, err := h.service.Browse(c.Request.Context(), h.sessionID(c), query, page)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	items := result.Items
	if items == nil {
		items = []*model.DrugRecord{}
	}
	httputil.RespondWithPagination(c, items, result.Number, engine.PageSize, result.Total, result.TotalPages)
}

func (h *Handler) Search(c *gin.Context) {
	var req model.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.InvalidInput("search query must not be blank"))
		return
	}

	record, err := h.service.Search(c.Request.Context(), h.sessionID(c), req.Query)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	// A miss is a valid empty result, not an error.
	httputil.RespondWithSuccess(c, record)
}

func (h *Handler) SearchHistory(c *gin.Context) {
	history := h.service.SearchHistory(h.sessionID(c))
	if history == nil {
		history = []string{}
	}
	httputil.RespondWithSuccess(c, history)
}

func (h *Handler) Symptoms(c *gin.Context) {
	vocab, err := h.service.Symptoms(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	if vocab == nil {
		vocab = []string{}
	}
	httputil.RespondWithSuccess(c, vocab)
}

func (h *Handler) DrugsBySymptom(c *gin.Context) {
	matches, err := h.service.FilterBySymptom(c.Request.Context(), c.Param("symptom"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	if matches == nil {
		matches = []*model.DrugRecord{}
	}
	httputil.RespondWithSuccess(c, matches)
}

func (h *Handler) IdentifyByPhoto(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		httputil.RespondWithError(c, apperrors.MissingFile())
		return
	}
	defer file.Close()

	image, err := io.ReadAll(io.LimitReader(file, maxImageSize))
	if err != nil {
		httputil.RespondWithError(c, apperrors.InvalidInput("failed to read uploaded file"))
		return
	}

	record, err := h.service.Identify(c.Request.Context(), image)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, record)
}

// sessionID scopes history and the pagination cursor to the authenticated
// user. Credentials were already checked by the auth middleware.
func (h *Handler) sessionID(c *gin.Context) string {
	return c.GetString("user_id")
}
