package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/lincup/internal/application"
	"github.com/oksasatya/lincup/internal/domain/catalog"
	"github.com/oksasatya/lincup/internal/domain/entity"
	"github.com/oksasatya/lincup/pkg/response"
	"github.com/oksasatya/lincup/pkg/validation"
)

type CourseHandler struct {
	Svc    *application.CatalogService
	Logger *logrus.Logger
}

func NewCourseHandler(svc *application.CatalogService, logger *logrus.Logger) *CourseHandler {
	return &CourseHandler{Svc: svc, Logger: logger}
}

type reviewRequest struct {
	Professor             string `json:"professor" binding:"required"`
	CourseLoad            string `json:"courseLoad" binding:"required,courseload"`
	HasExam               bool   `json:"hasExam"`
	IsAttendanceMandatory bool   `json:"isAttendanceMandatory"`
	Rating                int    `json:"rating" binding:"required,rating"`
	Experience            string `json:"experience"`
}

func (r reviewRequest) input() application.ReviewInput {
	return application.ReviewInput{
		Professor:             r.Professor,
		CourseLoad:            entity.CourseLoad(r.CourseLoad),
		HasExam:               r.HasExam,
		IsAttendanceMandatory: r.IsAttendanceMandatory,
		Rating:                r.Rating,
		Experience:            r.Experience,
	}
}

type createCourseRequest struct {
	Name   string        `json:"name" binding:"required"`
	Code   string        `json:"code" binding:"required"`
	Review reviewRequest `json:"review"`
}

type courseView struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Code        string          `json:"code"`
	MeanRating  float64         `json:"meanRating"`
	MeanDisplay string          `json:"meanDisplay"`
	Quote       string          `json:"quote"`
	Tier        catalog.Tier    `json:"tier"`
	ReviewCount int             `json:"reviewCount"`
	Reviews     []entity.Review `json:"reviews"`
	CreatedAt   time.Time       `json:"createdAt"`
}

func toCourseView(s catalog.Summary) courseView {
	reviews := s.Course.Reviews
	if reviews == nil {
		reviews = []entity.Review{}
	}
	return courseView{
		ID:          s.Course.ID,
		Name:        s.Course.Name,
		Code:        s.Course.Code,
		MeanRating:  s.Mean,
		MeanDisplay: s.MeanDisplay,
		Quote:       s.Quote,
		Tier:        s.Tier,
		ReviewCount: s.ReviewCount,
		Reviews:     reviews,
		CreatedAt:   s.Course.CreatedAt,
	}
}

// List serves the catalog sorted by code. Query: filter=all|easy|hard, search=<term>.
func (h *CourseHandler) List(c *gin.Context) {
	filter := c.DefaultQuery("filter", string(catalog.FilterAll))
	search := c.Query("search")
	sums, err := h.Svc.ListCourses(c.Request.Context(), filter, search)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	out := make([]courseView, 0, len(sums))
	for _, s := range sums {
		out = append(out, toCourseView(s))
	}
	response.Success(c, http.StatusOK, out, "courses", map[string]any{
		"count":  len(out),
		"filter": filter,
		"search": search,
	})
}

func (h *CourseHandler) Get(c *gin.Context) {
	sum, err := h.Svc.GetCourse(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toCourseView(sum), "course", nil)
}

func (h *CourseHandler) Suggest(c *gin.Context) {
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Svc.SuggestCourses(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, hits, "suggestions", map[string]any{"count": len(hits)})
}

func (h *CourseHandler) Create(c *gin.Context) {
	var req createCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	sum, err := h.Svc.AddCourse(c.Request.Context(), application.NewCourseInput{
		Name:        req.Name,
		Code:        req.Code,
		FirstReview: req.Review.input(),
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, toCourseView(sum), "course added", nil)
}

func (h *CourseHandler) AddReview(c *gin.Context) {
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	sum, err := h.Svc.AddReview(c.Request.Context(), c.Param("id"), req.input())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, toCourseView(sum), "review added", nil)
}

func (h *CourseHandler) Export(c *gin.Context) {
	url, err := h.Svc.ExportCatalog(c.Request.Context())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, map[string]any{"url": url}, "catalog exported", nil)
}
