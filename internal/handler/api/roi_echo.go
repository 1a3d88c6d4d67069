package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"CollegeROI/internal/domain/models"
	"CollegeROI/internal/service/metrics"
	"CollegeROI/internal/usecase"
	xhttp "CollegeROI/pkg/http"
	xlogger "CollegeROI/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ROIEchoHandler serves the ROI endpoints.
type ROIEchoHandler struct {
	logger *xlogger.Logger
	calc   *usecase.ROICalculator
}

func NewROIEchoHandler(logger *xlogger.Logger, calc *usecase.ROICalculator) *ROIEchoHandler {
	metrics.Register()
	if logger == nil {
		logger = xlogger.NewNop()
	}
	return &ROIEchoHandler{logger: logger, calc: calc}
}

func (h *ROIEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/predict_roi", h.PredictROI)
	e.POST("/compare_roi", h.CompareROI)
	e.POST("/get_roi_analysis", h.GetROIAnalysis)
	e.GET("/get_universities", h.GetUniversities)
	e.GET("/health", h.Health)
	e.GET("/ready", h.Ready)
}

func (h *ROIEchoHandler) PredictROI(c echo.Context) error {
	const endpoint = "predict_roi"
	defer metrics.ObserveSince(endpoint, time.Now())

	req := &models.PredictROIRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return h.badRequest(c, endpoint, verr)
	}

	res, err := h.calc.Compute(c.Request().Context(), req.Profile())
	if err != nil {
		return h.fail(c, endpoint, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *ROIEchoHandler) CompareROI(c echo.Context) error {
	const endpoint = "compare_roi"
	defer metrics.ObserveSince(endpoint, time.Now())

	req := &models.CompareROIRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return h.badRequest(c, endpoint, verr)
	}

	res, err := h.calc.Compare(c.Request().Context(), req.A.Profile(), req.B.Profile())
	if err != nil {
		return h.fail(c, endpoint, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *ROIEchoHandler) GetROIAnalysis(c echo.Context) error {
	const endpoint = "get_roi_analysis"
	defer metrics.ObserveSince(endpoint, time.Now())

	req := &models.AnalysisRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return h.badRequest(c, endpoint, verr)
	}

	res, err := h.calc.Analyze(c.Request().Context(), req.Profile(), req.Result())
	if err != nil {
		return h.fail(c, endpoint, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *ROIEchoHandler) GetUniversities(c echo.Context) error {
	const endpoint = "get_universities"
	defer metrics.ObserveSince(endpoint, time.Now())

	req := &models.UniversitiesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return h.badRequest(c, endpoint, verr)
	}

	names, total, err := h.calc.Universities(req.Query, req.Limit)
	if err != nil {
		return h.fail(c, endpoint, err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "public, max-age=300")
	return xhttp.SuccessResponse(c, models.UniversitiesResponse{Universities: names, Total: total})
}

func (h *ROIEchoHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, models.StatusResponse{Status: "healthy"})
}

func (h *ROIEchoHandler) Ready(c echo.Context) error {
	if err := h.calc.Ready(); err != nil {
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	return xhttp.SuccessResponse(c, models.StatusResponse{Status: "ready"})
}

func (h *ROIEchoHandler) badRequest(c echo.Context, endpoint string, verr []xhttp.ValidationError) error {
	metrics.EndpointErrors.WithLabelValues(endpoint, strconv.Itoa(http.StatusBadRequest)).Inc()
	return xhttp.BadRequestResponse(c, verr)
}

func (h *ROIEchoHandler) fail(c echo.Context, endpoint string, err error) error {
	appErr := toAppError(err)
	metrics.EndpointErrors.WithLabelValues(endpoint, strconv.Itoa(appErr.Status)).Inc()

	if appErr.Status >= http.StatusInternalServerError {
		h.logger.Error(endpoint+" failed",
			xlogger.String("kind", models.KindOf(err).String()),
			xlogger.Error(err),
		)
	}
	return xhttp.AppErrorResponse(c, appErr)
}

// toAppError maps a domain error kind to its HTTP status.
func toAppError(err error) *xhttp.AppError {
	switch models.KindOf(err) {
	case models.KindUnavailable:
		return xhttp.ServiceUnavailableError("Models not loaded").WithError(err)
	case models.KindPrediction:
		return xhttp.InternalError(err.Error()).WithError(err)
	case models.KindNarrative:
		return xhttp.BadGatewayError("Analysis error: " + errCause(err)).WithError(err)
	case models.KindInvalidInput:
		return xhttp.BadRequestError(err.Error()).WithError(err)
	default:
		return xhttp.InternalError("Something went wrong").WithError(err)
	}
}

func errCause(err error) string {
	var re *models.ROIError
	if errors.As(err, &re) && re.Err != nil {
		return re.Err.Error()
	}
	return err.Error()
}
